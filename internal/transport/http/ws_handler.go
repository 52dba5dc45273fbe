package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"sentence-quiz/internal/app"
	"sentence-quiz/internal/domain"
)

// WSHandler plays one quiz session per websocket connection.
type WSHandler struct {
	service  *app.SessionService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService, logger *slog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger.With("component", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

type inboundMessage struct {
	Type    domain.CommandType `json:"type"`
	Payload json.RawMessage    `json:"payload"`
}

type selectPayload struct {
	Word string `json:"word"`
}

type deselectPayload struct {
	Index int `json:"index"`
}

type sessionPayload struct {
	SessionID string             `json:"sessionId"`
	Bank      domain.BankSummary `json:"bank"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS opens a session over ?bankId=, upgrades the connection and
// streams a view after every state change while applying inbound commands.
// Closing the socket closes the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bankId")
	if bankID == "" {
		http.Error(w, "missing bankId", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Bank(r.Context(), bankID)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := h.service.Open(r.Context(), bankID)
	if err != nil {
		writeError(w, err)
		return
	}
	// the request context ends with the handler; teardown must still run
	defer h.service.Close(context.WithoutCancel(r.Context()), session.ID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	views, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	viewsDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "session_id", session.ID, "error", err)
				// unblock the read loop
				conn.Close()
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: session.ID, Bank: summary}}

	go func() {
		defer close(viewsDone)
		for {
			select {
			case view, ok := <-views:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "view", Payload: view}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	sendError := func(msg string) {
		select {
		case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		cmd, ok := decodeCommand(inbound)
		if !ok {
			sendError("invalid " + string(inbound.Type) + " payload")
			continue
		}
		if _, err := h.service.Apply(r.Context(), session.ID, cmd); err != nil {
			sendError(err.Error())
		}
	}

	close(closeSignals)
	<-viewsDone
	close(send)
	<-writerDone
}

func decodeCommand(in inboundMessage) (domain.Command, bool) {
	cmd := domain.Command{Type: in.Type}
	switch in.Type {
	case domain.CommandSelect:
		var p selectPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return cmd, false
		}
		cmd.Word = p.Word
	case domain.CommandDeselect:
		var p deselectPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return cmd, false
		}
		cmd.Index = p.Index
	}
	return cmd, true
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, o := range allowed {
			if o == origin || o == u.Host {
				return true
			}
		}
		return false
	}
}
