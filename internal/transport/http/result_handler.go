package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sentence-quiz/internal/app"
	"sentence-quiz/internal/report"
)

// ResultHandler serves bank descriptions and completed session results.
type ResultHandler struct {
	service *app.SessionService
}

func NewResultHandler(service *app.SessionService) *ResultHandler {
	return &ResultHandler{service: service}
}

func (h *ResultHandler) GetBank(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Bank(r.Context(), chi.URLParam(r, "bankID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ResultHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Result(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *ResultHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	record, err := h.service.Result(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, record); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="results-%s.xlsx"`, sessionID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
