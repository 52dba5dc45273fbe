package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"sentence-quiz/internal/domain"
)

// DefaultCompletedTopic carries one message per completed session.
const DefaultCompletedTopic = "quiz.session.completed"

// SessionCompleted is the payload published when a session completes.
type SessionCompleted struct {
	SessionID   string      `json:"sessionId"`
	BankID      string      `json:"bankId"`
	Score       int         `json:"score"`
	Total       int         `json:"total"`
	Tier        domain.Tier `json:"tier"`
	CompletedAt time.Time   `json:"completedAt"`
}

// Publisher publishes completion events through a watermill publisher.
type Publisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *Publisher {
	if topic == "" {
		topic = DefaultCompletedTopic
	}
	return &Publisher{publisher: publisher, topic: topic, logger: logger}
}

// PublishCompleted publishes a SessionCompleted event for record.
func (p *Publisher) PublishCompleted(ctx context.Context, record domain.SessionRecord) error {
	payload, err := json.Marshal(SessionCompleted{
		SessionID:   record.SessionID,
		BankID:      record.BankID,
		Score:       record.Result.Score,
		Total:       record.Result.Total,
		Tier:        record.Result.Tier,
		CompletedAt: record.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", p.topic)
	msg.Metadata.Set("session_id", record.SessionID)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}
	p.logger.Debug("published completion event", "session_id", record.SessionID, "topic", p.topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.publisher.Close()
}

// NewGoChannel returns an in-process pub/sub bridged to slog.
func NewGoChannel(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))
}

// Consume decodes completion events from topic and hands them to handle
// until ctx is done or the subscription closes. Messages that fail to
// decode are acked and dropped; handler errors nack the message.
func Consume(ctx context.Context, subscriber message.Subscriber, topic string, handle func(context.Context, SessionCompleted) error) error {
	if topic == "" {
		topic = DefaultCompletedTopic
	}
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	for msg := range messages {
		var event SessionCompleted
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			msg.Ack()
			continue
		}
		if err := handle(ctx, event); err != nil {
			msg.Nack()
			continue
		}
		msg.Ack()
	}
	return nil
}
