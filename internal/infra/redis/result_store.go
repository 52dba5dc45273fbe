package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sentence-quiz/internal/domain"
)

// ResultStore keeps completed session records as JSON under quiz:result:{sessionID}.
// Records expire after ttl; they back post-session review, not resumption.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Save(ctx context.Context, record domain.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.client.Set(ctx, s.key(record.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) Get(ctx context.Context, sessionID string) (domain.SessionRecord, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SessionRecord{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("load result: %w", err)
	}
	var record domain.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.SessionRecord{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return record, nil
}

func (s *ResultStore) key(sessionID string) string {
	return "quiz:result:" + sessionID
}
