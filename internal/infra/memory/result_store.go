package memory

import (
	"context"
	"sync"
	"time"

	"sentence-quiz/internal/domain"
)

// ResultStore keeps completed session records in process memory for ttl.
// A non-positive ttl keeps records until the process exits.
type ResultStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	records map[string]cachedRecord
}

type cachedRecord struct {
	record    domain.SessionRecord
	expiresAt time.Time
}

func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{
		ttl:     ttl,
		clock:   time.Now,
		records: make(map[string]cachedRecord),
	}
}

// Save stores record under its session ID and prunes expired records.
func (s *ResultStore) Save(_ context.Context, record domain.SessionRecord) error {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.records {
		if s.expired(entry, now) {
			delete(s.records, id)
		}
	}
	entry := cachedRecord{record: record}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.records[record.SessionID] = entry
	return nil
}

func (s *ResultStore) Get(_ context.Context, sessionID string) (domain.SessionRecord, error) {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.records[sessionID]
	if !ok || s.expired(entry, now) {
		return domain.SessionRecord{}, domain.ErrResultNotFound
	}
	return entry.record, nil
}

// Len reports how many records are held, expired or not.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *ResultStore) expired(entry cachedRecord, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !entry.expiresAt.After(now)
}
