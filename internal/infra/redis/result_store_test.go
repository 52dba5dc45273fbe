package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"sentence-quiz/internal/domain"
)

func TestResultStoreRoundTripAndExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewResultStore(newClient(mr), time.Hour)
	ctx := context.Background()

	record := domain.SessionRecord{
		SessionID:   "s1",
		BankID:      "bank-1",
		CompletedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		Result: domain.Result{
			Score: 1,
			Total: 2,
			Tier:  domain.TierMedium,
			Answers: []domain.Answer{
				{QuestionID: "q1", UserAnswer: []string{"fast"}, IsCorrect: true},
				{QuestionID: "q2", UserAnswer: []string{}, Skipped: true},
			},
		},
	}
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result.Tier != domain.TierMedium || len(got.Result.Answers) != 2 || !got.Result.Answers[1].Skipped {
		t.Fatalf("unexpected record %+v", got)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected expired record, got %v", err)
	}
}
