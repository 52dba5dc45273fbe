package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sentence-quiz/internal/domain"
	"sentence-quiz/internal/quiz"
)

// SessionRepository abstracts where open sessions live (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Add(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// ResultStore keeps completed sessions for review and export.
type ResultStore interface {
	Save(ctx context.Context, record domain.SessionRecord) error
	Get(ctx context.Context, sessionID string) (domain.SessionRecord, error)
}

// CompletionPublisher announces completed sessions to other components.
type CompletionPublisher interface {
	PublishCompleted(ctx context.Context, record domain.SessionRecord) error
}

// Options tunes sessions opened by the service.
type Options struct {
	QuestionSeconds int
	TickInterval    time.Duration
	// Clock overrides the tick scheduler; nil uses real time.
	Clock  quiz.Clock
	Logger *slog.Logger
	Now    func() time.Time
}

// SessionService contains the quiz use cases: opening sessions over a bank,
// looking them up for command dispatch and recording their results.
type SessionService struct {
	sessions  SessionRepository
	banks     BankRepository
	results   ResultStore
	publisher CompletionPublisher
	opts      Options
	logger    *slog.Logger
}

func NewSessionService(sessions SessionRepository, banks BankRepository, results ResultStore, publisher CompletionPublisher, opts Options) *SessionService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.QuestionSeconds <= 0 {
		opts.QuestionSeconds = quiz.DefaultQuestionSeconds
	}
	return &SessionService{
		sessions:  sessions,
		banks:     banks,
		results:   results,
		publisher: publisher,
		opts:      opts,
		logger:    opts.Logger.With("component", "session_service"),
	}
}

// Open creates a NotStarted session over the bank. Banks that break the
// question data contract are rejected here, before any play begins.
func (s *SessionService) Open(ctx context.Context, bankID string) (*Session, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateBank(bank); err != nil {
		s.logger.WarnContext(ctx, "rejected question bank", "bank_id", bankID, "error", err)
		return nil, err
	}

	id := uuid.NewString()
	var session *Session
	session = NewSession(id, bank, quiz.Config{
		QuestionSeconds: s.opts.QuestionSeconds,
		TickInterval:    s.opts.TickInterval,
		Clock:           s.opts.Clock,
		OnComplete: func(done quiz.Completion) {
			s.recordCompletion(session, done)
		},
	}, s.opts.Now())
	s.sessions.Add(session)

	s.logger.InfoContext(ctx, "session opened", "session_id", id, "bank_id", bank.ID, "questions", len(bank.Questions))
	return session, nil
}

// Get returns an open session.
func (s *SessionService) Get(_ context.Context, sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Apply looks up an open session and runs cmd on it.
func (s *SessionService) Apply(ctx context.Context, sessionID string, cmd domain.Command) (domain.View, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.View{}, err
	}
	return session.Apply(cmd)
}

// Close tears the session down and stops its countdown. Unknown IDs are ignored.
func (s *SessionService) Close(ctx context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
	s.logger.InfoContext(ctx, "session closed", "session_id", sessionID)
}

// Bank describes a bank without exposing its answers.
func (s *SessionService) Bank(ctx context.Context, bankID string) (domain.BankSummary, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.BankSummary{}, err
	}
	return domain.BankSummary{
		ID:                 bank.ID,
		Title:              bank.Title,
		QuestionCount:      len(bank.Questions),
		SecondsPerQuestion: s.opts.QuestionSeconds,
	}, nil
}

// Result returns the recorded outcome of a completed session.
func (s *SessionService) Result(ctx context.Context, sessionID string) (domain.SessionRecord, error) {
	return s.results.Get(ctx, sessionID)
}

// recordCompletion runs after a session completes, possibly from the
// countdown, so it uses its own bounded context. A completion older than the
// last one recorded for the session is dropped.
func (s *SessionService) recordCompletion(session *Session, done quiz.Completion) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session.recordMu.Lock()
	defer session.recordMu.Unlock()
	if done.Seq <= session.recorded {
		s.logger.DebugContext(ctx, "dropping stale completion", "session_id", session.ID, "seq", done.Seq, "recorded", session.recorded)
		return
	}
	session.recorded = done.Seq

	result := done.Result
	record := domain.SessionRecord{
		SessionID:   session.ID,
		BankID:      session.BankID,
		BankTitle:   session.BankTitle,
		CompletedAt: s.opts.Now(),
		Result:      result,
	}
	if err := s.results.Save(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "save session result", "session_id", session.ID, "error", err)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishCompleted(ctx, record); err != nil {
			s.logger.ErrorContext(ctx, "publish session completion", "session_id", session.ID, "error", err)
		}
	}
	s.logger.InfoContext(ctx, "session completed",
		"session_id", session.ID,
		"score", result.Score,
		"total", result.Total,
		"tier", result.Tier)
}
