package app

import (
	"fmt"
	"sync"
	"time"

	"sentence-quiz/internal/domain"
	"sentence-quiz/internal/quiz"
)

// Session binds one player's controller to the bank it plays.
type Session struct {
	ID        string
	BankID    string
	BankTitle string
	CreatedAt time.Time

	controller *quiz.Controller

	// recordMu orders result recording; recorded is the last completion
	// written for this session.
	recordMu sync.Mutex
	recorded uint64
}

// NewSession is exported for infrastructure layers and tests that need to seed sessions.
func NewSession(id string, bank domain.Bank, cfg quiz.Config, createdAt time.Time) *Session {
	return &Session{
		ID:         id,
		BankID:     bank.ID,
		BankTitle:  bank.Title,
		CreatedAt:  createdAt,
		controller: quiz.NewController(bank.Questions, cfg),
	}
}

// Apply routes a player command to the controller and returns the resulting view.
func (s *Session) Apply(cmd domain.Command) (domain.View, error) {
	switch cmd.Type {
	case domain.CommandStart:
		return s.controller.Start(), nil
	case domain.CommandSelect:
		return s.controller.SelectWord(cmd.Word), nil
	case domain.CommandDeselect:
		return s.controller.DeselectBlank(cmd.Index), nil
	case domain.CommandNext:
		return s.controller.Advance(false), nil
	case domain.CommandSkip:
		return s.controller.Advance(true), nil
	case domain.CommandQuit:
		return s.controller.Quit(), nil
	case domain.CommandRestart:
		return s.controller.Restart(), nil
	default:
		return s.controller.View(), fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Type)
	}
}

func (s *Session) View() domain.View {
	return s.controller.View()
}

// Subscribe streams views after every state change; the caller must invoke cancel.
func (s *Session) Subscribe() (<-chan domain.View, func()) {
	return s.controller.Subscribe()
}

// Close stops the countdown and ends all subscriptions.
func (s *Session) Close() {
	s.controller.Close()
}
