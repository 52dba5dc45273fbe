package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been opened or was closed.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank wraps data-contract violations found when a bank is loaded.
	ErrInvalidBank = errors.New("invalid question bank")
	// ErrResultNotFound is returned when no completed result is recorded for a session.
	ErrResultNotFound = errors.New("session result not found")
	// ErrUnknownCommand indicates a command type the session does not accept.
	ErrUnknownCommand = errors.New("unknown command")
)
