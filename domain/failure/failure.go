// Package failure defines the error taxonomy shared by every module and the
// wire form used to carry it across request-reply services.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is missing or not owned by the principal.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when input is malformed or out of range.
	ErrValidation = errors.New("validation failed")
	// ErrProtectedEntity is returned when deleting a user's default list.
	ErrProtectedEntity = errors.New("protected entity")
	// ErrTimerAlreadyRunning is returned when a user starts a second timer.
	ErrTimerAlreadyRunning = errors.New("timer already running")
	// ErrConflict is returned when a concurrent write or uniqueness rule was violated.
	ErrConflict = errors.New("conflict")
)

// NotFound reports a missing entity of the given kind.
func NotFound(kind string) error {
	return &Error{kind: ErrNotFound, msg: kind + " not found"}
}

// Validation reports invalid input.
func Validation(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Protected reports an attempt to remove an entity that must always exist.
func Protected(format string, args ...any) error {
	return &Error{kind: ErrProtectedEntity, msg: fmt.Sprintf(format, args...)}
}

// TimerRunning reports that the principal already has an active time entry.
func TimerRunning() error {
	return &Error{kind: ErrTimerAlreadyRunning, msg: "a timer is already running; stop it before starting a new one"}
}

// Conflict reports a uniqueness or concurrency violation.
func Conflict(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Error is a taxonomy error with a human readable message.
// errors.Is matches it against its sentinel.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }
