package failure

import "errors"

// Code identifies a failure kind on the wire.
type Code string

const (
	CodeNotFound            Code = "not_found"
	CodeValidation          Code = "validation"
	CodeProtectedEntity     Code = "protected_entity"
	CodeTimerAlreadyRunning Code = "timer_already_running"
	CodeConflict            Code = "conflict"
)

var codes = []struct {
	code     Code
	sentinel error
}{
	{CodeNotFound, ErrNotFound},
	{CodeValidation, ErrValidation},
	{CodeProtectedEntity, ErrProtectedEntity},
	{CodeTimerAlreadyRunning, ErrTimerAlreadyRunning},
	{CodeConflict, ErrConflict},
}

// Info is the serializable form of a taxonomy error.
type Info struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// FromError converts err to its wire form. It returns nil for errors outside
// the taxonomy, which must stay opaque to callers.
func FromError(err error) *Info {
	if err == nil {
		return nil
	}
	for _, c := range codes {
		if errors.Is(err, c.sentinel) {
			msg := err.Error()
			var fe *Error
			if errors.As(err, &fe) {
				msg = fe.msg
			}
			return &Info{Code: c.code, Message: msg}
		}
	}
	return nil
}

// Err rebuilds the error so that errors.Is matches the original sentinel.
// Unknown codes degrade to a conflict.
func (i *Info) Err() error {
	if i == nil {
		return nil
	}
	for _, c := range codes {
		if c.code == i.Code {
			return &Error{kind: c.sentinel, msg: i.Message}
		}
	}
	return &Error{kind: ErrConflict, msg: i.Message}
}
