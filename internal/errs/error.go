package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error is a classified failure. Kind is always one of the package sentinels.
type Error struct {
	Kind    error  // sentinel
	Op      string // logical operation, e.g. "list tasks"
	Status  int    // HTTP status, 0 if no response
	Message string // server-provided or local human-readable text
	Field   string // offending field for validation failures
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.Error()
	}
	switch {
	case e.Op != "" && e.Status != 0:
		return fmt.Sprintf("%s: %s (%d)", e.Op, msg, e.Status)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Is matches the kind sentinel.
func (e *Error) Is(target error) bool { return target == e.Kind }

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Validation builds a local validation failure for field.
func Validation(op, field, msg string) *Error {
	return &Error{Kind: ErrValidation, Op: op, Field: field, Message: msg}
}

// KindForStatus maps a non-2xx HTTP status to a sentinel.
func KindForStatus(code int) error {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrAuth
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return ErrServer
}

// FromStatus builds a classified error for an HTTP failure response.
func FromStatus(op string, code int, msg string) *Error {
	return &Error{Kind: KindForStatus(code), Op: op, Status: code, Message: msg}
}

// FromTransport classifies an error returned by the HTTP transport (no response).
func FromTransport(op string, err error) *Error {
	kind := ErrNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = ErrTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Message returns the best user-facing text for err: the server/local message
// of a classified error, or "" if none is available.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
