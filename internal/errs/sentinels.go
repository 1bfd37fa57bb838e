// Package errs contains the failure taxonomy used across client layers for stable error mapping.
package errs

import "errors"

// Sentinels, one per failure kind. Match them with errors.Is.
var (
	// ErrAuth indicates invalid credentials or an expired/malformed session token.
	ErrAuth = errors.New("authentication failed")

	// ErrValidation indicates missing or invalid input, either caught locally or rejected by the server.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates a role-gated action was denied.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the server rejected the change as conflicting (e.g., email taken).
	ErrConflict = errors.New("conflict")

	// ErrNetwork indicates a transport-level failure; no response was received.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout indicates the request did not complete before its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrServer indicates any other non-2xx response.
	ErrServer = errors.New("server error")
)
