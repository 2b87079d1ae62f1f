// Package common defines shared constants and sentinel errors used across
// client and server layers of Messagely. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Transport-level errors (no valid caller identity attached).
	ErrorUnauthenticated = errors.New("unauthenticated")

	// Validation errors (missing/malformed request fields).
	ErrorInvalidInput = errors.New("invalid input")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
