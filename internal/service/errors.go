package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// This is typically returned when a user attempts to modify a resource they don't own.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSessionNotFound indicates that no active learning session exists for
	// the given session ID, either because it never existed or because it
	// expired. API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("learning session not found")
)
