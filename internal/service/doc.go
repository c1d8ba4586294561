// Package service provides application-level services for managing study
// sets, cards, folders, users, and learning sessions.
//
// Services sit between the HTTP handlers and the store layer. They own
// cross-entity orchestration: ownership and visibility checks, transactions
// that keep the denormalized card count in step with card writes, and the
// in-memory session manager that hosts active learning sessions.
//
// Error handling follows a consistent approach:
//  1. Service methods return sentinel errors for expected conditions
//     (ErrNotOwned, store.ErrStudySetNotFound, ...)
//  2. Unexpected errors are wrapped with operation context
//  3. Callers use errors.Is/errors.As to check for specific conditions
//  4. The API layer maps service errors to HTTP status codes
package service
