// Package api contains the HTTP handlers for the Flashdeck API: auth,
// study sets, cards, folders, users, and learning sessions. Handlers decode
// and validate requests, call into the service layer, and map service errors
// to HTTP status codes without leaking internal details.
package api
