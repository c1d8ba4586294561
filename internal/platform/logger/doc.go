// Package logger configures the application's slog-based structured logging
// and provides helpers for carrying a request-scoped logger in a context.
package logger
