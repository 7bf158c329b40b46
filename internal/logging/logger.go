// Package logging defines a minimal structured-logging interface used across
// the project. SlogLogger backs it in development, ZapLogger in production.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request served", "method", r.Method, "status", status)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New returns the logger used by the server: a human readable slog text
// logger in development and a JSON zap logger otherwise.
func New(env string) (Logger, error) {
	if env == "development" {
		return NewTextSlogLogger(), nil
	}
	return NewProductionZapLogger()
}

// Nop discards everything. Handy in tests.
type Nop struct{}

func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
