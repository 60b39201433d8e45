package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into attaches l to ctx. Request middleware seeds it with the server logger.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// With returns ctx carrying the context logger extended with fields, such as
// the request id and the authenticated account.
func With(ctx context.Context, fields ...any) context.Context {
	return Into(ctx, From(ctx).With(fields...))
}

// From returns the context logger, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return LoggerWrapper()
}
