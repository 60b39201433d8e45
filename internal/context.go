package internal

import (
	"context"
	"time"
)

// DefaultOperationTimeout bounds CLI and startup calls against the backend.
const DefaultOperationTimeout = 10 * time.Second

// WithTimeout returns a context with timeout, defaulting to
// DefaultOperationTimeout if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = DefaultOperationTimeout
	}
	return context.WithTimeout(ctx, duration)
}
