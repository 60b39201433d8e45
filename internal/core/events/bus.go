package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

// BaseEvent carries the portal event envelope written to the audit log.
type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type Handler func(ctx context.Context, event Event) error

type Option func(*EventBus)

// WithSyncDelivery makes Publish run subscribers on the caller's goroutine.
// Short-lived processes such as the data CLI need it so that audit handlers
// finish before the process exits.
func WithSyncDelivery() Option {
	return func(eb *EventBus) { eb.sync = true }
}

// EventBus fans portal events out to subscribers. The HTTP server delivers
// asynchronously and drains in-flight handlers on shutdown with Wait.
type EventBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	sync     bool
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

func NewEventBus(logger *slog.Logger, opts ...Option) *EventBus {
	eb := &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(eb)
	}
	return eb
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("event handler registered",
		"event_type", eventType,
		"total_handlers", len(eb.handlers[eventType]))
}

func (eb *EventBus) subscribers(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.handlers[eventType]
}

// Publish delivers event to its subscribers. In asynchronous mode handler
// failures are only logged and the handlers outlive the caller's context
// cancellation, since request contexts end as soon as the response is written.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	if eb.sync {
		return eb.PublishSync(ctx, event)
	}

	handlers := eb.subscribers(event.EventType())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	detached := context.WithoutCancel(ctx)
	for _, h := range handlers {
		eb.inflight.Add(1)
		go func(h Handler) {
			defer eb.inflight.Done()
			if err := eb.call(detached, h, event); err != nil {
				eb.logger.Error("event handler failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"error", err)
			}
		}(h)
	}
	return nil
}

// PublishSync runs every subscriber in order and joins their failures.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	handlers := eb.subscribers(event.EventType())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	var errs []error
	for _, h := range handlers {
		if err := eb.call(ctx, h, event); err != nil {
			eb.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("handlers failed for event %s: %w", event.EventType(), errors.Join(errs...))
	}
	return nil
}

// Wait blocks until asynchronous handlers finish or ctx is done.
func (eb *EventBus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		eb.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (eb *EventBus) call(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v", rec)
		}
	}()
	return h(ctx, event)
}
