package events

import (
	"context"
	"log/slog"
)

// SubscribeAudit logs every portal event at info level.
func SubscribeAudit(bus *EventBus, logger *slog.Logger) {
	audit := func(_ context.Context, event Event) error {
		logger.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
	for _, eventType := range []string{
		EventTypeApplicationResponded,
		EventTypeEmployeeDismissed,
		EventTypeUserRegistered,
		EventTypeStateImported,
	} {
		bus.Subscribe(eventType, audit)
	}
}
