package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApplicationResponded = "application.responded"
	EventTypeEmployeeDismissed    = "employee.dismissed"
	EventTypeUserRegistered       = "user.registered"
	EventTypeStateImported        = "state.imported"
)

// Publisher is the subset of EventBus the domain services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewApplicationRespondedEvent(applicationID, responseID int64, author, action, status string) BaseEvent {
	return newBaseEvent(EventTypeApplicationResponded, map[string]interface{}{
		"application_id": applicationID,
		"response_id":    responseID,
		"author":         author,
		"action":         action,
		"status":         status,
	})
}

func NewEmployeeDismissedEvent(employeeID int64, fullName, reason string) BaseEvent {
	return newBaseEvent(EventTypeEmployeeDismissed, map[string]interface{}{
		"employee_id": employeeID,
		"full_name":   fullName,
		"reason":      reason,
	})
}

func NewUserRegisteredEvent(userID int64, login, role string) BaseEvent {
	return newBaseEvent(EventTypeUserRegistered, map[string]interface{}{
		"user_id": userID,
		"login":   login,
		"role":    role,
	})
}

func NewStateImportedEvent(collections []string) BaseEvent {
	return newBaseEvent(EventTypeStateImported, map[string]interface{}{
		"collections": collections,
	})
}
