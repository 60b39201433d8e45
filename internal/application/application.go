package application

import (
	"strings"
	"time"

	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
)

const (
	StatusNew        = "новое"
	StatusInProgress = "в работе"
	StatusAccepted   = "принято"
	StatusRejected   = "отклонено"
	StatusClosed     = "закрыто"

	DefaultPriority   = "средний"
	DefaultDepartment = "Штаб"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
	ActionClose  = "close"

	// actionResponse is the plain reply older clients send explicitly.
	actionResponse = "response"
)

// createdAtLayouts are the createdAt stamps found in stored applications:
// RFC 3339 from this server, SQL-style from earlier tools and the ru-RU
// locale string written by the browser client.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006, 15:04:05",
}

var statuses = map[string]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusAccepted:   true,
	StatusRejected:   true,
	StatusClosed:     true,
}

// actionStatus is the status an application moves to when a response
// carries the action.
var actionStatus = map[string]string{
	ActionAccept: StatusAccepted,
	ActionReject: StatusRejected,
	ActionClose:  StatusClosed,
}

func ValidStatus(status string) bool {
	return statuses[status]
}

// StatusForAction returns the status implied by a response action.
func StatusForAction(action string) (string, bool) {
	s, ok := actionStatus[action]
	return s, ok
}

// createdAt parses a.CreatedAt. Unparseable values sort last.
func createdAt(a appdm.Application) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(a.CreatedAt)); err == nil {
			return t
		}
	}
	return time.Time{}
}
