package events

import (
	"time"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestReminderDue   EventType = "request_reminder_due"
)

// Event represents a domain event emitted by services after the triggering
// state change is durable.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID int64       `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload carries the freshly persisted request.
type RequestCreatedPayload struct {
	Request domain.ClientRequest `json:"request"`
}

// RequestStatusChangedPayload carries the request and its previous status.
type RequestStatusChangedPayload struct {
	Request   domain.ClientRequest `json:"request"`
	OldStatus domain.RequestStatus `json:"old_status"`
}

// RequestAssignedPayload carries the request and its new handler.
type RequestAssignedPayload struct {
	Request  domain.ClientRequest `json:"request"`
	Employee domain.Employee      `json:"employee"`
}

// ReminderDuePayload nudges an employee about unprocessed requests.
type ReminderDuePayload struct {
	Employee         domain.Employee `json:"employee"`
	UnprocessedCount int             `json:"unprocessed_count"`
}
