package domain

import "time"

// RequestStatus enumerates lifecycle states for client requests.
type RequestStatus string

const (
	RequestStatusNew        RequestStatus = "NEW"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

// DisplayName returns the human-readable status label used in notifications.
func (s RequestStatus) DisplayName() string {
	switch s {
	case RequestStatusNew:
		return "New"
	case RequestStatusInProgress:
		return "In progress"
	case RequestStatusCompleted:
		return "Completed"
	case RequestStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Valid reports whether the status is one of the defined enumerants.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusNew, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// RequestPriority enumerates triage urgency.
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "LOW"
	RequestPriorityNormal RequestPriority = "NORMAL"
	RequestPriorityHigh   RequestPriority = "HIGH"
	RequestPriorityUrgent RequestPriority = "URGENT"
)

// DisplayName returns the human-readable priority label.
func (p RequestPriority) DisplayName() string {
	switch p {
	case RequestPriorityLow:
		return "Low"
	case RequestPriorityNormal:
		return "Normal"
	case RequestPriorityHigh:
		return "High"
	case RequestPriorityUrgent:
		return "Urgent"
	}
	return string(p)
}

// Valid reports whether the priority is one of the defined enumerants.
func (p RequestPriority) Valid() bool {
	switch p {
	case RequestPriorityLow, RequestPriorityNormal, RequestPriorityHigh, RequestPriorityUrgent:
		return true
	}
	return false
}

// ClientRequest is one inbound inquiry about a tour. Requests are never
// hard-deleted; cancellation is a status, not a removal.
type ClientRequest struct {
	ID             int64
	TourID         int64
	EmployeeID     *int64
	ClientID       *int64
	RequesterName  string
	RequesterEmail string
	RequesterPhone *string
	Comment        *string
	Status         RequestStatus
	Priority       RequestPriority
	CreatedAt      time.Time
}

// Assigned reports whether an employee currently holds the request.
func (r *ClientRequest) Assigned() bool {
	return r.EmployeeID != nil
}
