package dto

import (
	"time"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// SubmitRequestBody payload for the public inquiry form.
type SubmitRequestBody struct {
	TourID         int64                   `json:"tour_id"`
	RequesterName  string                  `json:"requester_name"`
	RequesterEmail string                  `json:"requester_email"`
	RequesterPhone *string                 `json:"requester_phone"`
	Comment        *string                 `json:"comment"`
	Priority       *domain.RequestPriority `json:"priority"`
}

// ClientRequestBody payload for an authenticated client submission.
type ClientRequestBody struct {
	TourID   int64                   `json:"tour_id"`
	Comment  *string                 `json:"comment"`
	Priority *domain.RequestPriority `json:"priority"`
}

// UpdateStatusBody payload for admin status updates.
type UpdateStatusBody struct {
	Status     domain.RequestStatus `json:"status"`
	EmployeeID *int64               `json:"employee_id"`
}

// UpdatePriorityBody payload.
type UpdatePriorityBody struct {
	Priority domain.RequestPriority `json:"priority"`
}

// EmployeeStatusBody payload for assignee status updates.
type EmployeeStatusBody struct {
	Status domain.RequestStatus `json:"status"`
}

// RequestResponse full request info.
type RequestResponse struct {
	ID             int64                  `json:"id"`
	TourID         int64                  `json:"tour_id"`
	EmployeeID     *int64                 `json:"employee_id"`
	ClientID       *int64                 `json:"client_id"`
	RequesterName  string                 `json:"requester_name"`
	RequesterEmail string                 `json:"requester_email"`
	RequesterPhone *string                `json:"requester_phone"`
	Comment        *string                `json:"comment"`
	Status         domain.RequestStatus   `json:"status"`
	Priority       domain.RequestPriority `json:"priority"`
	CreatedAt      time.Time              `json:"created_at"`
}

// HistoryEntryResponse represents one audit trail entry.
type HistoryEntryResponse struct {
	ID                  int64               `json:"id"`
	RequestID           int64               `json:"request_id"`
	ChangedByEmployeeID *int64              `json:"changed_by_employee_id"`
	Field               domain.ChangedField `json:"field"`
	OldValue            *string             `json:"old_value"`
	NewValue            *string             `json:"new_value"`
	Description         string              `json:"description"`
	CreatedAt           time.Time           `json:"created_at"`
}

// NewRequestResponse maps a domain request.
func NewRequestResponse(req *domain.ClientRequest) RequestResponse {
	return RequestResponse{
		ID:             req.ID,
		TourID:         req.TourID,
		EmployeeID:     req.EmployeeID,
		ClientID:       req.ClientID,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		RequesterPhone: req.RequesterPhone,
		Comment:        req.Comment,
		Status:         req.Status,
		Priority:       req.Priority,
		CreatedAt:      req.CreatedAt,
	}
}

// NewRequestListResponse maps a slice of requests.
func NewRequestListResponse(items []domain.ClientRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(items))
	for i := range items {
		out = append(out, NewRequestResponse(&items[i]))
	}
	return out
}

// NewHistoryResponse maps audit entries.
func NewHistoryResponse(entries []domain.RequestHistory) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryEntryResponse{
			ID:                  entry.ID,
			RequestID:           entry.RequestID,
			ChangedByEmployeeID: entry.ChangedByEmployeeID,
			Field:               entry.Field,
			OldValue:            entry.OldValue,
			NewValue:            entry.NewValue,
			Description:         entry.Description,
			CreatedAt:           entry.CreatedAt,
		})
	}
	return out
}
