package domain

import "time"

// ChangedField tags which request field a history entry documents.
type ChangedField string

const (
	FieldStatus   ChangedField = "STATUS"
	FieldPriority ChangedField = "PRIORITY"
	FieldEmployee ChangedField = "EMPLOYEE"
)

// RequestHistory is an immutable audit trail entry. Entries are appended in
// the same transaction as the request mutation they document and are never
// updated or deleted.
type RequestHistory struct {
	ID                  int64
	RequestID           int64
	ChangedByEmployeeID *int64
	Field               ChangedField
	OldValue            *string
	NewValue            *string
	Description         string
	CreatedAt           time.Time
}
