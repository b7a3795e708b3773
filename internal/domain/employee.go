package domain

import "time"

// Employee is a staff profile authorized to triage client requests.
// Every employee is backed by a login account with the EMPLOYEE role.
type Employee struct {
	ID        int64
	UserID    int64
	FullName  string
	Email     string
	Position  string
	Phone     *string
	HireDate  time.Time
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
