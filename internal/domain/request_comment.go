package domain

import "time"

// RequestComment is an employee note on a client request. Internal comments
// are visible to staff only.
type RequestComment struct {
	ID         int64
	RequestID  int64
	EmployeeID int64
	Body       string
	Internal   bool
	CreatedAt  time.Time
}

// FavoriteTour links a client to a tour they bookmarked.
type FavoriteTour struct {
	ClientID  int64
	TourID    int64
	CreatedAt time.Time
}
