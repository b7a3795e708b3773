package domain

import "time"

// Client is a customer profile, optionally linked to a login account.
type Client struct {
	ID        int64
	UserID    *int64
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	BirthDate *time.Time
	Notes     string
	VIPStatus bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name for display and audit descriptions.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
