package dto

import (
	"time"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// ClientBody payload for back-office client create/update.
type ClientBody struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Notes     string  `json:"notes"`
	VIPStatus bool    `json:"vip_status"`
	Active    bool    `json:"active"`
}

// SetVIPBody payload.
type SetVIPBody struct {
	VIP bool `json:"vip"`
}

// ClientResponse full client profile.
type ClientResponse struct {
	ID        int64   `json:"id"`
	UserID    *int64  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Notes     string  `json:"notes"`
	VIPStatus bool    `json:"vip_status"`
	Active    bool    `json:"active"`
}

// EmployeeCreateBody payload for admin-provisioned employees.
type EmployeeCreateBody struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Position string     `json:"position"`
	Phone    *string    `json:"phone"`
	HireDate *time.Time `json:"hire_date"`
}

// EmployeeUpdateBody payload.
type EmployeeUpdateBody struct {
	FullName string  `json:"full_name"`
	Position string  `json:"position"`
	Phone    *string `json:"phone"`
	Active   bool    `json:"active"`
}

// EmployeeResponse full staff profile.
type EmployeeResponse struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Position string    `json:"position"`
	Phone    *string   `json:"phone"`
	HireDate time.Time `json:"hire_date"`
	Active   bool      `json:"active"`
}

// CommentBody payload for request notes.
type CommentBody struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

// CommentResponse one request note.
type CommentResponse struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	EmployeeID int64     `json:"employee_id"`
	Body       string    `json:"body"`
	Internal   bool      `json:"internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteBody payload for bookmarking a tour.
type FavoriteBody struct {
	TourID int64 `json:"tour_id"`
}

// NewClientResponse maps a domain client.
func NewClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		UserID:    client.UserID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Email:     client.Email,
		Phone:     client.Phone,
		Notes:     client.Notes,
		VIPStatus: client.VIPStatus,
		Active:    client.Active,
	}
}

// NewClientListResponse maps a slice of clients.
func NewClientListResponse(clients []domain.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, NewClientResponse(&clients[i]))
	}
	return out
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       employee.ID,
		UserID:   employee.UserID,
		FullName: employee.FullName,
		Email:    employee.Email,
		Position: employee.Position,
		Phone:    employee.Phone,
		HireDate: employee.HireDate,
		Active:   employee.Active,
	}
}

// NewEmployeeListResponse maps a slice of employees.
func NewEmployeeListResponse(employees []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, NewEmployeeResponse(&employees[i]))
	}
	return out
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.RequestComment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		RequestID:  comment.RequestID,
		EmployeeID: comment.EmployeeID,
		Body:       comment.Body,
		Internal:   comment.Internal,
		CreatedAt:  comment.CreatedAt,
	}
}

// NewCommentListResponse maps a slice of comments.
func NewCommentListResponse(comments []domain.RequestComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
