package dto

import (
	"time"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// RegisterBody payload for client signup.
type RegisterBody struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
}

// LoginBody payload.
type LoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordBody payload.
type ChangePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// TokenResponse issued on login.
type TokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	UserID    int64       `json:"user_id"`
	Role      domain.Role `json:"role"`
}

// UserResponse public account info.
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
