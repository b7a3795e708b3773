package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// AuthService handles account registration and login.
type AuthService struct {
	users      repository.UserRepository
	clients    repository.ClientRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, clients repository.ClientRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, clients: clients, tokens: tokens, bcryptCost: bcryptCost}
}

// RegisterClientInput describes a self-service client signup.
type RegisterClientInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterClient creates a CLIENT login account together with its client
// profile. Existing profile rows with the same email are linked instead of
// duplicated.
func (s *AuthService) RegisterClient(ctx context.Context, input RegisterClientInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Username == "" {
		return nil, apperr.NewValidation("username is required")
	}
	if input.Email == "" || !emailPattern.MatchString(input.Email) {
		return nil, apperr.NewValidation("email is invalid")
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apperr.NewValidation("first and last name are required")
	}

	if existing, err := s.users.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, apperr.NewConflict("username already taken")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperr.From(err)
	}
	if existing, err := s.users.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperr.NewConflict("email already registered")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperr.From(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.From(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.From(err)
	}

	client, err := s.clients.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.From(err)
	}
	if client != nil {
		client.UserID = &user.ID
		if err := s.clients.Update(ctx, client); err != nil {
			return nil, apperr.From(err)
		}
		return user, nil
	}

	client = &domain.Client{
		UserID:    &user.ID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
		Phone:     input.Phone,
		Active:    true,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperr.From(err)
	}
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewUnauthorized("invalid credentials")
		}
		return nil, apperr.From(err)
	}
	if !user.Active {
		return nil, apperr.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperr.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.From(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if err := auth.ValidatePassword(next); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NewNotFound("user not found")
		}
		return apperr.From(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return apperr.NewUnauthorized("current password is incorrect")
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperr.From(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperr.From(err)
	}
	return nil
}
