package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// ClientService manages customer profiles.
type ClientService struct {
	clients repository.ClientRepository
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// ClientInput describes profile create/update payload.
type ClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Notes     string
	VIPStatus bool
	Active    bool
}

// CreateClient registers a profile from the back office.
func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	if err := validateClient(&input); err != nil {
		return nil, err
	}

	existing, err := s.clients.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.From(err)
	}
	if existing != nil {
		return nil, apperr.NewConflict("client with this email already exists")
	}

	client := &domain.Client{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Notes:     input.Notes,
		VIPStatus: input.VIPStatus,
		Active:    input.Active,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperr.From(err)
	}
	return client, nil
}

// UpdateClient replaces profile fields. The email link to a login account is
// preserved.
func (s *ClientService) UpdateClient(ctx context.Context, clientID int64, input ClientInput) (*domain.Client, error) {
	if err := validateClient(&input); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	client.FirstName = input.FirstName
	client.LastName = input.LastName
	client.Email = input.Email
	client.Phone = input.Phone
	client.Notes = input.Notes
	client.VIPStatus = input.VIPStatus
	client.Active = input.Active
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperr.From(err)
	}
	return client, nil
}

// SetVIP toggles the VIP flag. New requests from VIP clients are escalated.
func (s *ClientService) SetVIP(ctx context.Context, clientID int64, vip bool) (*domain.Client, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.VIPStatus == vip {
		return client, nil
	}
	client.VIPStatus = vip
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperr.From(err)
	}
	return client, nil
}

// GetClient returns a single profile.
func (s *ClientService) GetClient(ctx context.Context, clientID int64) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("client %d not found", clientID))
		}
		return nil, apperr.From(err)
	}
	return client, nil
}

// ListClients returns profiles matching the filter.
func (s *ClientService) ListClients(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, apperr.From(err)
	}
	return clients, nil
}

func validateClient(input *ClientInput) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.FirstName == "" || input.LastName == "" {
		return apperr.NewValidation("first and last name are required")
	}
	if input.Email == "" || !emailPattern.MatchString(input.Email) {
		return apperr.NewValidation("email is invalid")
	}
	return nil
}
