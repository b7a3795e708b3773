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

// TourService manages the tour catalog.
type TourService struct {
	tours   repository.TourRepository
	flights repository.FlightRepository
}

// NewTourService constructs the service.
func NewTourService(tours repository.TourRepository, flights repository.FlightRepository) *TourService {
	return &TourService{tours: tours, flights: flights}
}

// TourInput describes tour create/update payload.
type TourInput struct {
	Name            string
	Description     string
	Price           float64
	DurationDays    int
	ImageURL        *string
	DestinationCity string
	Active          bool
	FlightIDs       []int64
}

// CreateTour adds a tour to the catalog.
func (s *TourService) CreateTour(ctx context.Context, input TourInput) (*domain.Tour, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	tour := &domain.Tour{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		DurationDays:    input.DurationDays,
		ImageURL:        input.ImageURL,
		DestinationCity: input.DestinationCity,
		Active:          input.Active,
	}
	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, apperr.From(err)
	}
	if len(input.FlightIDs) > 0 {
		if err := s.tours.SetFlights(ctx, tour.ID, input.FlightIDs); err != nil {
			return nil, apperr.From(err)
		}
		tour.FlightIDs = input.FlightIDs
	}
	return tour, nil
}

// UpdateTour replaces tour fields and its flight links.
func (s *TourService) UpdateTour(ctx context.Context, tourID int64, input TourInput) (*domain.Tour, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	tour, err := s.getTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	tour.Name = input.Name
	tour.Description = input.Description
	tour.Price = input.Price
	tour.DurationDays = input.DurationDays
	tour.ImageURL = input.ImageURL
	tour.DestinationCity = input.DestinationCity
	tour.Active = input.Active
	if err := s.tours.Update(ctx, tour); err != nil {
		return nil, apperr.From(err)
	}
	if err := s.tours.SetFlights(ctx, tour.ID, input.FlightIDs); err != nil {
		return nil, apperr.From(err)
	}
	tour.FlightIDs = input.FlightIDs
	return tour, nil
}

// DeactivateTour hides a tour from the public catalog. Requests referencing
// it are kept.
func (s *TourService) DeactivateTour(ctx context.Context, tourID int64) (*domain.Tour, error) {
	tour, err := s.getTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !tour.Active {
		return tour, nil
	}
	tour.Active = false
	if err := s.tours.Update(ctx, tour); err != nil {
		return nil, apperr.From(err)
	}
	return tour, nil
}

// GetTour returns a single tour with its flight links.
func (s *TourService) GetTour(ctx context.Context, tourID int64) (*domain.Tour, error) {
	return s.getTour(ctx, tourID)
}

// ListTours returns tours matching the filter.
func (s *TourService) ListTours(ctx context.Context, filter repository.TourFilter) ([]domain.Tour, error) {
	tours, err := s.tours.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperr.From(err)
	}
	return tours, nil
}

func (s *TourService) getTour(ctx context.Context, tourID int64) (*domain.Tour, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("tour %d not found", tourID))
		}
		return nil, apperr.From(err)
	}
	return tour, nil
}

func (s *TourService) validate(ctx context.Context, input *TourInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.DestinationCity = strings.TrimSpace(input.DestinationCity)

	if input.Name == "" {
		return apperr.NewValidation("tour name is required")
	}
	if input.Price < 0 {
		return apperr.NewValidation("tour price must not be negative")
	}
	if input.DurationDays <= 0 {
		return apperr.NewValidation("tour duration must be positive")
	}
	if input.DestinationCity == "" {
		return apperr.NewValidation("destination city is required")
	}
	for _, flightID := range input.FlightIDs {
		if _, err := s.flights.GetByID(ctx, flightID); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NewValidation(fmt.Sprintf("flight %d not found", flightID))
			}
			return apperr.From(err)
		}
	}
	return nil
}
