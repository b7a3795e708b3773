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

// FlightService manages the flight reference data used by tours.
type FlightService struct {
	flights repository.FlightRepository
}

// NewFlightService constructs the service.
func NewFlightService(flights repository.FlightRepository) *FlightService {
	return &FlightService{flights: flights}
}

// CreateFlight registers a flight.
func (s *FlightService) CreateFlight(ctx context.Context, flight *domain.Flight) (*domain.Flight, error) {
	if err := validateFlight(flight); err != nil {
		return nil, err
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, apperr.From(err)
	}
	return flight, nil
}

// UpdateFlight replaces flight fields.
func (s *FlightService) UpdateFlight(ctx context.Context, flight *domain.Flight) (*domain.Flight, error) {
	if err := validateFlight(flight); err != nil {
		return nil, err
	}
	if _, err := s.GetFlight(ctx, flight.ID); err != nil {
		return nil, err
	}
	if err := s.flights.Update(ctx, flight); err != nil {
		return nil, apperr.From(err)
	}
	return flight, nil
}

// GetFlight returns a single flight.
func (s *FlightService) GetFlight(ctx context.Context, flightID int64) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("flight %d not found", flightID))
		}
		return nil, apperr.From(err)
	}
	return flight, nil
}

// ListFlights returns a page of flights.
func (s *FlightService) ListFlights(ctx context.Context, limit, offset int) ([]domain.Flight, error) {
	flights, err := s.flights.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.From(err)
	}
	return flights, nil
}

func validateFlight(flight *domain.Flight) error {
	flight.Number = strings.TrimSpace(flight.Number)
	if flight.Number == "" {
		return apperr.NewValidation("flight number is required")
	}
	if strings.TrimSpace(flight.DepartureCity) == "" || strings.TrimSpace(flight.ArrivalCity) == "" {
		return apperr.NewValidation("departure and arrival cities are required")
	}
	if !flight.ArrivalAt.After(flight.DepartureAt) {
		return apperr.NewValidation("arrival must be after departure")
	}
	if flight.Price < 0 {
		return apperr.NewValidation("flight price must not be negative")
	}
	if flight.SeatsTotal <= 0 {
		return apperr.NewValidation("seat count must be positive")
	}
	return nil
}
