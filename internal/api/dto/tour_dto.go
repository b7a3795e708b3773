package dto

import (
	"time"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// TourBody payload for tour create/update.
type TourBody struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationDays    int     `json:"duration_days"`
	ImageURL        *string `json:"image_url"`
	DestinationCity string  `json:"destination_city"`
	Active          bool    `json:"active"`
	FlightIDs       []int64 `json:"flight_ids"`
}

// TourResponse full tour info.
type TourResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationDays    int       `json:"duration_days"`
	ImageURL        *string   `json:"image_url"`
	DestinationCity string    `json:"destination_city"`
	Active          bool      `json:"active"`
	FlightIDs       []int64   `json:"flight_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FlightBody payload for flight create/update.
type FlightBody struct {
	Number        string    `json:"number"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	DepartureAt   time.Time `json:"departure_at"`
	ArrivalAt     time.Time `json:"arrival_at"`
	Price         float64   `json:"price"`
	SeatsTotal    int       `json:"seats_total"`
}

// FlightResponse full flight info.
type FlightResponse struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	DepartureAt   time.Time `json:"departure_at"`
	ArrivalAt     time.Time `json:"arrival_at"`
	Price         float64   `json:"price"`
	SeatsTotal    int       `json:"seats_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewTourResponse maps a domain tour.
func NewTourResponse(tour *domain.Tour) TourResponse {
	return TourResponse{
		ID:              tour.ID,
		Name:            tour.Name,
		Description:     tour.Description,
		Price:           tour.Price,
		DurationDays:    tour.DurationDays,
		ImageURL:        tour.ImageURL,
		DestinationCity: tour.DestinationCity,
		Active:          tour.Active,
		FlightIDs:       tour.FlightIDs,
		CreatedAt:       tour.CreatedAt,
		UpdatedAt:       tour.UpdatedAt,
	}
}

// NewTourListResponse maps a slice of tours.
func NewTourListResponse(tours []domain.Tour) []TourResponse {
	out := make([]TourResponse, 0, len(tours))
	for i := range tours {
		out = append(out, NewTourResponse(&tours[i]))
	}
	return out
}

// NewFlightResponse maps a domain flight.
func NewFlightResponse(flight *domain.Flight) FlightResponse {
	return FlightResponse{
		ID:            flight.ID,
		Number:        flight.Number,
		DepartureCity: flight.DepartureCity,
		ArrivalCity:   flight.ArrivalCity,
		DepartureAt:   flight.DepartureAt,
		ArrivalAt:     flight.ArrivalAt,
		Price:         flight.Price,
		SeatsTotal:    flight.SeatsTotal,
		CreatedAt:     flight.CreatedAt,
	}
}

// NewFlightListResponse maps a slice of flights.
func NewFlightListResponse(flights []domain.Flight) []FlightResponse {
	out := make([]FlightResponse, 0, len(flights))
	for i := range flights {
		out = append(out, NewFlightResponse(&flights[i]))
	}
	return out
}
