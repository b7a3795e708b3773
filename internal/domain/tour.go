package domain

import "time"

// Tour is a sellable travel package, optionally linked to flights.
type Tour struct {
	ID              int64
	Name            string
	Description     string
	Price           float64
	DurationDays    int
	ImageURL        *string
	DestinationCity string
	Active          bool
	FlightIDs       []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Flight is a scheduled flight that tours may include.
type Flight struct {
	ID            int64
	Number        string
	DepartureCity string
	ArrivalCity   string
	DepartureAt   time.Time
	ArrivalAt     time.Time
	Price         float64
	SeatsTotal    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
