package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// FlightRepository encapsulates flight persistence.
type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context, limit, offset int) ([]domain.Flight, error)
}

type flightRepository struct {
	pool *pgxpool.Pool
}

// NewFlightRepository instantiates the repository.
func NewFlightRepository(pool *pgxpool.Pool) FlightRepository {
	return &flightRepository{pool: pool}
}

func (r *flightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	const query = `
        INSERT INTO flights (number, departure_city, arrival_city, departure_at, arrival_at, price, seats_total)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		flight.Number,
		flight.DepartureCity,
		flight.ArrivalCity,
		flight.DepartureAt,
		flight.ArrivalAt,
		flight.Price,
		flight.SeatsTotal,
	).Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *flightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	const query = `
        UPDATE flights SET number=$1, departure_city=$2, arrival_city=$3, departure_at=$4,
            arrival_at=$5, price=$6, seats_total=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		flight.Number,
		flight.DepartureCity,
		flight.ArrivalCity,
		flight.DepartureAt,
		flight.ArrivalAt,
		flight.Price,
		flight.SeatsTotal,
		flight.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *flightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	const query = `
        SELECT id, number, departure_city, arrival_city, departure_at, arrival_at, price, seats_total, created_at, updated_at
        FROM flights WHERE id=$1`
	var flight domain.Flight
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&flight.ID,
		&flight.Number,
		&flight.DepartureCity,
		&flight.ArrivalCity,
		&flight.DepartureAt,
		&flight.ArrivalAt,
		&flight.Price,
		&flight.SeatsTotal,
		&flight.CreatedAt,
		&flight.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *flightRepository) List(ctx context.Context, limit, offset int) ([]domain.Flight, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, number, departure_city, arrival_city, departure_at, arrival_at, price, seats_total, created_at, updated_at
        FROM flights ORDER BY departure_at LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Flight
	for rows.Next() {
		var flight domain.Flight
		if err := rows.Scan(
			&flight.ID,
			&flight.Number,
			&flight.DepartureCity,
			&flight.ArrivalCity,
			&flight.DepartureAt,
			&flight.ArrivalAt,
			&flight.Price,
			&flight.SeatsTotal,
			&flight.CreatedAt,
			&flight.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, flight)
	}
	return result, rows.Err()
}
