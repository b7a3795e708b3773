package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// TourFilter captures browse parameters for tours.
type TourFilter struct {
	Destination *string
	MinPrice    *float64
	MaxPrice    *float64
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// DestinationStat aggregates tour and request counts per destination city.
type DestinationStat struct {
	Destination  string
	TourCount    int64
	RequestCount int64
}

// PriceStats summarizes tour pricing.
type PriceStats struct {
	Avg float64
	Min float64
	Max float64
}

// TourRepository encapsulates tour persistence.
type TourRepository interface {
	Create(ctx context.Context, tour *domain.Tour) error
	Update(ctx context.Context, tour *domain.Tour) error
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	ListWithFilter(ctx context.Context, filter TourFilter) ([]domain.Tour, error)
	SetFlights(ctx context.Context, tourID int64, flightIDs []int64) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
	TopDestinations(ctx context.Context, limit int) ([]DestinationStat, error)
	PriceStats(ctx context.Context) (PriceStats, error)
}

type tourRepository struct {
	pool *pgxpool.Pool
}

// NewTourRepository instantiates the repository.
func NewTourRepository(pool *pgxpool.Pool) TourRepository {
	return &tourRepository{pool: pool}
}

func (r *tourRepository) Create(ctx context.Context, tour *domain.Tour) error {
	const query = `
        INSERT INTO tours (name, description, price, duration_days, image_url, destination_city, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tour.Name,
		tour.Description,
		tour.Price,
		tour.DurationDays,
		tour.ImageURL,
		tour.DestinationCity,
		tour.Active,
	).Scan(&tour.ID, &tour.CreatedAt, &tour.UpdatedAt)
}

func (r *tourRepository) Update(ctx context.Context, tour *domain.Tour) error {
	const query = `
        UPDATE tours SET name=$1, description=$2, price=$3, duration_days=$4, image_url=$5,
            destination_city=$6, active_flag=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		tour.Name,
		tour.Description,
		tour.Price,
		tour.DurationDays,
		tour.ImageURL,
		tour.DestinationCity,
		tour.Active,
		tour.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	const query = `
        SELECT id, name, description, price, duration_days, image_url, destination_city, active_flag, created_at, updated_at
        FROM tours WHERE id=$1`
	var tour domain.Tour
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tour.ID,
		&tour.Name,
		&tour.Description,
		&tour.Price,
		&tour.DurationDays,
		&tour.ImageURL,
		&tour.DestinationCity,
		&tour.Active,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	); err != nil {
		return nil, err
	}

	flightIDs, err := r.flightIDs(ctx, tour.ID)
	if err != nil {
		return nil, err
	}
	tour.FlightIDs = flightIDs
	return &tour, nil
}

func (r *tourRepository) ListWithFilter(ctx context.Context, filter TourFilter) ([]domain.Tour, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ActiveOnly {
		clauses = append(clauses, "active_flag=TRUE")
	}
	if filter.Destination != nil && strings.TrimSpace(*filter.Destination) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Destination))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(destination_city) LIKE $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("price <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, name, description, price, duration_days, image_url, destination_city, active_flag, created_at, updated_at
        FROM tours WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tour
	for rows.Next() {
		var tour domain.Tour
		if err := rows.Scan(
			&tour.ID,
			&tour.Name,
			&tour.Description,
			&tour.Price,
			&tour.DurationDays,
			&tour.ImageURL,
			&tour.DestinationCity,
			&tour.Active,
			&tour.CreatedAt,
			&tour.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tour)
	}
	return result, rows.Err()
}

func (r *tourRepository) SetFlights(ctx context.Context, tourID int64, flightIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM tour_flights WHERE tour_id=$1`, tourID); err != nil {
		return err
	}
	for _, flightID := range flightIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tour_flights (tour_id, flight_id) VALUES ($1,$2)`, tourID, flightID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *tourRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM tours`
	if activeOnly {
		query += ` WHERE active_flag=TRUE`
	}
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tourRepository) TopDestinations(ctx context.Context, limit int) ([]DestinationStat, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`
        SELECT t.destination_city, COUNT(DISTINCT t.id), COUNT(r.id)
        FROM tours t
        LEFT JOIN client_requests r ON r.tour_id = t.id
        GROUP BY t.destination_city
        ORDER BY COUNT(r.id) DESC
        LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DestinationStat
	for rows.Next() {
		var stat DestinationStat
		if err := rows.Scan(&stat.Destination, &stat.TourCount, &stat.RequestCount); err != nil {
			return nil, err
		}
		result = append(result, stat)
	}
	return result, rows.Err()
}

func (r *tourRepository) PriceStats(ctx context.Context) (PriceStats, error) {
	const query = `SELECT COALESCE(AVG(price),0), COALESCE(MIN(price),0), COALESCE(MAX(price),0) FROM tours`
	var stats PriceStats
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.Avg, &stats.Min, &stats.Max); err != nil {
		return PriceStats{}, err
	}
	return stats, nil
}

func (r *tourRepository) flightIDs(ctx context.Context, tourID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT flight_id FROM tour_flights WHERE tour_id=$1 ORDER BY flight_id`, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
