package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteRepository stores client tour bookmarks.
type FavoriteRepository interface {
	Add(ctx context.Context, clientID, tourID int64) error
	Remove(ctx context.Context, clientID, tourID int64) (bool, error)
	ListTourIDs(ctx context.Context, clientID int64) ([]int64, error)
	Exists(ctx context.Context, clientID, tourID int64) (bool, error)
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository builds the repository.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

func (r *favoriteRepository) Add(ctx context.Context, clientID, tourID int64) error {
	const query = `
        INSERT INTO favorite_tours (client_id, tour_id) VALUES ($1,$2)
        ON CONFLICT (client_id, tour_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, clientID, tourID)
	return err
}

func (r *favoriteRepository) Remove(ctx context.Context, clientID, tourID int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM favorite_tours WHERE client_id=$1 AND tour_id=$2`, clientID, tourID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *favoriteRepository) ListTourIDs(ctx context.Context, clientID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tour_id FROM favorite_tours WHERE client_id=$1 ORDER BY created_at DESC`, clientID)
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

func (r *favoriteRepository) Exists(ctx context.Context, clientID, tourID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorite_tours WHERE client_id=$1 AND tour_id=$2)`,
		clientID, tourID).Scan(&exists)
	return exists, err
}
