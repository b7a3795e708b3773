package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// ClientFilter defines query params for client listing.
type ClientFilter struct {
	VIPOnly    bool
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ClientRepository handles persistence for client profiles.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	// GetByEmail returns (nil, nil) when no client matches; the lifecycle
	// engine treats the email link as best effort.
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, user_id, first_name, last_name, email, phone, birth_date, notes, vip_flag, active_flag, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (user_id, first_name, last_name, email, phone, birth_date, notes, vip_flag, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.UserID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.BirthDate,
		client.Notes,
		client.VIPStatus,
		client.Active,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET user_id=$1, first_name=$2, last_name=$3, email=$4, phone=$5,
            birth_date=$6, notes=$7, vip_flag=$8, active_flag=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		client.UserID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.BirthDate,
		client.Notes,
		client.VIPStatus,
		client.Active,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id=$1`, clientColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE email=$1`, clientColumns)
	client, err := r.fetchSingle(ctx, query, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return client, err
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE user_id=$1`, clientColumns)
	return r.fetchSingle(ctx, query, userID)
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&client.ID,
		&client.UserID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.BirthDate,
		&client.Notes,
		&client.VIPStatus,
		&client.Active,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	clauses := []string{"1=1"}
	if filter.VIPOnly {
		clauses = append(clauses, "vip_flag=TRUE")
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "active_flag=TRUE")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		clientColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.UserID,
			&client.FirstName,
			&client.LastName,
			&client.Email,
			&client.Phone,
			&client.BirthDate,
			&client.Notes,
			&client.VIPStatus,
			&client.Active,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}
