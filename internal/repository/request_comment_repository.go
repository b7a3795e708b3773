package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// RequestCommentRepository stores employee notes on requests.
type RequestCommentRepository interface {
	Create(ctx context.Context, comment *domain.RequestComment) error
	ListByRequest(ctx context.Context, requestID int64, internal *bool) ([]domain.RequestComment, error)
}

type requestCommentRepository struct {
	pool *pgxpool.Pool
}

// NewRequestCommentRepository builds the repository.
func NewRequestCommentRepository(pool *pgxpool.Pool) RequestCommentRepository {
	return &requestCommentRepository{pool: pool}
}

func (r *requestCommentRepository) Create(ctx context.Context, comment *domain.RequestComment) error {
	const query = `
        INSERT INTO request_comments (request_id, employee_id, body, internal_flag)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.RequestID,
		comment.EmployeeID,
		comment.Body,
		comment.Internal,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// ListByRequest returns comments newest first, optionally filtered by the
// internal flag.
func (r *requestCommentRepository) ListByRequest(ctx context.Context, requestID int64, internal *bool) ([]domain.RequestComment, error) {
	query := `
        SELECT id, request_id, employee_id, body, internal_flag, created_at
        FROM request_comments WHERE request_id=$1`
	args := []any{requestID}
	if internal != nil {
		query += ` AND internal_flag=$2`
		args = append(args, *internal)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RequestComment
	for rows.Next() {
		var comment domain.RequestComment
		if err := rows.Scan(
			&comment.ID,
			&comment.RequestID,
			&comment.EmployeeID,
			&comment.Body,
			&comment.Internal,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
