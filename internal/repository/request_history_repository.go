package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// RequestHistoryRepository reads audit entries. Writes happen through
// RequestRepository so they share the mutation's transaction.
type RequestHistoryRepository interface {
	Create(ctx context.Context, entry *domain.RequestHistory) error
	ListByRequest(ctx context.Context, requestID int64) ([]domain.RequestHistory, error)
}

type requestHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewRequestHistoryRepository builds the repository.
func NewRequestHistoryRepository(pool *pgxpool.Pool) RequestHistoryRepository {
	return &requestHistoryRepository{pool: pool}
}

func (r *requestHistoryRepository) Create(ctx context.Context, entry *domain.RequestHistory) error {
	return insertHistory(ctx, r.pool, entry)
}

// ListByRequest returns entries newest first.
func (r *requestHistoryRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.RequestHistory, error) {
	const query = `
        SELECT id, request_id, changed_by_employee_id, field_name, old_value, new_value, description, created_at
        FROM request_history WHERE request_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RequestHistory
	for rows.Next() {
		var entry domain.RequestHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.ChangedByEmployeeID,
			&entry.Field,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
