package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// RequestFilter captures listing parameters for client requests.
type RequestFilter struct {
	Statuses    []domain.RequestStatus
	Priorities  []domain.RequestPriority
	TourID      *int64
	ClientID    *int64
	EmployeeID  *int64
	Unassigned  bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// EmployeeLoad reports how many unprocessed requests an employee holds.
type EmployeeLoad struct {
	EmployeeID int64
	Count      int
}

// RequestRepository encapsulates client request persistence. Mutating methods
// that take history entries write the request and its audit entries in one
// transaction: a failed history insert aborts the whole mutation.
type RequestRepository interface {
	CreateWithHistory(ctx context.Context, req *domain.ClientRequest, entry *domain.RequestHistory) error
	UpdateWithHistory(ctx context.Context, req *domain.ClientRequest, entries []*domain.RequestHistory) error
	// Claim atomically assigns employeeID and sets status on an unclaimed
	// request. It reports false when the request is missing or already
	// assigned; exactly one of two concurrent claims can succeed.
	Claim(ctx context.Context, req *domain.ClientRequest, employeeID int64, status domain.RequestStatus, entries []*domain.RequestHistory) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.ClientRequest, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.ClientRequest, error)
	Count(ctx context.Context, filter RequestFilter) (int64, error)
	CountCreatedOn(ctx context.Context, day time.Time) (int64, error)
	UnprocessedCounts(ctx context.Context) ([]EmployeeLoad, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates the repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, tour_id, employee_id, client_id, requester_name, requester_email,
               requester_phone, comment, status, priority, created_at`

func (r *requestRepository) CreateWithHistory(ctx context.Context, req *domain.ClientRequest, entry *domain.RequestHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO client_requests (tour_id, employee_id, client_id, requester_name, requester_email, requester_phone, comment, status, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, query,
		req.TourID,
		req.EmployeeID,
		req.ClientID,
		req.RequesterName,
		req.RequesterEmail,
		req.RequesterPhone,
		req.Comment,
		req.Status,
		req.Priority,
	).Scan(&req.ID, &req.CreatedAt); err != nil {
		return err
	}

	entry.RequestID = req.ID
	if err := insertHistory(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *requestRepository) UpdateWithHistory(ctx context.Context, req *domain.ClientRequest, entries []*domain.RequestHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE client_requests SET employee_id=$1, client_id=$2, status=$3, priority=$4
        WHERE id=$5`
	cmd, err := tx.Exec(ctx, query,
		req.EmployeeID,
		req.ClientID,
		req.Status,
		req.Priority,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	for _, entry := range entries {
		entry.RequestID = req.ID
		if err := insertHistory(ctx, tx, entry); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *requestRepository) Claim(ctx context.Context, req *domain.ClientRequest, employeeID int64, status domain.RequestStatus, entries []*domain.RequestHistory) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The conditional WHERE is what linearizes concurrent claims: the row
	// update only succeeds while employee_id is still NULL.
	const query = `
        UPDATE client_requests SET employee_id=$1, status=$2
        WHERE id=$3 AND employee_id IS NULL`
	cmd, err := tx.Exec(ctx, query, employeeID, status, req.ID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	for _, entry := range entries {
		entry.RequestID = req.ID
		if err := insertHistory(ctx, tx, entry); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	req.EmployeeID = &employeeID
	req.Status = status
	return true, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.ClientRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM client_requests WHERE id=$1`, requestColumns)
	var req domain.ClientRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.TourID,
		&req.EmployeeID,
		&req.ClientID,
		&req.RequesterName,
		&req.RequesterEmail,
		&req.RequesterPhone,
		&req.Comment,
		&req.Status,
		&req.Priority,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.ClientRequest, error) {
	clauses, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM client_requests WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		requestColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientRequest
	for rows.Next() {
		var req domain.ClientRequest
		if err := rows.Scan(
			&req.ID,
			&req.TourID,
			&req.EmployeeID,
			&req.ClientID,
			&req.RequesterName,
			&req.RequesterEmail,
			&req.RequesterPhone,
			&req.Comment,
			&req.Status,
			&req.Priority,
			&req.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *requestRepository) Count(ctx context.Context, filter RequestFilter) (int64, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM client_requests WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM client_requests WHERE created_at::date = $1::date`
	var count int64
	if err := r.pool.QueryRow(ctx, query, day).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) UnprocessedCounts(ctx context.Context) ([]EmployeeLoad, error) {
	const query = `
        SELECT employee_id, COUNT(*) FROM client_requests
        WHERE employee_id IS NOT NULL AND status IN ('NEW', 'IN_PROGRESS')
        GROUP BY employee_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeLoad
	for rows.Next() {
		var load EmployeeLoad
		if err := rows.Scan(&load.EmployeeID, &load.Count); err != nil {
			return nil, err
		}
		result = append(result, load)
	}
	return result, rows.Err()
}

func filterClauses(filter RequestFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.TourID != nil {
		args = append(args, *filter.TourID)
		clauses = append(clauses, fmt.Sprintf("tour_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.Unassigned {
		clauses = append(clauses, "employee_id IS NULL")
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return clauses, args
}

func insertHistory(ctx context.Context, db DB, entry *domain.RequestHistory) error {
	const query = `
        INSERT INTO request_history (request_id, changed_by_employee_id, field_name, old_value, new_value, description)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return db.QueryRow(ctx, query,
		entry.RequestID,
		entry.ChangedByEmployeeID,
		entry.Field,
		entry.OldValue,
		entry.NewValue,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
}
