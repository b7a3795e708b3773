package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// EmployeeFilter defines query params for employee listing.
type EmployeeFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// EmployeeRepository handles persistence for employee profiles.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, user_id, full_name, email, position, phone, hire_date, active_flag, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (user_id, full_name, email, position, phone, hire_date, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.UserID,
		employee.FullName,
		employee.Email,
		employee.Position,
		employee.Phone,
		employee.HireDate,
		employee.Active,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET full_name=$1, email=$2, position=$3, phone=$4, hire_date=$5,
            active_flag=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		employee.FullName,
		employee.Email,
		employee.Position,
		employee.Phone,
		employee.HireDate,
		employee.Active,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id=$1`, employeeColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE user_id=$1`, employeeColumns)
	return r.fetchSingle(ctx, query, userID)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE email=$1`, employeeColumns)
	return r.fetchSingle(ctx, query, email)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.UserID,
		&employee.FullName,
		&employee.Email,
		&employee.Position,
		&employee.Phone,
		&employee.HireDate,
		&employee.Active,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	clauses := []string{"1=1"}
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

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		employeeColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.UserID,
			&employee.FullName,
			&employee.Email,
			&employee.Position,
			&employee.Phone,
			&employee.HireDate,
			&employee.Active,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}
