package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// EmployeeService manages staff profiles and their login accounts.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	users      repository.UserRepository
	bcryptCost int
}

// NewEmployeeService constructs the service.
func NewEmployeeService(employees repository.EmployeeRepository, users repository.UserRepository, bcryptCost int) *EmployeeService {
	return &EmployeeService{employees: employees, users: users, bcryptCost: bcryptCost}
}

// EmployeeCreateInput describes an admin-provisioned employee.
type EmployeeCreateInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Position string
	Phone    *string
	HireDate time.Time
}

// CreateEmployee provisions a login account with the EMPLOYEE role and its
// staff profile.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeCreateInput) (*domain.Employee, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.Username == "" {
		return nil, apperr.NewValidation("username is required")
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.FullName == "" {
		return nil, apperr.NewValidation("full name is required")
	}
	if input.Email == "" || !emailPattern.MatchString(input.Email) {
		return nil, apperr.NewValidation("email is invalid")
	}

	if existing, err := s.users.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, apperr.NewConflict("username already taken")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperr.From(err)
	}
	if existing, err := s.employees.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperr.NewConflict("employee with this email already exists")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperr.From(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.From(err)
	}
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.From(err)
	}

	hireDate := input.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now()
	}
	employee := &domain.Employee{
		UserID:   user.ID,
		FullName: input.FullName,
		Email:    input.Email,
		Position: input.Position,
		Phone:    input.Phone,
		HireDate: hireDate,
		Active:   true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperr.From(err)
	}
	return employee, nil
}

// UpdateEmployee replaces mutable profile fields.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID int64, fullName, position string, phone *string, active bool) (*domain.Employee, error) {
	employee, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperr.NewValidation("full name is required")
	}
	employee.FullName = fullName
	employee.Position = position
	employee.Phone = phone
	employee.Active = active
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, apperr.From(err)
	}
	return employee, nil
}

// GetEmployee returns a single staff profile.
func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("employee %d not found", employeeID))
		}
		return nil, apperr.From(err)
	}
	return employee, nil
}

// ListEmployees returns staff profiles matching the filter.
func (s *EmployeeService) ListEmployees(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperr.From(err)
	}
	return employees, nil
}
