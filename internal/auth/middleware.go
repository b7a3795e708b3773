package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Employee and Client are
// populated depending on the user's role.
type Principal struct {
	User     *domain.User
	Employee *domain.Employee
	Client   *domain.Client
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	users     repository.UserRepository
	employees repository.EmployeeRepository
	clients   repository.ClientRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, employees repository.EmployeeRepository, clients repository.ClientRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, employees: employees, clients: clients}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperr.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperr.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperr.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NewUnauthorized("user not found")
		}
		return apperr.From(err)
	}
	if !user.Active {
		return apperr.NewUnauthorized("account disabled")
	}

	principal := &Principal{User: user}
	switch user.Role {
	case domain.RoleEmployee, domain.RoleAdmin:
		employee, err := m.employees.GetByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperr.From(err)
		}
		principal.Employee = employee
	case domain.RoleClient:
		client, err := m.clients.GetByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperr.From(err)
		}
		principal.Client = client
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
