package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// AuthHandler manages registration and login endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	user, err := h.service.RegisterClient(c.UserContext(), service.RegisterClientInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperr.NewValidation("username and password required")
	}

	result, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		UserID:    result.User.ID,
		Role:      result.User.Role,
	}})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	if err := h.service.ChangePassword(c.UserContext(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}

	response := fiber.Map{"user": dto.NewUserResponse(principal.User)}
	if principal.Employee != nil {
		response["employee"] = dto.NewEmployeeResponse(principal.Employee)
	}
	if principal.Client != nil {
		response["client"] = dto.NewClientResponse(principal.Client)
	}
	return c.JSON(fiber.Map{"data": response})
}
