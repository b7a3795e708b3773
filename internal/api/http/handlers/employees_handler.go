package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// EmployeesHandler manages staff administration endpoints.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

// List GET /admin/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	filter := repository.EmployeeFilter{ActiveOnly: c.Query("active") == "true"}
	filter.Limit, filter.Offset = parsePaging(c)

	employees, err := h.service.ListEmployees(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeListResponse(employees)})
}

// Get GET /admin/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	employee, err := h.service.GetEmployee(c.UserContext(), employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// Create POST /admin/employees. Provisions the login account as well.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeCreateBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	var hireDate time.Time
	if req.HireDate != nil {
		hireDate = *req.HireDate
	}
	employee, err := h.service.CreateEmployee(c.UserContext(), service.EmployeeCreateInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Position: req.Position,
		Phone:    req.Phone,
		HireDate: hireDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// Update PUT /admin/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EmployeeUpdateBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	employee, err := h.service.UpdateEmployee(c.UserContext(), employeeID, req.FullName, req.Position, req.Phone, req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}
