package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// StaffRequestsHandler manages employee and admin request endpoints.
type StaffRequestsHandler struct {
	requests *service.RequestService
	comments *service.CommentService
}

// NewStaffRequestsHandler constructs handler.
func NewStaffRequestsHandler(requests *service.RequestService, comments *service.CommentService) *StaffRequestsHandler {
	return &StaffRequestsHandler{requests: requests, comments: comments}
}

// List GET /staff/requests.
func (h *StaffRequestsHandler) List(c *fiber.Ctx) error {
	filter := parseRequestFilter(c)
	items, err := h.requests.ListRequests(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestListResponse(items)})
}

// Available GET /staff/requests/available. Unassigned worklist.
func (h *StaffRequestsHandler) Available(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	items, err := h.requests.AvailableRequests(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestListResponse(items)})
}

// Mine GET /staff/requests/mine.
func (h *StaffRequestsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Employee == nil {
		return apperr.NewUnauthorized("employee required")
	}
	limit, offset := parsePaging(c)

	items, err := h.requests.ListRequests(c.UserContext(), repository.RequestFilter{
		EmployeeID: &principal.Employee.ID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestListResponse(items)})
}

// Get GET /staff/requests/:id.
func (h *StaffRequestsHandler) Get(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.requests.GetRequest(c.UserContext(), requestID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(req)})
}

// Take POST /staff/requests/:id/take. Claims an unassigned request.
func (h *StaffRequestsHandler) Take(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Employee == nil {
		return apperr.NewUnauthorized("employee required")
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	req, err := h.requests.TakeRequest(c.UserContext(), requestID, principal.Employee.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(req)})
}

// UpdateOwnStatus PATCH /staff/requests/:id/status. Assignee only.
func (h *StaffRequestsHandler) UpdateOwnStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Employee == nil {
		return apperr.NewUnauthorized("employee required")
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EmployeeStatusBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	updated, err := h.requests.UpdateStatusByEmployee(c.UserContext(), requestID, principal.Employee.ID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// AdminUpdateStatus PATCH /admin/requests/:id/status. Unguarded; may also
// reassign the request.
func (h *StaffRequestsHandler) AdminUpdateStatus(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	var actorID *int64
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Employee != nil {
		actorID = &principal.Employee.ID
	}
	updated, err := h.requests.UpdateStatus(c.UserContext(), requestID, service.RequestStatusInput{
		Status:     req.Status,
		EmployeeID: req.EmployeeID,
		ActorID:    actorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// AdminUpdatePriority PATCH /admin/requests/:id/priority.
func (h *StaffRequestsHandler) AdminUpdatePriority(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	var actorID *int64
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Employee != nil {
		actorID = &principal.Employee.ID
	}
	updated, err := h.requests.UpdatePriority(c.UserContext(), requestID, req.Priority, actorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// History GET /staff/requests/:id/history. Newest first.
func (h *StaffRequestsHandler) History(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.requests.RequestHistory(c.UserContext(), requestID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponse(entries)})
}

// AddComment POST /staff/requests/:id/comments.
func (h *StaffRequestsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Employee == nil {
		return apperr.NewUnauthorized("employee required")
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CommentBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	comment, err := h.comments.AddComment(c.UserContext(), requestID, principal.Employee.ID, req.Body, req.Internal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// ListComments GET /staff/requests/:id/comments.
func (h *StaffRequestsHandler) ListComments(c *fiber.Ctx) error {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var internal *bool
	if raw := c.Query("internal"); raw != "" {
		val := raw == "true" || raw == "1"
		internal = &val
	}

	comments, err := h.comments.ListComments(c.UserContext(), requestID, internal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentListResponse(comments)})
}

func parseRequestFilter(c *fiber.Ctx) repository.RequestFilter {
	filter := repository.RequestFilter{}
	filter.Limit, filter.Offset = parsePaging(c)

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := domain.RequestStatus(strings.ToUpper(strings.TrimSpace(part)))
			if status.Valid() {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	if raw := c.Query("priority"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			priority := domain.RequestPriority(strings.ToUpper(strings.TrimSpace(part)))
			if priority.Valid() {
				filter.Priorities = append(filter.Priorities, priority)
			}
		}
	}
	if tourID := int64(c.QueryInt("tour_id", 0)); tourID > 0 {
		filter.TourID = &tourID
	}
	if clientID := int64(c.QueryInt("client_id", 0)); clientID > 0 {
		filter.ClientID = &clientID
	}
	if employeeID := int64(c.QueryInt("employee_id", 0)); employeeID > 0 {
		filter.EmployeeID = &employeeID
	}
	if c.Query("unassigned") == "true" {
		filter.Unassigned = true
	}
	if raw := c.Query("created_from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &ts
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &ts
		}
	}
	return filter
}
