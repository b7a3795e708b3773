package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// RequestsHandler manages public and client-facing request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// Submit POST /requests. Public inquiry form, no authentication.
func (h *RequestsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRequestBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	created, err := h.service.CreateRequest(c.UserContext(), service.RequestCreateInput{
		TourID:         req.TourID,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		RequesterPhone: req.RequesterPhone,
		Comment:        req.Comment,
		Priority:       req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(created)})
}

// SubmitAsClient POST /client/requests. Contact fields come from the profile.
func (h *RequestsHandler) SubmitAsClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Client == nil {
		return apperr.NewUnauthorized("client required")
	}
	var req dto.ClientRequestBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	created, err := h.service.CreateRequestForClient(c.UserContext(), principal.User.ID, service.RequestCreateInput{
		TourID:   req.TourID,
		Comment:  req.Comment,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(created)})
}

// ListOwn GET /client/requests.
func (h *RequestsHandler) ListOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Client == nil {
		return apperr.NewUnauthorized("client required")
	}
	limit, offset := parsePaging(c)

	items, err := h.service.ListRequests(c.UserContext(), repository.RequestFilter{
		ClientID: &principal.Client.ID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestListResponse(items)})
}

// GetOwn GET /client/requests/:id.
func (h *RequestsHandler) GetOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Client == nil {
		return apperr.NewUnauthorized("client required")
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	req, err := h.service.GetRequest(c.UserContext(), requestID)
	if err != nil {
		return err
	}
	if req.ClientID == nil || *req.ClientID != principal.Client.ID {
		return apperr.NewForbidden("request belongs to another client")
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(req)})
}
