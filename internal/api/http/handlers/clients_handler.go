package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// ClientsHandler manages back-office client profile endpoints.
type ClientsHandler struct {
	service *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{service: clientService}
}

// List GET /staff/clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	filter := repository.ClientFilter{
		VIPOnly:    c.Query("vip") == "true",
		ActiveOnly: c.Query("active") == "true",
	}
	filter.Limit, filter.Offset = parsePaging(c)

	clients, err := h.service.ListClients(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientListResponse(clients)})
}

// Get GET /staff/clients/:id.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	client, err := h.service.GetClient(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// Create POST /staff/clients.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	var req dto.ClientBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	client, err := h.service.CreateClient(c.UserContext(), clientInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// Update PUT /staff/clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ClientBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	client, err := h.service.UpdateClient(c.UserContext(), clientID, clientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// SetVIP PATCH /staff/clients/:id/vip.
func (h *ClientsHandler) SetVIP(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetVIPBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	client, err := h.service.SetVIP(c.UserContext(), clientID, req.VIP)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

func clientInput(req dto.ClientBody) service.ClientInput {
	return service.ClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		VIPStatus: req.VIPStatus,
		Active:    req.Active,
	}
}
