package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// ToursHandler manages catalog endpoints.
type ToursHandler struct {
	service *service.TourService
}

// NewToursHandler constructs handler.
func NewToursHandler(tourService *service.TourService) *ToursHandler {
	return &ToursHandler{service: tourService}
}

// List GET /tours. Public listing shows active tours only.
func (h *ToursHandler) List(c *fiber.Ctx) error {
	filter := repository.TourFilter{ActiveOnly: true}
	filter.Limit, filter.Offset = parsePaging(c)

	if dest := c.Query("destination"); dest != "" {
		filter.Destination = &dest
	}
	if min := c.QueryFloat("min_price", -1); min >= 0 {
		filter.MinPrice = &min
	}
	if max := c.QueryFloat("max_price", -1); max >= 0 {
		filter.MaxPrice = &max
	}

	tours, err := h.service.ListTours(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTourListResponse(tours)})
}

// ListAll GET /admin/tours. Includes inactive tours.
func (h *ToursHandler) ListAll(c *fiber.Ctx) error {
	filter := repository.TourFilter{}
	filter.Limit, filter.Offset = parsePaging(c)

	tours, err := h.service.ListTours(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTourListResponse(tours)})
}

// Get GET /tours/:id.
func (h *ToursHandler) Get(c *fiber.Ctx) error {
	tourID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	tour, err := h.service.GetTour(c.UserContext(), tourID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTourResponse(tour)})
}

// Create POST /admin/tours.
func (h *ToursHandler) Create(c *fiber.Ctx) error {
	var req dto.TourBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	tour, err := h.service.CreateTour(c.UserContext(), tourInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTourResponse(tour)})
}

// Update PUT /admin/tours/:id.
func (h *ToursHandler) Update(c *fiber.Ctx) error {
	tourID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TourBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	tour, err := h.service.UpdateTour(c.UserContext(), tourID, tourInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTourResponse(tour)})
}

// Deactivate DELETE /admin/tours/:id. Soft delete; requests are preserved.
func (h *ToursHandler) Deactivate(c *fiber.Ctx) error {
	tourID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	tour, err := h.service.DeactivateTour(c.UserContext(), tourID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTourResponse(tour)})
}

func tourInput(req dto.TourBody) service.TourInput {
	return service.TourInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationDays:    req.DurationDays,
		ImageURL:        req.ImageURL,
		DestinationCity: req.DestinationCity,
		Active:          req.Active,
		FlightIDs:       req.FlightIDs,
	}
}
