package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// FlightsHandler manages flight reference data endpoints.
type FlightsHandler struct {
	service *service.FlightService
}

// NewFlightsHandler constructs handler.
func NewFlightsHandler(flightService *service.FlightService) *FlightsHandler {
	return &FlightsHandler{service: flightService}
}

// List GET /admin/flights.
func (h *FlightsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	flights, err := h.service.ListFlights(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFlightListResponse(flights)})
}

// Get GET /admin/flights/:id.
func (h *FlightsHandler) Get(c *fiber.Ctx) error {
	flightID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	flight, err := h.service.GetFlight(c.UserContext(), flightID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFlightResponse(flight)})
}

// Create POST /admin/flights.
func (h *FlightsHandler) Create(c *fiber.Ctx) error {
	var req dto.FlightBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	flight, err := h.service.CreateFlight(c.UserContext(), flightFromBody(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewFlightResponse(flight)})
}

// Update PUT /admin/flights/:id.
func (h *FlightsHandler) Update(c *fiber.Ctx) error {
	flightID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.FlightBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	flight := flightFromBody(req)
	flight.ID = flightID
	updated, err := h.service.UpdateFlight(c.UserContext(), flight)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFlightResponse(updated)})
}

func flightFromBody(req dto.FlightBody) *domain.Flight {
	return &domain.Flight{
		Number:        req.Number,
		DepartureCity: req.DepartureCity,
		ArrivalCity:   req.ArrivalCity,
		DepartureAt:   req.DepartureAt,
		ArrivalAt:     req.ArrivalAt,
		Price:         req.Price,
		SeatsTotal:    req.SeatsTotal,
	}
}
