package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/dto"
	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// FavoritesHandler manages client tour bookmarks.
type FavoritesHandler struct {
	service *service.FavoriteService
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(favoriteService *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{service: favoriteService}
}

// List GET /client/favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Client == nil {
		return apperr.NewUnauthorized("client required")
	}

	tours, err := h.service.ListFavorites(c.UserContext(), principal.Client.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTourListResponse(tours)})
}

// Add POST /client/favorites.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Client == nil {
		return apperr.NewUnauthorized("client required")
	}
	var req dto.FavoriteBody
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidation("invalid payload")
	}

	if err := h.service.AddFavorite(c.UserContext(), principal.Client.ID, req.TourID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"tour_id": req.TourID}})
}

// Remove DELETE /client/favorites/:tourId.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Client == nil {
		return apperr.NewUnauthorized("client required")
	}
	tourID, err := parseIDParam(c, "tourId")
	if err != nil {
		return err
	}

	if err := h.service.RemoveFavorite(c.UserContext(), principal.Client.ID, tourID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": true}})
}
