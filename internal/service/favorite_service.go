package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// FavoriteService manages client tour bookmarks.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	tours     repository.TourRepository
}

// NewFavoriteService constructs the service.
func NewFavoriteService(favorites repository.FavoriteRepository, tours repository.TourRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, tours: tours}
}

// AddFavorite bookmarks a tour for the client. Adding an existing bookmark is
// a no-op.
func (s *FavoriteService) AddFavorite(ctx context.Context, clientID, tourID int64) error {
	if _, err := s.tours.GetByID(ctx, tourID); err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NewNotFound(fmt.Sprintf("tour %d not found", tourID))
		}
		return apperr.From(err)
	}
	if err := s.favorites.Add(ctx, clientID, tourID); err != nil {
		return apperr.From(err)
	}
	return nil
}

// RemoveFavorite deletes a bookmark.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, clientID, tourID int64) error {
	removed, err := s.favorites.Remove(ctx, clientID, tourID)
	if err != nil {
		return apperr.From(err)
	}
	if !removed {
		return apperr.NewNotFound("favorite not found")
	}
	return nil
}

// ListFavorites returns the client's bookmarked tours.
func (s *FavoriteService) ListFavorites(ctx context.Context, clientID int64) ([]domain.Tour, error) {
	tourIDs, err := s.favorites.ListTourIDs(ctx, clientID)
	if err != nil {
		return nil, apperr.From(err)
	}

	tours := make([]domain.Tour, 0, len(tourIDs))
	for _, tourID := range tourIDs {
		tour, err := s.tours.GetByID(ctx, tourID)
		if err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			return nil, apperr.From(err)
		}
		tours = append(tours, *tour)
	}
	return tours, nil
}
