package service

import (
	"context"

	"carmarket_backend/internal/favorites/repository"
	"carmarket_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// Service implements saved-listing management for buyers.
type Service struct {
	repo *repository.Repository
}

// New creates the favorites service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Add saves a listing to the user's favorites.
func (s *Service) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.repo.Add(ctx, userID, listingID)
}

// Remove drops a listing from the user's favorites.
func (s *Service) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.repo.Remove(ctx, userID, listingID)
}

// List returns the user's favorited listings.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	return s.repo.ListForUser(ctx, userID)
}
