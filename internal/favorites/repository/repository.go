package repository

import (
	"context"
	"errors"
	"fmt"

	"carmarket_backend/internal/listings/domain"
	"carmarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// Repository provides database operations for favorites.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new favorites repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Add saves a listing for the user. Only active listings can be favorited.
func (r *Repository) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	query := `
		INSERT INTO favorites (user_id, listing_id)
		SELECT $1, id FROM listings WHERE id = $2 AND is_active`

	tag, err := r.pool.Exec(ctx, query, userID, listingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperr.Conflict("listing already favorited")
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("listing not found")
	}
	return nil
}

// Remove deletes the user's favorite.
func (r *Repository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("favorite not found")
	}
	return nil
}

// ListForUser returns the user's favorited listings, newest favorite first.
// Listings deactivated after being favorited stay visible to their owner.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	query := `
		SELECT l.id, l.dealer_id, l.make, l.model, l.year, l.price_cents,
			l.mileage, l.fuel_type, l.transmission, l.body_type, l.condition,
			l.features, l.description, l.is_active, l.created_at
		FROM favorites f
		JOIN listings l ON l.id = f.listing_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.ID, &l.DealerID, &l.Make, &l.Model, &l.Year,
			&l.PriceCents, &l.Mileage, &l.FuelType, &l.Transmission,
			&l.BodyType, &l.Condition, &l.Features, &l.Description,
			&l.IsActive, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return listings, nil
}
