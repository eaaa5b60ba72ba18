package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carmarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dealerNotFoundMsg = "dealer not found"

// Dealer is a seller profile. The ID is the authenticated user's ID, so a
// user has at most one dealer profile.
type Dealer struct {
	ID        uuid.UUID
	Name      string
	Company   string
	Phone     string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertParams carries the writable dealer profile fields.
type UpsertParams struct {
	ID      uuid.UUID
	Name    string
	Company string
	Phone   string
	City    string
}

// DashboardStats aggregates a dealer's marketplace activity.
type DashboardStats struct {
	ActiveListings   int `json:"activeListings"`
	InactiveListings int `json:"inactiveListings"`
	FavoritesTotal   int `json:"favoritesTotal"`
	UnreadMessages   int `json:"unreadMessages"`
}

// Repository provides database operations for dealer profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new dealers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert creates the dealer profile or updates it in place. The second
// return value reports whether a new row was inserted.
func (r *Repository) Upsert(ctx context.Context, params UpsertParams) (Dealer, bool, error) {
	query := `
		INSERT INTO dealers (id, name, company, phone, city)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			phone = EXCLUDED.phone,
			city = EXCLUDED.city,
			updated_at = now()
		RETURNING id, name, company, phone, city, created_at, updated_at,
			(xmax = 0) AS inserted`

	var dealer Dealer
	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Company, params.Phone, params.City,
	).Scan(&dealer.ID, &dealer.Name, &dealer.Company, &dealer.Phone,
		&dealer.City, &dealer.CreatedAt, &dealer.UpdatedAt, &inserted)
	if err != nil {
		return Dealer{}, false, fmt.Errorf("upsert dealer: %w", err)
	}
	return dealer, inserted, nil
}

// GetByID fetches a dealer profile.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Dealer, error) {
	query := `
		SELECT id, name, company, phone, city, created_at, updated_at
		FROM dealers
		WHERE id = $1`

	var dealer Dealer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&dealer.ID, &dealer.Name, &dealer.Company, &dealer.Phone,
		&dealer.City, &dealer.CreatedAt, &dealer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Dealer{}, apperr.NotFound(dealerNotFoundMsg)
		}
		return Dealer{}, fmt.Errorf("get dealer: %w", err)
	}
	return dealer, nil
}

// Dashboard collects listing, favorite, and message counters for a dealer.
func (r *Repository) Dashboard(ctx context.Context, dealerID uuid.UUID) (DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM listings WHERE dealer_id = $1 AND is_active),
			(SELECT COUNT(*) FROM listings WHERE dealer_id = $1 AND NOT is_active),
			(SELECT COUNT(*) FROM favorites f
				JOIN listings l ON l.id = f.listing_id
				WHERE l.dealer_id = $1),
			(SELECT COUNT(*) FROM messages
				WHERE recipient_id = $1 AND read_at IS NULL)`

	var stats DashboardStats
	err := r.pool.QueryRow(ctx, query, dealerID).Scan(
		&stats.ActiveListings, &stats.InactiveListings,
		&stats.FavoritesTotal, &stats.UnreadMessages)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dealer dashboard: %w", err)
	}
	return stats, nil
}
