package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carmarket_backend/internal/listings/domain"
	"carmarket_backend/platform/apperr"
)

const listingNotFoundMessage = "listing not found"

const listingColumns = `id, dealer_id, make, model, year, price_cents, mileage,
	fuel_type, transmission, body_type, condition, features, description, is_active, created_at`

// Repo implements the listings repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new listings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ActiveSnapshot returns every active listing in one query.
func (r *Repo) ActiveSnapshot(ctx context.Context) ([]domain.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE is_active = true`, listingColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scan active listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// GetByID retrieves a listing by ID, active or not.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, listingColumns)

	listing, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, apperr.NotFound(listingNotFoundMessage)
		}
		return domain.Listing{}, fmt.Errorf("get listing by id: %w", err)
	}
	return listing, nil
}

// DistinctMakes lists the makes present in the active inventory.
func (r *Repo) DistinctMakes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT make FROM listings WHERE is_active = true ORDER BY make`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct makes: %w", err)
	}
	defer rows.Close()

	makes := make([]string, 0)
	for rows.Next() {
		var make string
		if err := rows.Scan(&make); err != nil {
			return nil, fmt.Errorf("scan make: %w", err)
		}
		makes = append(makes, make)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate makes: %w", rows.Err())
	}
	return makes, nil
}

// Stats aggregates the active inventory.
func (r *Repo) Stats(ctx context.Context) (MarketStats, error) {
	var stats MarketStats

	summary := `SELECT COUNT(*), COALESCE(AVG(price_cents), 0)::bigint FROM listings WHERE is_active = true`
	if err := r.pool.QueryRow(ctx, summary).Scan(&stats.TotalActive, &stats.AvgPriceCents); err != nil {
		return MarketStats{}, fmt.Errorf("stats summary: %w", err)
	}

	perMake := `
		SELECT make, COUNT(*)
		FROM listings
		WHERE is_active = true
		GROUP BY make
		ORDER BY COUNT(*) DESC, make ASC`

	rows, err := r.pool.Query(ctx, perMake)
	if err != nil {
		return MarketStats{}, fmt.Errorf("stats by make: %w", err)
	}
	defer rows.Close()

	stats.ByMake = make([]MakeCount, 0)
	for rows.Next() {
		var mc MakeCount
		if err := rows.Scan(&mc.Make, &mc.Count); err != nil {
			return MarketStats{}, fmt.Errorf("scan make count: %w", err)
		}
		stats.ByMake = append(stats.ByMake, mc)
	}
	if rows.Err() != nil {
		return MarketStats{}, fmt.Errorf("iterate make counts: %w", rows.Err())
	}
	return stats, nil
}

// ListByDealer returns all listings owned by a dealer, newest first.
func (r *Repo) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]domain.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE dealer_id = $1 ORDER BY created_at DESC, id`, listingColumns)

	rows, err := r.pool.Query(ctx, query, dealerID)
	if err != nil {
		return nil, fmt.Errorf("list dealer listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// Create inserts a listing.
func (r *Repo) Create(ctx context.Context, params CreateListingParams) (domain.Listing, error) {
	query := fmt.Sprintf(`
		INSERT INTO listings (
			dealer_id, make, model, year, price_cents, mileage,
			fuel_type, transmission, body_type, condition, features, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s`, listingColumns)

	listing, err := scanListing(r.pool.QueryRow(ctx, query,
		params.DealerID, params.Make, params.Model, params.Year, params.PriceCents, params.Mileage,
		params.FuelType, params.Transmission, params.BodyType, params.Condition, params.Features, params.Description,
	))
	if err != nil {
		return domain.Listing{}, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

// Update applies a partial update scoped to the owning dealer.
func (r *Repo) Update(ctx context.Context, params UpdateListingParams) (domain.Listing, error) {
	query := fmt.Sprintf(`
		UPDATE listings
		SET price_cents = COALESCE($3, price_cents),
			mileage = COALESCE($4, mileage),
			condition = COALESCE($5, condition),
			features = COALESCE($6, features),
			description = COALESCE($7, description),
			is_active = COALESCE($8, is_active)
		WHERE id = $1 AND dealer_id = $2
		RETURNING %s`, listingColumns)

	var features interface{}
	if params.Features != nil {
		features = params.Features
	}

	listing, err := scanListing(r.pool.QueryRow(ctx, query,
		params.ID, params.DealerID, params.PriceCents, params.Mileage,
		params.Condition, features, params.Description, params.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, apperr.NotFound(listingNotFoundMessage)
		}
		return domain.Listing{}, fmt.Errorf("update listing: %w", err)
	}
	return listing, nil
}

// Delete removes a listing scoped to the owning dealer and returns the
// deleted row so callers can publish a change event.
func (r *Repo) Delete(ctx context.Context, dealerID, id uuid.UUID) (domain.Listing, error) {
	query := fmt.Sprintf(`DELETE FROM listings WHERE id = $1 AND dealer_id = $2 RETURNING %s`, listingColumns)

	listing, err := scanListing(r.pool.QueryRow(ctx, query, id, dealerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, apperr.NotFound(listingNotFoundMessage)
		}
		return domain.Listing{}, fmt.Errorf("delete listing: %w", err)
	}
	return listing, nil
}

// DeactivateOlderThan flips stale active listings to inactive and returns
// the affected rows.
func (r *Repo) DeactivateOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		UPDATE listings
		SET is_active = false
		WHERE is_active = true AND created_at < $1
		RETURNING %s`, listingColumns)

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("deactivate stale listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	items := make([]domain.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		items = append(items, listing)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate listings: %w", rows.Err())
	}
	return items, nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.DealerID, &l.Make, &l.Model, &l.Year, &l.PriceCents, &l.Mileage,
		&l.FuelType, &l.Transmission, &l.BodyType, &l.Condition, &l.Features,
		&l.Description, &l.IsActive, &l.CreatedAt,
	)
	return l, err
}
