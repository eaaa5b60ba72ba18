package repository

import (
	"context"
	"time"

	"carmarket_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// CreateListingParams carries the fields for a new listing.
type CreateListingParams struct {
	DealerID     uuid.UUID
	Make         string
	Model        string
	Year         int
	PriceCents   int64
	Mileage      int
	FuelType     string
	Transmission string
	BodyType     string
	Condition    string
	Features     []string
	Description  string
}

// UpdateListingParams carries a partial listing update. Nil fields are left
// unchanged.
type UpdateListingParams struct {
	ID          uuid.UUID
	DealerID    uuid.UUID
	PriceCents  *int64
	Mileage     *int
	Condition   *string
	Features    []string
	Description *string
	IsActive    *bool
}

// MakeCount is one row of the per-make aggregate.
type MakeCount struct {
	Make  string `json:"make"`
	Count int    `json:"count"`
}

// MarketStats summarizes the active inventory.
type MarketStats struct {
	TotalActive   int         `json:"totalActive"`
	AvgPriceCents int64       `json:"avgPriceCents"`
	ByMake        []MakeCount `json:"byMake"`
}

// Repository is the read/write accessor for listing records. The search
// layer only uses the read side; mutations exist for dealer tooling and are
// what drives cache invalidation.
type Repository interface {
	// ActiveSnapshot returns all active listings from a single query, so
	// each search request executes against a consistent snapshot.
	ActiveSnapshot(ctx context.Context) ([]domain.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Listing, error)
	DistinctMakes(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (MarketStats, error)
	ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]domain.Listing, error)

	Create(ctx context.Context, params CreateListingParams) (domain.Listing, error)
	Update(ctx context.Context, params UpdateListingParams) (domain.Listing, error)
	Delete(ctx context.Context, dealerID, id uuid.UUID) (domain.Listing, error)
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Listing, error)
}
