// Package service orchestrates the listings search layer: admission-gated
// reads flow through the result cache into the snapshot executor and ranker,
// dealer mutations flow to the repository and publish change events.
package service

import (
	"context"
	"strings"
	"time"

	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/events"
	"carmarket_backend/internal/listings/domain"
	"carmarket_backend/internal/listings/repository"
	"carmarket_backend/internal/listings/search"
	"carmarket_backend/internal/listings/transport"
	"carmarket_backend/platform/apperr"
	"carmarket_backend/platform/logger"

	"github.com/google/uuid"
)

// Service is the listings application service.
type Service struct {
	repo   repository.Repository
	cache  *cache.Cache
	bus    events.Bus
	ranker search.RankerConfig
	log    *logger.Logger
}

// New creates the listings service.
func New(repo repository.Repository, resultCache *cache.Cache, bus events.Bus, ranker search.RankerConfig, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  resultCache,
		bus:    bus,
		ranker: ranker,
		log:    log,
	}
}

// Search runs a filtered, sorted, paginated listing query through the result
// cache.
func (s *Service) Search(ctx context.Context, criteria domain.FilterCriteria) (transport.SearchResponse, error) {
	if err := criteria.Validate(); err != nil {
		return transport.SearchResponse{}, err
	}

	key := cache.SearchKey(criteria)
	return cache.GetOrCompute(ctx, s.cache, cache.CategorySearch, key, func(ctx context.Context) (transport.SearchResponse, error) {
		snapshot, err := s.repo.ActiveSnapshot(ctx)
		if err != nil {
			s.log.DatabaseError("listings.search", err)
			return transport.SearchResponse{}, apperr.Wrap(apperr.KindInternal, "search unavailable", err)
		}

		items, total := search.Execute(snapshot, criteria)
		return transport.SearchResponse{
			Items:      transport.ToSummaries(items),
			Total:      total,
			Page:       criteria.Page,
			PageSize:   criteria.PageSize,
			TotalPages: pageCount(total, criteria.PageSize),
		}, nil
	})
}

// Similar returns listings ranked by similarity to the reference listing.
func (s *Service) Similar(ctx context.Context, listingID uuid.UUID) (transport.SimilarResponse, error) {
	key := cache.SimilarKey(listingID, s.ranker.MaxResults, s.ranker.YearWindow, s.ranker.PriceBandPct)
	return cache.GetOrCompute(ctx, s.cache, cache.CategorySearch, key, func(ctx context.Context) (transport.SimilarResponse, error) {
		ref, err := s.repo.GetByID(ctx, listingID)
		if err != nil {
			return transport.SimilarResponse{}, err
		}
		if !ref.IsActive {
			return transport.SimilarResponse{}, apperr.NotFound("listing not found")
		}

		snapshot, err := s.repo.ActiveSnapshot(ctx)
		if err != nil {
			s.log.DatabaseError("listings.similar", err)
			return transport.SimilarResponse{}, apperr.Wrap(apperr.KindInternal, "similar listings unavailable", err)
		}

		ranked := search.Rank(ref, snapshot, s.ranker)
		return transport.SimilarResponse{Items: transport.ToSummaries(ranked)}, nil
	})
}

// GetByID returns one active listing for the public detail view.
func (s *Service) GetByID(ctx context.Context, listingID uuid.UUID) (domain.Listing, error) {
	key := cache.DetailKey(listingID)
	return cache.GetOrCompute(ctx, s.cache, cache.CategoryDetail, key, func(ctx context.Context) (domain.Listing, error) {
		listing, err := s.repo.GetByID(ctx, listingID)
		if err != nil {
			return domain.Listing{}, err
		}
		if !listing.IsActive {
			return domain.Listing{}, apperr.NotFound("listing not found")
		}
		return listing, nil
	})
}

// Makes returns the distinct makes of the active inventory.
func (s *Service) Makes(ctx context.Context) (transport.MakesResponse, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.CategoryAggregate, cache.MakesKey(), func(ctx context.Context) (transport.MakesResponse, error) {
		makes, err := s.repo.DistinctMakes(ctx)
		if err != nil {
			s.log.DatabaseError("listings.makes", err)
			return transport.MakesResponse{}, apperr.Wrap(apperr.KindInternal, "makes unavailable", err)
		}
		return transport.MakesResponse{Makes: makes}, nil
	})
}

// Stats returns marketplace aggregates for the active inventory.
func (s *Service) Stats(ctx context.Context) (repository.MarketStats, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.CategoryAggregate, cache.StatsKey(), func(ctx context.Context) (repository.MarketStats, error) {
		stats, err := s.repo.Stats(ctx)
		if err != nil {
			s.log.DatabaseError("listings.stats", err)
			return repository.MarketStats{}, apperr.Wrap(apperr.KindInternal, "stats unavailable", err)
		}
		return stats, nil
	})
}

// DealerListings returns all listings owned by the dealer, bypassing the
// cache so dealers always see their own writes.
func (s *Service) DealerListings(ctx context.Context, dealerID uuid.UUID) ([]domain.Listing, error) {
	return s.repo.ListByDealer(ctx, dealerID)
}

// Create publishes a new listing for the dealer.
func (s *Service) Create(ctx context.Context, dealerID uuid.UUID, req transport.CreateListingRequest) (domain.Listing, error) {
	listing, err := s.repo.Create(ctx, repository.CreateListingParams{
		DealerID:     dealerID,
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
		PriceCents:   req.PriceCents,
		Mileage:      req.Mileage,
		FuelType:     strings.ToLower(req.FuelType),
		Transmission: strings.ToLower(req.Transmission),
		BodyType:     strings.ToLower(req.BodyType),
		Condition:    strings.ToLower(req.Condition),
		Features:     req.Features,
		Description:  req.Description,
	})
	if err != nil {
		return domain.Listing{}, err
	}

	s.bus.Publish(ctx, events.ListingCreated{
		BaseEvent: events.NewBaseEvent(),
		ListingID: listing.ID,
		DealerID:  listing.DealerID,
		Make:      listing.Make,
	})
	return listing, nil
}

// Update applies a partial update scoped to the owning dealer.
func (s *Service) Update(ctx context.Context, dealerID, listingID uuid.UUID, req transport.UpdateListingRequest) (domain.Listing, error) {
	var condition *string
	if req.Condition != nil {
		lowered := strings.ToLower(*req.Condition)
		condition = &lowered
	}

	listing, err := s.repo.Update(ctx, repository.UpdateListingParams{
		ID:          listingID,
		DealerID:    dealerID,
		PriceCents:  req.PriceCents,
		Mileage:     req.Mileage,
		Condition:   condition,
		Features:    req.Features,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return domain.Listing{}, err
	}

	s.bus.Publish(ctx, events.ListingUpdated{
		BaseEvent: events.NewBaseEvent(),
		ListingID: listing.ID,
		DealerID:  listing.DealerID,
		Make:      listing.Make,
	})
	return listing, nil
}

// Delete removes a listing scoped to the owning dealer.
func (s *Service) Delete(ctx context.Context, dealerID, listingID uuid.UUID) error {
	listing, err := s.repo.Delete(ctx, dealerID, listingID)
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.ListingDeleted{
		BaseEvent: events.NewBaseEvent(),
		ListingID: listing.ID,
		DealerID:  listing.DealerID,
		Make:      listing.Make,
	})
	return nil
}

// ExpireStale deactivates active listings created before now-age and reports
// how many were affected. Used by the background sweep.
func (s *Service) ExpireStale(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	affected, err := s.repo.DeactivateOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(affected) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(affected))
	for _, l := range affected {
		ids = append(ids, l.ID)
	}
	s.bus.Publish(ctx, events.ListingsExpired{
		BaseEvent:  events.NewBaseEvent(),
		ListingIDs: ids,
	})
	return len(affected), nil
}

func pageCount(total, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
