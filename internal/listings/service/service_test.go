package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/events"
	"carmarket_backend/internal/listings/domain"
	"carmarket_backend/internal/listings/repository"
	"carmarket_backend/internal/listings/search"
	"carmarket_backend/internal/listings/transport"
	"carmarket_backend/platform/apperr"
	"carmarket_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fakeRepo serves a fixed in-memory inventory and counts snapshot loads.
type fakeRepo struct {
	listings      []domain.Listing
	snapshotCalls int
	snapshotErr   error
}

func (f *fakeRepo) ActiveSnapshot(context.Context) ([]domain.Listing, error) {
	f.snapshotCalls++
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	active := make([]domain.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		if l.IsActive {
			active = append(active, l)
		}
	}
	return active, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Listing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, apperr.NotFound("listing not found")
}

func (f *fakeRepo) DistinctMakes(context.Context) ([]string, error) {
	return []string{"honda", "toyota"}, nil
}

func (f *fakeRepo) Stats(context.Context) (repository.MarketStats, error) {
	return repository.MarketStats{TotalActive: len(f.listings)}, nil
}

func (f *fakeRepo) ListByDealer(_ context.Context, dealerID uuid.UUID) ([]domain.Listing, error) {
	owned := make([]domain.Listing, 0)
	for _, l := range f.listings {
		if l.DealerID == dealerID {
			owned = append(owned, l)
		}
	}
	return owned, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateListingParams) (domain.Listing, error) {
	l := domain.Listing{
		ID:       uuid.New(),
		DealerID: params.DealerID,
		Make:     params.Make,
		Model:    params.Model,
		IsActive: true,
	}
	f.listings = append(f.listings, l)
	return l, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateListingParams) (domain.Listing, error) {
	for i, l := range f.listings {
		if l.ID == params.ID && l.DealerID == params.DealerID {
			if params.IsActive != nil {
				f.listings[i].IsActive = *params.IsActive
			}
			return f.listings[i], nil
		}
	}
	return domain.Listing{}, apperr.NotFound("listing not found")
}

func (f *fakeRepo) Delete(_ context.Context, dealerID, id uuid.UUID) (domain.Listing, error) {
	for i, l := range f.listings {
		if l.ID == id && l.DealerID == dealerID {
			f.listings = append(f.listings[:i], f.listings[i+1:]...)
			return l, nil
		}
	}
	return domain.Listing{}, apperr.NotFound("listing not found")
}

func (f *fakeRepo) DeactivateOlderThan(_ context.Context, cutoff time.Time) ([]domain.Listing, error) {
	expired := make([]domain.Listing, 0)
	for i, l := range f.listings {
		if l.IsActive && l.CreatedAt.Before(cutoff) {
			f.listings[i].IsActive = false
			expired = append(expired, f.listings[i])
		}
	}
	return expired, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func newServiceUnderTest(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ttls := map[cache.Category]time.Duration{
		cache.CategorySearch:    time.Minute,
		cache.CategoryDetail:    5 * time.Minute,
		cache.CategoryAggregate: time.Hour,
	}
	log := logger.New("test")
	resultCache := cache.NewWithClient(rdb, ttls, log)

	return New(repo, resultCache, events.NewInMemoryBus(log), search.DefaultRankerConfig(), log)
}

func inventoryListing(make, model string, year int, priceCents int64, createdAt time.Time) domain.Listing {
	return domain.Listing{
		ID:           uuid.New(),
		DealerID:     uuid.New(),
		Make:         make,
		Model:        model,
		Year:         year,
		PriceCents:   priceCents,
		FuelType:     "petrol",
		Transmission: "manual",
		BodyType:     "sedan",
		Condition:    "used",
		IsActive:     true,
		CreatedAt:    createdAt,
	}
}

func TestSearchCachesRepeatedQueries(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{listings: []domain.Listing{
		inventoryListing("Toyota", "Corolla", 2019, 1_500_000, now),
		inventoryListing("Honda", "Civic", 2018, 1_400_000, now),
	}}
	svc := newServiceUnderTest(t, repo)

	criteria := domain.FilterCriteria{Makes: []string{"toyota"}, Page: 0, PageSize: 20, Sort: domain.SortNewest}
	for i := 0; i < 3; i++ {
		resp, err := svc.Search(context.Background(), criteria)
		if err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
		if resp.Total != 1 || len(resp.Items) != 1 {
			t.Fatalf("search %d: unexpected result %+v", i, resp)
		}
	}

	if repo.snapshotCalls != 1 {
		t.Fatalf("expected one snapshot load for repeated identical queries, got %d", repo.snapshotCalls)
	}
}

func TestSearchRejectsInvalidCriteriaWithoutTouchingRepo(t *testing.T) {
	repo := &fakeRepo{}
	svc := newServiceUnderTest(t, repo)

	_, err := svc.Search(context.Background(), domain.FilterCriteria{Page: -1, PageSize: 20})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.snapshotCalls != 0 {
		t.Fatal("invalid criteria must not reach the repository")
	}
}

func TestSearchSurfacesRepositoryFailure(t *testing.T) {
	repo := &fakeRepo{snapshotErr: errors.New("connection refused")}
	svc := newServiceUnderTest(t, repo)

	_, err := svc.Search(context.Background(), domain.FilterCriteria{Page: 0, PageSize: 20, Sort: domain.SortNewest})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestSimilarRanksAgainstTheSnapshot(t *testing.T) {
	now := time.Now()
	ref := inventoryListing("Honda", "Civic", 2018, 1_500_000, now)
	civic2019 := inventoryListing("Honda", "Civic", 2019, 1_550_000, now)
	accord := inventoryListing("Honda", "Accord", 2017, 1_400_000, now)
	outOfBand := inventoryListing("Honda", "Civic", 2018, 5_000_000, now)

	repo := &fakeRepo{listings: []domain.Listing{ref, civic2019, accord, outOfBand}}
	svc := newServiceUnderTest(t, repo)

	resp, err := svc.Similar(context.Background(), ref.ID)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 similar listings, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != civic2019.ID {
		t.Fatalf("expected the model match first, got %s", resp.Items[0].Model)
	}
	if resp.Items[1].ID != accord.ID {
		t.Fatalf("expected the accord second, got %s", resp.Items[1].Model)
	}
}

func TestSimilarForUnknownListingIsNotFound(t *testing.T) {
	svc := newServiceUnderTest(t, &fakeRepo{})

	_, err := svc.Similar(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByIDHidesInactiveListings(t *testing.T) {
	now := time.Now()
	hidden := inventoryListing("Honda", "Civic", 2018, 1_500_000, now)
	hidden.IsActive = false

	svc := newServiceUnderTest(t, &fakeRepo{listings: []domain.Listing{hidden}})

	_, err := svc.GetByID(context.Background(), hidden.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("inactive listing must read as not found, got %v", err)
	}
}

func TestExpireStaleDeactivatesOnlyOldListings(t *testing.T) {
	now := time.Now()
	old := inventoryListing("Honda", "Civic", 2015, 1_000_000, now.Add(-100*24*time.Hour))
	fresh := inventoryListing("Honda", "Civic", 2022, 2_000_000, now.Add(-24*time.Hour))

	repo := &fakeRepo{listings: []domain.Listing{old, fresh}}
	svc := newServiceUnderTest(t, repo)

	expired, err := svc.ExpireStale(context.Background(), 90*24*time.Hour)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected one expired listing, got %d", expired)
	}

	if repo.listings[0].IsActive {
		t.Fatal("old listing should be inactive")
	}
	if !repo.listings[1].IsActive {
		t.Fatal("fresh listing should stay active")
	}
}

func TestCreatePublishesChangeEventThatInvalidatesSearchCache(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{listings: []domain.Listing{
		inventoryListing("Toyota", "Corolla", 2019, 1_500_000, now),
	}}
	svc := newServiceUnderTest(t, repo)

	// Route listing events straight into the cache subscriber, as main does.
	bus := events.NewInMemoryBus(logger.New("test"))
	svc.cache.RegisterHandlers(bus)
	svc.bus = bus

	criteria := domain.FilterCriteria{Page: 0, PageSize: 20, Sort: domain.SortNewest}
	if _, err := svc.Search(context.Background(), criteria); err != nil {
		t.Fatalf("warm search: %v", err)
	}

	if _, err := svc.Create(context.Background(), uuid.New(), transport.CreateListingRequest{
		Make: "Honda", Model: "Civic", Year: 2020, PriceCents: 1_800_000,
		FuelType: "petrol", Transmission: "manual", BodyType: "sedan", Condition: "used",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Publish is async; wait for the invalidation to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := svc.Search(context.Background(), criteria)
		if err != nil {
			t.Fatalf("reload search: %v", err)
		}
		if resp.Total == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("search cache never reflected the new listing, total %d", resp.Total)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
