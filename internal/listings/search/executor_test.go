package search

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"carmarket_backend/internal/listings/domain"

	"github.com/google/uuid"
)

func seededSnapshot() []domain.Listing {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshot := make([]domain.Listing, 0, 30)

	for i := 0; i < 25; i++ {
		snapshot = append(snapshot, domain.Listing{
			ID:           uuid.New(),
			DealerID:     uuid.New(),
			Make:         "Toyota",
			Model:        fmt.Sprintf("Corolla %d", i),
			Year:         2015 + i%8,
			PriceCents:   100_000 + int64(i)*40_000,
			Mileage:      10_000 * (i + 1),
			FuelType:     "petrol",
			Transmission: "manual",
			BodyType:     "sedan",
			Condition:    "used",
			IsActive:     true,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	for i := 0; i < 5; i++ {
		snapshot = append(snapshot, domain.Listing{
			ID:         uuid.New(),
			DealerID:   uuid.New(),
			Make:       "Mazda",
			Model:      "3",
			Year:       2018,
			PriceCents: 1_500_000,
			IsActive:   true,
			CreatedAt:  base,
		})
	}
	return snapshot
}

func TestExecuteSeededMakeAndPriceScenario(t *testing.T) {
	// 25 Toyotas, 5 wrong-make listings; all Toyotas priced inside the band.
	snapshot := seededSnapshot()
	for i := range snapshot {
		if snapshot[i].Make == "Toyota" {
			snapshot[i].PriceCents = 1_000_000 + int64(i)*40_000 // 10000..19600 euro in cents
		}
	}

	minPrice, maxPrice := int64(1_000_000), int64(2_000_000)
	criteria := domain.FilterCriteria{
		Makes:         []string{"Toyota"},
		MinPriceCents: &minPrice,
		MaxPriceCents: &maxPrice,
		Page:          0,
		PageSize:      10,
		Sort:          domain.SortNewest,
	}

	page, total := Execute(snapshot, criteria)
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if len(page) != 10 {
		t.Fatalf("expected 10 results on the first page, got %d", len(page))
	}
	for _, l := range page {
		if !strings.EqualFold(l.Make, "Toyota") {
			t.Fatalf("unexpected make in results: %q", l.Make)
		}
	}
}

func TestExecuteSkipsInactiveListings(t *testing.T) {
	snapshot := seededSnapshot()
	snapshot[0].IsActive = false

	_, total := Execute(snapshot, domain.FilterCriteria{
		Makes: []string{"Toyota"}, Page: 0, PageSize: 100, Sort: domain.SortNewest,
	})
	if total != 24 {
		t.Fatalf("expected inactive listing excluded, total %d", total)
	}
}

func TestExecutePastEndPageReturnsEmptyWithTrueTotal(t *testing.T) {
	snapshot := seededSnapshot()

	page, total := Execute(snapshot, domain.FilterCriteria{
		Makes: []string{"Toyota"}, Page: 10, PageSize: 10, Sort: domain.SortNewest,
	})
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %d items", len(page))
	}
}

func TestExecuteHugePageIndexDoesNotOverflow(t *testing.T) {
	snapshot := seededSnapshot()

	for _, page := range []int{math.MaxInt / 2, math.MaxInt / 100, math.MaxInt} {
		result, total := Execute(snapshot, domain.FilterCriteria{
			Page: page, PageSize: 100, Sort: domain.SortNewest,
		})
		if total != 30 {
			t.Fatalf("page %d: expected total 30, got %d", page, total)
		}
		if len(result) != 0 {
			t.Fatalf("page %d: expected empty page, got %d items", page, len(result))
		}
	}
}

func TestExecutePagesAreDisjointAndCoverAllMatches(t *testing.T) {
	snapshot := seededSnapshot()
	seen := make(map[uuid.UUID]bool)

	for pageNum := 0; ; pageNum++ {
		page, total := Execute(snapshot, domain.FilterCriteria{
			Makes: []string{"Toyota"}, Page: pageNum, PageSize: 7, Sort: domain.SortPriceAsc,
		})
		if len(page) == 0 {
			if total != 25 {
				t.Fatalf("expected stable total 25, got %d", total)
			}
			break
		}
		for _, l := range page {
			if seen[l.ID] {
				t.Fatalf("listing %s appeared on two pages", l.ID)
			}
			seen[l.ID] = true
		}
	}
	if len(seen) != 25 {
		t.Fatalf("pagination covered %d listings, want 25", len(seen))
	}
}

func TestExecuteSortOrders(t *testing.T) {
	snapshot := seededSnapshot()

	page, _ := Execute(snapshot, domain.FilterCriteria{
		Makes: []string{"Toyota"}, Page: 0, PageSize: 100, Sort: domain.SortPriceAsc,
	})
	for i := 1; i < len(page); i++ {
		if page[i-1].PriceCents > page[i].PriceCents {
			t.Fatalf("price_asc violated at index %d", i)
		}
	}

	page, _ = Execute(snapshot, domain.FilterCriteria{
		Makes: []string{"Toyota"}, Page: 0, PageSize: 100, Sort: domain.SortYearDesc,
	})
	for i := 1; i < len(page); i++ {
		if page[i-1].Year < page[i].Year {
			t.Fatalf("year_desc violated at index %d", i)
		}
	}

	page, _ = Execute(snapshot, domain.FilterCriteria{
		Makes: []string{"Toyota"}, Page: 0, PageSize: 100, Sort: domain.SortNewest,
	})
	for i := 1; i < len(page); i++ {
		if page[i-1].CreatedAt.Before(page[i].CreatedAt) {
			t.Fatalf("newest sort violated at index %d", i)
		}
	}
}

func TestExecuteOrderIndependentOfSnapshotOrder(t *testing.T) {
	snapshot := seededSnapshot()
	reversed := make([]domain.Listing, len(snapshot))
	for i, l := range snapshot {
		reversed[len(snapshot)-1-i] = l
	}

	criteria := domain.FilterCriteria{Page: 0, PageSize: 100, Sort: domain.SortPriceAsc}
	a, _ := Execute(snapshot, criteria)
	b, _ := Execute(reversed, criteria)

	if len(a) != len(b) {
		t.Fatalf("result lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("result order depends on snapshot order at index %d", i)
		}
	}
}
