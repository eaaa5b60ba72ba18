package transport

import (
	"testing"

	"carmarket_backend/internal/listings/domain"
)

func TestToCriteriaSplitsCSVFieldsAndNormalizes(t *testing.T) {
	req := SearchRequest{
		Makes:    " Toyota, Honda ,,",
		Features: "sunroof, navigation",
		Sort:     "price_asc",
	}

	criteria := req.ToCriteria()

	if len(criteria.Makes) != 2 || criteria.Makes[0] != "Toyota" || criteria.Makes[1] != "Honda" {
		t.Fatalf("unexpected makes %v", criteria.Makes)
	}
	if len(criteria.Features) != 2 {
		t.Fatalf("unexpected features %v", criteria.Features)
	}
	if criteria.PageSize != domain.DefaultPageSize {
		t.Fatalf("expected normalized page size, got %d", criteria.PageSize)
	}
	if criteria.Sort != domain.SortPriceAsc {
		t.Fatalf("unexpected sort %q", criteria.Sort)
	}
}

func TestToCriteriaUnknownSortFallsBackToNewest(t *testing.T) {
	criteria := SearchRequest{Sort: "cheapest_first"}.ToCriteria()
	if criteria.Sort != domain.SortNewest {
		t.Fatalf("expected newest fallback, got %q", criteria.Sort)
	}
}

func TestToCriteriaEmptyCSVYieldsNilSlices(t *testing.T) {
	criteria := SearchRequest{}.ToCriteria()
	if criteria.Makes != nil {
		t.Fatalf("expected nil makes, got %v", criteria.Makes)
	}
	if criteria.Features != nil {
		t.Fatalf("expected nil features, got %v", criteria.Features)
	}
}
