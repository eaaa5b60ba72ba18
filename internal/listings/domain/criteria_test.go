package domain

import (
	"testing"

	"carmarket_backend/platform/apperr"
)

func TestNormalizeFillsPaginationDefaults(t *testing.T) {
	c := FilterCriteria{}
	c.Normalize()

	if c.PageSize != DefaultPageSize {
		t.Fatalf("expected default page size %d, got %d", DefaultPageSize, c.PageSize)
	}
	if c.Sort != SortNewest {
		t.Fatalf("expected newest sort default, got %q", c.Sort)
	}
}

func TestNormalizeCapsPageSize(t *testing.T) {
	c := FilterCriteria{PageSize: 5000}
	c.Normalize()

	if c.PageSize != MaxPageSize {
		t.Fatalf("expected page size capped at %d, got %d", MaxPageSize, c.PageSize)
	}
}

func TestValidateRejectsNegativePage(t *testing.T) {
	c := FilterCriteria{Page: -1, PageSize: 20}
	err := c.Validate()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsInvertedPriceRange(t *testing.T) {
	min, max := int64(300000), int64(100000)
	c := FilterCriteria{PageSize: 20, MinPriceCents: &min, MaxPriceCents: &max}
	err := c.Validate()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for inverted price range, got %v", err)
	}
}

func TestValidateRejectsInvertedYearRange(t *testing.T) {
	minYear, maxYear := 2020, 2010
	c := FilterCriteria{PageSize: 20, MinYear: &minYear, MaxYear: &maxYear}
	err := c.Validate()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for inverted year range, got %v", err)
	}
}

func TestValidateAcceptsEqualRangeBounds(t *testing.T) {
	price := int64(150000)
	year := 2018
	c := FilterCriteria{PageSize: 20, MinPriceCents: &price, MaxPriceCents: &price, MinYear: &year, MaxYear: &year}
	if err := c.Validate(); err != nil {
		t.Fatalf("equal bounds should be valid, got %v", err)
	}
}

func TestParseSortKeyFallsBackToNewest(t *testing.T) {
	if got := ParseSortKey("by_horsepower"); got != SortNewest {
		t.Fatalf("expected fallback to newest, got %q", got)
	}
	if got := ParseSortKey("price_asc"); got != SortPriceAsc {
		t.Fatalf("expected price_asc to round-trip, got %q", got)
	}
}

func TestParseCategorySkipsUnknownValues(t *testing.T) {
	if _, ok := ParseCategory(FuelTypes, "warp-core"); ok {
		t.Fatal("unknown fuel type must not parse")
	}
	value, ok := ParseCategory(FuelTypes, "  DIESEL ")
	if !ok || value != "diesel" {
		t.Fatalf("expected diesel to parse case-insensitively, got %q ok=%v", value, ok)
	}
}

func TestHasFeatureIsCaseInsensitive(t *testing.T) {
	l := Listing{Features: []string{"Sunroof", "Navigation"}}
	if !l.HasFeature("sunroof") {
		t.Fatal("expected sunroof feature match")
	}
	if l.HasFeature("towbar") {
		t.Fatal("towbar should not match")
	}
}
