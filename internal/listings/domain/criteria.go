package domain

import (
	"carmarket_backend/platform/apperr"
)

// SortKey enumerates the supported result orderings.
type SortKey string

const (
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortNewest     SortKey = "newest"
	SortMileageAsc SortKey = "mileage_asc"
	SortYearDesc   SortKey = "year_desc"
)

// ParseSortKey maps a raw sort string to a SortKey. Unknown values fall back
// to SortNewest, mirroring the skip-on-unparseable policy of the categorical
// filters.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortMileageAsc, SortYearDesc:
		return SortKey(raw)
	default:
		return SortNewest
	}
}

const (
	// DefaultPageSize is used when the request omits a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 100
)

// FilterCriteria is a sparse set of optional listing constraints plus
// pagination and sort. Absent fields impose no constraint.
type FilterCriteria struct {
	Makes         []string
	MinPriceCents *int64
	MaxPriceCents *int64
	MinYear       *int
	MaxYear       *int
	MaxMileage    *int
	FuelType      string
	Transmission  string
	BodyType      string
	Condition     string
	Query         string
	Features      []string
	Page          int
	PageSize      int
	Sort          SortKey
}

// Normalize fills pagination/sort defaults. It does not repair invalid
// ranges; those are validation errors.
func (c *FilterCriteria) Normalize() {
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	if c.Sort == "" {
		c.Sort = SortNewest
	}
}

// Validate checks structural invariants. Inverted ranges are client errors,
// never silently corrected.
func (c FilterCriteria) Validate() error {
	if c.Page < 0 {
		return apperr.Validation("page must not be negative")
	}
	if c.PageSize < 1 {
		return apperr.Validation("page size must be at least 1")
	}
	if c.MinPriceCents != nil && c.MaxPriceCents != nil && *c.MinPriceCents > *c.MaxPriceCents {
		return apperr.Validation("minimum price exceeds maximum price")
	}
	if c.MinYear != nil && c.MaxYear != nil && *c.MinYear > *c.MaxYear {
		return apperr.Validation("minimum year exceeds maximum year")
	}
	return nil
}
