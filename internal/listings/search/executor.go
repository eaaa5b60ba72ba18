package search

import (
	"sort"

	"carmarket_backend/internal/listings/domain"
)

// Execute applies the criteria's predicate conjunction, sort and pagination
// to a snapshot of active listings. The snapshot is whatever the repository
// returned for this call, so concurrent mutations never bleed into a page.
// The returned total is the match count before pagination.
func Execute(snapshot []domain.Listing, criteria domain.FilterCriteria) ([]domain.Listing, int) {
	matches := filterSnapshot(snapshot, criteria)
	sortListings(matches, criteria.Sort)

	total := len(matches)
	// Page is client supplied and unbounded above, so multiplying first
	// could overflow into a negative offset. Comparing against the last
	// page index keeps the arithmetic inside the slice length.
	if criteria.PageSize <= 0 || total == 0 || criteria.Page > (total-1)/criteria.PageSize {
		return []domain.Listing{}, total
	}
	start := criteria.Page * criteria.PageSize
	end := start + criteria.PageSize
	if end > total {
		end = total
	}
	return matches[start:end], total
}

func filterSnapshot(snapshot []domain.Listing, criteria domain.FilterCriteria) []domain.Listing {
	match := AllOf(BuildPredicates(criteria)...)
	matches := make([]domain.Listing, 0, len(snapshot))
	for _, l := range snapshot {
		// Active-only is implied regardless of criteria; the repository
		// snapshot contract already guarantees it, this guards callers
		// that pass a broader set.
		if !l.IsActive {
			continue
		}
		if match(l) {
			matches = append(matches, l)
		}
	}
	return matches
}

// sortListings orders matches by the requested key. Ties fall back to
// creation time (newest first) and finally listing ID so the order never
// depends on snapshot iteration order.
func sortListings(items []domain.Listing, key domain.SortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case domain.SortPriceAsc:
			if a.PriceCents != b.PriceCents {
				return a.PriceCents < b.PriceCents
			}
		case domain.SortPriceDesc:
			if a.PriceCents != b.PriceCents {
				return a.PriceCents > b.PriceCents
			}
		case domain.SortMileageAsc:
			if a.Mileage != b.Mileage {
				return a.Mileage < b.Mileage
			}
		case domain.SortYearDesc:
			if a.Year != b.Year {
				return a.Year > b.Year
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}
