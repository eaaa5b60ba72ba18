// Package search implements the in-process listing search layer: predicate
// composition, query execution over a consistent snapshot, and similarity
// ranking.
package search

import (
	"strings"

	"carmarket_backend/internal/listings/domain"
)

// Predicate reports whether a listing satisfies one filter constraint.
type Predicate func(domain.Listing) bool

// AllOf combines predicates into a single conjunction. An empty predicate
// list matches everything.
func AllOf(preds ...Predicate) Predicate {
	return func(l domain.Listing) bool {
		for _, p := range preds {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

// BuildPredicates translates sparse filter criteria into one predicate per
// supplied constraint. Every comparison is case-insensitive. A categorical
// value outside its vocabulary contributes no predicate: the filter is
// skipped, not rejected.
func BuildPredicates(criteria domain.FilterCriteria) []Predicate {
	preds := make([]Predicate, 0, 8)

	if len(criteria.Makes) > 0 {
		makes := lowerAll(criteria.Makes)
		preds = append(preds, func(l domain.Listing) bool {
			candidate := strings.ToLower(l.Make)
			for _, m := range makes {
				if candidate == m {
					return true
				}
			}
			return false
		})
	}

	if criteria.MinPriceCents != nil {
		min := *criteria.MinPriceCents
		preds = append(preds, func(l domain.Listing) bool { return l.PriceCents >= min })
	}
	if criteria.MaxPriceCents != nil {
		max := *criteria.MaxPriceCents
		preds = append(preds, func(l domain.Listing) bool { return l.PriceCents <= max })
	}

	if criteria.MinYear != nil {
		min := *criteria.MinYear
		preds = append(preds, func(l domain.Listing) bool { return l.Year >= min })
	}
	if criteria.MaxYear != nil {
		max := *criteria.MaxYear
		preds = append(preds, func(l domain.Listing) bool { return l.Year <= max })
	}

	if criteria.MaxMileage != nil {
		max := *criteria.MaxMileage
		preds = append(preds, func(l domain.Listing) bool { return l.Mileage <= max })
	}

	if p, ok := categoryPredicate(domain.FuelTypes, criteria.FuelType, func(l domain.Listing) string { return l.FuelType }); ok {
		preds = append(preds, p)
	}
	if p, ok := categoryPredicate(domain.Transmissions, criteria.Transmission, func(l domain.Listing) string { return l.Transmission }); ok {
		preds = append(preds, p)
	}
	if p, ok := categoryPredicate(domain.BodyTypes, criteria.BodyType, func(l domain.Listing) string { return l.BodyType }); ok {
		preds = append(preds, p)
	}
	if p, ok := categoryPredicate(domain.Conditions, criteria.Condition, func(l domain.Listing) string { return l.Condition }); ok {
		preds = append(preds, p)
	}

	if query := strings.TrimSpace(criteria.Query); query != "" {
		needle := strings.ToLower(query)
		// Free text is the one OR in the filter model: a match in make,
		// model or description suffices.
		preds = append(preds, func(l domain.Listing) bool {
			return strings.Contains(strings.ToLower(l.Make), needle) ||
				strings.Contains(strings.ToLower(l.Model), needle) ||
				strings.Contains(strings.ToLower(l.Description), needle)
		})
	}

	if len(criteria.Features) > 0 {
		features := lowerAll(criteria.Features)
		preds = append(preds, func(l domain.Listing) bool {
			for _, f := range features {
				if !l.HasFeature(f) {
					return false
				}
			}
			return true
		})
	}

	return preds
}

func categoryPredicate(vocabulary []string, raw string, field func(domain.Listing) string) (Predicate, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	value, ok := domain.ParseCategory(vocabulary, raw)
	if !ok {
		// Unknown categorical value: drop the filter entirely.
		return nil, false
	}
	return func(l domain.Listing) bool {
		return strings.EqualFold(field(l), value)
	}, true
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
