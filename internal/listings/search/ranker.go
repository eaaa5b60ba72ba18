package search

import (
	"sort"
	"strings"

	"carmarket_backend/internal/listings/domain"
)

// RankerConfig bounds the similarity candidate window.
type RankerConfig struct {
	MaxResults   int
	YearWindow   int
	PriceBandPct int
}

// DefaultRankerConfig matches the production tuning: up to 6 results, same
// make within 5 model years and half the reference price either way.
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{MaxResults: 6, YearWindow: 5, PriceBandPct: 50}
}

// Rank orders candidates by similarity to the reference listing and truncates
// to the configured maximum.
//
// Candidate admission: same make (case-insensitive), year within the window,
// price within the percentage band, active, and not the reference itself.
//
// Ordering is a composite ascending key: exact-model matches before all
// others, then absolute year distance, then absolute price distance. A final
// ID tie-break keeps the order independent of input order.
func Rank(ref domain.Listing, candidates []domain.Listing, cfg RankerConfig) []domain.Listing {
	priceBand := ref.PriceCents * int64(cfg.PriceBandPct) / 100

	admitted := make([]domain.Listing, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == ref.ID || !c.IsActive {
			continue
		}
		if !strings.EqualFold(c.Make, ref.Make) {
			continue
		}
		if absInt(c.Year-ref.Year) > cfg.YearWindow {
			continue
		}
		if absInt64(c.PriceCents-ref.PriceCents) > priceBand {
			continue
		}
		admitted = append(admitted, c)
	}

	sort.Slice(admitted, func(i, j int) bool {
		a, b := admitted[i], admitted[j]

		aModel := strings.EqualFold(a.Model, ref.Model)
		bModel := strings.EqualFold(b.Model, ref.Model)
		if aModel != bModel {
			return aModel
		}

		aYear := absInt(a.Year - ref.Year)
		bYear := absInt(b.Year - ref.Year)
		if aYear != bYear {
			return aYear < bYear
		}

		aPrice := absInt64(a.PriceCents - ref.PriceCents)
		bPrice := absInt64(b.PriceCents - ref.PriceCents)
		if aPrice != bPrice {
			return aPrice < bPrice
		}

		return a.ID.String() < b.ID.String()
	})

	if len(admitted) > cfg.MaxResults {
		admitted = admitted[:cfg.MaxResults]
	}
	return admitted
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
