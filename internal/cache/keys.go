package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"carmarket_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// Canonical key encoding. Two logically identical requests must hash to the
// same key, so set-valued fields are lowercased and sorted before encoding
// and every field slot is always present.

// SearchKey derives the cache key for a listing search request.
func SearchKey(criteria domain.FilterCriteria) string {
	var b strings.Builder
	b.WriteString("search|")
	b.WriteString("makes=" + canonicalSet(criteria.Makes) + "|")
	b.WriteString("minPrice=" + canonicalInt64Ptr(criteria.MinPriceCents) + "|")
	b.WriteString("maxPrice=" + canonicalInt64Ptr(criteria.MaxPriceCents) + "|")
	b.WriteString("minYear=" + canonicalIntPtr(criteria.MinYear) + "|")
	b.WriteString("maxYear=" + canonicalIntPtr(criteria.MaxYear) + "|")
	b.WriteString("maxMileage=" + canonicalIntPtr(criteria.MaxMileage) + "|")
	b.WriteString("fuel=" + strings.ToLower(strings.TrimSpace(criteria.FuelType)) + "|")
	b.WriteString("transmission=" + strings.ToLower(strings.TrimSpace(criteria.Transmission)) + "|")
	b.WriteString("body=" + strings.ToLower(strings.TrimSpace(criteria.BodyType)) + "|")
	b.WriteString("condition=" + strings.ToLower(strings.TrimSpace(criteria.Condition)) + "|")
	b.WriteString("q=" + strings.ToLower(strings.TrimSpace(criteria.Query)) + "|")
	b.WriteString("features=" + canonicalSet(criteria.Features) + "|")
	b.WriteString(fmt.Sprintf("page=%d|size=%d|sort=%s", criteria.Page, criteria.PageSize, criteria.Sort))
	return digest(b.String())
}

// SimilarKey derives the cache key for a similar-listings request. The
// ranker tuning participates so a config change never serves stale windows.
func SimilarKey(listingID uuid.UUID, maxResults, yearWindow, priceBandPct int) string {
	return digest(fmt.Sprintf("similar|%s|max=%d|years=%d|band=%d", listingID, maxResults, yearWindow, priceBandPct))
}

// DetailKey derives the cache key for a single listing view.
func DetailKey(listingID uuid.UUID) string {
	return digest("listing|" + listingID.String())
}

// DealerKey derives the cache key for a public dealer profile.
func DealerKey(dealerID uuid.UUID) string {
	return digest("dealer|" + dealerID.String())
}

// MakesKey is the cache key for the distinct-makes aggregate.
func MakesKey() string {
	return digest("makes")
}

// StatsKey is the cache key for the marketplace stats aggregate.
func StatsKey() string {
	return digest("stats")
}

func canonicalSet(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, ",")
}

func canonicalInt64Ptr(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func canonicalIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func digest(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
