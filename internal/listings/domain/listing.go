// Package domain holds the listings bounded context domain model.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listing is a single car-for-sale record. The search layer treats it as an
// immutable snapshot; mutations go through the repository and are observed
// only via change events.
type Listing struct {
	ID           uuid.UUID `json:"id"`
	DealerID     uuid.UUID `json:"dealerId"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	PriceCents   int64     `json:"priceCents"`
	Mileage      int       `json:"mileage"`
	FuelType     string    `json:"fuelType"`
	Transmission string    `json:"transmission"`
	BodyType     string    `json:"bodyType"`
	Condition    string    `json:"condition"`
	Features     []string  `json:"features"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasFeature reports whether the listing carries the named feature,
// case-insensitively.
func (l Listing) HasFeature(feature string) bool {
	for _, f := range l.Features {
		if strings.EqualFold(f, feature) {
			return true
		}
	}
	return false
}

// Categorical vocabularies. Values are stored lowercased; comparisons are
// case-insensitive everywhere.
var (
	FuelTypes     = []string{"petrol", "diesel", "hybrid", "electric", "lpg"}
	Transmissions = []string{"manual", "automatic"}
	BodyTypes     = []string{"sedan", "hatchback", "suv", "coupe", "wagon", "van", "pickup", "convertible"}
	Conditions    = []string{"new", "used", "certified"}
)

// ParseCategory normalizes a raw categorical value against a vocabulary.
// The second return is false for values outside the vocabulary; callers in
// the search layer skip the filter in that case rather than erroring.
func ParseCategory(vocabulary []string, raw string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", false
	}
	for _, v := range vocabulary {
		if v == needle {
			return v, true
		}
	}
	return "", false
}
