package transport

import (
	"strings"
	"time"

	"carmarket_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// SearchRequest carries the serialized filter fields of a search call.
// Set-valued fields arrive as comma-separated lists.
type SearchRequest struct {
	Makes        string `form:"makes"`
	MinPrice     *int64 `form:"minPrice" validate:"omitempty,min=0"`
	MaxPrice     *int64 `form:"maxPrice" validate:"omitempty,min=0"`
	MinYear      *int   `form:"minYear" validate:"omitempty,min=1900"`
	MaxYear      *int   `form:"maxYear" validate:"omitempty,min=1900"`
	MaxMileage   *int   `form:"maxMileage" validate:"omitempty,min=0"`
	Fuel         string `form:"fuel"`
	Transmission string `form:"transmission"`
	Body         string `form:"body"`
	Condition    string `form:"condition"`
	Query        string `form:"q" validate:"omitempty,max=100"`
	Features     string `form:"features"`
	Page         int    `form:"page" validate:"min=0"`
	PageSize     int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	Sort         string `form:"sort"`
}

// ToCriteria maps the wire request onto domain filter criteria.
func (r SearchRequest) ToCriteria() domain.FilterCriteria {
	criteria := domain.FilterCriteria{
		Makes:         splitCSV(r.Makes),
		MinPriceCents: r.MinPrice,
		MaxPriceCents: r.MaxPrice,
		MinYear:       r.MinYear,
		MaxYear:       r.MaxYear,
		MaxMileage:    r.MaxMileage,
		FuelType:      r.Fuel,
		Transmission:  r.Transmission,
		BodyType:      r.Body,
		Condition:     r.Condition,
		Query:         r.Query,
		Features:      splitCSV(r.Features),
		Page:          r.Page,
		PageSize:      r.PageSize,
		Sort:          domain.ParseSortKey(r.Sort),
	}
	criteria.Normalize()
	return criteria
}

// ListingSummary is the search-result projection of a listing.
type ListingSummary struct {
	ID           uuid.UUID `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	PriceCents   int64     `json:"priceCents"`
	Mileage      int       `json:"mileage"`
	FuelType     string    `json:"fuelType"`
	Transmission string    `json:"transmission"`
	BodyType     string    `json:"bodyType"`
	Condition    string    `json:"condition"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SearchResponse is a page of listing summaries plus pagination metadata.
type SearchResponse struct {
	Items      []ListingSummary `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// SimilarResponse is the ranked similar-listings payload.
type SimilarResponse struct {
	Items []ListingSummary `json:"items"`
}

// MakesResponse lists the distinct makes in the active inventory.
type MakesResponse struct {
	Makes []string `json:"makes"`
}

// CreateListingRequest carries a new listing. Categorical fields are strict
// on the write path; only the read filters skip unknown values.
type CreateListingRequest struct {
	Make         string   `json:"make" binding:"required" validate:"required,max=60"`
	Model        string   `json:"model" binding:"required" validate:"required,max=60"`
	Year         int      `json:"year" binding:"required" validate:"required,min=1900,max=2100"`
	PriceCents   int64    `json:"priceCents" binding:"required" validate:"required,min=1"`
	Mileage      int      `json:"mileage" validate:"min=0"`
	FuelType     string   `json:"fuelType" binding:"required" validate:"required,oneof=petrol diesel hybrid electric lpg"`
	Transmission string   `json:"transmission" binding:"required" validate:"required,oneof=manual automatic"`
	BodyType     string   `json:"bodyType" binding:"required" validate:"required,oneof=sedan hatchback suv coupe wagon van pickup convertible"`
	Condition    string   `json:"condition" binding:"required" validate:"required,oneof=new used certified"`
	Features     []string `json:"features" validate:"max=30,dive,max=40"`
	Description  string   `json:"description" validate:"max=4000"`
}

// UpdateListingRequest carries a partial listing update.
type UpdateListingRequest struct {
	PriceCents  *int64   `json:"priceCents" validate:"omitempty,min=1"`
	Mileage     *int     `json:"mileage" validate:"omitempty,min=0"`
	Condition   *string  `json:"condition" validate:"omitempty,oneof=new used certified"`
	Features    []string `json:"features" validate:"omitempty,max=30,dive,max=40"`
	Description *string  `json:"description" validate:"omitempty,max=4000"`
	IsActive    *bool    `json:"isActive"`
}

// ToSummary projects a listing for search results.
func ToSummary(l domain.Listing) ListingSummary {
	return ListingSummary{
		ID:           l.ID,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		PriceCents:   l.PriceCents,
		Mileage:      l.Mileage,
		FuelType:     l.FuelType,
		Transmission: l.Transmission,
		BodyType:     l.BodyType,
		Condition:    l.Condition,
		CreatedAt:    l.CreatedAt,
	}
}

// ToSummaries projects a listing slice for search results.
func ToSummaries(items []domain.Listing) []ListingSummary {
	summaries := make([]ListingSummary, 0, len(items))
	for _, l := range items {
		summaries = append(summaries, ToSummary(l))
	}
	return summaries
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
