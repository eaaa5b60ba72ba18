package transport

import (
	"time"

	"carmarket_backend/internal/dealers/repository"

	"github.com/google/uuid"
)

// UpsertDealerRequest creates or replaces the caller's dealer profile.
type UpsertDealerRequest struct {
	Name    string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Company string `json:"company" validate:"max=150"`
	Phone   string `json:"phone" binding:"required" validate:"required,min=6,max=20"`
	City    string `json:"city" validate:"max=100"`
}

// DealerProfile is the public view of a dealer.
type DealerProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToProfile converts a repository dealer into its transport shape.
func ToProfile(d repository.Dealer) DealerProfile {
	return DealerProfile{
		ID:        d.ID,
		Name:      d.Name,
		Company:   d.Company,
		Phone:     d.Phone,
		City:      d.City,
		CreatedAt: d.CreatedAt,
	}
}
