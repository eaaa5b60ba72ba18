// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"carmarket_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Listings Domain Events
// =============================================================================

// ListingCreated is published when a dealer publishes a new listing.
type ListingCreated struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	DealerID  uuid.UUID `json:"dealerId"`
	Make      string    `json:"make"`
}

func (e ListingCreated) EventName() string { return "listings.listing.created" }

// ListingUpdated is published when any field of a listing changes,
// including activation state flips.
type ListingUpdated struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	DealerID  uuid.UUID `json:"dealerId"`
	Make      string    `json:"make"`
}

func (e ListingUpdated) EventName() string { return "listings.listing.updated" }

// ListingDeleted is published when a listing is removed.
type ListingDeleted struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	DealerID  uuid.UUID `json:"dealerId"`
	Make      string    `json:"make"`
}

func (e ListingDeleted) EventName() string { return "listings.listing.deleted" }

// ListingsExpired is published when the background sweep deactivates stale
// listings in bulk.
type ListingsExpired struct {
	BaseEvent
	ListingIDs []uuid.UUID `json:"listingIds"`
}

func (e ListingsExpired) EventName() string { return "listings.listing.expired" }

// =============================================================================
// Dealers Domain Events
// =============================================================================

// DealerRegistered is published when a user creates a dealer profile.
type DealerRegistered struct {
	BaseEvent
	DealerID uuid.UUID `json:"dealerId"`
	UserID   uuid.UUID `json:"userId"`
}

func (e DealerRegistered) EventName() string { return "dealers.dealer.registered" }

// =============================================================================
// Messages Domain Events
// =============================================================================

// MessageSent is published when a buyer or dealer sends a listing message.
type MessageSent struct {
	BaseEvent
	MessageID   uuid.UUID `json:"messageId"`
	ListingID   uuid.UUID `json:"listingId"`
	SenderID    uuid.UUID `json:"senderId"`
	RecipientID uuid.UUID `json:"recipientId"`
}

func (e MessageSent) EventName() string { return "messages.message.sent" }
