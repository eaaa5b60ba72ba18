package transport

import (
	"time"

	"carmarket_backend/internal/messages/repository"

	"github.com/google/uuid"
)

// SendMessageRequest starts or continues a listing conversation. RecipientID
// is only honored for the listing's dealer replying to a buyer; for everyone
// else the recipient is always the dealer.
type SendMessageRequest struct {
	ListingID   uuid.UUID  `json:"listingId" binding:"required"`
	Body        string     `json:"body" binding:"required" validate:"required,min=1,max=4000"`
	RecipientID *uuid.UUID `json:"recipientId,omitempty"`
}

// MessageView is a single message in a conversation.
type MessageView struct {
	ID          uuid.UUID  `json:"id"`
	ListingID   uuid.UUID  `json:"listingId"`
	SenderID    uuid.UUID  `json:"senderId"`
	RecipientID uuid.UUID  `json:"recipientId"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"createdAt"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
}

// InboxResponse is the dealer's received-message view.
type InboxResponse struct {
	Items       []MessageView `json:"items"`
	UnreadCount int           `json:"unreadCount"`
}

// ToView converts a repository message into its transport shape.
func ToView(m repository.Message) MessageView {
	return MessageView{
		ID:          m.ID,
		ListingID:   m.ListingID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
		ReadAt:      m.ReadAt,
	}
}

// ToViews converts a slice of repository messages.
func ToViews(items []repository.Message) []MessageView {
	views := make([]MessageView, 0, len(items))
	for _, item := range items {
		views = append(views, ToView(item))
	}
	return views
}
