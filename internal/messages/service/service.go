package service

import (
	"context"
	"strings"

	"carmarket_backend/internal/events"
	"carmarket_backend/internal/messages/repository"
	"carmarket_backend/internal/messages/transport"
	"carmarket_backend/platform/apperr"
	"carmarket_backend/platform/logger"

	"github.com/google/uuid"
)

// Service implements listing-scoped messaging between buyers and dealers.
type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates the messages service.
func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Send delivers a message in a listing's conversation. Buyers always message
// the listing's dealer; the dealer replies to an explicit recipient.
func (s *Service) Send(ctx context.Context, senderID uuid.UUID, req transport.SendMessageRequest) (transport.MessageView, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return transport.MessageView{}, apperr.Validation("message body is empty")
	}

	dealerID, err := s.repo.ListingDealer(ctx, req.ListingID)
	if err != nil {
		return transport.MessageView{}, err
	}

	recipientID := dealerID
	if senderID == dealerID {
		if req.RecipientID == nil || *req.RecipientID == senderID {
			return transport.MessageView{}, apperr.Validation("a reply requires a recipient")
		}
		recipientID = *req.RecipientID
	}

	msg, err := s.repo.Create(ctx, req.ListingID, senderID, recipientID, body)
	if err != nil {
		return transport.MessageView{}, err
	}

	s.bus.Publish(ctx, events.MessageSent{
		BaseEvent:   events.NewBaseEvent(),
		MessageID:   msg.ID,
		ListingID:   msg.ListingID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
	})
	return transport.ToView(msg), nil
}

// Conversation returns a listing's messages visible to the participant.
func (s *Service) Conversation(ctx context.Context, userID, listingID uuid.UUID) ([]transport.MessageView, error) {
	messages, err := s.repo.ListForParticipant(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	return transport.ToViews(messages), nil
}

// Inbox returns the user's received messages with an unread counter.
func (s *Service) Inbox(ctx context.Context, userID uuid.UUID) (transport.InboxResponse, error) {
	messages, err := s.repo.Inbox(ctx, userID)
	if err != nil {
		return transport.InboxResponse{}, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return transport.InboxResponse{}, err
	}
	return transport.InboxResponse{
		Items:       transport.ToViews(messages),
		UnreadCount: unread,
	}, nil
}

// MarkRead marks a received message as read.
func (s *Service) MarkRead(ctx context.Context, userID, messageID uuid.UUID) error {
	return s.repo.MarkRead(ctx, messageID, userID)
}
