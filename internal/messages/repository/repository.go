package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carmarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageNotFoundMsg = "message not found"

// Message is a single entry in a listing-scoped conversation.
type Message struct {
	ID          uuid.UUID
	ListingID   uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Body        string
	CreatedAt   time.Time
	ReadAt      *time.Time
}

// Repository provides database operations for messages.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new messages repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListingDealer resolves the dealer that owns a listing.
func (r *Repository) ListingDealer(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error) {
	var dealerID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT dealer_id FROM listings WHERE id = $1`, listingID,
	).Scan(&dealerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound("listing not found")
		}
		return uuid.Nil, fmt.Errorf("resolve listing dealer: %w", err)
	}
	return dealerID, nil
}

// Create stores a new message.
func (r *Repository) Create(ctx context.Context, listingID, senderID, recipientID uuid.UUID, body string) (Message, error) {
	query := `
		INSERT INTO messages (listing_id, sender_id, recipient_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, listing_id, sender_id, recipient_id, body, created_at, read_at`

	return scanMessage(r.pool.QueryRow(ctx, query, listingID, senderID, recipientID, body))
}

// ListForParticipant returns a listing's conversation as seen by one
// participant, oldest first.
func (r *Repository) ListForParticipant(ctx context.Context, listingID, userID uuid.UUID) ([]Message, error) {
	query := `
		SELECT id, listing_id, sender_id, recipient_id, body, created_at, read_at
		FROM messages
		WHERE listing_id = $1 AND (sender_id = $2 OR recipient_id = $2)
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, listingID, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// Inbox returns messages received by the user, newest first.
func (r *Repository) Inbox(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	query := `
		SELECT id, listing_id, sender_id, recipient_id, body, created_at, read_at
		FROM messages
		WHERE recipient_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// UnreadCount counts the user's unread messages.
func (r *Repository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkRead records that the recipient has read a message. Only the
// recipient may mark a message read; repeated calls keep the first read time.
func (r *Repository) MarkRead(ctx context.Context, messageID, recipientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET read_at = COALESCE(read_at, now()) WHERE id = $1 AND recipient_id = $2`,
		messageID, recipientID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(messageNotFoundMsg)
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func scanMessage(row pgx.Row) (Message, error) {
	var msg Message
	err := row.Scan(&msg.ID, &msg.ListingID, &msg.SenderID, &msg.RecipientID,
		&msg.Body, &msg.CreatedAt, &msg.ReadAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, apperr.NotFound(messageNotFoundMsg)
		}
		return Message{}, fmt.Errorf("scan message: %w", err)
	}
	return msg, nil
}
