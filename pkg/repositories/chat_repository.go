package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// ChatRepository defines data access for quote chat messages.
type ChatRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]*models.ChatMessage, error)
}

type chatRepository struct {
	db *database.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *database.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, m *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (quote_id, sender_id, body, attachment_filename, attachment_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		m.QuoteID, m.SenderID, m.Body, m.AttachmentFilename, m.AttachmentType,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]*models.ChatMessage, error) {
	query := `
		SELECT m.id, m.quote_id, m.sender_id, m.body, m.attachment_filename, m.attachment_type,
		       m.created_at, c.name
		FROM chat_messages m
		JOIN companies c ON c.id = m.sender_id
		WHERE m.quote_id = $1
		ORDER BY m.created_at ASC`

	rows, err := r.db.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		err := rows.Scan(&m.ID, &m.QuoteID, &m.SenderID, &m.Body,
			&m.AttachmentFilename, &m.AttachmentType, &m.CreatedAt, &m.SenderName)
		if err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
