package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one message in a quote's chat room. A message must
// carry text, an attachment, or both.
type ChatMessage struct {
	ID                 uuid.UUID `json:"id"`
	QuoteID            uuid.UUID `json:"quote_id"`
	SenderID           uuid.UUID `json:"sender_id"`
	Body               string    `json:"message"`
	AttachmentFilename *string   `json:"attachment_filename,omitempty"`
	AttachmentType     *string   `json:"attachment_type,omitempty"`
	CreatedAt          time.Time `json:"timestamp"`

	SenderName string `json:"sender_name,omitempty"`
}

// Empty reports whether the message has neither text nor attachment.
func (m *ChatMessage) Empty() bool {
	return m.Body == "" && (m.AttachmentFilename == nil || *m.AttachmentFilename == "")
}
