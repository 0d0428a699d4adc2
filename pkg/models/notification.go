package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted in-app message to a company, created by
// workflow transitions that affect the other party.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
