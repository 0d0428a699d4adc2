package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a supplier, tied 1:1 to an accepted
// quote request. Uniqueness per quote is enforced at write time.
type Review struct {
	ID         uuid.UUID `json:"id"`
	QuoteID    uuid.UUID `json:"quote_id"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	BuyerName string `json:"buyer_name,omitempty"`
}

// RatingSummary aggregates a supplier's reviews for display.
type RatingSummary struct {
	SupplierID  uuid.UUID `json:"supplier_id"`
	ReviewCount int       `json:"review_count"`
	Average     float64   `json:"average"`
}
