package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus is the lifecycle state of a quote request. Transitions are
// monotonic along pending -> responded -> accepted|declined; terminal
// states never change again.
type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteResponded QuoteStatus = "responded"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteDeclined  QuoteStatus = "declined"
)

// IsTerminal reports whether no further transitions are allowed.
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteAccepted || s == QuoteDeclined
}

// CanRespond reports whether a supplier may submit or revise an offer.
// A responded quote may be revised until the buyer decides.
func (s QuoteStatus) CanRespond() bool {
	return s == QuotePending || s == QuoteResponded
}

// CanDecide reports whether the buyer may accept or decline. A decision
// requires an offer on the table.
func (s QuoteStatus) CanDecide() bool {
	return s == QuoteResponded
}

// QuoteRequest is a buyer's ask for pricing on a product, answered by
// the product's supplier.
type QuoteRequest struct {
	ID         uuid.UUID   `json:"id"`
	ProductID  uuid.UUID   `json:"product_id"`
	BuyerID    uuid.UUID   `json:"buyer_id"`
	SupplierID uuid.UUID   `json:"supplier_id"`
	GroupID    *uuid.UUID  `json:"group_id,omitempty"`
	Quantity   int         `json:"quantity"`
	Message    string      `json:"message,omitempty"`
	Status     QuoteStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`

	// Supplier response fields, set on transition to responded.
	OfferedPrice       *float64   `json:"offered_price,omitempty"`
	SupplierMessage    *string    `json:"supplier_message,omitempty"`
	DeliveryDate       *time.Time `json:"delivery_date,omitempty"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
	AttachmentFilename *string    `json:"attachment_filename,omitempty"`

	// Joined display fields.
	ProductName  string `json:"product_name,omitempty"`
	BuyerName    string `json:"buyer_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
}

// Participant reports whether the company may view this quote.
func (q *QuoteRequest) Participant(companyID uuid.UUID) bool {
	return companyID == q.BuyerID || companyID == q.SupplierID
}

// QuoteGroup is a batch of quote requests submitted together from a cart.
type QuoteGroup struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
