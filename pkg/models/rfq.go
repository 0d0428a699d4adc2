package models

import (
	"time"

	"github.com/google/uuid"
)

// RFQStatus is the state of an open RFQ. RFQs stay open indefinitely;
// only an admin close flips the status.
type RFQStatus string

const (
	RFQOpen   RFQStatus = "open"
	RFQClosed RFQStatus = "closed"
)

// OpenRFQ is a buyer-initiated public request for quotes not tied to an
// existing product listing. Any supplier may respond.
type OpenRFQ struct {
	ID          uuid.UUID  `json:"id"`
	BuyerID     uuid.UUID  `json:"buyer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      RFQStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	BuyerName     string `json:"buyer_name,omitempty"`
	ResponseCount int    `json:"response_count"`
}

// RFQResponse is one supplier's offer against an open RFQ. Responses are
// appended; the system performs no ranking or aggregation.
type RFQResponse struct {
	ID           uuid.UUID  `json:"id"`
	RFQID        uuid.UUID  `json:"rfq_id"`
	SupplierID   uuid.UUID  `json:"supplier_id"`
	Price        float64    `json:"price"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Message      string     `json:"message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	SupplierName string `json:"supplier_name,omitempty"`
}
