package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a supplier's listing. BasePrice is informational; actual
// pricing happens through the quote workflow.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	BasePrice   *float64  `json:"base_price,omitempty"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`

	// SupplierName is joined in by list queries for display.
	SupplierName string `json:"supplier_name,omitempty"`
}
