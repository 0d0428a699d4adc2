package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Cart is the buyer's session-held shopping cart: product id -> quantity.
// It is never persisted; the session carries it as a JSON string until
// submission converts it into a QuoteGroup.
type Cart map[uuid.UUID]int

// CartLine is one entry of a cart in deterministic order.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Set adds or replaces a line. A quantity of zero or less removes it.
func (c Cart) Set(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = quantity
}

// Remove deletes a line.
func (c Cart) Remove(productID uuid.UUID) {
	delete(c, productID)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c) == 0 }

// Lines returns the cart contents sorted by product id so that cart
// submission processes products in a stable order.
func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for id, qty := range c {
		lines = append(lines, CartLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}

// Encode serializes the cart for session storage.
func (c Cart) Encode() (string, error) {
	raw := make(map[string]int, len(c))
	for id, qty := range c {
		raw[id.String()] = qty
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(data), nil
}

// DecodeCart parses a session-stored cart. An empty string yields an
// empty cart; malformed entries fail rather than being dropped silently.
func DecodeCart(data string) (Cart, error) {
	cart := make(Cart)
	if data == "" {
		return cart, nil
	}

	raw := make(map[string]int)
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	for idStr, qty := range raw {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("decode cart: bad product id %q: %w", idStr, err)
		}
		if qty > 0 {
			cart[id] = qty
		}
	}
	return cart, nil
}
