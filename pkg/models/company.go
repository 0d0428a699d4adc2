package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what a company is allowed to do. Authorization checks
// go through the capability methods below rather than comparing strings
// at call sites.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// ValidRegistrationRole reports whether a role may be chosen at
// registration time. Admin accounts are provisioned out of band.
func ValidRegistrationRole(r Role) bool {
	return r == RoleBuyer || r == RoleSupplier
}

// CanBuy reports whether the role may create quote requests, carts and
// open RFQs.
func (r Role) CanBuy() bool { return r == RoleBuyer }

// CanSell reports whether the role may list products and respond to
// quotes and RFQs.
func (r Role) CanSell() bool { return r == RoleSupplier }

// IsAdmin reports whether the role has moderation access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Company is a registered buyer, supplier or admin account. Companies
// are never hard-deleted; moderation toggles Active instead.
type Company struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	Active       bool      `json:"active"`
	Phone        string    `json:"phone,omitempty"`
	Website      string    `json:"website,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
