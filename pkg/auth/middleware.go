package auth

import (
	"encoding/json"
	"net/http"

	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// Middleware is the single authorization boundary: it resolves the
// session identity and enforces role capabilities before a handler runs.
type Middleware struct {
	store *Store
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(store *Store) *Middleware {
	return &Middleware{store: store}
}

func denied(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}

// RequireAuth rejects unauthenticated requests and attaches the
// identity to the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := m.store.Identity(r)
		if identity == nil {
			denied(w, http.StatusUnauthorized, "unauthorized", "Login required")
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

// RequireRole enforces a role capability on top of RequireAuth. The
// denial is generic: no information beyond "not permitted" is disclosed.
func (m *Middleware) RequireRole(allowed func(models.Role) bool, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil || !allowed(identity.Role) {
			denied(w, http.StatusForbidden, "forbidden", "Not permitted")
			return
		}
		next(w, r)
	})
}

// RequireBuyer allows only buyer accounts.
func (m *Middleware) RequireBuyer(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(models.Role.CanBuy, next)
}

// RequireSupplier allows only supplier accounts.
func (m *Middleware) RequireSupplier(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(models.Role.CanSell, next)
}

// RequireAdmin allows only admin accounts.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(models.Role.IsAdmin, next)
}
