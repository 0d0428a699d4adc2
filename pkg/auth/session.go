package auth

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// SessionName is the name of the login session cookie.
const SessionName = "connecta-session"

// Session value keys.
const (
	sessionKeyCompanyID   = "company_id"
	sessionKeyCompanyName = "company_name"
	sessionKeyRole        = "role"
	sessionKeyCart        = "cart"
)

// Store holds login identity and the session-scoped cart. The secret is
// SHA-256 hashed to derive a consistent 32-byte signing key.
type Store struct {
	store *sessions.CookieStore
}

// NewStore initializes the cookie-based session store. secure should be
// true whenever the deployment terminates TLS.
func NewStore(secret string, secure bool) *Store {
	key := sha256.Sum256([]byte(secret))

	cs := sessions.NewCookieStore(key[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cs}
}

func (s *Store) get(r *http.Request) *sessions.Session {
	// Get never fails fatally for cookie stores; a bad cookie yields a
	// fresh session.
	session, _ := s.store.Get(r, SessionName)
	return session
}

// Login records the company in the session.
func (s *Store) Login(r *http.Request, w http.ResponseWriter, company *models.Company) error {
	session := s.get(r)
	session.Values[sessionKeyCompanyID] = company.ID.String()
	session.Values[sessionKeyCompanyName] = company.Name
	session.Values[sessionKeyRole] = string(company.Role)
	return session.Save(r, w)
}

// Logout clears the session.
func (s *Store) Logout(r *http.Request, w http.ResponseWriter) error {
	session := s.get(r)
	session.Options.MaxAge = -1
	session.Values = make(map[any]any)
	return session.Save(r, w)
}

// Identity reads the logged-in company from the session. Returns nil
// when not logged in.
func (s *Store) Identity(r *http.Request) *Identity {
	session := s.get(r)

	idStr, ok := session.Values[sessionKeyCompanyID].(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}

	name, _ := session.Values[sessionKeyCompanyName].(string)
	roleStr, _ := session.Values[sessionKeyRole].(string)

	return &Identity{ID: id, Name: name, Role: models.Role(roleStr)}
}

// Cart reads the session-held cart. A missing or empty value yields an
// empty cart; a corrupted value is an error rather than silent data loss.
func (s *Store) Cart(r *http.Request) (models.Cart, error) {
	session := s.get(r)
	encoded, _ := session.Values[sessionKeyCart].(string)
	cart, err := models.DecodeCart(encoded)
	if err != nil {
		return nil, fmt.Errorf("session cart: %w", err)
	}
	return cart, nil
}

// SaveCart writes the cart back to the session.
func (s *Store) SaveCart(r *http.Request, w http.ResponseWriter, cart models.Cart) error {
	encoded, err := cart.Encode()
	if err != nil {
		return fmt.Errorf("session cart: %w", err)
	}
	session := s.get(r)
	session.Values[sessionKeyCart] = encoded
	return session.Save(r, w)
}

// ClearCart removes the cart from the session.
func (s *Store) ClearCart(r *http.Request, w http.ResponseWriter) error {
	session := s.get(r)
	delete(session.Values, sessionKeyCart)
	return session.Save(r, w)
}
