package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecta-b2b/connecta-server/pkg/models"
)

func loginRequest(t *testing.T, store *Store, company *models.Company) *http.Request {
	t.Helper()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	require.NoError(t, store.Login(req, rr, company))

	authed := httptest.NewRequest("GET", "/", nil)
	for _, cookie := range rr.Result().Cookies() {
		authed.AddCookie(cookie)
	}
	return authed
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	store := NewStore("test-secret", false)
	m := NewMiddleware(store)

	called := false
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	store := NewStore("test-secret", false)
	m := NewMiddleware(store)
	company := &models.Company{Name: "Acme", Role: models.RoleBuyer}
	company.ID = uuid.New()

	var got *Identity
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	})

	rr := httptest.NewRecorder()
	handler(rr, loginRequest(t, store, company))

	require.NotNil(t, got)
	assert.Equal(t, company.ID, got.ID)
	assert.Equal(t, models.RoleBuyer, got.Role)
}

func TestRequireRole_DeniesWrongRole(t *testing.T) {
	store := NewStore("test-secret", false)
	m := NewMiddleware(store)
	company := &models.Company{Name: "Acme", Role: models.RoleBuyer}
	company.ID = uuid.New()

	called := false
	handler := m.RequireSupplier(func(w http.ResponseWriter, r *http.Request) { called = true })

	rr := httptest.NewRecorder()
	handler(rr, loginRequest(t, store, company))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, called)
}

func TestSessionCart_RoundTrip(t *testing.T) {
	store := NewStore("test-secret", false)

	cart := make(models.Cart)
	cart.Set(uuid.New(), 4)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	require.NoError(t, store.SaveCart(req, rr, cart))

	next := httptest.NewRequest("GET", "/", nil)
	for _, cookie := range rr.Result().Cookies() {
		next.AddCookie(cookie)
	}

	got, err := store.Cart(next)
	require.NoError(t, err)
	assert.Equal(t, cart, got)
}
