package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

func newAccountsServer(t *testing.T, accounts services.AccountService) (*http.ServeMux, *auth.Store) {
	t.Helper()

	store := auth.NewStore(testSecret, false)
	mux := http.NewServeMux()
	handler := NewAccountsHandler(accounts, store, zap.NewNop())
	handler.RegisterRoutes(mux, auth.NewMiddleware(store))
	return mux, store
}

func TestAccountsHandler_Register(t *testing.T) {
	accounts := &mockAccountService{
		RegisterFn: func(_ context.Context, in services.RegisterInput) (*models.Company, error) {
			assert.Equal(t, "Compras Ltda", in.Name)
			assert.Equal(t, models.RoleBuyer, in.Role)
			return &models.Company{ID: uuid.New(), Name: in.Name, Role: in.Role}, nil
		},
	}
	mux, _ := newAccountsServer(t, accounts)

	body := `{"name":"Compras Ltda","tax_id":"11111111000111","email":"compras@example.com","password":"x","role":"buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAccountsHandler_Register_Conflict(t *testing.T) {
	accounts := &mockAccountService{
		RegisterFn: func(_ context.Context, in services.RegisterInput) (*models.Company, error) {
			return nil, apperrors.ErrConflict
		},
	}
	mux, _ := newAccountsServer(t, accounts)

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAccountsHandler_Login_StartsSession(t *testing.T) {
	company := testCompany(models.RoleBuyer)
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, email, password string) (*models.Company, error) {
			assert.Equal(t, "compras@example.com", email)
			return company, nil
		},
		GetFn: func(_ context.Context, id uuid.UUID) (*models.Company, error) {
			assert.Equal(t, company.ID, id)
			return company, nil
		},
	}
	mux, _ := newAccountsServer(t, accounts)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"compras@example.com","password":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The cookie authenticates follow-up requests.
	profileReq := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	profileReq.AddCookie(cookies[0])
	profileRec := httptest.NewRecorder()
	mux.ServeHTTP(profileRec, profileReq)

	assert.Equal(t, http.StatusOK, profileRec.Code)
	assert.Contains(t, profileRec.Body.String(), company.ID.String())
}

func TestAccountsHandler_Login_BadCredentials(t *testing.T) {
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, email, password string) (*models.Company, error) {
			return nil, apperrors.ErrUnauthorized
		},
	}
	mux, _ := newAccountsServer(t, accounts)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAccountsHandler_Login_InactiveAccount(t *testing.T) {
	accounts := &mockAccountService{
		LoginFn: func(_ context.Context, email, password string) (*models.Company, error) {
			return nil, apperrors.ErrInactiveAccount
		},
	}
	mux, _ := newAccountsServer(t, accounts)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "account_deactivated")
}

func TestAccountsHandler_Profile_RequiresLogin(t *testing.T) {
	mux, _ := newAccountsServer(t, &mockAccountService{})

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountsHandler_Logout_ClearsSession(t *testing.T) {
	company := testCompany(models.RoleBuyer)
	mux, store := newAccountsServer(t, &mockAccountService{})
	cookie := sessionCookie(t, store, company)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Less(t, cookies[0].MaxAge, 0)
}
