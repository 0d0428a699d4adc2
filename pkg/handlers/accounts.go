package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// AccountsHandler handles registration, login and profile endpoints.
type AccountsHandler struct {
	accounts services.AccountService
	sessions *auth.Store
	logger   *zap.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(accounts services.AccountService, sessions *auth.Store, logger *zap.Logger) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the accounts handler's routes on the given mux.
func (h *AccountsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("GET /api/profile", authMiddleware.RequireAuth(h.Profile))
	mux.HandleFunc("PUT /api/profile", authMiddleware.RequireAuth(h.UpdateProfile))
}

type registerRequest struct {
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register handles POST /api/register.
func (h *AccountsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	company, err := h.accounts.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		TaxID:    req.TaxID,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, company); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login. A successful login starts the cookie
// session.
func (h *AccountsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	company, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := h.sessions.Login(r, w, company); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to start session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, company); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles POST /api/logout.
func (h *AccountsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r, w); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Profile handles GET /api/profile.
func (h *AccountsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	company, err := h.accounts.Get(r.Context(), identity.ID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, company); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// UpdateProfile handles PUT /api/profile.
func (h *AccountsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	company, err := h.accounts.UpdateProfile(r.Context(), identity.ID, services.UpdateProfileInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, company); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
