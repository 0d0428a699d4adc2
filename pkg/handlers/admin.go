package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// AdminHandler handles moderation and analytics endpoints. Every route
// requires an admin session.
type AdminHandler struct {
	admin  services.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin services.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// RegisterRoutes registers the admin handler's routes on the given mux.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/admin/companies", authMiddleware.RequireAdmin(h.ListCompanies))
	mux.HandleFunc("PATCH /api/admin/companies/{id}/verified", authMiddleware.RequireAdmin(h.SetVerified))
	mux.HandleFunc("PATCH /api/admin/companies/{id}/active", authMiddleware.RequireAdmin(h.SetActive))
	mux.HandleFunc("DELETE /api/admin/products/{id}", authMiddleware.RequireAdmin(h.DeleteProduct))
	mux.HandleFunc("POST /api/admin/rfqs/{id}/close", authMiddleware.RequireAdmin(h.CloseRFQ))
	mux.HandleFunc("GET /api/admin/stats", authMiddleware.RequireAdmin(h.Stats))
}

// ListCompanies handles GET /api/admin/companies.
func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.admin.ListCompanies(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, companies); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type flagRequest struct {
	Value bool `json:"value"`
}

// SetVerified handles PATCH /api/admin/companies/{id}/verified.
func (h *AdminHandler) SetVerified(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.admin.SetVerified)
}

// SetActive handles PATCH /api/admin/companies/{id}/active.
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.admin.SetActive)
}

func (h *AdminHandler) setFlag(w http.ResponseWriter, r *http.Request, set func(context.Context, uuid.UUID, bool) error) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid company id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := set(r.Context(), id, req.Value); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /api/admin/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid product id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CloseRFQ handles POST /api/admin/rfqs/{id}/close.
func (h *AdminHandler) CloseRFQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid RFQ id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.admin.CloseRFQ(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
