package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// AnnouncementsHandler handles platform announcement endpoints. Reading
// is open to every logged-in company; publishing is admin-only.
type AnnouncementsHandler struct {
	announcements services.AnnouncementService
	logger        *zap.Logger
}

// NewAnnouncementsHandler creates a new announcements handler.
func NewAnnouncementsHandler(announcements services.AnnouncementService, logger *zap.Logger) *AnnouncementsHandler {
	return &AnnouncementsHandler{announcements: announcements, logger: logger}
}

// RegisterRoutes registers the announcements handler's routes on the given mux.
func (h *AnnouncementsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/announcements", authMiddleware.RequireAuth(h.ListActive))
	mux.HandleFunc("POST /api/announcements", authMiddleware.RequireAdmin(h.Create))
	mux.HandleFunc("DELETE /api/announcements/{id}", authMiddleware.RequireAdmin(h.Deactivate))
}

// ListActive handles GET /api/announcements.
func (h *AnnouncementsHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcements.ListActive(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, announcements); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type announcementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Create handles POST /api/announcements.
func (h *AnnouncementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	announcement, err := h.announcements.Create(r.Context(), identity.ID, req.Title, req.Body)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, announcement); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Deactivate handles DELETE /api/announcements/{id}.
func (h *AnnouncementsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid announcement id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.announcements.Deactivate(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
