package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// NotificationsHandler handles the notification feed endpoints.
type NotificationsHandler struct {
	notifications services.NotificationService
	logger        *zap.Logger
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(notifications services.NotificationService, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, logger: logger}
}

// RegisterRoutes registers the notifications handler's routes on the given mux.
func (h *NotificationsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/notifications", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/notifications/unread-count", authMiddleware.RequireAuth(h.UnreadCount))
}

// List handles GET /api/notifications. Fetching the feed marks every
// notification as read.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	notifications, err := h.notifications.List(r.Context(), identity.ID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, notifications); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	count, err := h.notifications.UnreadCount(r.Context(), identity.ID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]int{"unread_count": count}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
