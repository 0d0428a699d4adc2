package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/realtime"
)

// SocketHandler upgrades websocket connections and hands them to the
// realtime hub. Browsers cannot attach custom headers to the websocket
// handshake, so authentication happens in two steps: the client fetches
// a short-lived ticket over the authenticated session, then presents it
// as a query parameter when dialing.
type SocketHandler struct {
	hub    *realtime.Hub
	secret string
	logger *zap.Logger

	upgrader websocket.Upgrader
}

// NewSocketHandler creates a new socket handler. secret signs the
// connection tickets.
func NewSocketHandler(hub *realtime.Hub, secret string, logger *zap.Logger) *SocketHandler {
	return &SocketHandler{
		hub:    hub,
		secret: secret,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Session cookies are SameSite Lax; the ticket is the real
			// authentication, so cross-origin upgrades are acceptable.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the socket handler's routes on the given mux.
func (h *SocketHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /ws/ticket", authMiddleware.RequireAuth(h.Ticket))
	mux.HandleFunc("GET /ws", h.Connect)
}

// Ticket handles GET /ws/ticket. Requires a logged-in session and
// returns a ticket valid for a few seconds.
func (h *SocketHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	ticket, err := auth.IssueSocketTicket(h.secret, identity)
	if err != nil {
		h.logger.Error("Failed to issue socket ticket", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to issue ticket"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"ticket": ticket}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Connect handles GET /ws. The ticket query parameter authenticates the
// connection.
func (h *SocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.ParseSocketTicket(h.secret, r.URL.Query().Get("ticket"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired ticket"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	// The request context dies when this handler returns, so the pumps
	// run against the background context and block here until the
	// connection closes.
	client := realtime.NewClient(h.hub, conn, identity.ID, identity.Name)
	client.Run(context.Background())
}
