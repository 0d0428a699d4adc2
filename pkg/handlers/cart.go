package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// CartHandler handles the session-held quote cart. The cart lives only
// in the session cookie and is never persisted; submitting converts it
// into a quote group and clears it.
type CartHandler struct {
	cart     services.CartService
	sessions *auth.Store
	logger   *zap.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart services.CartService, sessions *auth.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the cart handler's routes on the given mux.
func (h *CartHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/cart", authMiddleware.RequireBuyer(h.View))
	mux.HandleFunc("POST /api/cart/items", authMiddleware.RequireBuyer(h.SetItem))
	mux.HandleFunc("DELETE /api/cart/items/{id}", authMiddleware.RequireBuyer(h.RemoveItem))
	mux.HandleFunc("POST /api/cart/submit", authMiddleware.RequireBuyer(h.Submit))
	mux.HandleFunc("DELETE /api/cart", authMiddleware.RequireBuyer(h.Clear))
}

func (h *CartHandler) badSession(w http.ResponseWriter, err error) {
	h.logger.Warn("Session cart unreadable", zap.Error(err))
	if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_cart", "Cart data is corrupted"); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	cart, err := h.sessions.Cart(r)
	if err != nil {
		h.badSession(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, cart.Lines()); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SetItem handles POST /api/cart/items. Adding an existing product
// overwrites its quantity; a quantity of zero removes the line.
func (h *CartHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == uuid.Nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "product_id and quantity are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	cart, err := h.sessions.Cart(r)
	if err != nil {
		h.badSession(w, err)
		return
	}
	cart.Set(req.ProductID, req.Quantity)
	if err := h.sessions.SaveCart(r, w, cart); err != nil {
		h.logger.Error("Failed to save session cart", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to save cart"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, cart.Lines()); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid product id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	cart, err := h.sessions.Cart(r)
	if err != nil {
		h.badSession(w, err)
		return
	}
	cart.Remove(id)
	if err := h.sessions.SaveCart(r, w, cart); err != nil {
		h.logger.Error("Failed to save session cart", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to save cart"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, cart.Lines()); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearCart(r, w); err != nil {
		h.logger.Error("Failed to clear session cart", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to clear cart"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitCartRequest struct {
	GroupName string `json:"group_name"`
}

// Submit handles POST /api/cart/submit. On success the session cart is
// cleared.
func (h *CartHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req submitCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	cart, err := h.sessions.Cart(r)
	if err != nil {
		h.badSession(w, err)
		return
	}

	group, quotes, err := h.cart.SubmitCart(r.Context(), identity.ID, req.GroupName, cart)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := h.sessions.ClearCart(r, w); err != nil {
		h.logger.Error("Failed to clear session cart", zap.Error(err))
	}

	if err := WriteJSON(w, http.StatusCreated, map[string]any{
		"group":  group,
		"quotes": quotes,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
