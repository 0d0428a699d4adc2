package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// RFQsHandler handles the open RFQ board endpoints.
type RFQsHandler struct {
	rfqs   services.RFQService
	logger *zap.Logger
}

// NewRFQsHandler creates a new RFQs handler.
func NewRFQsHandler(rfqs services.RFQService, logger *zap.Logger) *RFQsHandler {
	return &RFQsHandler{rfqs: rfqs, logger: logger}
}

// RegisterRoutes registers the RFQs handler's routes on the given mux.
func (h *RFQsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/rfqs", authMiddleware.RequireAuth(h.ListOpen))
	mux.HandleFunc("POST /api/rfqs", authMiddleware.RequireBuyer(h.Create))
	mux.HandleFunc("GET /api/my-rfqs", authMiddleware.RequireBuyer(h.ListMine))
	mux.HandleFunc("GET /api/rfqs/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/rfqs/{id}/responses", authMiddleware.RequireSupplier(h.Respond))
	mux.HandleFunc("GET /api/rfqs/{id}/responses", authMiddleware.RequireAuth(h.Responses))
}

type createRFQRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Deadline    *time.Time `json:"deadline"`
}

// Create handles POST /api/rfqs.
func (h *RFQsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req createRFQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	rfq, err := h.rfqs.Create(r.Context(), identity.ID, services.CreateRFQInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Deadline:    req.Deadline,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, rfq); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListOpen handles GET /api/rfqs.
func (h *RFQsHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	rfqs, err := h.rfqs.ListOpen(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rfqs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMine handles GET /api/my-rfqs.
func (h *RFQsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	rfqs, err := h.rfqs.ListForBuyer(r.Context(), identity.ID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rfqs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/rfqs/{id}.
func (h *RFQsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid RFQ id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	rfq, err := h.rfqs.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rfq); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type respondRFQRequest struct {
	Price        float64    `json:"price"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Message      string     `json:"message"`
}

// Respond handles POST /api/rfqs/{id}/responses.
func (h *RFQsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid RFQ id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req respondRFQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response, err := h.rfqs.Respond(r.Context(), identity.ID, id, services.RespondRFQInput{
		Price:        req.Price,
		DeliveryDate: req.DeliveryDate,
		Message:      req.Message,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Responses handles GET /api/rfqs/{id}/responses. The owner sees every
// response, a supplier only their own.
func (h *RFQsHandler) Responses(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid RFQ id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	responses, err := h.rfqs.Responses(r.Context(), identity.ID, id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, responses); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
