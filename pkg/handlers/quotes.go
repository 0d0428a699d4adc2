package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// QuotesHandler handles the quote request lifecycle endpoints.
type QuotesHandler struct {
	quotes  services.QuoteService
	reviews services.ReviewService
	chat    services.ChatService
	logger  *zap.Logger
}

// NewQuotesHandler creates a new quotes handler.
func NewQuotesHandler(quotes services.QuoteService, reviews services.ReviewService, chat services.ChatService, logger *zap.Logger) *QuotesHandler {
	return &QuotesHandler{quotes: quotes, reviews: reviews, chat: chat, logger: logger}
}

// RegisterRoutes registers the quotes handler's routes on the given mux.
func (h *QuotesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/quotes", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/quotes", authMiddleware.RequireBuyer(h.Submit))
	mux.HandleFunc("GET /api/quotes/export", authMiddleware.RequireAuth(h.Export))
	mux.HandleFunc("GET /api/quotes/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/quotes/{id}/respond", authMiddleware.RequireSupplier(h.Respond))
	mux.HandleFunc("POST /api/quotes/{id}/accept", authMiddleware.RequireBuyer(h.Accept))
	mux.HandleFunc("POST /api/quotes/{id}/decline", authMiddleware.RequireBuyer(h.Decline))
	mux.HandleFunc("POST /api/quotes/{id}/review", authMiddleware.RequireBuyer(h.Review))
	mux.HandleFunc("GET /api/quotes/{id}/messages", authMiddleware.RequireAuth(h.Messages))
}

type submitQuoteRequest struct {
	ProductID          uuid.UUID `json:"product_id"`
	Quantity           int       `json:"quantity"`
	Message            string    `json:"message"`
	AttachmentFilename *string   `json:"attachment_filename"`
}

// Submit handles POST /api/quotes.
func (h *QuotesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req submitQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	quote, err := h.quotes.Submit(r.Context(), identity.ID, services.SubmitQuoteInput{
		ProductID:          req.ProductID,
		Quantity:           req.Quantity,
		Message:            req.Message,
		AttachmentFilename: req.AttachmentFilename,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, quote); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/quotes. Buyers see quotes they opened, suppliers
// see quotes addressed to them.
func (h *QuotesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	quotes, err := h.quotes.ListForCompany(r.Context(), identity.ID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, quotes); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/quotes/{id}.
func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid quote id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	quote, err := h.quotes.Get(r.Context(), identity.ID, id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, quote); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type respondQuoteRequest struct {
	OfferedPrice float64    `json:"offered_price"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Message      *string    `json:"message"`
}

// Respond handles POST /api/quotes/{id}/respond.
func (h *QuotesHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid quote id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req respondQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	quote, err := h.quotes.Respond(r.Context(), identity.ID, id, services.RespondQuoteInput{
		OfferedPrice: req.OfferedPrice,
		DeliveryDate: req.DeliveryDate,
		Message:      req.Message,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, quote); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Accept handles POST /api/quotes/{id}/accept.
func (h *QuotesHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.quotes.Accept)
}

// Decline handles POST /api/quotes/{id}/decline.
func (h *QuotesHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.quotes.Decline)
}

func (h *QuotesHandler) decide(w http.ResponseWriter, r *http.Request, decide func(context.Context, uuid.UUID, uuid.UUID) (*models.QuoteRequest, error)) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid quote id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	quote, err := decide(r.Context(), identity.ID, id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, quote); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Review handles POST /api/quotes/{id}/review.
func (h *QuotesHandler) Review(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid quote id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	review, err := h.reviews.Create(r.Context(), identity.ID, id, req.Rating, req.Comment)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, review); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Messages handles GET /api/quotes/{id}/messages. Returns the persisted
// chat history to one of the quote's participants.
func (h *QuotesHandler) Messages(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid quote id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	history, err := h.chat.History(r.Context(), identity.ID, id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, history); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Export handles GET /api/quotes/export. Streams the company's quotes as
// a CSV download.
func (h *QuotesHandler) Export(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cotacoes.csv"`)
	if err := h.quotes.ExportCSV(r.Context(), identity.ID, w); err != nil {
		h.logger.Error("Failed to export quotes", zap.Error(err))
	}
}
