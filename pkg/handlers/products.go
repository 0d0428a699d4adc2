package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

// ProductsHandler handles the product catalog endpoints.
type ProductsHandler struct {
	products services.ProductService
	reviews  services.ReviewService
	logger   *zap.Logger
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(products services.ProductService, reviews services.ReviewService, logger *zap.Logger) *ProductsHandler {
	return &ProductsHandler{products: products, reviews: reviews, logger: logger}
}

// RegisterRoutes registers the products handler's routes on the given mux.
func (h *ProductsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/products", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/products", authMiddleware.RequireSupplier(h.Create))
	mux.HandleFunc("GET /api/products/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/products/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/products/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("GET /api/my-products", authMiddleware.RequireSupplier(h.ListMine))
	mux.HandleFunc("GET /api/suppliers/{id}/reviews", authMiddleware.RequireAuth(h.SupplierReviews))
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	BasePrice   *float64 `json:"base_price"`
	Images      []string `json:"images"`
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		BasePrice:   r.BasePrice,
		Images:      r.Images,
	}
}

func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

// List handles GET /api/products. The category query parameter filters
// the catalog.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, products); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.products.Create(r.Context(), identity.ID, req.input())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, product); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid product id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, product); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid product id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.products.Update(r.Context(), identity.ID, identity.Role, id, req.input())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, product); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid product id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.products.Delete(r.Context(), identity.ID, identity.Role, id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /api/my-products.
func (h *ProductsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	products, err := h.products.ListBySupplier(r.Context(), identity.ID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, products); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SupplierReviews handles GET /api/suppliers/{id}/reviews. Returns the
// supplier's reviews along with the aggregate rating.
func (h *ProductsHandler) SupplierReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid supplier id"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	reviews, err := h.reviews.ListBySupplier(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	summary, err := h.reviews.SupplierSummary(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"summary": summary,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
