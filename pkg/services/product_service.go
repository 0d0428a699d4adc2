package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// ProductInput carries the writable product fields. Image entries are
// filenames already placed by the upload collaborator.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	BasePrice   *float64
	Images      []string
}

// ProductService manages supplier listings. Writes are restricted to
// the owning supplier or an admin.
type ProductService interface {
	Create(ctx context.Context, supplierID uuid.UUID, in ProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID, in ProductInput) (*models.Product, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID) error
	List(ctx context.Context, category string) ([]*models.Product, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error)
}

type productService struct {
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(products repositories.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		products: products,
		logger:   logger.Named("product-service"),
	}
}

var _ ProductService = (*productService)(nil)

func validateProductInput(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || strings.TrimSpace(in.Description) == "" || in.Category == "" {
		return fmt.Errorf("%w: name, description and category are required", apperrors.ErrValidation)
	}
	if in.BasePrice != nil && *in.BasePrice < 0 {
		return fmt.Errorf("%w: base price cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, supplierID uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := validateProductInput(&in); err != nil {
		return nil, err
	}

	product := &models.Product{
		SupplierID:  supplierID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		BasePrice:   in.BasePrice,
		Images:      in.Images,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) Update(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID, in ProductInput) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != actorID && !actorRole.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if err := validateProductInput(&in); err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Category = in.Category
	product.BasePrice = in.BasePrice
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product.SupplierID != actorID && !actorRole.IsAdmin() {
		return apperrors.ErrForbidden
	}

	s.logger.Info("Deleting product",
		zap.String("product_id", id.String()),
		zap.String("actor_id", actorID.String()))
	return s.products.Delete(ctx, id)
}

func (s *productService) List(ctx context.Context, category string) ([]*models.Product, error) {
	return s.products.List(ctx, category)
}

func (s *productService) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error) {
	return s.products.ListBySupplier(ctx, supplierID)
}
