package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// AdminService covers platform moderation and analytics. Route-level
// middleware guarantees the caller is an admin before any of these run.
type AdminService interface {
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	SetVerified(ctx context.Context, companyID uuid.UUID, verified bool) error
	SetActive(ctx context.Context, companyID uuid.UUID, active bool) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	CloseRFQ(ctx context.Context, rfqID uuid.UUID) error
	Stats(ctx context.Context) (*repositories.PlatformStats, error)
}

type adminService struct {
	companies repositories.CompanyRepository
	products  repositories.ProductRepository
	rfqs      repositories.RFQRepository
	stats     repositories.StatsRepository
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	companies repositories.CompanyRepository,
	products repositories.ProductRepository,
	rfqs repositories.RFQRepository,
	stats repositories.StatsRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		companies: companies,
		products:  products,
		rfqs:      rfqs,
		stats:     stats,
		logger:    logger.Named("admin-service"),
	}
}

var _ AdminService = (*adminService)(nil)

func (s *adminService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.companies.List(ctx)
}

func (s *adminService) SetVerified(ctx context.Context, companyID uuid.UUID, verified bool) error {
	if err := s.companies.SetVerified(ctx, companyID, verified); err != nil {
		return err
	}
	s.logger.Info("Company verification changed",
		zap.String("company_id", companyID.String()),
		zap.Bool("verified", verified))
	return nil
}

func (s *adminService) SetActive(ctx context.Context, companyID uuid.UUID, active bool) error {
	if err := s.companies.SetActive(ctx, companyID, active); err != nil {
		return err
	}
	s.logger.Info("Company active flag changed",
		zap.String("company_id", companyID.String()),
		zap.Bool("active", active))
	return nil
}

func (s *adminService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("Product removed by moderation",
		zap.String("product_id", productID.String()))
	return nil
}

func (s *adminService) CloseRFQ(ctx context.Context, rfqID uuid.UUID) error {
	return s.rfqs.Close(ctx, rfqID)
}

func (s *adminService) Stats(ctx context.Context) (*repositories.PlatformStats, error) {
	return s.stats.Summary(ctx)
}
