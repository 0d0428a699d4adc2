package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// ReviewService creates and reads supplier reviews. A review exists
// only for an accepted quote, written by its buyer, at most once.
type ReviewService interface {
	Create(ctx context.Context, buyerID, quoteID uuid.UUID, rating int, comment string) (*models.Review, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Review, error)
	SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*models.RatingSummary, error)
}

type reviewService struct {
	reviews       repositories.ReviewRepository
	quotes        repositories.QuoteRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews repositories.ReviewRepository,
	quotes repositories.QuoteRepository,
	notifications NotificationService,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviews:       reviews,
		quotes:        quotes,
		notifications: notifications,
		logger:        logger.Named("review-service"),
	}
}

var _ ReviewService = (*reviewService)(nil)

func (s *reviewService) Create(ctx context.Context, buyerID, quoteID uuid.UUID, rating int, comment string) (*models.Review, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.BuyerID != buyerID {
		return nil, apperrors.ErrForbidden
	}
	if quote.Status != models.QuoteAccepted {
		return nil, fmt.Errorf("%w: only accepted quotes can be reviewed", apperrors.ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidation)
	}

	review := &models.Review{
		QuoteID:    quoteID,
		BuyerID:    buyerID,
		SupplierID: quote.SupplierID,
		Rating:     rating,
		Comment:    comment,
	}
	// The unique index on quote_id enforces at-most-one at write time.
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, quote.SupplierID,
		fmt.Sprintf("Você recebeu uma avaliação de %s", quote.BuyerName),
		quoteLink(quoteID))

	return review, nil
}

func (s *reviewService) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Review, error) {
	return s.reviews.ListBySupplier(ctx, supplierID)
}

func (s *reviewService) SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*models.RatingSummary, error) {
	return s.reviews.SupplierSummary(ctx, supplierID)
}
