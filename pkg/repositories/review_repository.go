package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// ReviewRepository defines data access for supplier reviews.
type ReviewRepository interface {
	// Create inserts a review. The quote_id unique constraint makes a
	// second review for the same quote fail with apperrors.ErrConflict.
	Create(ctx context.Context, review *models.Review) error
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*models.Review, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Review, error)
	SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*models.RatingSummary, error)
}

type reviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *database.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (quote_id, buyer_id, supplier_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		review.QuoteID, review.BuyerID, review.SupplierID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*models.Review, error) {
	query := `
		SELECT r.id, r.quote_id, r.buyer_id, r.supplier_id, r.rating, r.comment, r.created_at, b.name
		FROM reviews r
		JOIN companies b ON b.id = r.buyer_id
		WHERE r.quote_id = $1`

	var rev models.Review
	err := r.db.QueryRow(ctx, query, quoteID).Scan(
		&rev.ID, &rev.QuoteID, &rev.BuyerID, &rev.SupplierID, &rev.Rating, &rev.Comment,
		&rev.CreatedAt, &rev.BuyerName)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	return &rev, nil
}

func (r *reviewRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Review, error) {
	query := `
		SELECT r.id, r.quote_id, r.buyer_id, r.supplier_id, r.rating, r.comment, r.created_at, b.name
		FROM reviews r
		JOIN companies b ON b.id = r.buyer_id
		WHERE r.supplier_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var rev models.Review
		err := rows.Scan(&rev.ID, &rev.QuoteID, &rev.BuyerID, &rev.SupplierID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.BuyerName)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*models.RatingSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE supplier_id = $1`

	summary := &models.RatingSummary{SupplierID: supplierID}
	err := r.db.QueryRow(ctx, query, supplierID).Scan(&summary.ReviewCount, &summary.Average)
	if err != nil {
		return nil, fmt.Errorf("supplier rating summary: %w", err)
	}
	return summary, nil
}
