package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// QuoteRepository defines data access for quote requests and groups.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.QuoteRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error)

	// RecordResponse stores the supplier's offer and moves the quote to
	// responded. The update is a compare-and-set over the allowed source
	// states so a concurrent terminal decision cannot be overwritten.
	RecordResponse(ctx context.Context, id uuid.UUID, price float64, deliveryDate *time.Time, message *string, respondedAt time.Time) error

	// RecordDecision moves a responded quote to a terminal state under
	// the same compare-and-set discipline.
	RecordDecision(ctx context.Context, id uuid.UUID, status models.QuoteStatus) error

	// CreateGroupWithQuotes materializes a cart into one group and its
	// quotes in a single transaction. Either everything commits or
	// nothing does.
	CreateGroupWithQuotes(ctx context.Context, group *models.QuoteGroup, quotes []*models.QuoteRequest) error
}

type quoteRepository struct {
	db *database.DB
}

// NewQuoteRepository creates a new quote repository.
func NewQuoteRepository(db *database.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *models.QuoteRequest) error {
	query := `
		INSERT INTO quote_requests (product_id, buyer_id, supplier_id, group_id, quantity, message, attachment_filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`

	err := r.db.QueryRow(ctx, query,
		quote.ProductID, quote.BuyerID, quote.SupplierID, quote.GroupID,
		quote.Quantity, quote.Message, quote.AttachmentFilename,
	).Scan(&quote.ID, &quote.Status, &quote.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote request: %w", err)
	}
	return nil
}

const quoteSelect = `
	SELECT q.id, q.product_id, q.buyer_id, q.supplier_id, q.group_id, q.quantity, q.message,
	       q.status, q.created_at, q.offered_price, q.supplier_message, q.delivery_date,
	       q.responded_at, q.attachment_filename, p.name, b.name, s.name
	FROM quote_requests q
	JOIN products p ON p.id = q.product_id
	JOIN companies b ON b.id = q.buyer_id
	JOIN companies s ON s.id = q.supplier_id`

func scanQuote(row pgx.Row) (*models.QuoteRequest, error) {
	var q models.QuoteRequest
	err := row.Scan(&q.ID, &q.ProductID, &q.BuyerID, &q.SupplierID, &q.GroupID, &q.Quantity,
		&q.Message, &q.Status, &q.CreatedAt, &q.OfferedPrice, &q.SupplierMessage,
		&q.DeliveryDate, &q.RespondedAt, &q.AttachmentFilename,
		&q.ProductName, &q.BuyerName, &q.SupplierName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan quote request: %w", err)
	}
	return &q, nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	return scanQuote(r.db.QueryRow(ctx, quoteSelect+` WHERE q.id = $1`, id))
}

func (r *quoteRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error) {
	query := quoteSelect + `
	WHERE q.buyer_id = $1 OR q.supplier_id = $1
	ORDER BY q.created_at DESC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list quote requests: %w", err)
	}
	defer rows.Close()

	var quotes []*models.QuoteRequest
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (r *quoteRepository) RecordResponse(ctx context.Context, id uuid.UUID, price float64, deliveryDate *time.Time, message *string, respondedAt time.Time) error {
	query := `
		UPDATE quote_requests
		SET status = 'responded', offered_price = $2, delivery_date = $3,
		    supplier_message = $4, responded_at = $5
		WHERE id = $1 AND status IN ('pending', 'responded')`

	tag, err := r.db.Exec(ctx, query, id, price, deliveryDate, message, respondedAt)
	if err != nil {
		return fmt.Errorf("record quote response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (r *quoteRepository) RecordDecision(ctx context.Context, id uuid.UUID, status models.QuoteStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("record quote decision: %q is not a terminal status", status)
	}

	query := `
		UPDATE quote_requests
		SET status = $2
		WHERE id = $1 AND status = 'responded'`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("record quote decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (r *quoteRepository) CreateGroupWithQuotes(ctx context.Context, group *models.QuoteGroup, quotes []*models.QuoteRequest) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quote_groups (buyer_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		group.BuyerID, group.Name,
	).Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote group: %w", err)
	}

	for _, quote := range quotes {
		quote.GroupID = &group.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO quote_requests (product_id, buyer_id, supplier_id, group_id, quantity, message)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, status, created_at`,
			quote.ProductID, quote.BuyerID, quote.SupplierID, quote.GroupID,
			quote.Quantity, quote.Message,
		).Scan(&quote.ID, &quote.Status, &quote.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert grouped quote request: %w", err)
		}
	}

	return tx.Commit(ctx)
}
