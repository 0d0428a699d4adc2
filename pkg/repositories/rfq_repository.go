package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// RFQRepository defines data access for open RFQs and their responses.
type RFQRepository interface {
	Create(ctx context.Context, rfq *models.OpenRFQ) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OpenRFQ, error)
	ListOpen(ctx context.Context) ([]*models.OpenRFQ, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.OpenRFQ, error)
	Close(ctx context.Context, id uuid.UUID) error

	CreateResponse(ctx context.Context, response *models.RFQResponse) error
	ListResponses(ctx context.Context, rfqID uuid.UUID) ([]*models.RFQResponse, error)
}

type rfqRepository struct {
	db *database.DB
}

// NewRFQRepository creates a new RFQ repository.
func NewRFQRepository(db *database.DB) RFQRepository {
	return &rfqRepository{db: db}
}

func (r *rfqRepository) Create(ctx context.Context, rfq *models.OpenRFQ) error {
	query := `
		INSERT INTO open_rfqs (buyer_id, title, description, category, quantity, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at`

	err := r.db.QueryRow(ctx, query,
		rfq.BuyerID, rfq.Title, rfq.Description, rfq.Category, rfq.Quantity, rfq.Deadline,
	).Scan(&rfq.ID, &rfq.Status, &rfq.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert open rfq: %w", err)
	}
	return nil
}

const rfqSelect = `
	SELECT r.id, r.buyer_id, r.title, r.description, r.category, r.quantity, r.deadline,
	       r.status, r.created_at, b.name,
	       (SELECT COUNT(*) FROM rfq_responses resp WHERE resp.rfq_id = r.id)
	FROM open_rfqs r
	JOIN companies b ON b.id = r.buyer_id`

func scanRFQ(row pgx.Row) (*models.OpenRFQ, error) {
	var rfq models.OpenRFQ
	err := row.Scan(&rfq.ID, &rfq.BuyerID, &rfq.Title, &rfq.Description, &rfq.Category,
		&rfq.Quantity, &rfq.Deadline, &rfq.Status, &rfq.CreatedAt, &rfq.BuyerName,
		&rfq.ResponseCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan open rfq: %w", err)
	}
	return &rfq, nil
}

func (r *rfqRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OpenRFQ, error) {
	return scanRFQ(r.db.QueryRow(ctx, rfqSelect+` WHERE r.id = $1`, id))
}

func (r *rfqRepository) ListOpen(ctx context.Context) ([]*models.OpenRFQ, error) {
	return r.queryRFQs(ctx, rfqSelect+` WHERE r.status = 'open' ORDER BY r.created_at DESC`)
}

func (r *rfqRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.OpenRFQ, error) {
	return r.queryRFQs(ctx, rfqSelect+` WHERE r.buyer_id = $1 ORDER BY r.created_at DESC`, buyerID)
}

func (r *rfqRepository) queryRFQs(ctx context.Context, query string, args ...any) ([]*models.OpenRFQ, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list open rfqs: %w", err)
	}
	defer rows.Close()

	var rfqs []*models.OpenRFQ
	for rows.Next() {
		rfq, err := scanRFQ(rows)
		if err != nil {
			return nil, err
		}
		rfqs = append(rfqs, rfq)
	}
	return rfqs, rows.Err()
}

func (r *rfqRepository) Close(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE open_rfqs SET status = 'closed' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("close open rfq: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *rfqRepository) CreateResponse(ctx context.Context, response *models.RFQResponse) error {
	query := `
		INSERT INTO rfq_responses (rfq_id, supplier_id, price, delivery_date, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		response.RFQID, response.SupplierID, response.Price, response.DeliveryDate, response.Message,
	).Scan(&response.ID, &response.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rfq response: %w", err)
	}
	return nil
}

func (r *rfqRepository) ListResponses(ctx context.Context, rfqID uuid.UUID) ([]*models.RFQResponse, error) {
	query := `
		SELECT resp.id, resp.rfq_id, resp.supplier_id, resp.price, resp.delivery_date,
		       resp.message, resp.created_at, s.name
		FROM rfq_responses resp
		JOIN companies s ON s.id = resp.supplier_id
		WHERE resp.rfq_id = $1
		ORDER BY resp.created_at ASC`

	rows, err := r.db.Query(ctx, query, rfqID)
	if err != nil {
		return nil, fmt.Errorf("list rfq responses: %w", err)
	}
	defer rows.Close()

	var responses []*models.RFQResponse
	for rows.Next() {
		var resp models.RFQResponse
		err := rows.Scan(&resp.ID, &resp.RFQID, &resp.SupplierID, &resp.Price,
			&resp.DeliveryDate, &resp.Message, &resp.CreatedAt, &resp.SupplierName)
		if err != nil {
			return nil, fmt.Errorf("scan rfq response: %w", err)
		}
		responses = append(responses, &resp)
	}
	return responses, rows.Err()
}
