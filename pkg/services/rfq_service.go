package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/mail"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// CreateRFQInput is a buyer's new open RFQ.
type CreateRFQInput struct {
	Title       string
	Description string
	Category    string
	Quantity    int
	Deadline    *time.Time
}

// RespondRFQInput is a supplier's offer against an open RFQ.
type RespondRFQInput struct {
	Price        float64
	DeliveryDate *time.Time
	Message      string
}

// RFQService manages open RFQs. Responses are appended with no ranking
// or aggregation; comparison is left to the buyer.
type RFQService interface {
	Create(ctx context.Context, buyerID uuid.UUID, in CreateRFQInput) (*models.OpenRFQ, error)
	Get(ctx context.Context, id uuid.UUID) (*models.OpenRFQ, error)
	ListOpen(ctx context.Context) ([]*models.OpenRFQ, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.OpenRFQ, error)

	// Respond appends a supplier offer and notifies the buyer. Closed
	// RFQs reject new responses.
	Respond(ctx context.Context, supplierID, rfqID uuid.UUID, in RespondRFQInput) (*models.RFQResponse, error)

	// Responses returns all responses to the RFQ owner, and only the
	// supplier's own responses to anyone else.
	Responses(ctx context.Context, actorID, rfqID uuid.UUID) ([]*models.RFQResponse, error)
}

type rfqService struct {
	rfqs          repositories.RFQRepository
	companies     repositories.CompanyRepository
	notifications NotificationService
	mailer        mail.Enqueuer
	logger        *zap.Logger
}

// NewRFQService creates a new RFQService.
func NewRFQService(
	rfqs repositories.RFQRepository,
	companies repositories.CompanyRepository,
	notifications NotificationService,
	mailer mail.Enqueuer,
	logger *zap.Logger,
) RFQService {
	return &rfqService{
		rfqs:          rfqs,
		companies:     companies,
		notifications: notifications,
		mailer:        mailer,
		logger:        logger.Named("rfq-service"),
	}
}

var _ RFQService = (*rfqService)(nil)

func (s *rfqService) Create(ctx context.Context, buyerID uuid.UUID, in CreateRFQInput) (*models.OpenRFQ, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: title, description and category are required", apperrors.ErrValidation)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", apperrors.ErrValidation)
	}

	rfq := &models.OpenRFQ{
		BuyerID:     buyerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Deadline:    in.Deadline,
	}
	if err := s.rfqs.Create(ctx, rfq); err != nil {
		return nil, err
	}
	return rfq, nil
}

func (s *rfqService) Get(ctx context.Context, id uuid.UUID) (*models.OpenRFQ, error) {
	return s.rfqs.GetByID(ctx, id)
}

func (s *rfqService) ListOpen(ctx context.Context) ([]*models.OpenRFQ, error) {
	return s.rfqs.ListOpen(ctx)
}

func (s *rfqService) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.OpenRFQ, error) {
	return s.rfqs.ListByBuyer(ctx, buyerID)
}

func (s *rfqService) Respond(ctx context.Context, supplierID, rfqID uuid.UUID, in RespondRFQInput) (*models.RFQResponse, error) {
	rfq, err := s.rfqs.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != models.RFQOpen {
		return nil, fmt.Errorf("%w: rfq is closed", apperrors.ErrConflict)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: price is required", apperrors.ErrValidation)
	}

	response := &models.RFQResponse{
		RFQID:        rfqID,
		SupplierID:   supplierID,
		Price:        in.Price,
		DeliveryDate: in.DeliveryDate,
		Message:      in.Message,
	}
	if err := s.rfqs.CreateResponse(ctx, response); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, rfq.BuyerID,
		fmt.Sprintf("Nova resposta à sua RFQ %q", rfq.Title),
		"/rfqs/"+rfqID.String())
	s.emailBuyer(ctx, rfq)

	return response, nil
}

func (s *rfqService) emailBuyer(ctx context.Context, rfq *models.OpenRFQ) {
	buyer, err := s.companies.GetByID(ctx, rfq.BuyerID)
	if err != nil {
		s.logger.Warn("Skipping email, buyer lookup failed",
			zap.String("buyer_id", rfq.BuyerID.String()), zap.Error(err))
		return
	}
	s.mailer.Enqueue(ctx, mail.Message{
		To:      buyer.Email,
		Subject: "Nova resposta à sua RFQ",
		Body:    fmt.Sprintf("Sua RFQ %q recebeu uma nova resposta de fornecedor.", rfq.Title),
	})
}

func (s *rfqService) Responses(ctx context.Context, actorID, rfqID uuid.UUID) ([]*models.RFQResponse, error) {
	rfq, err := s.rfqs.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	responses, err := s.rfqs.ListResponses(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.BuyerID == actorID {
		return responses, nil
	}

	// Suppliers see only what they submitted themselves.
	own := make([]*models.RFQResponse, 0)
	for _, resp := range responses {
		if resp.SupplierID == actorID {
			own = append(own, resp)
		}
	}
	return own, nil
}
