package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/mail"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// SubmitQuoteInput is a buyer's quote request for a single product.
type SubmitQuoteInput struct {
	ProductID          uuid.UUID
	Quantity           int
	Message            string
	AttachmentFilename *string
}

// RespondQuoteInput is a supplier's offer against a pending quote.
type RespondQuoteInput struct {
	OfferedPrice float64
	DeliveryDate *time.Time
	Message      *string
}

// QuoteService drives the quote request lifecycle:
// pending -> responded -> accepted | declined. Terminal states are
// final; out-of-order transitions fail with ErrInvalidTransition.
type QuoteService interface {
	Submit(ctx context.Context, buyerID uuid.UUID, in SubmitQuoteInput) (*models.QuoteRequest, error)
	Respond(ctx context.Context, supplierID, quoteID uuid.UUID, in RespondQuoteInput) (*models.QuoteRequest, error)
	Accept(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error)
	Decline(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error)

	// Get enforces the participant check: only the quote's buyer or
	// supplier may read it.
	Get(ctx context.Context, actorID, quoteID uuid.UUID) (*models.QuoteRequest, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error)

	// ExportCSV writes the company's quotes in the fixed column order
	// ID, Produto, Status, Qtd, Preço Ofertado, Comprador, Fornecedor,
	// Data. The header row is always written.
	ExportCSV(ctx context.Context, companyID uuid.UUID, w io.Writer) error
}

type quoteService struct {
	quotes        repositories.QuoteRepository
	products      repositories.ProductRepository
	companies     repositories.CompanyRepository
	notifications NotificationService
	mailer        mail.Enqueuer
	logger        *zap.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(
	quotes repositories.QuoteRepository,
	products repositories.ProductRepository,
	companies repositories.CompanyRepository,
	notifications NotificationService,
	mailer mail.Enqueuer,
	logger *zap.Logger,
) QuoteService {
	return &quoteService{
		quotes:        quotes,
		products:      products,
		companies:     companies,
		notifications: notifications,
		mailer:        mailer,
		logger:        logger.Named("quote-service"),
	}
}

var _ QuoteService = (*quoteService)(nil)

func (s *quoteService) Submit(ctx context.Context, buyerID uuid.UUID, in SubmitQuoteInput) (*models.QuoteRequest, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", apperrors.ErrValidation)
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	quote := &models.QuoteRequest{
		ProductID:          product.ID,
		BuyerID:            buyerID,
		SupplierID:         product.SupplierID,
		Quantity:           in.Quantity,
		Message:            in.Message,
		AttachmentFilename: in.AttachmentFilename,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, err
	}
	quote.ProductName = product.Name

	s.runEffects(ctx, quote.SupplierID,
		fmt.Sprintf("Nova solicitação de cotação para %s", product.Name),
		quoteLink(quote.ID),
		"Nova solicitação de cotação",
		fmt.Sprintf("Você recebeu uma nova solicitação de cotação para %s (quantidade: %d).", product.Name, in.Quantity))

	return quote, nil
}

func (s *quoteService) Respond(ctx context.Context, supplierID, quoteID uuid.UUID, in RespondQuoteInput) (*models.QuoteRequest, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.SupplierID != supplierID {
		return nil, apperrors.ErrForbidden
	}
	if in.OfferedPrice <= 0 {
		return nil, fmt.Errorf("%w: offered price is required", apperrors.ErrValidation)
	}
	if !quote.Status.CanRespond() {
		return nil, apperrors.ErrInvalidTransition
	}

	respondedAt := time.Now().UTC()
	if err := s.quotes.RecordResponse(ctx, quoteID, in.OfferedPrice, in.DeliveryDate, in.Message, respondedAt); err != nil {
		return nil, err
	}

	quote.Status = models.QuoteResponded
	quote.OfferedPrice = &in.OfferedPrice
	quote.DeliveryDate = in.DeliveryDate
	quote.SupplierMessage = in.Message
	quote.RespondedAt = &respondedAt

	s.runEffects(ctx, quote.BuyerID,
		fmt.Sprintf("Sua cotação para %s foi respondida", quote.ProductName),
		quoteLink(quote.ID),
		"Proposta recebida",
		fmt.Sprintf("O fornecedor %s enviou uma proposta para %s.", quote.SupplierName, quote.ProductName))

	return quote, nil
}

func (s *quoteService) Accept(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	return s.decide(ctx, buyerID, quoteID, models.QuoteAccepted)
}

func (s *quoteService) Decline(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	return s.decide(ctx, buyerID, quoteID, models.QuoteDeclined)
}

func (s *quoteService) decide(ctx context.Context, buyerID, quoteID uuid.UUID, status models.QuoteStatus) (*models.QuoteRequest, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.BuyerID != buyerID {
		return nil, apperrors.ErrForbidden
	}
	if !quote.Status.CanDecide() {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.quotes.RecordDecision(ctx, quoteID, status); err != nil {
		return nil, err
	}
	quote.Status = status

	verb := "aceita"
	if status == models.QuoteDeclined {
		verb = "recusada"
	}
	s.runEffects(ctx, quote.SupplierID,
		fmt.Sprintf("Sua proposta para %s foi %s", quote.ProductName, verb),
		quoteLink(quote.ID),
		"Decisão do comprador",
		fmt.Sprintf("O comprador %s %s sua proposta para %s.", quote.BuyerName, verb, quote.ProductName))

	return quote, nil
}

func (s *quoteService) Get(ctx context.Context, actorID, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !quote.Participant(actorID) {
		return nil, apperrors.ErrForbidden
	}
	return quote, nil
}

func (s *quoteService) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error) {
	return s.quotes.ListByCompany(ctx, companyID)
}

func (s *quoteService) ExportCSV(ctx context.Context, companyID uuid.UUID, w io.Writer) error {
	quotes, err := s.quotes.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Produto", "Status", "Qtd", "Preço Ofertado", "Comprador", "Fornecedor", "Data"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, q := range quotes {
		price := ""
		if q.OfferedPrice != nil {
			price = strconv.FormatFloat(*q.OfferedPrice, 'f', 2, 64)
		}
		record := []string{
			q.ID.String(),
			q.ProductName,
			string(q.Status),
			strconv.Itoa(q.Quantity),
			price,
			q.BuyerName,
			q.SupplierName,
			q.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// runEffects executes the ordered post-commit side effects of a
// transition: persisted notification with live push, then email. Each
// effect is independent and fire-and-forget.
func (s *quoteService) runEffects(ctx context.Context, recipientID uuid.UUID, notification, link, subject, body string) {
	s.notifications.Notify(ctx, recipientID, notification, link)
	s.email(ctx, recipientID, subject, body)
}

func (s *quoteService) email(ctx context.Context, recipientID uuid.UUID, subject, body string) {
	recipient, err := s.companies.GetByID(ctx, recipientID)
	if err != nil {
		s.logger.Warn("Skipping email, recipient lookup failed",
			zap.String("recipient_id", recipientID.String()), zap.Error(err))
		return
	}
	s.mailer.Enqueue(ctx, mail.Message{To: recipient.Email, Subject: subject, Body: body})
}

func quoteLink(quoteID uuid.UUID) string {
	return "/quotes/" + quoteID.String()
}
