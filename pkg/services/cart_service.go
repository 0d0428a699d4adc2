package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/mail"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// CartService materializes a buyer's session cart into one quote group
// and its quote requests.
type CartService interface {
	// SubmitCart converts the cart atomically: either the group and all
	// quotes commit, or nothing is written. Each supplier gets one
	// notification row per quote but exactly one live push, regardless
	// of how many cart lines target them.
	SubmitCart(ctx context.Context, buyerID uuid.UUID, groupName string, cart models.Cart) (*models.QuoteGroup, []*models.QuoteRequest, error)
}

type cartService struct {
	quotes        repositories.QuoteRepository
	products      repositories.ProductRepository
	companies     repositories.CompanyRepository
	notifications NotificationService
	mailer        mail.Enqueuer
	logger        *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(
	quotes repositories.QuoteRepository,
	products repositories.ProductRepository,
	companies repositories.CompanyRepository,
	notifications NotificationService,
	mailer mail.Enqueuer,
	logger *zap.Logger,
) CartService {
	return &cartService{
		quotes:        quotes,
		products:      products,
		companies:     companies,
		notifications: notifications,
		mailer:        mailer,
		logger:        logger.Named("cart-service"),
	}
}

var _ CartService = (*cartService)(nil)

func (s *cartService) SubmitCart(ctx context.Context, buyerID uuid.UUID, groupName string, cart models.Cart) (*models.QuoteGroup, []*models.QuoteRequest, error) {
	// Everything is validated before any row is written.
	if strings.TrimSpace(groupName) == "" {
		return nil, nil, fmt.Errorf("%w: group name is required", apperrors.ErrValidation)
	}
	if cart.IsEmpty() {
		return nil, nil, apperrors.ErrEmptyCart
	}

	lines := cart.Lines()
	quotes := make([]*models.QuoteRequest, 0, len(lines))
	productNames := make(map[uuid.UUID]string, len(lines))
	for _, line := range lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		productNames[product.ID] = product.Name
		quotes = append(quotes, &models.QuoteRequest{
			ProductID:  product.ID,
			BuyerID:    buyerID,
			SupplierID: product.SupplierID,
			Quantity:   line.Quantity,
		})
	}

	group := &models.QuoteGroup{BuyerID: buyerID, Name: strings.TrimSpace(groupName)}
	if err := s.quotes.CreateGroupWithQuotes(ctx, group, quotes); err != nil {
		return nil, nil, err
	}

	// One notification row per quote, one push and one email per
	// distinct supplier.
	perSupplier := make(map[uuid.UUID]int)
	for _, quote := range quotes {
		s.notifications.Record(ctx, quote.SupplierID,
			fmt.Sprintf("Nova solicitação de cotação para %s (lote %s)", productNames[quote.ProductID], group.Name),
			quoteLink(quote.ID))
		perSupplier[quote.SupplierID]++
	}
	for supplierID, count := range perSupplier {
		s.notifications.PushUnread(ctx, supplierID)
		s.email(ctx, supplierID, count)
	}

	return group, quotes, nil
}

func (s *cartService) email(ctx context.Context, supplierID uuid.UUID, count int) {
	supplier, err := s.companies.GetByID(ctx, supplierID)
	if err != nil {
		s.logger.Warn("Skipping email, supplier lookup failed",
			zap.String("supplier_id", supplierID.String()), zap.Error(err))
		return
	}
	s.mailer.Enqueue(ctx, mail.Message{
		To:      supplier.Email,
		Subject: "Novas solicitações de cotação",
		Body:    fmt.Sprintf("Você recebeu %d nova(s) solicitação(ões) de cotação.", count),
	})
}
