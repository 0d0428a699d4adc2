package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/connecta-b2b/connecta-server/pkg/auth"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/services"
)

const testSecret = "handler-test-secret"

// sessionCookie logs the company in against a throwaway response and
// returns the resulting session cookie for replay in test requests.
func sessionCookie(t *testing.T, store *auth.Store, company *models.Company) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	require.NoError(t, store.Login(req, rec, company))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func testCompany(role models.Role) *models.Company {
	return &models.Company{
		ID:   uuid.New(),
		Name: "Empresa Teste",
		Role: role,
	}
}

// Function-field service mocks. Unset fields panic, which keeps tests
// honest about what they exercise.

type mockQuoteService struct {
	SubmitFn         func(ctx context.Context, buyerID uuid.UUID, in services.SubmitQuoteInput) (*models.QuoteRequest, error)
	RespondFn        func(ctx context.Context, supplierID, quoteID uuid.UUID, in services.RespondQuoteInput) (*models.QuoteRequest, error)
	AcceptFn         func(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error)
	DeclineFn        func(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error)
	GetFn            func(ctx context.Context, actorID, quoteID uuid.UUID) (*models.QuoteRequest, error)
	ListForCompanyFn func(ctx context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error)
	ExportCSVFn      func(ctx context.Context, companyID uuid.UUID, w io.Writer) error
}

var _ services.QuoteService = (*mockQuoteService)(nil)

func (m *mockQuoteService) Submit(ctx context.Context, buyerID uuid.UUID, in services.SubmitQuoteInput) (*models.QuoteRequest, error) {
	return m.SubmitFn(ctx, buyerID, in)
}

func (m *mockQuoteService) Respond(ctx context.Context, supplierID, quoteID uuid.UUID, in services.RespondQuoteInput) (*models.QuoteRequest, error) {
	return m.RespondFn(ctx, supplierID, quoteID, in)
}

func (m *mockQuoteService) Accept(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	return m.AcceptFn(ctx, buyerID, quoteID)
}

func (m *mockQuoteService) Decline(ctx context.Context, buyerID, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	return m.DeclineFn(ctx, buyerID, quoteID)
}

func (m *mockQuoteService) Get(ctx context.Context, actorID, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	return m.GetFn(ctx, actorID, quoteID)
}

func (m *mockQuoteService) ListForCompany(ctx context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error) {
	return m.ListForCompanyFn(ctx, companyID)
}

func (m *mockQuoteService) ExportCSV(ctx context.Context, companyID uuid.UUID, w io.Writer) error {
	return m.ExportCSVFn(ctx, companyID, w)
}

type mockReviewService struct {
	CreateFn          func(ctx context.Context, buyerID, quoteID uuid.UUID, rating int, comment string) (*models.Review, error)
	ListBySupplierFn  func(ctx context.Context, supplierID uuid.UUID) ([]*models.Review, error)
	SupplierSummaryFn func(ctx context.Context, supplierID uuid.UUID) (*models.RatingSummary, error)
}

var _ services.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) Create(ctx context.Context, buyerID, quoteID uuid.UUID, rating int, comment string) (*models.Review, error) {
	return m.CreateFn(ctx, buyerID, quoteID, rating, comment)
}

func (m *mockReviewService) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Review, error) {
	return m.ListBySupplierFn(ctx, supplierID)
}

func (m *mockReviewService) SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*models.RatingSummary, error) {
	return m.SupplierSummaryFn(ctx, supplierID)
}

type mockChatService struct {
	AuthorizeFn   func(ctx context.Context, companyID, quoteID uuid.UUID) error
	SaveMessageFn func(ctx context.Context, senderID, quoteID uuid.UUID, body string, attachmentFilename, attachmentType *string) (*models.ChatMessage, error)
	HistoryFn     func(ctx context.Context, actorID, quoteID uuid.UUID) ([]*models.ChatMessage, error)
}

var _ services.ChatService = (*mockChatService)(nil)

func (m *mockChatService) Authorize(ctx context.Context, companyID, quoteID uuid.UUID) error {
	return m.AuthorizeFn(ctx, companyID, quoteID)
}

func (m *mockChatService) SaveMessage(ctx context.Context, senderID, quoteID uuid.UUID, body string, attachmentFilename, attachmentType *string) (*models.ChatMessage, error) {
	return m.SaveMessageFn(ctx, senderID, quoteID, body, attachmentFilename, attachmentType)
}

func (m *mockChatService) History(ctx context.Context, actorID, quoteID uuid.UUID) ([]*models.ChatMessage, error) {
	return m.HistoryFn(ctx, actorID, quoteID)
}

type mockAccountService struct {
	RegisterFn      func(ctx context.Context, in services.RegisterInput) (*models.Company, error)
	LoginFn         func(ctx context.Context, email, password string) (*models.Company, error)
	GetFn           func(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateProfileFn func(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.Company, error)
}

var _ services.AccountService = (*mockAccountService)(nil)

func (m *mockAccountService) Register(ctx context.Context, in services.RegisterInput) (*models.Company, error) {
	return m.RegisterFn(ctx, in)
}

func (m *mockAccountService) Login(ctx context.Context, email, password string) (*models.Company, error) {
	return m.LoginFn(ctx, email, password)
}

func (m *mockAccountService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.GetFn(ctx, id)
}

func (m *mockAccountService) UpdateProfile(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.Company, error) {
	return m.UpdateProfileFn(ctx, id, in)
}

type mockCartService struct {
	SubmitCartFn func(ctx context.Context, buyerID uuid.UUID, groupName string, cart models.Cart) (*models.QuoteGroup, []*models.QuoteRequest, error)
}

var _ services.CartService = (*mockCartService)(nil)

func (m *mockCartService) SubmitCart(ctx context.Context, buyerID uuid.UUID, groupName string, cart models.Cart) (*models.QuoteGroup, []*models.QuoteRequest, error) {
	return m.SubmitCartFn(ctx, buyerID, groupName, cart)
}
