package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/mail"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/realtime"
)

// In-memory repository doubles. They mimic the real repositories'
// contract, including the compare-and-set status transitions, so the
// services can be exercised without a database.

type mockProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *models.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) List(_ context.Context, category string) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range m.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range m.products {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockCompanyRepo struct {
	companies map[uuid.UUID]*models.Company
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[uuid.UUID]*models.Company)}
}

func (m *mockCompanyRepo) Create(_ context.Context, c *models.Company) error {
	for _, existing := range m.companies {
		if existing.Email == c.Email || existing.TaxID == c.TaxID {
			return apperrors.ErrConflict
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Active = true
	c.CreatedAt = time.Now().UTC()
	m.companies[c.ID] = c
	return nil
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (m *mockCompanyRepo) GetByEmail(_ context.Context, email string) (*models.Company, error) {
	for _, c := range m.companies {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyRepo) UpdateProfile(_ context.Context, c *models.Company) error {
	if _, ok := m.companies[c.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.companies[c.ID] = c
	return nil
}

func (m *mockCompanyRepo) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	c, ok := m.companies[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Verified = verified
	return nil
}

func (m *mockCompanyRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	c, ok := m.companies[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Active = active
	return nil
}

func (m *mockCompanyRepo) List(_ context.Context) ([]*models.Company, error) {
	out := make([]*models.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	return out, nil
}

type mockQuoteRepo struct {
	quotes map[uuid.UUID]*models.QuoteRequest
	groups map[uuid.UUID]*models.QuoteGroup
}

func newMockQuoteRepo() *mockQuoteRepo {
	return &mockQuoteRepo{
		quotes: make(map[uuid.UUID]*models.QuoteRequest),
		groups: make(map[uuid.UUID]*models.QuoteGroup),
	}
}

func (m *mockQuoteRepo) Create(_ context.Context, q *models.QuoteRequest) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Status == "" {
		q.Status = models.QuotePending
	}
	q.CreatedAt = time.Now().UTC()
	m.quotes[q.ID] = q
	return nil
}

func (m *mockQuoteRepo) GetByID(_ context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (m *mockQuoteRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]*models.QuoteRequest, error) {
	var out []*models.QuoteRequest
	for _, q := range m.quotes {
		if q.BuyerID == companyID || q.SupplierID == companyID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *mockQuoteRepo) RecordResponse(_ context.Context, id uuid.UUID, price float64, deliveryDate *time.Time, message *string, respondedAt time.Time) error {
	q, ok := m.quotes[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !q.Status.CanRespond() {
		return apperrors.ErrInvalidTransition
	}
	q.Status = models.QuoteResponded
	q.OfferedPrice = &price
	q.DeliveryDate = deliveryDate
	q.SupplierMessage = message
	q.RespondedAt = &respondedAt
	return nil
}

func (m *mockQuoteRepo) RecordDecision(_ context.Context, id uuid.UUID, status models.QuoteStatus) error {
	q, ok := m.quotes[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !q.Status.CanDecide() {
		return apperrors.ErrInvalidTransition
	}
	q.Status = status
	return nil
}

func (m *mockQuoteRepo) CreateGroupWithQuotes(ctx context.Context, group *models.QuoteGroup, quotes []*models.QuoteRequest) error {
	group.ID = uuid.New()
	group.CreatedAt = time.Now().UTC()
	m.groups[group.ID] = group
	for _, q := range quotes {
		q.GroupID = &group.ID
		if err := m.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

type mockNotificationRepo struct {
	created []*models.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) ListByCompany(_ context.Context, companyID uuid.UUID, _ int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.created {
		if n.CompanyID == companyID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, companyID uuid.UUID) error {
	for _, n := range m.created {
		if n.CompanyID == companyID {
			n.Read = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) UnreadCount(_ context.Context, companyID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.created {
		if n.CompanyID == companyID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) forCompany(companyID uuid.UUID) []*models.Notification {
	var out []*models.Notification
	for _, n := range m.created {
		if n.CompanyID == companyID {
			out = append(out, n)
		}
	}
	return out
}

type mockReviewRepo struct {
	byQuote map[uuid.UUID]*models.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{byQuote: make(map[uuid.UUID]*models.Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, r *models.Review) error {
	if _, ok := m.byQuote[r.QuoteID]; ok {
		return apperrors.ErrConflict
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	m.byQuote[r.QuoteID] = r
	return nil
}

func (m *mockReviewRepo) GetByQuoteID(_ context.Context, quoteID uuid.UUID) (*models.Review, error) {
	r, ok := m.byQuote[quoteID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r, nil
}

func (m *mockReviewRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID) ([]*models.Review, error) {
	var out []*models.Review
	for _, r := range m.byQuote {
		if r.SupplierID == supplierID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) SupplierSummary(_ context.Context, supplierID uuid.UUID) (*models.RatingSummary, error) {
	summary := &models.RatingSummary{SupplierID: supplierID}
	total := 0
	for _, r := range m.byQuote {
		if r.SupplierID == supplierID {
			summary.ReviewCount++
			total += r.Rating
		}
	}
	if summary.ReviewCount > 0 {
		summary.Average = float64(total) / float64(summary.ReviewCount)
	}
	return summary, nil
}

type mockRFQRepo struct {
	rfqs      map[uuid.UUID]*models.OpenRFQ
	responses []*models.RFQResponse
}

func newMockRFQRepo() *mockRFQRepo {
	return &mockRFQRepo{rfqs: make(map[uuid.UUID]*models.OpenRFQ)}
}

func (m *mockRFQRepo) Create(_ context.Context, rfq *models.OpenRFQ) error {
	rfq.ID = uuid.New()
	rfq.Status = models.RFQOpen
	rfq.CreatedAt = time.Now().UTC()
	m.rfqs[rfq.ID] = rfq
	return nil
}

func (m *mockRFQRepo) GetByID(_ context.Context, id uuid.UUID) (*models.OpenRFQ, error) {
	rfq, ok := m.rfqs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rfq, nil
}

func (m *mockRFQRepo) ListOpen(_ context.Context) ([]*models.OpenRFQ, error) {
	var out []*models.OpenRFQ
	for _, rfq := range m.rfqs {
		if rfq.Status == models.RFQOpen {
			out = append(out, rfq)
		}
	}
	return out, nil
}

func (m *mockRFQRepo) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]*models.OpenRFQ, error) {
	var out []*models.OpenRFQ
	for _, rfq := range m.rfqs {
		if rfq.BuyerID == buyerID {
			out = append(out, rfq)
		}
	}
	return out, nil
}

func (m *mockRFQRepo) Close(_ context.Context, id uuid.UUID) error {
	rfq, ok := m.rfqs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	rfq.Status = models.RFQClosed
	return nil
}

func (m *mockRFQRepo) CreateResponse(_ context.Context, r *models.RFQResponse) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	m.responses = append(m.responses, r)
	return nil
}

func (m *mockRFQRepo) ListResponses(_ context.Context, rfqID uuid.UUID) ([]*models.RFQResponse, error) {
	var out []*models.RFQResponse
	for _, r := range m.responses {
		if r.RFQID == rfqID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockChatRepo struct {
	messages []*models.ChatMessage
}

func (m *mockChatRepo) Create(_ context.Context, msg *models.ChatMessage) error {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockChatRepo) ListByQuote(_ context.Context, quoteID uuid.UUID) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for _, msg := range m.messages {
		if msg.QuoteID == quoteID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// mockPusher records every live push per recipient.
type mockPusher struct {
	mu     sync.Mutex
	events map[uuid.UUID][]realtime.Event
}

func newMockPusher() *mockPusher {
	return &mockPusher{events: make(map[uuid.UUID][]realtime.Event)}
}

func (m *mockPusher) PushToUser(companyID uuid.UUID, event realtime.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[companyID] = append(m.events[companyID], event)
}

func (m *mockPusher) pushesTo(companyID uuid.UUID) []realtime.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[companyID]
}

// mockEnqueuer records outbound mail instead of queueing it.
type mockEnqueuer struct {
	sent []mail.Message
}

func (m *mockEnqueuer) Enqueue(_ context.Context, msg mail.Message) {
	m.sent = append(m.sent, msg)
}

func (m *mockEnqueuer) sentTo(address string) []mail.Message {
	var out []mail.Message
	for _, msg := range m.sent {
		if msg.To == address {
			out = append(out, msg)
		}
	}
	return out
}
