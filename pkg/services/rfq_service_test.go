package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

type rfqFixture struct {
	svc    RFQService
	rfqs   *mockRFQRepo
	notifs *mockNotificationRepo
	mailer *mockEnqueuer

	buyer *models.Company
}

func newRFQFixture(t *testing.T) *rfqFixture {
	t.Helper()

	companies := newMockCompanyRepo()
	buyer := &models.Company{Name: "Compras Ltda", TaxID: "11111111000111", Email: "compras@example.com", Role: models.RoleBuyer}
	require.NoError(t, companies.Create(context.Background(), buyer))

	rfqs := newMockRFQRepo()
	notifs := &mockNotificationRepo{}
	mailer := &mockEnqueuer{}
	logger := zap.NewNop()
	notifications := NewNotificationService(notifs, newMockPusher(), logger)

	return &rfqFixture{
		svc:    NewRFQService(rfqs, companies, notifications, mailer, logger),
		rfqs:   rfqs,
		notifs: notifs,
		mailer: mailer,
		buyer:  buyer,
	}
}

func (f *rfqFixture) create(t *testing.T) *models.OpenRFQ {
	t.Helper()
	rfq, err := f.svc.Create(context.Background(), f.buyer.ID, CreateRFQInput{
		Title:       "Chapas de aço",
		Description: "Chapas 2mm, corte a laser",
		Category:    "Metalurgia",
		Quantity:    500,
	})
	require.NoError(t, err)
	return rfq
}

func TestRFQService_Create(t *testing.T) {
	f := newRFQFixture(t)

	rfq := f.create(t)

	assert.Equal(t, models.RFQOpen, rfq.Status)
	assert.Equal(t, f.buyer.ID, rfq.BuyerID)

	open, err := f.svc.ListOpen(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestRFQService_Create_Validation(t *testing.T) {
	f := newRFQFixture(t)

	cases := []CreateRFQInput{
		{Title: "", Description: "d", Category: "c", Quantity: 1},
		{Title: "t", Description: "", Category: "c", Quantity: 1},
		{Title: "t", Description: "d", Category: "", Quantity: 1},
		{Title: "t", Description: "d", Category: "c", Quantity: 0},
	}
	for _, in := range cases {
		_, err := f.svc.Create(context.Background(), f.buyer.ID, in)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestRFQService_Respond(t *testing.T) {
	f := newRFQFixture(t)
	rfq := f.create(t)
	supplierID := uuid.New()

	response, err := f.svc.Respond(context.Background(), supplierID, rfq.ID, RespondRFQInput{
		Price:   1250.00,
		Message: "Prazo de 15 dias",
	})
	require.NoError(t, err)
	assert.Equal(t, supplierID, response.SupplierID)

	// Buyer hears about the new response.
	assert.Len(t, f.notifs.forCompany(f.buyer.ID), 1)
	assert.Len(t, f.mailer.sentTo(f.buyer.Email), 1)
}

func TestRFQService_Respond_ClosedRFQ(t *testing.T) {
	f := newRFQFixture(t)
	rfq := f.create(t)
	require.NoError(t, f.rfqs.Close(context.Background(), rfq.ID))

	_, err := f.svc.Respond(context.Background(), uuid.New(), rfq.ID, RespondRFQInput{Price: 10})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRFQService_Respond_RequiresPrice(t *testing.T) {
	f := newRFQFixture(t)
	rfq := f.create(t)

	_, err := f.svc.Respond(context.Background(), uuid.New(), rfq.ID, RespondRFQInput{Price: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRFQService_Responses_Visibility(t *testing.T) {
	f := newRFQFixture(t)
	rfq := f.create(t)

	s1, s2 := uuid.New(), uuid.New()
	_, err := f.svc.Respond(context.Background(), s1, rfq.ID, RespondRFQInput{Price: 100})
	require.NoError(t, err)
	_, err = f.svc.Respond(context.Background(), s2, rfq.ID, RespondRFQInput{Price: 90})
	require.NoError(t, err)

	// The RFQ owner sees every response.
	all, err := f.svc.Responses(context.Background(), f.buyer.ID, rfq.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Each supplier sees only their own.
	own, err := f.svc.Responses(context.Background(), s1, rfq.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, s1, own[0].SupplierID)

	// A stranger sees nothing.
	none, err := f.svc.Responses(context.Background(), uuid.New(), rfq.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
