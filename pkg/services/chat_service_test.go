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

type chatFixture struct {
	svc   ChatService
	chats *mockChatRepo

	buyer    *models.Company
	supplier *models.Company
	quoteID  uuid.UUID
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	companies := newMockCompanyRepo()
	buyer := &models.Company{Name: "Compras Ltda", TaxID: "11111111000111", Email: "compras@example.com", Role: models.RoleBuyer}
	supplier := &models.Company{Name: "Fornece SA", TaxID: "22222222000122", Email: "vendas@example.com", Role: models.RoleSupplier}
	require.NoError(t, companies.Create(context.Background(), buyer))
	require.NoError(t, companies.Create(context.Background(), supplier))

	quotes := newMockQuoteRepo()
	quote := &models.QuoteRequest{ProductID: uuid.New(), BuyerID: buyer.ID, SupplierID: supplier.ID, Quantity: 1}
	require.NoError(t, quotes.Create(context.Background(), quote))

	chats := &mockChatRepo{}
	return &chatFixture{
		svc:      NewChatService(chats, quotes, companies, zap.NewNop()),
		chats:    chats,
		buyer:    buyer,
		supplier: supplier,
		quoteID:  quote.ID,
	}
}

func TestChatService_Authorize(t *testing.T) {
	f := newChatFixture(t)

	assert.NoError(t, f.svc.Authorize(context.Background(), f.buyer.ID, f.quoteID))
	assert.NoError(t, f.svc.Authorize(context.Background(), f.supplier.ID, f.quoteID))
	assert.ErrorIs(t, f.svc.Authorize(context.Background(), uuid.New(), f.quoteID), apperrors.ErrForbidden)
}

func TestChatService_SaveMessage(t *testing.T) {
	f := newChatFixture(t)

	message, err := f.svc.SaveMessage(context.Background(), f.buyer.ID, f.quoteID, "Qual o prazo de entrega?", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Compras Ltda", message.SenderName)
	assert.Len(t, f.chats.messages, 1)
}

func TestChatService_SaveMessage_OutsiderRejected(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SaveMessage(context.Background(), uuid.New(), f.quoteID, "oi", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, f.chats.messages)
}

func TestChatService_SaveMessage_EmptyRejected(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SaveMessage(context.Background(), f.buyer.ID, f.quoteID, "   ", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestChatService_SaveMessage_AttachmentOnly(t *testing.T) {
	f := newChatFixture(t)

	filename := "orcamento.pdf"
	kind := "application/pdf"
	message, err := f.svc.SaveMessage(context.Background(), f.supplier.ID, f.quoteID, "", &filename, &kind)
	require.NoError(t, err)
	require.NotNil(t, message.AttachmentFilename)
	assert.Equal(t, "orcamento.pdf", *message.AttachmentFilename)
}

func TestChatService_History(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.SaveMessage(context.Background(), f.buyer.ID, f.quoteID, "Qual o prazo?", nil, nil)
	require.NoError(t, err)
	_, err = f.svc.SaveMessage(context.Background(), f.supplier.ID, f.quoteID, "15 dias úteis", nil, nil)
	require.NoError(t, err)

	history, err := f.svc.History(context.Background(), f.buyer.ID, f.quoteID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = f.svc.History(context.Background(), uuid.New(), f.quoteID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
