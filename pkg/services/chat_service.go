package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// ChatService persists quote chat and enforces room membership. It is
// the realtime hub's delegate: inbound socket messages land here before
// being broadcast.
type ChatService interface {
	Authorize(ctx context.Context, companyID, quoteID uuid.UUID) error
	SaveMessage(ctx context.Context, senderID, quoteID uuid.UUID, body string, attachmentFilename, attachmentType *string) (*models.ChatMessage, error)

	// History returns the persisted messages of a quote to one of its
	// participants.
	History(ctx context.Context, actorID, quoteID uuid.UUID) ([]*models.ChatMessage, error)
}

type chatService struct {
	chats     repositories.ChatRepository
	quotes    repositories.QuoteRepository
	companies repositories.CompanyRepository
	logger    *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(
	chats repositories.ChatRepository,
	quotes repositories.QuoteRepository,
	companies repositories.CompanyRepository,
	logger *zap.Logger,
) ChatService {
	return &chatService{
		chats:     chats,
		quotes:    quotes,
		companies: companies,
		logger:    logger.Named("chat-service"),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) Authorize(ctx context.Context, companyID, quoteID uuid.UUID) error {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return err
	}
	if !quote.Participant(companyID) {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *chatService) SaveMessage(ctx context.Context, senderID, quoteID uuid.UUID, body string, attachmentFilename, attachmentType *string) (*models.ChatMessage, error) {
	if err := s.Authorize(ctx, senderID, quoteID); err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		QuoteID:            quoteID,
		SenderID:           senderID,
		Body:               strings.TrimSpace(body),
		AttachmentFilename: attachmentFilename,
		AttachmentType:     attachmentType,
	}
	if message.Empty() {
		return nil, apperrors.ErrValidation
	}

	if err := s.chats.Create(ctx, message); err != nil {
		return nil, err
	}

	if sender, err := s.companies.GetByID(ctx, senderID); err == nil {
		message.SenderName = sender.Name
	} else {
		s.logger.Warn("Failed to resolve sender name",
			zap.String("sender_id", senderID.String()), zap.Error(err))
	}

	return message, nil
}

func (s *chatService) History(ctx context.Context, actorID, quoteID uuid.UUID) ([]*models.ChatMessage, error) {
	if err := s.Authorize(ctx, actorID, quoteID); err != nil {
		return nil, err
	}
	return s.chats.ListByQuote(ctx, quoteID)
}
