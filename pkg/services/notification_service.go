package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/realtime"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// Pusher delivers live events to a company's connected sockets.
// Implemented by realtime.Hub.
type Pusher interface {
	PushToUser(companyID uuid.UUID, event realtime.Event)
}

// NotificationService persists workflow notifications and pushes fresh
// unread counts to the recipient's live channel. All delivery is
// fire-and-forget: failures are logged, never propagated, never retried.
type NotificationService interface {
	// Notify records a notification and pushes the recipient's new
	// unread count in one step.
	Notify(ctx context.Context, recipientID uuid.UUID, message, link string)

	// Record persists a notification without pushing. Used by batch
	// flows that de-duplicate pushes per recipient afterwards.
	Record(ctx context.Context, recipientID uuid.UUID, message, link string)

	// PushUnread recomputes the recipient's unread count and pushes it.
	PushUnread(ctx context.Context, recipientID uuid.UUID)

	// List returns the company's notifications and marks them all read.
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Notification, error)

	UnreadCount(ctx context.Context, companyID uuid.UUID) (int, error)
}

type notificationService struct {
	repo   repositories.NotificationRepository
	pusher Pusher
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, pusher Pusher, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		pusher: pusher,
		logger: logger.Named("notification-service"),
	}
}

var _ NotificationService = (*notificationService)(nil)

func (s *notificationService) Notify(ctx context.Context, recipientID uuid.UUID, message, link string) {
	s.Record(ctx, recipientID, message, link)
	s.PushUnread(ctx, recipientID)
}

func (s *notificationService) Record(ctx context.Context, recipientID uuid.UUID, message, link string) {
	n := &models.Notification{CompanyID: recipientID, Message: message, Link: link}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to persist notification",
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err))
	}
}

func (s *notificationService) PushUnread(ctx context.Context, recipientID uuid.UUID) {
	count, err := s.repo.UnreadCount(ctx, recipientID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications",
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err))
		return
	}
	s.pusher.PushToUser(recipientID, realtime.Event{
		Name: realtime.EventNewNotification,
		Data: realtime.NotificationPayload{UnreadCount: count},
	})
}

func (s *notificationService) List(ctx context.Context, companyID uuid.UUID) ([]*models.Notification, error) {
	notifications, err := s.repo.ListByCompany(ctx, companyID, 50)
	if err != nil {
		return nil, err
	}
	// Viewing the list marks everything read.
	if err := s.repo.MarkAllRead(ctx, companyID); err != nil {
		s.logger.Warn("Failed to mark notifications read",
			zap.String("company_id", companyID.String()), zap.Error(err))
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, companyID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, companyID)
}
