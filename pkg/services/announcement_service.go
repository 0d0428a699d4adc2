package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// AnnouncementService publishes platform-wide notices. Creation and
// deactivation are admin operations; listing is open to everyone.
type AnnouncementService interface {
	Create(ctx context.Context, adminID uuid.UUID, title, body string) (*models.Announcement, error)
	ListActive(ctx context.Context) ([]*models.Announcement, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type announcementService struct {
	announcements repositories.AnnouncementRepository
	logger        *zap.Logger
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(announcements repositories.AnnouncementRepository, logger *zap.Logger) AnnouncementService {
	return &announcementService{
		announcements: announcements,
		logger:        logger.Named("announcement-service"),
	}
}

var _ AnnouncementService = (*announcementService)(nil)

func (s *announcementService) Create(ctx context.Context, adminID uuid.UUID, title, body string) (*models.Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", apperrors.ErrValidation)
	}

	announcement := &models.Announcement{
		Title:     title,
		Body:      body,
		CreatedBy: adminID,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.logger.Info("Announcement published",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("admin_id", adminID.String()))
	return announcement, nil
}

func (s *announcementService) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcements.ListActive(ctx)
}

func (s *announcementService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.announcements.Deactivate(ctx, id)
}
