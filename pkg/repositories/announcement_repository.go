package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// AnnouncementRepository defines data access for admin announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	ListActive(ctx context.Context) ([]*models.Announcement, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type announcementRepository struct {
	db *database.DB
}

// NewAnnouncementRepository creates a new announcement repository.
func NewAnnouncementRepository(db *database.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, body, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, active, created_at`

	err := r.db.QueryRow(ctx, query, a.Title, a.Body, a.CreatedBy).
		Scan(&a.ID, &a.Active, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

func (r *announcementRepository) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	query := `
		SELECT id, title, body, created_by, active, created_at
		FROM announcements
		WHERE active
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		announcements = append(announcements, &a)
	}
	return announcements, rows.Err()
}

func (r *announcementRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE announcements SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
