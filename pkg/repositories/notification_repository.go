package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, companyID uuid.UUID) error
	UnreadCount(ctx context.Context, companyID uuid.UUID) (int, error)
}

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *database.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (company_id, message, link)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at`

	err := r.db.QueryRow(ctx, query, n.CompanyID, n.Message, n.Link).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, company_id, message, link, read, created_at
		FROM notifications
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, companyID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE company_id = $1 AND NOT read`, companyID)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// UnreadCount is a fresh count at call time; concurrent transitions may
// briefly surface a stale number, self-correcting on the next read.
func (r *notificationRepository) UnreadCount(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE company_id = $1 AND NOT read`, companyID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
