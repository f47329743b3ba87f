package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simdok/simdok-api/internal/models"
)

// NotificationRepository persists submitter notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, recipient_id, document_id, message, is_read, read_at, created_at)
	VALUES (:id, :recipient_id, :document_id, :message, :is_read, :read_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns a recipient's inbox with total count, latest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	baseQuery := `FROM notifications WHERE recipient_id = $1`
	args := []interface{}{filter.RecipientID}
	if filter.UnreadOnly {
		baseQuery += " AND is_read = FALSE"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT id, recipient_id, document_id, message, is_read, read_at, created_at %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, baseQuery, pageSize, offset)

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead flips the read flag for a notification owned by the recipient.
// Returns false when the notification does not exist or belongs to someone
// else. Marking an already-read notification is a no-op success.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) (bool, error) {
	const query = `UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, $3) WHERE id = $1 AND recipient_id = $2`
	result, err := r.db.ExecContext(ctx, query, notificationID, recipientID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check notification rows: %w", err)
	}
	return rows > 0, nil
}

// MarkAllRead flips every unread notification for the recipient and returns
// the number affected.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	const query = `UPDATE notifications SET is_read = TRUE, read_at = $2 WHERE recipient_id = $1 AND is_read = FALSE`
	result, err := r.db.ExecContext(ctx, query, recipientID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check notification rows: %w", err)
	}
	return int(rows), nil
}

// CountUnread returns the unread badge count for a recipient.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
