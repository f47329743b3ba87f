package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type notificationQueue interface {
	Enqueue(job jobs.Job) error
}

// notificationPayload is the queued message body.
type notificationPayload struct {
	RecipientID string
	DocumentID  string
	Message     string
}

// NotificationService delivers submitter notifications through the background
// queue and serves the inbox. Delivery is best effort: a failed enqueue is
// reported to the caller for logging but never blocks a workflow operation.
type NotificationService struct {
	repo   notificationStore
	queue  notificationQueue
	logger *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationStore, queue notificationQueue, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, queue: queue, logger: logger}
}

// HandleJob persists a queued notification. Wired as the queue handler.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationPayload)
	if !ok {
		s.logger.Error("unexpected notification payload type", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Create(ctx, &models.Notification{
		RecipientID: payload.RecipientID,
		DocumentID:  payload.DocumentID,
		Message:     payload.Message,
		CreatedAt:   job.Enqueued,
	})
}

// Enqueue pushes a notification onto the delivery queue.
func (s *NotificationService) Enqueue(recipientID, documentID, message string) error {
	if s.queue == nil {
		return appErrors.Clone(appErrors.ErrInternal, "notification queue unavailable")
	}
	return s.queue.Enqueue(jobs.Job{
		Type: "notification",
		Payload: notificationPayload{
			RecipientID: recipientID,
			DocumentID:  documentID,
			Message:     message,
		},
		Enqueued: time.Now().UTC(),
	})
}

// List returns the recipient's inbox page.
func (s *NotificationService) List(ctx context.Context, unreadOnly bool, page, pageSize int, actor *models.JWTClaims) ([]models.Notification, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	filter := models.NotificationFilter{
		RecipientID: actor.UserID,
		UnreadOnly:  unreadOnly,
		Page:        page,
		PageSize:    pageSize,
	}
	notifications, total, err := s.repo.ListByRecipient(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 || pagination.PageSize > 100 {
		pagination.PageSize = 20
	}
	return notifications, pagination, nil
}

// MarkRead flips one notification owned by the actor.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	ok, err := s.repo.MarkRead(ctx, actor.UserID, notificationID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if !ok {
		return appErrors.ErrNotFound
	}
	return nil
}

// MarkAllRead flips the actor's whole inbox and returns the number affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *models.JWTClaims) (int, error) {
	if actor == nil {
		return 0, appErrors.ErrUnauthorized
	}
	count, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return count, nil
}

// CountUnread returns the unread badge count for the actor.
func (s *NotificationService) CountUnread(ctx context.Context, actor *models.JWTClaims) (int, error) {
	if actor == nil {
		return 0, appErrors.ErrUnauthorized
	}
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return count, nil
}
