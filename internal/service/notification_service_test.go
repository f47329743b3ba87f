package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/jobs"
)

type stubNotificationStore struct {
	created      []*models.Notification
	listed       []models.Notification
	markReadOK   bool
	markAllCount int
	unread       int
}

func (s *stubNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	copied := *notification
	s.created = append(s.created, &copied)
	return nil
}

func (s *stubNotificationStore) ListByRecipient(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	return s.listed, len(s.listed), nil
}

func (s *stubNotificationStore) MarkRead(ctx context.Context, recipientID, notificationID string) (bool, error) {
	return s.markReadOK, nil
}

func (s *stubNotificationStore) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	count := s.markAllCount
	s.markAllCount = 0
	return count, nil
}

func (s *stubNotificationStore) CountUnread(ctx context.Context, recipientID string) (int, error) {
	return s.unread, nil
}

type stubJobQueue struct {
	jobs []jobs.Job
	err  error
}

func (s *stubJobQueue) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func clientActor() *models.JWTClaims {
	return &models.JWTClaims{UserID: "client-42", Role: models.RoleClient}
}

func TestNotificationEnqueueCarriesPayload(t *testing.T) {
	queue := &stubJobQueue{}
	svc := NewNotificationService(&stubNotificationStore{}, queue, zap.NewNop())

	err := svc.Enqueue("client-42", "doc-1", "Document DOC-2026-00001 moved from Planning to Records")
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	require.Equal(t, "notification", queue.jobs[0].Type)

	payload, ok := queue.jobs[0].Payload.(notificationPayload)
	require.True(t, ok)
	require.Equal(t, "client-42", payload.RecipientID)
	require.Equal(t, "doc-1", payload.DocumentID)
	require.Contains(t, payload.Message, "moved from Planning to Records")
}

func TestNotificationHandleJobPersists(t *testing.T) {
	store := &stubNotificationStore{}
	svc := NewNotificationService(store, &stubJobQueue{}, zap.NewNop())

	enqueued := time.Now().UTC()
	err := svc.HandleJob(context.Background(), jobs.Job{
		ID:   "job-1",
		Type: "notification",
		Payload: notificationPayload{
			RecipientID: "client-42",
			DocumentID:  "doc-1",
			Message:     "Document DOC-2026-00001 has been rejected: Missing signature",
		},
		Enqueued: enqueued,
	})
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	require.Equal(t, "client-42", store.created[0].RecipientID)
	require.Contains(t, store.created[0].Message, "Missing signature")
	require.Equal(t, enqueued, store.created[0].CreatedAt)
}

func TestNotificationHandleJobIgnoresForeignPayload(t *testing.T) {
	store := &stubNotificationStore{}
	svc := NewNotificationService(store, &stubJobQueue{}, zap.NewNop())

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "job-2", Type: "notification", Payload: "garbage"})
	require.NoError(t, err)
	require.Empty(t, store.created)
}

func TestNotificationMarkReadOwnership(t *testing.T) {
	store := &stubNotificationStore{markReadOK: true}
	svc := NewNotificationService(store, &stubJobQueue{}, zap.NewNop())

	require.NoError(t, svc.MarkRead(context.Background(), "notif-1", clientActor()))

	store.markReadOK = false
	err := svc.MarkRead(context.Background(), "notif-1", clientActor())
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestNotificationMarkAllReadIdempotent(t *testing.T) {
	store := &stubNotificationStore{markAllCount: 3}
	svc := NewNotificationService(store, &stubJobQueue{}, zap.NewNop())

	count, err := svc.MarkAllRead(context.Background(), clientActor())
	require.NoError(t, err)
	require.Equal(t, 3, count)

	count, err = svc.MarkAllRead(context.Background(), clientActor())
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestNotificationListRequiresActor(t *testing.T) {
	svc := NewNotificationService(&stubNotificationStore{}, &stubJobQueue{}, zap.NewNop())

	_, _, err := svc.List(context.Background(), false, 1, 20, nil)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.CountUnread(context.Background(), nil)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
