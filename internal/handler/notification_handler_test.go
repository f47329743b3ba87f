package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/response"
)

type notificationInboxMock struct {
	listResp     []models.Notification
	markReadErr  error
	markAllCount int
	unread       int

	lastUnreadOnly bool
	markAllCalled  bool
}

func (m *notificationInboxMock) List(ctx context.Context, unreadOnly bool, page, pageSize int, actor *models.JWTClaims) ([]models.Notification, *models.Pagination, error) {
	m.lastUnreadOnly = unreadOnly
	return m.listResp, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(m.listResp)}, nil
}

func (m *notificationInboxMock) MarkRead(ctx context.Context, notificationID string, actor *models.JWTClaims) error {
	return m.markReadErr
}

func (m *notificationInboxMock) MarkAllRead(ctx context.Context, actor *models.JWTClaims) (int, error) {
	m.markAllCalled = true
	return m.markAllCount, nil
}

func (m *notificationInboxMock) CountUnread(ctx context.Context, actor *models.JWTClaims) (int, error) {
	return m.unread, nil
}

func TestNotificationHandlerListUnreadFilter(t *testing.T) {
	mockSvc := &notificationInboxMock{listResp: []models.Notification{{ID: "notif-1"}}}
	handler := NewNotificationHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/notifications?unread=true", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.lastUnreadOnly)
}

func TestNotificationHandlerMarkReadNotFound(t *testing.T) {
	mockSvc := &notificationInboxMock{markReadErr: appErrors.ErrNotFound}
	handler := NewNotificationHandler(mockSvc)

	c, w := testContext(t, http.MethodPost, "/notifications/notif-1/read", nil)
	c.Params = gin.Params{{Key: "id", Value: "notif-1"}}

	handler.MarkRead(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationHandlerMarkAllRead(t *testing.T) {
	mockSvc := &notificationInboxMock{markAllCount: 3}
	handler := NewNotificationHandler(mockSvc)

	c, w := testContext(t, http.MethodPost, "/notifications/read-all", nil)

	handler.MarkAllRead(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.markAllCalled)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["updated"])
}

func TestNotificationHandlerUnreadCount(t *testing.T) {
	mockSvc := &notificationInboxMock{unread: 7}
	handler := NewNotificationHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/notifications/unread-count", nil)

	handler.UnreadCount(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":7`)
}
