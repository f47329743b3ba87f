package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simdok/simdok-api/internal/dto"
	"github.com/simdok/simdok-api/internal/models"
	"github.com/simdok/simdok-api/pkg/response"
)

type notificationInbox interface {
	List(ctx context.Context, unreadOnly bool, page, pageSize int, actor *models.JWTClaims) ([]models.Notification, *models.Pagination, error)
	MarkRead(ctx context.Context, notificationID string, actor *models.JWTClaims) error
	MarkAllRead(ctx context.Context, actor *models.JWTClaims) (int, error)
	CountUnread(ctx context.Context, actor *models.JWTClaims) (int, error)
}

// NotificationHandler serves the submitter inbox.
type NotificationHandler struct {
	service notificationInbox
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(svc notificationInbox) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	page, pageSize := pageParams(c)

	notifications, pagination, err := h.service.List(c.Request.Context(), unreadOnly, page, pageSize, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notifications, pagination)
}

// MarkRead godoc
// @Summary Mark notification read
// @Description Mark one of the caller's notifications as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// MarkAllRead godoc
// @Summary Mark all notifications read
// @Description Mark the caller's whole inbox as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.service.MarkAllRead(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.MarkAllReadResponse{Updated: count}, nil)
}

// UnreadCount godoc
// @Summary Unread notification count
// @Description Return the caller's unread badge count
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.CountUnread(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.UnreadCountResponse{Unread: count}, nil)
}
