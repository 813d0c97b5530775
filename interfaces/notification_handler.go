package interfaces

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-portal/domain"
)

func (h *HTTPHandler) ListNotifications(c *gin.Context) {
	h.listNotifications(c, false)
}

func (h *HTTPHandler) ListUnreadNotifications(c *gin.Context) {
	h.listNotifications(c, true)
}

func (h *HTTPHandler) listNotifications(c *gin.Context, unreadOnly bool) {
	notifications, err := h.Notifications.ListNotifications(c.Request.Context(), unreadOnly)
	if err != nil {
		h.respondError(c, err, "failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *HTTPHandler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	notification, err := h.Notifications.MarkNotificationRead(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to mark notification read")
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *HTTPHandler) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Notifications.DeleteNotification(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "failed to delete notification")
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateInsights queues insight generation when a broker is configured,
// otherwise generates inline and returns the stored notifications.
func (h *HTTPHandler) GenerateInsights(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Jobs != nil {
		if err := h.Jobs.PublishJob(ctx, domain.NotificationJob{Type: domain.JobGenerateInsights}); err != nil {
			h.respondError(c, err, "failed to queue insight generation")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Insight generation queued"})
		return
	}

	notifications, err := h.Insights.GenerateInsights(ctx)
	if err != nil {
		var malformed *domain.MalformedResponseError
		var shape *domain.InvalidResponseShapeError
		var svc *domain.ServiceError
		if errors.As(err, &malformed) || errors.As(err, &shape) || errors.As(err, &svc) {
			h.Logger.WithError(err).WithField("error_kind", domain.ErrorKindOf(err)).Warn("insight generation failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"message":   "Failed to generate insights",
				"errorKind": domain.ErrorKindOf(err),
			})
			return
		}
		h.respondError(c, err, "failed to generate insights")
		return
	}
	c.JSON(http.StatusCreated, notifications)
}
