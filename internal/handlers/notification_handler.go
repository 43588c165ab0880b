package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finview/internal/errors"
	"finview/internal/pagination"
	"finview/internal/services"
)

// NotificationHandler serves the activity feed.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationQuery holds the feed filters and paging parameters.
type NotificationQuery struct {
	pagination.PageRequest
	Type  string `form:"type" binding:"omitempty,oneof=all All Recommended recommended Custom custom"`
	Query string `form:"q" binding:"max=100"`
}

// ListNotifications returns the user's activity feed.
// @Summary     List notifications
// @Description Feed of budget setups and categories, newest first
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "Recommended, Custom or all"
// @Param       q         query string false "Free-text filter"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Items per page"
// @Success     200 {object} pagination.PageResponse[services.Notification] "Notifications"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q NotificationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	q.Defaults()

	page, err := h.notificationService.List(c.Request.Context(), userID, services.NotificationFilter{
		Type:  q.Type,
		Query: q.Query,
	}, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
