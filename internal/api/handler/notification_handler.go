package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/ports"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type notificationListResponse struct {
	Notifications any                `json:"notifications"`
	Unread        int64              `json:"unread"`
	Pagination    paginationResponse `json:"pagination"`
}

// List returns the caller's notifications, newest first.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  envelope
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.notificationService.List(c.Request().Context(), userID,
		queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "notifications retrieved", notificationListResponse{
		Notifications: result.Items,
		Unread:        result.Unread,
		Pagination:    toPagination(result.Pagination),
	})
}

// MarkRead flags one notification as read.
//
// @Summary      Mark a notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "notification marked read", nil)
}

// MarkAllRead flags every unread notification as read.
//
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkAllRead(c.Request().Context(), userID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "notifications marked read", nil)
}
