package handlers

import (
	"clinic-scheduler-server/internal/models"
	"clinic-scheduler-server/internal/scheduling"
	"clinic-scheduler-server/internal/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles in-app notification requests.
type NotificationHandler struct {
	Store scheduling.Store
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(store scheduling.Store) *NotificationHandler {
	return &NotificationHandler{Store: store}
}

// GetNotifications fetches the authenticated user's notifications,
// newest first. ?unread=true restricts to unread, ?limit=N caps the
// result.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.BadRequest(c, "Invalid limit: "+raw)
			return
		}
		limit = parsed
	}

	notifications, err := h.Store.ListNotifications(c.Request.Context(), actor.ID, unreadOnly, limit)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Notifications fetched successfully", notifications)
}

// GetUnreadCount returns the authenticated user's unread notification count.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	count, err := h.Store.CountUnreadNotifications(c.Request.Context(), actor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Unread count fetched successfully", gin.H{"count": count})
}

// MarkAsRead marks one of the authenticated user's notifications read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.Store.MarkNotificationRead(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Notification marked as read", nil)
}

// MarkAllAsRead marks every notification of the authenticated user read.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.Store.MarkAllNotificationsRead(c.Request.Context(), actor.ID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "All notifications marked as read", nil)
}

// SendMessageRequest represents a nurse-composed direct message.
type SendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// SendMessage delivers a direct message from a nurse to another user as
// an in-app notification.
func (h *NotificationHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if actor.Role != models.RoleNurse {
		utils.Forbidden(c, "Only nurses can send direct messages")
		return
	}

	sender, err := h.Store.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if _, err := h.Store.GetUser(c.Request.Context(), req.RecipientID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	notification := scheduling.DirectMessageNotification(req.RecipientID, sender.FullName(), req.Message)
	if err := h.Store.CreateNotifications(c.Request.Context(), []models.Notification{notification}); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Message sent successfully", nil)
}
