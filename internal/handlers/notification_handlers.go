package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mal_vip_backend/internal/services"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler holds the notification and member services. The member
// service resolves the caller's member record from their user identity.
type NotificationHandler struct {
	notificationService services.NotificationService
	memberService       services.MemberService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns services.NotificationService, ms services.MemberService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns, memberService: ms}
}

func (h *NotificationHandler) currentMember(c *gin.Context) (int64, bool) {
	customerID, ok := currentUserID(c)
	if !ok {
		return 0, false
	}
	member, err := h.memberService.GetMemberByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No membership on file.", err.Error()))
		} else {
			utils.LogError(err, "currentMember: Error from memberService.GetMemberByCustomerID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve member.", "Internal error"))
		}
		return 0, false
	}
	return member.ID, true
}

// GetNotifications lists the authenticated member's notifications.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	memberID, ok := h.currentMember(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notifications, err := h.notificationService.ListForMember(memberID, unreadOnly, limit)
	if err != nil {
		utils.LogError(err, "GetNotifications: Error from notificationService.ListForMember")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch notifications.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// setRead handles both mark-read and mark-unread. Ownership violations are
// reported as not found so notification IDs cannot be probed across members.
func (h *NotificationHandler) setRead(c *gin.Context, read bool) {
	memberID, ok := h.currentMember(c)
	if !ok {
		return
	}

	notificationID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid notification ID format.", err.Error()))
		return
	}

	var svcErr error
	if read {
		svcErr = h.notificationService.MarkRead(memberID, notificationID)
	} else {
		svcErr = h.notificationService.MarkUnread(memberID, notificationID)
	}
	if svcErr != nil {
		if errors.Is(svcErr, services.ErrNotificationNotFound) || errors.Is(svcErr, services.ErrNotificationNotOwned) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Notification not found.", ""))
			return
		}
		utils.LogError(svcErr, "setRead: Error from notificationService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update notification.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkNotificationRead marks a notification as read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	h.setRead(c, true)
}

// MarkNotificationUnread marks a notification as unread.
func (h *NotificationHandler) MarkNotificationUnread(c *gin.Context) {
	h.setRead(c, false)
}

// NotifyMember creates a notification for a member. Admin only.
func (h *NotificationHandler) NotifyMember(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	var req services.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	notification, err := h.notificationService.Notify(memberID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
		case errors.Is(err, services.ErrNotificationInvalid):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.LogError(err, "NotifyMember: Error from notificationService.Notify")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create notification.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, notification)
}
