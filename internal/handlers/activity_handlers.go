package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mal_vip_backend/internal/services"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ActivityHandler holds the activity service. All endpoints are staff
// facing; members see their activity through the dashboard and profile.
type ActivityHandler struct {
	activityService services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(as services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: as}
}

// RecordActivity appends an activity entry for a member.
func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	var req services.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	activity, err := h.activityService.Record(memberID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
		case errors.Is(err, services.ErrActivityValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.LogError(err, "RecordActivity: Error from activityService.Record")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record activity.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// GetMemberActivities lists a member's activity history, newest first.
func (h *ActivityHandler) GetMemberActivities(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	activities, err := h.activityService.ListForMember(memberID, limit)
	if err != nil {
		utils.LogError(err, "GetMemberActivities: Error from activityService.ListForMember")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch activities.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activities})
}
