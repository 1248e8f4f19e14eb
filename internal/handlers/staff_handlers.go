package handlers

import (
	"errors"
	"net/http"

	"mal_vip_backend/internal/services"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func respondStaffError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrStaffCodeExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Staff code already in use.", err.Error()))
	case errors.Is(err, services.ErrStaffValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// CreateStaffMember handles the creation of a new staff member.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staff, err := h.staffService.CreateStaffMember(req)
	if err != nil {
		utils.LogError(err, "CreateStaffMember: Error from staffService.CreateStaffMember")
		respondStaffError(c, err, "Failed to create staff member.")
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// GetStaffMembers lists staff members, optionally restricted to active ones.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"

	staff, err := h.staffService.GetStaffMembers(activeOnly)
	if err != nil {
		utils.LogError(err, "GetStaffMembers: Error from staffService.GetStaffMembers")
		respondStaffError(c, err, "Failed to fetch staff members.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": staff})
}

// GetStaffMemberByID fetches a single staff member.
func (h *StaffHandler) GetStaffMemberByID(c *gin.Context) {
	staffID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff member ID format.", err.Error()))
		return
	}

	staff, err := h.staffService.GetStaffMemberByID(staffID)
	if err != nil {
		utils.LogError(err, "GetStaffMemberByID: Error from staffService.GetStaffMemberByID")
		respondStaffError(c, err, "Failed to fetch staff member.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// UpdateStaffMember handles updating a staff member.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	staffID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff member ID format.", err.Error()))
		return
	}

	var req services.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staff, err := h.staffService.UpdateStaffMember(staffID, req)
	if err != nil {
		utils.LogError(err, "UpdateStaffMember: Error from staffService.UpdateStaffMember")
		respondStaffError(c, err, "Failed to update staff member.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// DeactivateStaffMember turns off a staff member's active flag. Staff rows
// are never deleted while member or application records reference them.
func (h *StaffHandler) DeactivateStaffMember(c *gin.Context) {
	staffID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff member ID format.", err.Error()))
		return
	}

	if err := h.staffService.SetStaffActive(staffID, false); err != nil {
		utils.LogError(err, "DeactivateStaffMember: Error from staffService.SetStaffActive")
		respondStaffError(c, err, "Failed to deactivate staff member.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
