package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mal_vip_backend/internal/services"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MemberHandler holds the member service.
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(ms services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

func respondMemberError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
	case errors.Is(err, services.ErrMemberValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrStaffForMemberMissing):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Staff member to assign not found or inactive.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// --- Customer endpoints ---

// GetDashboard serves the member dashboard for the authenticated customer.
// Customers without an active membership get a redirect hint towards the
// application status endpoint.
func (h *MemberHandler) GetDashboard(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.memberService.GetDashboard(customerID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) || errors.Is(err, services.ErrMemberNotActive) {
			c.JSON(http.StatusOK, gin.H{
				"is_member":   false,
				"redirect_to": "/api/v1/applications/status",
			})
			return
		}
		utils.LogError(err, "GetDashboard: Error from memberService.GetDashboard")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load dashboard.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_member": true, "dashboard": dashboard})
}

// GetProfile serves the member profile page for the authenticated customer.
func (h *MemberHandler) GetProfile(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.memberService.GetProfile(customerID)
	if err != nil {
		utils.LogError(err, "GetProfile: Error from memberService.GetProfile")
		respondMemberError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMyBenefits lists the benefits applicable to the authenticated member.
func (h *MemberHandler) GetMyBenefits(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMemberByCustomerID(customerID)
	if err != nil {
		utils.LogError(err, "GetMyBenefits: Error from memberService.GetMemberByCustomerID")
		respondMemberError(c, err, "Failed to load member.")
		return
	}

	benefits, err := h.memberService.ResolveBenefits(member)
	if err != nil {
		utils.LogError(err, "GetMyBenefits: Error from memberService.ResolveBenefits")
		respondMemberError(c, err, "Failed to load benefits.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"membership_tier": member.MembershipTier,
		"benefit_flags":   member.BenefitFlags,
		"benefits":        benefits,
	})
}

// --- Admin endpoints ---

// GetMembers lists members with pagination and optional status/tier filters.
func (h *MemberHandler) GetMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	var statusFilter, tierFilter *string
	if status := c.Query("status"); status != "" {
		statusFilter = &status
	}
	if tier := c.Query("tier"); tier != "" {
		tierFilter = &tier
	}

	members, totalCount, err := h.memberService.GetMembers(page, pageSize, statusFilter, tierFilter)
	if err != nil {
		utils.LogError(err, "GetMembers: Error from memberService.GetMembers")
		respondMemberError(c, err, "Failed to fetch members.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      members,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetMemberByID fetches a single member.
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	member, err := h.memberService.GetMemberByID(memberID)
	if err != nil {
		utils.LogError(err, "GetMemberByID: Error from memberService.GetMemberByID")
		respondMemberError(c, err, "Failed to fetch member.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateMember applies staff edits to a member profile.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.UpdateMember(memberID, req)
	if err != nil {
		utils.LogError(err, "UpdateMember: Error from memberService.UpdateMember")
		respondMemberError(c, err, "Failed to update member.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// SetMemberStatus sets a member's status.
func (h *MemberHandler) SetMemberStatus(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.SetStatus(memberID, req.Status)
	if err != nil {
		utils.LogError(err, "SetMemberStatus: Error from memberService.SetStatus")
		respondMemberError(c, err, "Failed to update member status.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// AssignMemberTier applies a tier to a batch of members.
func (h *MemberHandler) AssignMemberTier(c *gin.Context) {
	var req struct {
		MemberIDs []int64 `json:"member_ids" binding:"required,min=1"`
		Tier      string  `json:"tier" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updated, skipped, err := h.memberService.AssignTier(req.MemberIDs, req.Tier)
	if err != nil {
		utils.LogError(err, "AssignMemberTier: Error from memberService.AssignTier")
		respondMemberError(c, err, "Failed to assign member tier.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated, "skipped": skipped})
}
