package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mal_vip_backend/internal/metrics"
	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/services"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler holds the application workflow service.
type ApplicationHandler struct {
	applicationService services.ApplicationService
	metrics            *metrics.Registry
}

// NewApplicationHandler creates a new ApplicationHandler. The metrics
// registry may be nil in tests.
func NewApplicationHandler(as services.ApplicationService, reg *metrics.Registry) *ApplicationHandler {
	return &ApplicationHandler{applicationService: as, metrics: reg}
}

// respondApplicationError maps application service errors onto API errors.
func respondApplicationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrApplicationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Application not found.", err.Error()))
	case errors.Is(err, services.ErrApplicationValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrOpenApplicationExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "An open application already exists.", err.Error()))
	case errors.Is(err, services.ErrAlreadyVIPMember):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Customer already has an active VIP membership.", err.Error()))
	case errors.Is(err, services.ErrInvalidStatusTransition):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Invalid status transition: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrReviewerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Assigned reviewer not found or inactive.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// SubmitApplication handles a customer submitting a membership application.
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SubmitApplication: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	app, err := h.applicationService.SubmitApplication(customerID, req)
	if err != nil {
		utils.LogError(err, "SubmitApplication: Error from applicationService.SubmitApplication")
		respondApplicationError(c, err, "Failed to submit application.")
		return
	}
	if h.metrics != nil {
		h.metrics.ApplicationsSubmittedTotal.Inc()
	}
	c.JSON(http.StatusCreated, app)
}

// GetApplicationStatus returns the authenticated customer's latest
// application.
func (h *ApplicationHandler) GetApplicationStatus(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetApplicationStatus(customerID)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No application on file.", err.Error()))
			return
		}
		utils.LogError(err, "GetApplicationStatus: Error from applicationService.GetApplicationStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch application status.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, app)
}

// MembershipBrackets lists the accepted net worth brackets so clients can
// render the submission form.
func (h *ApplicationHandler) MembershipBrackets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"net_worth_brackets": models.NetWorthBrackets})
}

// --- Admin endpoints ---

// GetApplications lists applications with pagination and status filtering.
func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	var statusFilter *string
	if status := c.Query("status"); status != "" {
		statusFilter = &status
	}

	apps, totalCount, err := h.applicationService.GetApplications(page, pageSize, statusFilter)
	if err != nil {
		utils.LogError(err, "GetApplications: Error from applicationService.GetApplications")
		respondApplicationError(c, err, "Failed to fetch applications.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      apps,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetApplicationByID fetches a single application.
func (h *ApplicationHandler) GetApplicationByID(c *gin.Context) {
	applicationID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid application ID format.", err.Error()))
		return
	}

	app, err := h.applicationService.GetApplicationByID(applicationID)
	if err != nil {
		utils.LogError(err, "GetApplicationByID: Error from applicationService.GetApplicationByID")
		respondApplicationError(c, err, "Failed to fetch application.")
		return
	}
	c.JSON(http.StatusOK, app)
}

// TransitionApplication moves an application to a new review status.
func (h *ApplicationHandler) TransitionApplication(c *gin.Context) {
	applicationID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid application ID format.", err.Error()))
		return
	}

	var req services.TransitionApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "TransitionApplication: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	app, err := h.applicationService.Transition(applicationID, req)
	if err != nil {
		utils.LogError(err, "TransitionApplication: Error from applicationService.Transition")
		respondApplicationError(c, err, "Failed to transition application.")
		return
	}
	if h.metrics != nil {
		h.metrics.ApplicationTransitionsTotal.WithLabelValues(app.Status).Inc()
	}
	c.JSON(http.StatusOK, app)
}

// AssignReviewer sets the reviewing staff member on an application.
func (h *ApplicationHandler) AssignReviewer(c *gin.Context) {
	applicationID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid application ID format.", err.Error()))
		return
	}

	var req struct {
		ReviewerID int64 `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	app, err := h.applicationService.AssignReviewer(applicationID, req.ReviewerID)
	if err != nil {
		utils.LogError(err, "AssignReviewer: Error from applicationService.AssignReviewer")
		respondApplicationError(c, err, "Failed to assign reviewer.")
		return
	}
	c.JSON(http.StatusOK, app)
}

type batchApplicationRequest struct {
	ApplicationIDs  []int64 `json:"application_ids" binding:"required,min=1"`
	ReviewerID      *int64  `json:"reviewer_id"`
	RejectionReason *string `json:"rejection_reason"`
}

// ApproveApplications approves a batch of applications.
func (h *ApplicationHandler) ApproveApplications(c *gin.Context) {
	var req batchApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.applicationService.ApproveApplications(req.ApplicationIDs, req.ReviewerID)
	if err != nil {
		utils.LogError(err, "ApproveApplications: Error from applicationService.ApproveApplications")
		respondApplicationError(c, err, "Failed to approve applications.")
		return
	}
	if h.metrics != nil {
		h.metrics.ApplicationTransitionsTotal.WithLabelValues(models.ApplicationStatusApproved).Add(float64(result.Processed))
	}
	c.JSON(http.StatusOK, result)
}

// RejectApplications rejects a batch of applications.
func (h *ApplicationHandler) RejectApplications(c *gin.Context) {
	var req batchApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.applicationService.RejectApplications(req.ApplicationIDs, req.ReviewerID, req.RejectionReason)
	if err != nil {
		utils.LogError(err, "RejectApplications: Error from applicationService.RejectApplications")
		respondApplicationError(c, err, "Failed to reject applications.")
		return
	}
	if h.metrics != nil {
		h.metrics.ApplicationTransitionsTotal.WithLabelValues(models.ApplicationStatusRejected).Add(float64(result.Processed))
	}
	c.JSON(http.StatusOK, result)
}
