package handlers

import (
	"errors"
	"net/http"

	"mal_vip_backend/internal/services"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public tier ladder and benefit registry.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// GetMembershipInfo serves the public membership page payload: the tier
// ladder plus the benefits applicable to each tier.
func (h *CatalogHandler) GetMembershipInfo(c *gin.Context) {
	info, err := h.catalogService.MembershipInfo()
	if err != nil {
		utils.LogError(err, "GetMembershipInfo: Error from catalogService.MembershipInfo")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load membership info.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetTiers lists the tier ladder.
func (h *CatalogHandler) GetTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": h.catalogService.TierCatalog()})
}

// GetBenefits lists active benefits, optionally filtered by tier.
func (h *CatalogHandler) GetBenefits(c *gin.Context) {
	if tier := c.Query("tier"); tier != "" {
		benefits, err := h.catalogService.BenefitsForTier(tier)
		if err != nil {
			if errors.Is(err, services.ErrBenefitValidation) {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
				return
			}
			utils.LogError(err, "GetBenefits: Error from catalogService.BenefitsForTier")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load benefits.", "Internal error"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": benefits})
		return
	}

	benefits, err := h.catalogService.AllBenefits()
	if err != nil {
		utils.LogError(err, "GetBenefits: Error from catalogService.AllBenefits")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load benefits.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": benefits})
}

// CreateBenefit registers a new benefit. Admin only.
func (h *CatalogHandler) CreateBenefit(c *gin.Context) {
	var req services.CreateBenefitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	benefit, err := h.catalogService.CreateBenefit(req)
	if err != nil {
		if errors.Is(err, services.ErrBenefitValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "CreateBenefit: Error from catalogService.CreateBenefit")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create benefit.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, benefit)
}
