package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"

	gocache "github.com/patrickmn/go-cache"
)

// --- Custom Service Errors for the Catalog ---
var (
	ErrBenefitNotFound   = errors.New("benefit not found")
	ErrBenefitValidation = errors.New("benefit data validation error")
)

const (
	catalogCacheTTL     = 5 * time.Minute
	catalogCacheCleanup = 10 * time.Minute

	allBenefitsCacheKey   = "benefits:all"
	tierBenefitsCachePref = "benefits:tier:"
)

// --- Catalog DTOs ---

type CreateBenefitRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	MembershipTiers []string `json:"membership_tiers" binding:"required,min=1"`
	Icon            string   `json:"icon"`
}

// MembershipInfo is the public marketing payload: the tier ladder plus the
// benefits applicable to each tier.
type MembershipInfo struct {
	Tiers    []models.TierInfo           `json:"tiers"`
	Benefits map[string][]models.Benefit `json:"benefits_by_tier"`
}

// --- CatalogService Interface ---

// CatalogService serves the tier ladder and benefit registry. Reads are
// cached because the catalog changes rarely and backs public pages.
type CatalogService interface {
	TierCatalog() []models.TierInfo
	AllBenefits() ([]models.Benefit, error)
	BenefitsForTier(tier string) ([]models.Benefit, error)
	MembershipInfo() (*MembershipInfo, error)
	CreateBenefit(req CreateBenefitRequest) (*models.Benefit, error)
}

// --- catalogService Implementation ---

type catalogService struct {
	benefitRepo repositories.BenefitRepository
	cache       *gocache.Cache
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(benefitRepo repositories.BenefitRepository, db *sql.DB) CatalogService {
	return &catalogService{
		benefitRepo: benefitRepo,
		cache:       gocache.New(catalogCacheTTL, catalogCacheCleanup),
		db:          db,
	}
}

// TierCatalog returns the tier ladder, lowest tier first.
func (s *catalogService) TierCatalog() []models.TierInfo {
	return models.TierCatalog
}

// AllBenefits returns every active benefit, cached.
func (s *catalogService) AllBenefits() ([]models.Benefit, error) {
	if cached, found := s.cache.Get(allBenefitsCacheKey); found {
		return cached.([]models.Benefit), nil
	}
	benefits, err := s.benefitRepo.GetActiveBenefits()
	if err != nil {
		return nil, fmt.Errorf("failed to load benefits: %w", err)
	}
	s.cache.Set(allBenefitsCacheKey, benefits, gocache.DefaultExpiration)
	return benefits, nil
}

// BenefitsForTier returns the active benefits applicable to a tier, cached
// per tier.
func (s *catalogService) BenefitsForTier(tier string) ([]models.Benefit, error) {
	if !models.IsValidTier(tier) {
		return nil, fmt.Errorf("%w: unknown membership tier '%s'", ErrBenefitValidation, tier)
	}
	cacheKey := tierBenefitsCachePref + tier
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]models.Benefit), nil
	}
	benefits, err := s.benefitRepo.GetActiveBenefitsForTier(tier)
	if err != nil {
		return nil, fmt.Errorf("failed to load benefits for tier %s: %w", tier, err)
	}
	s.cache.Set(cacheKey, benefits, gocache.DefaultExpiration)
	return benefits, nil
}

// MembershipInfo assembles the public membership page payload.
func (s *catalogService) MembershipInfo() (*MembershipInfo, error) {
	info := &MembershipInfo{
		Tiers:    models.TierCatalog,
		Benefits: make(map[string][]models.Benefit, len(models.AllTiers)),
	}
	for _, tier := range models.AllTiers {
		benefits, err := s.BenefitsForTier(tier)
		if err != nil {
			return nil, err
		}
		info.Benefits[tier] = benefits
	}
	return info, nil
}

// CreateBenefit registers a new benefit and invalidates the catalog cache.
func (s *catalogService) CreateBenefit(req CreateBenefitRequest) (*models.Benefit, error) {
	for _, tier := range req.MembershipTiers {
		if !models.IsValidTier(tier) {
			return nil, fmt.Errorf("%w: unknown membership tier '%s'", ErrBenefitValidation, tier)
		}
	}

	benefit := &models.Benefit{
		Name:            req.Name,
		Description:     req.Description,
		MembershipTiers: strings.Join(req.MembershipTiers, ","),
		Icon:            req.Icon,
		IsActive:        true,
	}
	if _, err := s.benefitRepo.CreateBenefit(s.db, benefit); err != nil {
		return nil, fmt.Errorf("failed to create benefit: %w", err)
	}
	s.cache.Flush()
	return benefit, nil
}
