package services

import (
	"database/sql"
	"errors"
	"fmt"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
	"mal_vip_backend/pkg/utils"
)

// SeedService populates the benefit registry and staff directory on first
// startup. Seeding only runs against empty tables so an operator's edits
// are never overwritten on restart.
type SeedService interface {
	SeedIfEmpty() error
}

type seedService struct {
	benefitRepo repositories.BenefitRepository
	staffRepo   repositories.StaffRepository
	db          *sql.DB
}

// NewSeedService creates a new instance of SeedService.
func NewSeedService(benefitRepo repositories.BenefitRepository, staffRepo repositories.StaffRepository, db *sql.DB) SeedService {
	return &seedService{benefitRepo: benefitRepo, staffRepo: staffRepo, db: db}
}

type seedBenefit struct {
	name        string
	description string
	tiers       string
	icon        string
}

var seedBenefits = []seedBenefit{
	{"Priority Customer Support", "24/7 dedicated customer support with priority response times", "bronze,silver,gold,platinum,diamond", "fas fa-headset"},
	{"Dedicated Account Manager", "Personal account manager for all your investment needs", "silver,gold,platinum,diamond", "fas fa-user-tie"},
	{"Exclusive Investment Opportunities", "Access to exclusive investment opportunities and early access to new products", "gold,platinum,diamond", "fas fa-star"},
	{"Faster Processing", "Expedited processing for all transactions and withdrawals", "silver,gold,platinum,diamond", "fas fa-bolt"},
	{"Higher Investment Limits", "Increased investment limits and withdrawal amounts", "gold,platinum,diamond", "fas fa-chart-line"},
	{"Personal Investment Advisor", "One-on-one investment advisory sessions with financial experts", "platinum,diamond", "fas fa-user-graduate"},
	{"VIP Events & Networking", "Invitation to exclusive VIP events and networking opportunities", "platinum,diamond", "fas fa-calendar-star"},
	{"Premium Research Reports", "Access to premium market research and analysis reports", "gold,platinum,diamond", "fas fa-file-alt"},
	{"Custom Investment Strategies", "Tailored investment strategies based on your financial goals", "platinum,diamond", "fas fa-cogs"},
	{"White-Glove Service", "Concierge-level service for all your investment needs", "diamond", "fas fa-concierge-bell"},
}

type seedStaff struct {
	code     string
	fullName string
	phone    string
	email    string
}

var seedStaffMembers = []seedStaff{
	{"VIP001", "Sarah Johnson", "+1-555-0101", "sarah.johnson@meridianassetlogistics.com"},
	{"VIP002", "Michael Chen", "+1-555-0102", "michael.chen@meridianassetlogistics.com"},
	{"VIP003", "Emily Rodriguez", "+1-555-0103", "emily.rodriguez@meridianassetlogistics.com"},
}

// SeedIfEmpty inserts the default benefit registry and staff directory when
// the respective tables hold no rows.
func (s *seedService) SeedIfEmpty() error {
	benefitCount, err := s.benefitRepo.CountBenefits()
	if err != nil {
		return fmt.Errorf("failed to count benefits before seeding: %w", err)
	}
	if benefitCount == 0 {
		for _, sb := range seedBenefits {
			benefit := &models.Benefit{
				Name:            sb.name,
				Description:     sb.description,
				MembershipTiers: sb.tiers,
				Icon:            sb.icon,
				IsActive:        true,
			}
			if _, err := s.benefitRepo.CreateBenefit(s.db, benefit); err != nil {
				// A concurrent instance may have seeded the same row.
				if errors.Is(err, repositories.ErrDuplicateKey) {
					continue
				}
				return fmt.Errorf("failed to seed benefit %q: %w", sb.name, err)
			}
		}
		utils.LogInfo("Seeded benefit registry", map[string]interface{}{"count": len(seedBenefits)})
	}

	staffCount, err := s.staffRepo.CountStaffMembers()
	if err != nil {
		return fmt.Errorf("failed to count staff before seeding: %w", err)
	}
	if staffCount == 0 {
		for _, ss := range seedStaffMembers {
			phone, email := ss.phone, ss.email
			staff := &models.StaffMember{
				StaffCode:  ss.code,
				FullName:   ss.fullName,
				Phone:      &phone,
				Email:      &email,
				Department: "VIP Services",
				IsActive:   true,
			}
			if _, err := s.staffRepo.CreateStaffMember(s.db, staff); err != nil {
				if errors.Is(err, repositories.ErrDuplicateKey) {
					continue
				}
				return fmt.Errorf("failed to seed staff member %q: %w", ss.code, err)
			}
		}
		utils.LogInfo("Seeded staff directory", map[string]interface{}{"count": len(seedStaffMembers)})
	}

	return nil
}
