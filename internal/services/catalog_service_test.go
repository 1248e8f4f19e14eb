package services

import (
	"errors"
	"testing"

	"mal_vip_backend/internal/models"
)

func TestBenefitsForTierCachesRepositoryReads(t *testing.T) {
	calls := 0
	repo := &mockBenefitRepo{
		getForTierFn: func(tier string) ([]models.Benefit, error) {
			calls++
			return []models.Benefit{{ID: 1, Name: "Priority Customer Support"}}, nil
		},
	}
	svc := NewCatalogService(repo, nil)

	for i := 0; i < 3; i++ {
		benefits, err := svc.BenefitsForTier(models.TierGold)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(benefits) != 1 {
			t.Fatalf("expected one benefit, got %d", len(benefits))
		}
	}
	if calls != 1 {
		t.Errorf("expected a single repository read, got %d", calls)
	}
}

func TestBenefitsForTierRejectsUnknownTier(t *testing.T) {
	svc := NewCatalogService(&mockBenefitRepo{}, nil)

	_, err := svc.BenefitsForTier("copper")
	if !errors.Is(err, ErrBenefitValidation) {
		t.Fatalf("expected ErrBenefitValidation, got %v", err)
	}
}

func TestMembershipInfoCoversAllTiers(t *testing.T) {
	repo := &mockBenefitRepo{
		getForTierFn: func(tier string) ([]models.Benefit, error) {
			return []models.Benefit{{ID: 1, Name: "Priority Customer Support"}}, nil
		},
	}
	svc := NewCatalogService(repo, nil)

	info, err := svc.MembershipInfo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Tiers) != 5 {
		t.Errorf("expected 5 tiers, got %d", len(info.Tiers))
	}
	for _, tier := range models.AllTiers {
		if _, ok := info.Benefits[tier]; !ok {
			t.Errorf("expected benefits entry for tier %s", tier)
		}
	}
}

func TestCreateBenefitJoinsTiersAndFlushesCache(t *testing.T) {
	reads := 0
	var created *models.Benefit
	repo := &mockBenefitRepo{
		getActiveFn: func() ([]models.Benefit, error) {
			reads++
			return []models.Benefit{}, nil
		},
		createFn: func(b *models.Benefit) (int64, error) {
			b.ID = 7
			created = b
			return 7, nil
		},
	}
	svc := NewCatalogService(repo, nil)

	// Warm the cache, then create, then read again; the second read must
	// hit the repository because creation invalidates the cache.
	if _, err := svc.AllBenefits(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	benefit, err := svc.CreateBenefit(CreateBenefitRequest{
		Name:            "Exclusive Investment Access",
		Description:     "Early access to premium investment products",
		MembershipTiers: []string{models.TierGold, models.TierPlatinum},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected benefit repository create to be called")
	}
	if benefit.MembershipTiers != "gold,platinum" {
		t.Errorf("expected comma-joined tiers, got %q", benefit.MembershipTiers)
	}
	if !benefit.IsActive {
		t.Error("expected new benefit to be active")
	}
	if _, err := svc.AllBenefits(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reads != 2 {
		t.Errorf("expected cache flush to force a second repository read, got %d reads", reads)
	}
}

func TestCreateBenefitRejectsUnknownTier(t *testing.T) {
	svc := NewCatalogService(&mockBenefitRepo{}, nil)

	_, err := svc.CreateBenefit(CreateBenefitRequest{
		Name:            "n",
		Description:     "d",
		MembershipTiers: []string{"copper"},
	})
	if !errors.Is(err, ErrBenefitValidation) {
		t.Fatalf("expected ErrBenefitValidation, got %v", err)
	}
}
