package models

import "testing"

func TestBenefitFlagsForTier(t *testing.T) {
	tests := []struct {
		tier string
		want BenefitFlags
	}{
		{TierBronze, BenefitFlags{PrioritySupport: true}},
		{TierSilver, BenefitFlags{PrioritySupport: true, DedicatedAccountManager: true, FasterProcessing: true}},
		{TierGold, BenefitFlags{PrioritySupport: true, DedicatedAccountManager: true, ExclusiveInvestmentOpportunities: true, FasterProcessing: true}},
		{TierPlatinum, BenefitFlags{PrioritySupport: true, DedicatedAccountManager: true, ExclusiveInvestmentOpportunities: true, FasterProcessing: true}},
		{TierDiamond, BenefitFlags{PrioritySupport: true, DedicatedAccountManager: true, ExclusiveInvestmentOpportunities: true, FasterProcessing: true}},
	}
	for _, tt := range tests {
		if got := BenefitFlagsForTier(tt.tier); got != tt.want {
			t.Errorf("BenefitFlagsForTier(%s) = %+v, want %+v", tt.tier, got, tt.want)
		}
	}
}

func TestTierRankOrdering(t *testing.T) {
	previous := 0
	for _, tier := range AllTiers {
		rank := TierRank(tier)
		if rank <= previous {
			t.Errorf("expected strictly increasing ranks, %s has rank %d after %d", tier, rank, previous)
		}
		previous = rank
	}
	if TierRank("copper") != 0 {
		t.Error("expected rank 0 for an unknown tier")
	}
}

func TestMemberCodeFor(t *testing.T) {
	if got := MemberCodeFor(42); got != "VIP000042" {
		t.Errorf("MemberCodeFor(42) = %s, want VIP000042", got)
	}
	if got := MemberCodeFor(1234567); got != "VIP1234567" {
		t.Errorf("MemberCodeFor(1234567) = %s, want VIP1234567", got)
	}
}

func TestBenefitAppliesTo(t *testing.T) {
	benefit := &Benefit{MembershipTiers: "gold, platinum,diamond"}

	if !benefit.AppliesTo(TierGold) || !benefit.AppliesTo(TierPlatinum) || !benefit.AppliesTo(TierDiamond) {
		t.Error("expected benefit to apply to its listed tiers")
	}
	// "old" is a substring of "gold"; matching must be exact.
	if benefit.AppliesTo("old") {
		t.Error("expected substring tier names not to match")
	}
	if benefit.AppliesTo(TierBronze) {
		t.Error("expected benefit not to apply to an unlisted tier")
	}
}
