package models

// Membership tiers, ordered from lowest to highest rank.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
	TierDiamond  = "diamond"
)

// tierRanks defines the total order over membership tiers.
// Benefit flag derivation on approval compares against these ranks.
var tierRanks = map[string]int{
	TierBronze:   1,
	TierSilver:   2,
	TierGold:     3,
	TierPlatinum: 4,
	TierDiamond:  5,
}

// TierInfo holds display metadata for a membership tier. The minimum
// investment figure is presentational only and is never enforced at write time.
type TierInfo struct {
	Name          string  `json:"name"`
	Label         string  `json:"label"`
	Color         string  `json:"color"`
	Description   string  `json:"description"`
	MinInvestment float64 `json:"min_investment"`
}

// TierCatalog lists all tiers in rank order with their display metadata.
var TierCatalog = []TierInfo{
	{Name: TierBronze, Label: "Bronze VIP", Color: "#CD7F32", Description: "Entry-level VIP membership with basic privileges", MinInvestment: 10000},
	{Name: TierSilver, Label: "Silver VIP", Color: "#C0C0C0", Description: "Enhanced VIP membership with additional benefits", MinInvestment: 25000},
	{Name: TierGold, Label: "Gold VIP", Color: "#FFD700", Description: "Premium VIP membership with exclusive privileges", MinInvestment: 50000},
	{Name: TierPlatinum, Label: "Platinum VIP", Color: "#E5E4E2", Description: "Elite VIP membership with premium services", MinInvestment: 100000},
	{Name: TierDiamond, Label: "Diamond VIP", Color: "#B9F2FF", Description: "Ultimate VIP membership with all privileges", MinInvestment: 250000},
}

// AllTiers lists the tier names in rank order.
var AllTiers = []string{TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond}

// IsValidTier reports whether the given string names a known membership tier.
func IsValidTier(tier string) bool {
	_, ok := tierRanks[tier]
	return ok
}

// TierRank returns the rank of a tier (1 for bronze up to 5 for diamond),
// or 0 for an unknown tier name.
func TierRank(tier string) int {
	return tierRanks[tier]
}

// TierLabel returns the display label for a tier, or the raw name if unknown.
func TierLabel(tier string) string {
	for _, info := range TierCatalog {
		if info.Name == tier {
			return info.Label
		}
	}
	return tier
}

// BenefitFlags are the per-member eligibility booleans derived mechanically
// from the approved tier's rank. Priority support applies to every tier;
// the remaining flags switch on at silver or gold.
type BenefitFlags struct {
	PrioritySupport                  bool `json:"priority_support"`
	DedicatedAccountManager          bool `json:"dedicated_account_manager"`
	ExclusiveInvestmentOpportunities bool `json:"exclusive_investment_opportunities"`
	FasterProcessing                 bool `json:"faster_processing"`
}

// BenefitFlagsForTier derives the eligibility flags from a tier's rank.
func BenefitFlagsForTier(tier string) BenefitFlags {
	rank := TierRank(tier)
	return BenefitFlags{
		PrioritySupport:                  true,
		DedicatedAccountManager:          rank >= tierRanks[TierSilver],
		ExclusiveInvestmentOpportunities: rank >= tierRanks[TierGold],
		FasterProcessing:                 rank >= tierRanks[TierSilver],
	}
}
