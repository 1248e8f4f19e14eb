package models

import (
	"strings"
	"time"
)

// Benefit is a named privilege gated by tier membership. The applicable tiers
// are stored comma-joined in a single column but are always matched with
// exact set membership, never substring search.
type Benefit struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	MembershipTiers string    `json:"membership_tiers" db:"membership_tiers"`
	Icon            string    `json:"icon" db:"icon"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Tiers returns the benefit's applicable tiers as a slice.
func (b *Benefit) Tiers() []string {
	parts := strings.Split(b.MembershipTiers, ",")
	tiers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// AppliesTo reports whether the benefit applies to the given tier. Matching
// is an exact membership test over the tier set.
func (b *Benefit) AppliesTo(tier string) bool {
	for _, t := range b.Tiers() {
		if t == tier {
			return true
		}
	}
	return false
}
