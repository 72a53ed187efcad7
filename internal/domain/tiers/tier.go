package tiers

import "strings"

// Tier constants (single source of truth)
const (
	TierFree     = "free"
	TierPro      = "pro"
	TierUltimate = "ultimate"
)

// Normalize maps whatever is stored on the user record to a known tier.
// Anything unrecognized or empty falls back to free.
func Normalize(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case TierPro:
		return TierPro
	case TierUltimate:
		return TierUltimate
	}
	return TierFree
}

func rank(tier string) int {
	switch tier {
	case TierPro:
		return 1
	case TierUltimate:
		return 2
	}
	return 0
}

// HasAccess reports whether userTier satisfies a feature's required tier.
func HasAccess(userTier, requiredTier string) bool {
	return rank(Normalize(userTier)) >= rank(Normalize(requiredTier))
}

// LimitTable holds the daily request allowance per tier.
type LimitTable struct {
	Free     int
	Pro      int
	Ultimate int
}

func (t LimitTable) Limit(tier string) int {
	switch Normalize(tier) {
	case TierPro:
		return t.Pro
	case TierUltimate:
		return t.Ultimate
	}
	return t.Free
}
