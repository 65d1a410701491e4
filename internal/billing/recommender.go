package billing

import (
	"context"
	"sort"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// TierRecommender decides which tiers are surfaced as quick-select shortcuts.
// It is advisory only: a recommended flag never changes a price.
//
// More than one tier may be recommended at a time.
type TierRecommender struct {
	tiers *TierRegistry
}

// NewTierRecommender creates a TierRecommender backed by the tier registry.
func NewTierRecommender(tiers *TierRegistry) *TierRecommender {
	return &TierRecommender{tiers: tiers}
}

// ListTiers returns all tiers ordered by MinDuration, then SessionsPerWeek.
func (r *TierRecommender) ListTiers(ctx context.Context) ([]*types.PricingTier, error) {
	tiers, err := r.tiers.List(ctx)
	if err != nil {
		return nil, err
	}
	SortTiers(tiers)
	return tiers, nil
}

// Recommended returns only the recommended tiers, in ListTiers order.
func (r *TierRecommender) Recommended(ctx context.Context) ([]*types.PricingTier, error) {
	tiers, err := r.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*types.PricingTier, 0, len(tiers))
	for _, t := range tiers {
		if t.IsRecommended {
			out = append(out, t)
		}
	}
	return out, nil
}

// MarkRecommended flags the tier as recommended. Other tiers keep their flag.
func (r *TierRecommender) MarkRecommended(ctx context.Context, id string) (*types.PricingTier, error) {
	recommended := true
	return r.tiers.Update(ctx, id, types.TierPatch{IsRecommended: &recommended})
}

// UnmarkRecommended clears the tier's recommended flag.
func (r *TierRecommender) UnmarkRecommended(ctx context.Context, id string) (*types.PricingTier, error) {
	recommended := false
	return r.tiers.Update(ctx, id, types.TierPatch{IsRecommended: &recommended})
}

// SortTiers orders tiers for display: MinDuration, then SessionsPerWeek,
// ascending. Creation order and ID settle anything left.
func SortTiers(tiers []*types.PricingTier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		a, b := tiers[i], tiers[j]
		if a.MinDuration != b.MinDuration {
			return a.MinDuration < b.MinDuration
		}
		if a.SessionsPerWeek != b.SessionsPerWeek {
			return a.SessionsPerWeek < b.SessionsPerWeek
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// TierConfiguration converts a selected tier into the configuration that is
// validated and priced against the plan being viewed. Days per week are left
// unchosen.
func TierConfiguration(t *types.PricingTier) types.Configuration {
	return types.Configuration{
		Duration:        t.MinDuration,
		SessionsPerWeek: t.SessionsPerWeek,
	}
}
