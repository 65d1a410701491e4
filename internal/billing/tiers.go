package billing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// WeeksPerMonth is the fixed month length used by tier and quote arithmetic.
// It is an approximation, not a calendar computation.
const WeeksPerMonth = 4

// MonthlyTierPrice returns pricePerSession x sessionsPerWeek x WeeksPerMonth
// rounded to cents.
func MonthlyTierPrice(pricePerSession decimal.Decimal, sessionsPerWeek int) decimal.Decimal {
	return pricePerSession.
		Mul(decimal.NewFromInt(int64(sessionsPerWeek * WeeksPerMonth))).
		Round(2)
}

// TierRegistry owns the catalog of pricing tier presets. Tiers are not tied
// to any plan.
type TierRegistry struct {
	repo      types.TierRepository
	publisher ChangePublisher
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewTierRegistry creates a TierRegistry over repo. publisher may be nil.
func NewTierRegistry(repo types.TierRepository, publisher ChangePublisher, logger *slog.Logger) *TierRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &TierRegistry{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create validates def, derives PricePerMonth and stores the tier.
func (r *TierRegistry) Create(ctx context.Context, def types.TierDefinition) (*types.PricingTier, error) {
	now := r.now().UTC()
	tier := &types.PricingTier{
		ID:              r.newID(),
		MinDuration:     def.MinDuration,
		DaysPerWeek:     def.DaysPerWeek,
		SessionsPerWeek: def.SessionsPerWeek,
		PricePerSession: def.PricePerSession,
		IsRecommended:   def.IsRecommended,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.store(ctx, tier); err != nil {
		return nil, err
	}

	r.logger.Info("pricing tier created", "tier_id", tier.ID)
	publish(ctx, r.publisher, r.logger, types.EntityTier, tier.ID, types.ChangeCreated, now)
	return tier.Clone(), nil
}

// Update applies patch, re-derives PricePerMonth and stores the tier.
func (r *TierRegistry) Update(ctx context.Context, id string, patch types.TierPatch) (*types.PricingTier, error) {
	existing, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tier := existing.Clone()
	if patch.MinDuration != nil {
		tier.MinDuration = *patch.MinDuration
	}
	if patch.DaysPerWeek != nil {
		tier.DaysPerWeek = *patch.DaysPerWeek
	}
	if patch.SessionsPerWeek != nil {
		tier.SessionsPerWeek = *patch.SessionsPerWeek
	}
	if patch.PricePerSession != nil {
		tier.PricePerSession = *patch.PricePerSession
	}
	if patch.IsRecommended != nil {
		tier.IsRecommended = *patch.IsRecommended
	}
	tier.UpdatedAt = r.now().UTC()

	if err := r.store(ctx, tier); err != nil {
		return nil, err
	}

	r.logger.Info("pricing tier updated", "tier_id", tier.ID, "recommended", tier.IsRecommended)
	publish(ctx, r.publisher, r.logger, types.EntityTier, tier.ID, types.ChangeUpdated, tier.UpdatedAt)
	return tier.Clone(), nil
}

// Delete removes the tier.
func (r *TierRegistry) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("pricing tier deleted", "tier_id", id)
	publish(ctx, r.publisher, r.logger, types.EntityTier, id, types.ChangeDeleted, r.now().UTC())
	return nil
}

// Get returns the tier or an ErrCodeNotFoundTier error.
func (r *TierRegistry) Get(ctx context.Context, id string) (*types.PricingTier, error) {
	return r.repo.Get(ctx, id)
}

// List returns every tier in creation order.
func (r *TierRegistry) List(ctx context.Context) ([]*types.PricingTier, error) {
	tiers, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		if !tiers[i].CreatedAt.Equal(tiers[j].CreatedAt) {
			return tiers[i].CreatedAt.Before(tiers[j].CreatedAt)
		}
		return tiers[i].ID < tiers[j].ID
	})
	return tiers, nil
}

// store validates the tier, refreshes the cached monthly price and writes it.
func (r *TierRegistry) store(ctx context.Context, tier *types.PricingTier) error {
	if err := validateTier(tier); err != nil {
		return err
	}
	tier.PricePerMonth = MonthlyTierPrice(tier.PricePerSession, tier.SessionsPerWeek)
	return r.repo.Put(ctx, tier)
}
