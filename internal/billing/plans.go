// Package billing holds the plan configuration and quote computation engine:
// the plan and tier catalogs, the configuration validator, the quote
// calculator and the tier recommender.
package billing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// ChangePublisher announces committed plan and tier mutations. Publishing is
// best effort: a failure is logged and never undoes the write.
type ChangePublisher interface {
	Publish(ctx context.Context, event types.ChangeEvent) error
}

// PlanRegistry owns the catalog of pricing plans. It validates every
// definition before it reaches the repository; the quote pipeline only
// ever reads from it.
type PlanRegistry struct {
	repo      types.PlanRepository
	publisher ChangePublisher
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewPlanRegistry creates a PlanRegistry over repo. publisher may be nil.
func NewPlanRegistry(repo types.PlanRepository, publisher ChangePublisher, logger *slog.Logger) *PlanRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanRegistry{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create validates def and stores it as a new plan.
func (r *PlanRegistry) Create(ctx context.Context, def types.PlanDefinition) (*types.PricingPlan, error) {
	now := r.now().UTC()
	plan := planFromDefinition(def)
	plan.ID = r.newID()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	normalizePlan(plan)
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	if err := r.repo.Put(ctx, plan); err != nil {
		return nil, err
	}

	r.logger.Info("pricing plan created",
		"plan_id", plan.ID,
		"type", string(plan.Type),
		"currency", string(plan.Currency),
	)
	publish(ctx, r.publisher, r.logger, types.EntityPlan, plan.ID, types.ChangeCreated, now)
	return plan.Clone(), nil
}

// Update applies patch to the stored plan, re-validates the merged record
// and bumps UpdatedAt.
func (r *PlanRegistry) Update(ctx context.Context, id string, patch types.PlanPatch) (*types.PricingPlan, error) {
	existing, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	plan := existing.Clone()
	applyPlanPatch(plan, patch)
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = r.now().UTC()

	normalizePlan(plan)
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	if err := r.repo.Put(ctx, plan); err != nil {
		return nil, err
	}

	r.logger.Info("pricing plan updated", "plan_id", plan.ID)
	publish(ctx, r.publisher, r.logger, types.EntityPlan, plan.ID, types.ChangeUpdated, plan.UpdatedAt)
	return plan.Clone(), nil
}

// Delete removes the plan. Tiers are independent presets and are untouched.
func (r *PlanRegistry) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("pricing plan deleted", "plan_id", id)
	publish(ctx, r.publisher, r.logger, types.EntityPlan, id, types.ChangeDeleted, r.now().UTC())
	return nil
}

// Get returns the plan or an ErrCodeNotFoundPlan error.
func (r *PlanRegistry) Get(ctx context.Context, id string) (*types.PricingPlan, error) {
	return r.repo.Get(ctx, id)
}

// List returns the plans matching filter ordered by OrderIndex, then
// CreatedAt, both ascending.
func (r *PlanRegistry) List(ctx context.Context, filter types.PlanFilter) ([]*types.PricingPlan, error) {
	plans, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	SortPlans(plans)
	return plans, nil
}

// SortPlans orders plans for display. ID breaks remaining ties so the order
// is total.
func SortPlans(plans []*types.PricingPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func planFromDefinition(def types.PlanDefinition) *types.PricingPlan {
	p := &types.PricingPlan{
		Name:              def.Name,
		Description:       def.Description,
		Type:              def.Type,
		Category:          def.Category,
		Level:             def.Level,
		MinDuration:       def.MinDuration,
		DurationStep:      def.DurationStep,
		DaysPerWeek:       def.DaysPerWeek,
		SessionsPerWeek:   def.SessionsPerWeek,
		BasePrice:         def.BasePrice,
		Currency:          def.Currency,
		MonthlyDiscount:   def.MonthlyDiscount,
		QuarterlyDiscount: def.QuarterlyDiscount,
		YearlyDiscount:    def.YearlyDiscount,
		Features:          def.Features,
		IsActive:          def.IsActive,
		IsPublic:          def.IsPublic,
		OrderIndex:        def.OrderIndex,
		MaxDuration:       def.MaxDuration,
		PricePerMinute:    def.PricePerMinute,
		PricePerSession:   def.PricePerSession,
	}
	// Detach from caller-owned memory.
	return p.Clone()
}

func applyPlanPatch(p *types.PricingPlan, patch types.PlanPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Level != nil {
		p.Level = *patch.Level
	}
	if patch.MinDuration != nil {
		p.MinDuration = *patch.MinDuration
	}
	if patch.ClearMaxDuration {
		p.MaxDuration = nil
	} else if patch.MaxDuration != nil {
		v := *patch.MaxDuration
		p.MaxDuration = &v
	}
	if patch.DurationStep != nil {
		p.DurationStep = *patch.DurationStep
	}
	if patch.DaysPerWeek != nil {
		p.DaysPerWeek = append([]int(nil), patch.DaysPerWeek...)
	}
	if patch.SessionsPerWeek != nil {
		p.SessionsPerWeek = append([]int(nil), patch.SessionsPerWeek...)
	}
	if patch.BasePrice != nil {
		p.BasePrice = *patch.BasePrice
	}
	if patch.ClearPricePerMinute {
		p.PricePerMinute = nil
	} else if patch.PricePerMinute != nil {
		v := *patch.PricePerMinute
		p.PricePerMinute = &v
	}
	if patch.ClearPricePerSession {
		p.PricePerSession = nil
	} else if patch.PricePerSession != nil {
		v := *patch.PricePerSession
		p.PricePerSession = &v
	}
	if patch.Currency != nil {
		p.Currency = *patch.Currency
	}
	if patch.MonthlyDiscount != nil {
		p.MonthlyDiscount = *patch.MonthlyDiscount
	}
	if patch.QuarterlyDiscount != nil {
		p.QuarterlyDiscount = *patch.QuarterlyDiscount
	}
	if patch.YearlyDiscount != nil {
		p.YearlyDiscount = *patch.YearlyDiscount
	}
	if patch.Features != nil {
		p.Features = append([]string(nil), patch.Features...)
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.IsPublic != nil {
		p.IsPublic = *patch.IsPublic
	}
	if patch.OrderIndex != nil {
		p.OrderIndex = *patch.OrderIndex
	}
}

// publish emits a change event if a publisher is configured.
func publish(
	ctx context.Context,
	publisher ChangePublisher,
	logger *slog.Logger,
	entity, id string,
	kind types.ChangeKind,
	at time.Time,
) {
	if publisher == nil {
		return
	}
	event := types.ChangeEvent{
		ID:         uuid.NewString(),
		Entity:     entity,
		EntityID:   id,
		Kind:       kind,
		OccurredAt: at,
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish change event",
			"entity", entity,
			"entity_id", id,
			"kind", string(kind),
			"error", err,
		)
	}
}
