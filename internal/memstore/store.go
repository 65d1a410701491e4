// Package memstore provides in-memory plan and tier repositories. It backs
// the API when no database is configured and is used by package tests.
package memstore

import (
	"context"
	"sync"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// PlanStore is a types.PlanRepository held in memory. Records are cloned on
// the way in and out so callers never share state with the store.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]*types.PricingPlan
}

// NewPlanStore returns an empty PlanStore.
func NewPlanStore() *PlanStore {
	return &PlanStore{plans: make(map[string]*types.PricingPlan)}
}

func (s *PlanStore) Get(_ context.Context, id string) (*types.PricingPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, planNotFound(id)
	}
	return p.Clone(), nil
}

func (s *PlanStore) Put(_ context.Context, plan *types.PricingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans[plan.ID] = plan.Clone()
	return nil
}

func (s *PlanStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return planNotFound(id)
	}
	delete(s.plans, id)
	return nil
}

func (s *PlanStore) List(_ context.Context, filter types.PlanFilter) ([]*types.PricingPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.PricingPlan, 0, len(s.plans))
	for _, p := range s.plans {
		if filter.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// Ping always succeeds.
func (s *PlanStore) Ping(context.Context) error { return nil }

// TierStore is a types.TierRepository held in memory.
type TierStore struct {
	mu    sync.RWMutex
	tiers map[string]*types.PricingTier
}

// NewTierStore returns an empty TierStore.
func NewTierStore() *TierStore {
	return &TierStore{tiers: make(map[string]*types.PricingTier)}
}

func (s *TierStore) Get(_ context.Context, id string) (*types.PricingTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tiers[id]
	if !ok {
		return nil, tierNotFound(id)
	}
	return t.Clone(), nil
}

func (s *TierStore) Put(_ context.Context, tier *types.PricingTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tiers[tier.ID] = tier.Clone()
	return nil
}

func (s *TierStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tiers[id]; !ok {
		return tierNotFound(id)
	}
	delete(s.tiers, id)
	return nil
}

func (s *TierStore) List(context.Context) ([]*types.PricingTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.PricingTier, 0, len(s.tiers))
	for _, t := range s.tiers {
		out = append(out, t.Clone())
	}
	return out, nil
}

func planNotFound(id string) error {
	return types.NewAppError(types.ErrCodeNotFoundPlan, "pricing plan not found: "+id, nil)
}

func tierNotFound(id string) error {
	return types.NewAppError(types.ErrCodeNotFoundTier, "pricing tier not found: "+id, nil)
}
