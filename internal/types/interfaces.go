package types

import "context"

// PlanRepository is the persistence contract the plan registry consumes.
// Every method performs a single atomic write or read; concurrent writers
// follow last-write-wins semantics.
type PlanRepository interface {
	// Get returns the plan, or an ErrCodeNotFoundPlan AppError.
	Get(ctx context.Context, id string) (*PricingPlan, error)
	// Put inserts or replaces the plan keyed by ID.
	Put(ctx context.Context, plan *PricingPlan) error
	// Delete removes the plan, or returns ErrCodeNotFoundPlan.
	Delete(ctx context.Context, id string) error
	// List returns the plans matching filter in no particular order.
	List(ctx context.Context, filter PlanFilter) ([]*PricingPlan, error)
}

// TierRepository is the persistence contract the tier registry consumes.
type TierRepository interface {
	Get(ctx context.Context, id string) (*PricingTier, error)
	Put(ctx context.Context, tier *PricingTier) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*PricingTier, error)
}

// Pinger is implemented by stores that can report their own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
