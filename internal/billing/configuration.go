package billing

import (
	"fmt"
	"slices"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// Accepted is a configuration that passed ValidateConfiguration against a
// specific plan. The zero value is not accepted; Compute rejects it.
type Accepted struct {
	plan   *types.PricingPlan
	config types.Configuration
}

// Plan returns a copy of the plan snapshot the configuration was accepted against.
func (a Accepted) Plan() *types.PricingPlan {
	return a.plan.Clone()
}

// Configuration returns the accepted configuration.
func (a Accepted) Configuration() types.Configuration {
	return a.config
}

// ValidateConfiguration decides whether cfg is allowed by plan. Checks run in
// a fixed order and the first failure is returned:
//
//  1. duration within [MinDuration, MaxDuration]
//  2. duration on the DurationStep grid starting at MinDuration
//  3. days per week in the allowed set (skipped when not chosen)
//  4. sessions per week in the allowed set
//
// It has no side effects.
func ValidateConfiguration(plan *types.PricingPlan, cfg types.Configuration) (Accepted, error) {
	if plan == nil {
		return Accepted{}, types.NewInvalidArgument("plan is required")
	}
	if plan.DurationStep <= 0 {
		return Accepted{}, types.NewInvalidArgument(fmt.Sprintf("plan %s has no duration step", plan.ID))
	}

	if cfg.Duration < plan.MinDuration || (plan.MaxDuration != nil && cfg.Duration > *plan.MaxDuration) {
		return Accepted{}, types.NewValidationError(types.ViolationOutOfRangeDuration,
			fmt.Sprintf("duration %d is outside the allowed range %s", cfg.Duration, durationRange(plan)))
	}

	if (cfg.Duration-plan.MinDuration)%plan.DurationStep != 0 {
		return Accepted{}, types.NewValidationError(types.ViolationInvalidDurationStep,
			fmt.Sprintf("duration %d must be %d plus a multiple of %d", cfg.Duration, plan.MinDuration, plan.DurationStep))
	}

	if cfg.DaysPerWeek != 0 && !slices.Contains(plan.DaysPerWeek, cfg.DaysPerWeek) {
		return Accepted{}, types.NewValidationError(types.ViolationUnsupportedDaysPerWeek,
			fmt.Sprintf("%d days per week is not offered; choose one of %v", cfg.DaysPerWeek, plan.DaysPerWeek))
	}

	if !slices.Contains(plan.SessionsPerWeek, cfg.SessionsPerWeek) {
		return Accepted{}, types.NewValidationError(types.ViolationUnsupportedSessionsPerWeek,
			fmt.Sprintf("%d sessions per week is not offered; choose one of %v", cfg.SessionsPerWeek, plan.SessionsPerWeek))
	}

	return Accepted{plan: plan.Clone(), config: cfg}, nil
}

func durationRange(plan *types.PricingPlan) string {
	if plan.MaxDuration == nil {
		return fmt.Sprintf("[%d, unbounded)", plan.MinDuration)
	}
	return fmt.Sprintf("[%d, %d]", plan.MinDuration, *plan.MaxDuration)
}
