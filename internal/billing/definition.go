package billing

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/validation"
)

// surchargePolicy states which optional per-plan price add-ons a plan type
// may carry.
type surchargePolicy struct {
	perMinute  bool
	perSession bool
}

// surcharges is the per-type policy table. Every type currently accepts both
// add-ons and the calculator sums them when both are set; a type that must
// not carry one of them is restricted here.
var surcharges = map[types.PlanType]surchargePolicy{
	types.PlanOneOnOne: {perMinute: true, perSession: true},
	types.PlanGroup:    {perMinute: true, perSession: true},
	types.PlanClass:    {perMinute: true, perSession: true},
	types.PlanCustom:   {perMinute: true, perSession: true},
}

var definitions = validation.New()

// normalizePlan trims text and sorts and de-duplicates the weekly sets.
func normalizePlan(p *types.PricingPlan) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.DaysPerWeek = uniqueSorted(p.DaysPerWeek)
	p.SessionsPerWeek = uniqueSorted(p.SessionsPerWeek)
	if p.Features == nil {
		p.Features = []string{}
	}
}

func uniqueSorted(in []int) []int {
	if in == nil {
		return nil
	}
	out := append([]int(nil), in...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}
	return out[:n]
}

// validatePlan checks every plan-level invariant and returns a definition
// error naming the first offending field.
func validatePlan(p *types.PricingPlan) error {
	if err := definitions.Struct(p); err != nil {
		return definitionError(err)
	}

	if p.MaxDuration != nil {
		if *p.MaxDuration < p.MinDuration {
			return types.NewDefinitionError("max_duration",
				fmt.Sprintf("max_duration %d must be >= min_duration %d", *p.MaxDuration, p.MinDuration))
		}
		if (*p.MaxDuration-p.MinDuration)%p.DurationStep != 0 {
			return types.NewDefinitionError("max_duration",
				fmt.Sprintf("max_duration %d is not reachable from min_duration %d in steps of %d",
					*p.MaxDuration, p.MinDuration, p.DurationStep))
		}
	}

	policy := surcharges[p.Type]
	if p.PricePerMinute != nil && !policy.perMinute {
		return types.NewDefinitionError("price_per_minute",
			fmt.Sprintf("price_per_minute is not offered for %s plans", p.Type))
	}
	if p.PricePerSession != nil && !policy.perSession {
		return types.NewDefinitionError("price_per_session",
			fmt.Sprintf("price_per_session is not offered for %s plans", p.Type))
	}
	return nil
}

// validateTier checks the tier-level invariants.
func validateTier(t *types.PricingTier) error {
	if err := definitions.Struct(t); err != nil {
		return definitionError(err)
	}
	return nil
}

// definitionError converts the first validator failure into a DefinitionError.
func definitionError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "definition validation failed", err)
	}

	fe := verrs[0]
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return types.NewDefinitionError(field, field+" "+describeRule(fe))
}

func describeRule(fe validator.FieldError) string {
	collection := fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "required":
		return "is required"
	case "enum":
		return fmt.Sprintf("has unknown value %q", fmt.Sprint(fe.Value()))
	case "gte", "decgte":
		return "must be >= " + fe.Param()
	case "lte", "declte":
		return "must be <= " + fe.Param()
	case "min":
		if collection {
			return "must contain at least " + fe.Param() + " value(s)"
		}
		return "values must be >= " + fe.Param()
	case "max":
		if collection || fe.Kind() == reflect.String {
			return "is longer than " + fe.Param()
		}
		return "values must be <= " + fe.Param()
	default:
		return "fails " + fe.Tag()
	}
}
