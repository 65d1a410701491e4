package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// Compute prices an accepted configuration for a billing cycle.
//
//	perSession = base_price + price_per_minute x duration + price_per_session
//	monthly    = perSession x sessions_per_week x WeeksPerMonth
//	cycleBase  = monthly x cycle months
//	final      = cycleBase x (1 - discount/100)
//
// Intermediate values stay exact; each monetary output is rounded to cents
// half-up. Compute is pure.
func Compute(accepted Accepted, cycle types.BillingCycle) (types.Quote, error) {
	if accepted.plan == nil {
		return types.Quote{}, types.NewInvalidArgument("configuration has not been validated against a plan")
	}
	months := cycle.Months()
	if months == 0 {
		return types.Quote{}, types.NewInvalidArgument(fmt.Sprintf("unknown billing cycle %q", cycle))
	}

	plan := accepted.plan
	cfg := accepted.config

	perSession := PerSessionPrice(plan, cfg.Duration)
	monthly := perSession.Mul(decimal.NewFromInt(int64(cfg.SessionsPerWeek * WeeksPerMonth)))
	cycleBase := monthly.Mul(decimal.NewFromInt(int64(months)))
	discount := plan.DiscountFor(cycle)
	final := cycleBase.Mul(decimal.NewFromInt(1).Sub(discount.Shift(-2)))

	return types.Quote{
		PlanID:          plan.ID,
		Duration:        cfg.Duration,
		DaysPerWeek:     cfg.DaysPerWeek,
		SessionsPerWeek: cfg.SessionsPerWeek,
		BillingCycle:    cycle,
		PerSessionPrice: roundMoney(perSession),
		MonthlyTotal:    roundMoney(monthly),
		CycleBaseTotal:  roundMoney(cycleBase),
		DiscountPercent: discount,
		FinalTotal:      roundMoney(final),
		Currency:        plan.Currency,
	}, nil
}

// PerSessionPrice is the unrounded price of one session of the given length.
// The optional surcharges are additive.
func PerSessionPrice(plan *types.PricingPlan, duration int) decimal.Decimal {
	price := plan.BasePrice
	if plan.PricePerMinute != nil {
		price = price.Add(plan.PricePerMinute.Mul(decimal.NewFromInt(int64(duration))))
	}
	if plan.PricePerSession != nil {
		price = price.Add(*plan.PricePerSession)
	}
	return price
}

// roundMoney rounds to cents. decimal.Round rounds half away from zero,
// which is half-up for the non-negative amounts produced here.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
