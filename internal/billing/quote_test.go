package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

func mustAccept(t *testing.T, plan *types.PricingPlan, cfg types.Configuration) Accepted {
	t.Helper()
	accepted, err := ValidateConfiguration(plan, cfg)
	require.NoError(t, err)
	return accepted
}

func TestCompute_PerMinutePlanMonthly(t *testing.T) {
	accepted := mustAccept(t, hifzPlan(), types.Configuration{Duration: 60, SessionsPerWeek: 3})

	q, err := Compute(accepted, types.CycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, "124.00", q.PerSessionPrice.StringFixed(2))
	assert.Equal(t, "1488.00", q.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "1488.00", q.CycleBaseTotal.StringFixed(2))
	assert.Equal(t, "5", q.DiscountPercent.String())
	assert.Equal(t, "1413.60", q.FinalTotal.StringFixed(2))
	assert.Equal(t, types.CurrencyUSD, q.Currency)
	assert.Equal(t, "plan-hifz", q.PlanID)
	assert.Equal(t, types.CycleMonthly, q.BillingCycle)
}

func TestCompute_PerSessionPlanQuarterly(t *testing.T) {
	plan := hifzPlan()
	plan.BasePrice = dec("29")
	plan.PricePerMinute = nil
	plan.PricePerSession = decPtr("19")
	plan.SessionsPerWeek = []int{2}
	plan.QuarterlyDiscount = dec("15")

	accepted := mustAccept(t, plan, types.Configuration{Duration: 45, SessionsPerWeek: 2})
	q, err := Compute(accepted, types.CycleQuarterly)
	require.NoError(t, err)

	assert.Equal(t, "48.00", q.PerSessionPrice.StringFixed(2))
	assert.Equal(t, "384.00", q.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "1152.00", q.CycleBaseTotal.StringFixed(2))
	assert.Equal(t, "979.20", q.FinalTotal.StringFixed(2))
}

func TestCompute_SurchargesAreAdditive(t *testing.T) {
	plan := hifzPlan()
	plan.BasePrice = dec("10")
	plan.PricePerMinute = decPtr("0.50")
	plan.PricePerSession = decPtr("5")

	accepted := mustAccept(t, plan, types.Configuration{Duration: 40, SessionsPerWeek: 1})
	q, err := Compute(accepted, types.CycleMonthly)
	require.NoError(t, err)

	// 10 + 0.50*40 + 5
	assert.Equal(t, "35.00", q.PerSessionPrice.StringFixed(2))
	assert.Equal(t, "140.00", q.MonthlyTotal.StringFixed(2))
}

func TestCompute_YearlyUsesTwelveMonths(t *testing.T) {
	plan := hifzPlan()
	plan.YearlyDiscount = dec("20")

	accepted := mustAccept(t, plan, types.Configuration{Duration: 30, SessionsPerWeek: 1})
	q, err := Compute(accepted, types.CycleYearly)
	require.NoError(t, err)

	// (49 + 37.5) * 4 = 346; * 12 = 4152; * 0.8 = 3321.6
	assert.Equal(t, "86.50", q.PerSessionPrice.StringFixed(2))
	assert.Equal(t, "346.00", q.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "4152.00", q.CycleBaseTotal.StringFixed(2))
	assert.Equal(t, "3321.60", q.FinalTotal.StringFixed(2))
}

func TestCompute_RoundsHalfUpFromUnroundedIntermediates(t *testing.T) {
	plan := hifzPlan()
	plan.BasePrice = dec("10.005")
	plan.PricePerMinute = nil
	plan.MonthlyDiscount = dec("0")

	accepted := mustAccept(t, plan, types.Configuration{Duration: 30, SessionsPerWeek: 1})
	q, err := Compute(accepted, types.CycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, "10.01", q.PerSessionPrice.StringFixed(2))
	// 10.005 * 4 = 40.02, not 10.01 * 4 = 40.04
	assert.Equal(t, "40.02", q.MonthlyTotal.StringFixed(2))
}

func TestCompute_DiscountBounds(t *testing.T) {
	plan := hifzPlan()
	plan.MonthlyDiscount = dec("100")
	plan.QuarterlyDiscount = dec("0")

	accepted := mustAccept(t, plan, types.Configuration{Duration: 30, SessionsPerWeek: 2})

	free, err := Compute(accepted, types.CycleMonthly)
	require.NoError(t, err)
	assert.True(t, free.FinalTotal.IsZero())

	full, err := Compute(accepted, types.CycleQuarterly)
	require.NoError(t, err)
	assert.True(t, full.FinalTotal.Equal(full.CycleBaseTotal))
}

func TestCompute_IsDeterministic(t *testing.T) {
	accepted := mustAccept(t, hifzPlan(), types.Configuration{Duration: 75, SessionsPerWeek: 4})

	first, err := Compute(accepted, types.CycleQuarterly)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Compute(accepted, types.CycleQuarterly)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompute_InvalidArguments(t *testing.T) {
	accepted := mustAccept(t, hifzPlan(), types.Configuration{Duration: 30, SessionsPerWeek: 1})

	_, err := Compute(accepted, types.BillingCycle("weekly"))
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInvalidArgument, appErr.Code)

	_, err = Compute(Accepted{}, types.CycleMonthly)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInvalidArgument, appErr.Code)
}
