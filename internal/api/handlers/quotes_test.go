package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/billing"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/memstore"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

func TestQuoteHandler_PassesConfiguration(t *testing.T) {
	var gotPlan string
	var gotCfg types.Configuration
	var gotCycle types.BillingCycle
	svc := &mockQuoteService{quoteFn: func(_ context.Context, planID string, cfg types.Configuration, cycle types.BillingCycle) (types.Quote, error) {
		gotPlan, gotCfg, gotCycle = planID, cfg, cycle
		return types.Quote{PlanID: planID, BillingCycle: cycle}, nil
	}}
	h := NewQuoteHandler(svc, nil, testLogger())

	w := serve(t, h.RegisterRoutes, http.MethodPost, "/plans/p1/quote",
		`{"duration": 45, "days_per_week": 3, "sessions_per_week": 3, "billing_cycle": "quarterly"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "p1", gotPlan)
	assert.Equal(t, types.Configuration{Duration: 45, DaysPerWeek: 3, SessionsPerWeek: 3}, gotCfg)
	assert.Equal(t, types.CycleQuarterly, gotCycle)
}

func TestQuoteHandler_RequestValidation(t *testing.T) {
	h := NewQuoteHandler(&mockQuoteService{}, nil, testLogger())

	w := serve(t, h.RegisterRoutes, http.MethodPost, "/plans/p1/quote", `{"duration": 45, "sessions_per_week": 2}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_invalid_request", decodeErr(t, w).Code)

	w = serve(t, h.RegisterRoutes, http.MethodPost, "/plans/p1/quote", `{"duration": 45, "days_per_week": 9, "sessions_per_week": 2, "billing_cycle": "monthly"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_invalid_request", decodeErr(t, w).Code)
}

func TestQuoteHandler_TierQuote(t *testing.T) {
	svc := &mockQuoteService{quoteTierFn: func(_ context.Context, planID, tierID string, cycle types.BillingCycle) (types.Quote, error) {
		assert.Equal(t, "p1", planID)
		assert.Equal(t, "t9", tierID)
		assert.Equal(t, types.CycleYearly, cycle)
		return types.Quote{PlanID: planID}, nil
	}}
	h := NewQuoteHandler(svc, nil, testLogger())

	w := serve(t, h.RegisterRoutes, http.MethodPost, "/plans/p1/tiers/t9/quote", `{"billing_cycle": "yearly"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

// The remaining tests run the real catalog and quote engine over the memory
// store, so the HTTP contract is checked against actual pricing.

type api struct {
	plans  *billing.PlanRegistry
	tiers  *billing.TierRegistry
	router chi.Router
}

func newAPI(t *testing.T) *api {
	t.Helper()
	plans := billing.NewPlanRegistry(memstore.NewPlanStore(), nil, testLogger())
	tiers := billing.NewTierRegistry(memstore.NewTierStore(), nil, testLogger())
	quotes := billing.NewQuoteService(plans, tiers, nil, nil, testLogger())

	r := chi.NewRouter()
	NewPlanHandler(plans, testLogger()).RegisterRoutes(r)
	NewTierHandler(tiers, billing.NewTierRecommender(tiers), testLogger()).RegisterRoutes(r)
	NewQuoteHandler(quotes, nil, testLogger()).RegisterRoutes(r)
	return &api{plans: plans, tiers: tiers, router: r}
}

func (a *api) register(r chi.Router) {
	r.Mount("/", a.router)
}

const hifzPlanJSON = `{
	"name": "Hifz One-on-One", "type": "one_on_one", "category": "memorization",
	"level": "all_levels", "min_duration": 30, "max_duration": 90, "duration_step": 5,
	"days_per_week": [1, 2, 3, 4, 5], "sessions_per_week": [1, 2, 3, 4, 5],
	"base_price": "49", "price_per_minute": "1.25", "currency": "USD",
	"monthly_discount": "5", "quarterly_discount": "10", "yearly_discount": "20",
	"features": ["Certified tutor"], "is_active": true, "is_public": true
}`

func createHifz(t *testing.T, a *api) types.PricingPlan {
	t.Helper()
	w := serve(t, a.register, http.MethodPost, "/plans", hifzPlanJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan types.PricingPlan
	decodeData(t, w, &plan)
	return plan
}

func TestQuoteFlow_MonthlyQuote(t *testing.T) {
	a := newAPI(t)
	plan := createHifz(t, a)

	w := serve(t, a.register, http.MethodPost, "/plans/"+plan.ID+"/quote",
		`{"duration": 60, "sessions_per_week": 3, "billing_cycle": "monthly"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q types.Quote
	decodeData(t, w, &q)
	assert.Equal(t, "124.00", q.PerSessionPrice.StringFixed(2))
	assert.Equal(t, "1488.00", q.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "1413.60", q.FinalTotal.StringFixed(2))
	assert.Equal(t, types.CurrencyUSD, q.Currency)
}

func TestQuoteFlow_Violations(t *testing.T) {
	a := newAPI(t)
	plan := createHifz(t, a)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"below range", `{"duration": 25, "sessions_per_week": 3, "billing_cycle": "monthly"}`, "validation_out_of_range_duration"},
		{"above range", `{"duration": 95, "sessions_per_week": 3, "billing_cycle": "monthly"}`, "validation_out_of_range_duration"},
		{"off step", `{"duration": 42, "sessions_per_week": 3, "billing_cycle": "monthly"}`, "validation_invalid_duration_step"},
		{"days", `{"duration": 60, "days_per_week": 6, "sessions_per_week": 3, "billing_cycle": "monthly"}`, "validation_unsupported_days_per_week"},
		{"sessions", `{"duration": 60, "sessions_per_week": 7, "billing_cycle": "monthly"}`, "validation_unsupported_sessions_per_week"},
		{"cycle", `{"duration": 60, "sessions_per_week": 3, "billing_cycle": "weekly"}`, "invalid_argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, a.register, http.MethodPost, "/plans/"+plan.ID+"/quote", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeErr(t, w).Code)
		})
	}
}

func TestQuoteFlow_UnknownPlan(t *testing.T) {
	a := newAPI(t)

	w := serve(t, a.register, http.MethodPost, "/plans/nope/quote",
		`{"duration": 60, "sessions_per_week": 3, "billing_cycle": "monthly"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found_plan", decodeErr(t, w).Code)
}

func TestQuoteFlow_TierPresetAgainstPlan(t *testing.T) {
	a := newAPI(t)
	plan := createHifz(t, a)

	w := serve(t, a.register, http.MethodPost, "/tiers",
		`{"min_duration": 45, "days_per_week": 2, "sessions_per_week": 2, "price_per_session": "35"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tier types.PricingTier
	decodeData(t, w, &tier)
	assert.Equal(t, "280.00", tier.PricePerMonth.StringFixed(2))

	w = serve(t, a.register, http.MethodPost, "/plans/"+plan.ID+"/tiers/"+tier.ID+"/quote", `{"billing_cycle": "yearly"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 49 + 1.25 x 45 = 105.25 per session; x 2 x 4 = 842.00; x 12 = 10104.00; -20%.
	var q types.Quote
	decodeData(t, w, &q)
	assert.Equal(t, 45, q.Duration)
	assert.Equal(t, "105.25", q.PerSessionPrice.StringFixed(2))
	assert.Equal(t, "842.00", q.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "10104.00", q.CycleBaseTotal.StringFixed(2))
	assert.Equal(t, "8083.20", q.FinalTotal.StringFixed(2))
}

func TestQuoteFlow_RecommendationLifecycle(t *testing.T) {
	a := newAPI(t)
	for _, body := range []string{
		`{"min_duration": 60, "days_per_week": 3, "sessions_per_week": 3, "price_per_session": "50"}`,
		`{"min_duration": 30, "days_per_week": 2, "sessions_per_week": 2, "price_per_session": "25"}`,
	} {
		w := serve(t, a.register, http.MethodPost, "/tiers", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := serve(t, a.register, http.MethodGet, "/tiers", nil)
	var tiers []types.PricingTier
	decodeData(t, w, &tiers)
	require.Len(t, tiers, 2)
	assert.Equal(t, 30, tiers[0].MinDuration, "tiers are listed by duration")

	w = serve(t, a.register, http.MethodPost, "/tiers/"+tiers[1].ID+"/recommendation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, a.register, http.MethodGet, "/tiers?recommended=true", nil)
	var recommended []types.PricingTier
	decodeData(t, w, &recommended)
	require.Len(t, recommended, 1)
	assert.Equal(t, tiers[1].ID, recommended[0].ID)
}
