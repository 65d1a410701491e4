package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/core"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

type mockPlanService struct {
	createFn func(ctx context.Context, def types.PlanDefinition) (*types.PricingPlan, error)
	updateFn func(ctx context.Context, id string, patch types.PlanPatch) (*types.PricingPlan, error)
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*types.PricingPlan, error)
	listFn   func(ctx context.Context, filter types.PlanFilter) ([]*types.PricingPlan, error)
}

func (m *mockPlanService) Create(ctx context.Context, def types.PlanDefinition) (*types.PricingPlan, error) {
	return m.createFn(ctx, def)
}

func (m *mockPlanService) Update(ctx context.Context, id string, patch types.PlanPatch) (*types.PricingPlan, error) {
	return m.updateFn(ctx, id, patch)
}

func (m *mockPlanService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockPlanService) Get(ctx context.Context, id string) (*types.PricingPlan, error) {
	return m.getFn(ctx, id)
}

func (m *mockPlanService) List(ctx context.Context, filter types.PlanFilter) ([]*types.PricingPlan, error) {
	return m.listFn(ctx, filter)
}

type mockTierService struct {
	createFn func(ctx context.Context, def types.TierDefinition) (*types.PricingTier, error)
	updateFn func(ctx context.Context, id string, patch types.TierPatch) (*types.PricingTier, error)
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*types.PricingTier, error)
}

func (m *mockTierService) Create(ctx context.Context, def types.TierDefinition) (*types.PricingTier, error) {
	return m.createFn(ctx, def)
}

func (m *mockTierService) Update(ctx context.Context, id string, patch types.TierPatch) (*types.PricingTier, error) {
	return m.updateFn(ctx, id, patch)
}

func (m *mockTierService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockTierService) Get(ctx context.Context, id string) (*types.PricingTier, error) {
	return m.getFn(ctx, id)
}

type mockTierCatalog struct {
	listFn        func(ctx context.Context) ([]*types.PricingTier, error)
	recommendedFn func(ctx context.Context) ([]*types.PricingTier, error)
	markFn        func(ctx context.Context, id string) (*types.PricingTier, error)
	unmarkFn      func(ctx context.Context, id string) (*types.PricingTier, error)
}

func (m *mockTierCatalog) ListTiers(ctx context.Context) ([]*types.PricingTier, error) {
	return m.listFn(ctx)
}

func (m *mockTierCatalog) Recommended(ctx context.Context) ([]*types.PricingTier, error) {
	return m.recommendedFn(ctx)
}

func (m *mockTierCatalog) MarkRecommended(ctx context.Context, id string) (*types.PricingTier, error) {
	return m.markFn(ctx, id)
}

func (m *mockTierCatalog) UnmarkRecommended(ctx context.Context, id string) (*types.PricingTier, error) {
	return m.unmarkFn(ctx, id)
}

type mockQuoteService struct {
	quoteFn     func(ctx context.Context, planID string, cfg types.Configuration, cycle types.BillingCycle) (types.Quote, error)
	quoteTierFn func(ctx context.Context, planID, tierID string, cycle types.BillingCycle) (types.Quote, error)
}

func (m *mockQuoteService) Quote(ctx context.Context, planID string, cfg types.Configuration, cycle types.BillingCycle) (types.Quote, error) {
	return m.quoteFn(ctx, planID, cfg, cycle)
}

func (m *mockQuoteService) QuoteTier(ctx context.Context, planID, tierID string, cycle types.BillingCycle) (types.Quote, error) {
	return m.quoteTierFn(ctx, planID, tierID, cycle)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve routes one request through a chi router carrying the registrar.
func serve(t *testing.T, register func(chi.Router), method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	register(r)

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, rdr))
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) core.ErrorDetail {
	t.Helper()
	var body core.APIErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return body.Error
}
