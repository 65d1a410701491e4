// Package handlers exposes the plan catalog, tier presets and quote engine
// over HTTP. Each handler depends on a narrow local interface so tests can
// substitute function-field mocks.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/core"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// PlanService is the plan catalog as seen by the HTTP layer.
type PlanService interface {
	Create(ctx context.Context, def types.PlanDefinition) (*types.PricingPlan, error)
	Update(ctx context.Context, id string, patch types.PlanPatch) (*types.PricingPlan, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*types.PricingPlan, error)
	List(ctx context.Context, filter types.PlanFilter) ([]*types.PricingPlan, error)
}

type PlanHandler struct {
	plans  PlanService
	logger *slog.Logger
}

func NewPlanHandler(plans PlanService, l *slog.Logger) *PlanHandler {
	if l == nil {
		l = slog.Default()
	}
	return &PlanHandler{plans: plans, logger: l}
}

func (h *PlanHandler) RegisterRoutes(r chi.Router) {
	r.Post("/plans", h.Create)
	r.Get("/plans", h.List)
	r.Get("/plans/{planID}", h.Get)
	r.Patch("/plans/{planID}", h.Update)
	r.Delete("/plans/{planID}", h.Delete)
}

// Create handles POST /v1/plans. Definition rules are enforced by the
// catalog and come back as definition_invalid_field (422).
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var def types.PlanDefinition
	if err := core.DecodeJSON(w, r, &def); err != nil {
		core.Error(w, r, err)
		return
	}

	plan, err := h.plans.Create(r.Context(), def)
	if err != nil {
		h.fail(w, r, "create plan", err)
		return
	}
	core.Data(w, r, http.StatusCreated, plan)
}

// List handles GET /v1/plans?active=&public=.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter types.PlanFilter
	var err error
	if filter.IsActive, err = boolQuery(r, "active"); err != nil {
		core.Error(w, r, err)
		return
	}
	if filter.IsPublic, err = boolQuery(r, "public"); err != nil {
		core.Error(w, r, err)
		return
	}

	plans, err := h.plans.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list plans", err)
		return
	}
	core.Data(w, r, http.StatusOK, plans)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.plans.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		h.fail(w, r, "get plan", err)
		return
	}
	core.Data(w, r, http.StatusOK, plan)
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch types.PlanPatch
	if err := core.DecodeJSON(w, r, &patch); err != nil {
		core.Error(w, r, err)
		return
	}

	plan, err := h.plans.Update(r.Context(), chi.URLParam(r, "planID"), patch)
	if err != nil {
		h.fail(w, r, "update plan", err)
		return
	}
	core.Data(w, r, http.StatusOK, plan)
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.plans.Delete(r.Context(), chi.URLParam(r, "planID")); err != nil {
		h.fail(w, r, "delete plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlanHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logFailure(h.logger, r, op, err)
	core.Error(w, r, err)
}

// boolQuery parses an optional boolean query parameter. An absent parameter
// yields nil.
func boolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidRequest,
			"query parameter "+name+" must be a boolean", err, map[string]any{"field": name})
	}
	return &v, nil
}

// logFailure logs server-side failures. Client errors are already visible
// in the request log.
func logFailure(l *slog.Logger, r *http.Request, op string, err error) {
	if types.HTTPStatusOf(err) < http.StatusInternalServerError {
		return
	}
	l.ErrorContext(r.Context(), op+" failed",
		"request_id", types.GetRequestID(r.Context()),
		"error", err,
	)
}
