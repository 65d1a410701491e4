package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/core"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// TierService manages tier presets.
type TierService interface {
	Create(ctx context.Context, def types.TierDefinition) (*types.PricingTier, error)
	Update(ctx context.Context, id string, patch types.TierPatch) (*types.PricingTier, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*types.PricingTier, error)
}

// TierCatalog lists tiers in display order and manages the recommended flag.
type TierCatalog interface {
	ListTiers(ctx context.Context) ([]*types.PricingTier, error)
	Recommended(ctx context.Context) ([]*types.PricingTier, error)
	MarkRecommended(ctx context.Context, id string) (*types.PricingTier, error)
	UnmarkRecommended(ctx context.Context, id string) (*types.PricingTier, error)
}

type TierHandler struct {
	tiers   TierService
	catalog TierCatalog
	logger  *slog.Logger
}

func NewTierHandler(tiers TierService, catalog TierCatalog, l *slog.Logger) *TierHandler {
	if l == nil {
		l = slog.Default()
	}
	return &TierHandler{tiers: tiers, catalog: catalog, logger: l}
}

func (h *TierHandler) RegisterRoutes(r chi.Router) {
	r.Post("/tiers", h.Create)
	r.Get("/tiers", h.List)
	r.Get("/tiers/{tierID}", h.Get)
	r.Patch("/tiers/{tierID}", h.Update)
	r.Delete("/tiers/{tierID}", h.Delete)
	r.Post("/tiers/{tierID}/recommendation", h.Recommend)
	r.Delete("/tiers/{tierID}/recommendation", h.Unrecommend)
}

func (h *TierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var def types.TierDefinition
	if err := core.DecodeJSON(w, r, &def); err != nil {
		core.Error(w, r, err)
		return
	}
	tier, err := h.tiers.Create(r.Context(), def)
	if err != nil {
		h.fail(w, r, "create tier", err)
		return
	}
	core.Data(w, r, http.StatusCreated, tier)
}

// List handles GET /v1/tiers, ordered for display. ?recommended=true keeps
// only the recommended tiers and ?recommended=false only the others.
func (h *TierHandler) List(w http.ResponseWriter, r *http.Request) {
	recommended, err := boolQuery(r, "recommended")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	var tiers []*types.PricingTier
	if recommended != nil && *recommended {
		tiers, err = h.catalog.Recommended(r.Context())
	} else {
		tiers, err = h.catalog.ListTiers(r.Context())
	}
	if err != nil {
		h.fail(w, r, "list tiers", err)
		return
	}
	if recommended != nil && !*recommended {
		tiers = slices.DeleteFunc(tiers, func(t *types.PricingTier) bool { return t.IsRecommended })
	}
	core.Data(w, r, http.StatusOK, tiers)
}

func (h *TierHandler) Get(w http.ResponseWriter, r *http.Request) {
	tier, err := h.tiers.Get(r.Context(), chi.URLParam(r, "tierID"))
	if err != nil {
		h.fail(w, r, "get tier", err)
		return
	}
	core.Data(w, r, http.StatusOK, tier)
}

func (h *TierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch types.TierPatch
	if err := core.DecodeJSON(w, r, &patch); err != nil {
		core.Error(w, r, err)
		return
	}
	tier, err := h.tiers.Update(r.Context(), chi.URLParam(r, "tierID"), patch)
	if err != nil {
		h.fail(w, r, "update tier", err)
		return
	}
	core.Data(w, r, http.StatusOK, tier)
}

func (h *TierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tiers.Delete(r.Context(), chi.URLParam(r, "tierID")); err != nil {
		h.fail(w, r, "delete tier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TierHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	tier, err := h.catalog.MarkRecommended(r.Context(), chi.URLParam(r, "tierID"))
	if err != nil {
		h.fail(w, r, "recommend tier", err)
		return
	}
	core.Data(w, r, http.StatusOK, tier)
}

func (h *TierHandler) Unrecommend(w http.ResponseWriter, r *http.Request) {
	tier, err := h.catalog.UnmarkRecommended(r.Context(), chi.URLParam(r, "tierID"))
	if err != nil {
		h.fail(w, r, "unrecommend tier", err)
		return
	}
	core.Data(w, r, http.StatusOK, tier)
}

func (h *TierHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logFailure(h.logger, r, op, err)
	core.Error(w, r, err)
}
