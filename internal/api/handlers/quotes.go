package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/core"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// QuoteService prices configurations against plans.
type QuoteService interface {
	Quote(ctx context.Context, planID string, cfg types.Configuration, cycle types.BillingCycle) (types.Quote, error)
	QuoteTier(ctx context.Context, planID, tierID string, cycle types.BillingCycle) (types.Quote, error)
}

// QuoteRequest is the body of POST /v1/plans/{planID}/quote. Range and set
// membership are checked against the plan, not here.
type QuoteRequest struct {
	Duration        int                `json:"duration" validate:"gte=0"`
	DaysPerWeek     int                `json:"days_per_week" validate:"gte=0,lte=7"`
	SessionsPerWeek int                `json:"sessions_per_week" validate:"gte=0"`
	BillingCycle    types.BillingCycle `json:"billing_cycle" validate:"required"`
}

// TierQuoteRequest is the body of POST /v1/plans/{planID}/tiers/{tierID}/quote.
type TierQuoteRequest struct {
	BillingCycle types.BillingCycle `json:"billing_cycle" validate:"required"`
}

type QuoteHandler struct {
	quotes    QuoteService
	validator *core.Validator
	logger    *slog.Logger
}

func NewQuoteHandler(quotes QuoteService, v *core.Validator, l *slog.Logger) *QuoteHandler {
	if l == nil {
		l = slog.Default()
	}
	if v == nil {
		v = core.NewValidator(l)
	}
	return &QuoteHandler{quotes: quotes, validator: v, logger: l}
}

func (h *QuoteHandler) RegisterRoutes(r chi.Router) {
	r.Post("/plans/{planID}/quote", h.Quote)
	r.Post("/plans/{planID}/tiers/{tierID}/quote", h.QuoteTier)
}

// Quote handles POST /v1/plans/{planID}/quote. A rejected configuration
// answers 400 with the violation in the error details.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	cfg := types.Configuration{
		Duration:        req.Duration,
		DaysPerWeek:     req.DaysPerWeek,
		SessionsPerWeek: req.SessionsPerWeek,
	}
	quote, err := h.quotes.Quote(r.Context(), chi.URLParam(r, "planID"), cfg, req.BillingCycle)
	if err != nil {
		logFailure(h.logger, r, "quote", err)
		core.Error(w, r, err)
		return
	}
	core.Data(w, r, http.StatusOK, quote)
}

func (h *QuoteHandler) QuoteTier(w http.ResponseWriter, r *http.Request) {
	var req TierQuoteRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	quote, err := h.quotes.QuoteTier(r.Context(), chi.URLParam(r, "planID"), chi.URLParam(r, "tierID"), req.BillingCycle)
	if err != nil {
		logFailure(h.logger, r, "tier quote", err)
		core.Error(w, r, err)
		return
	}
	core.Data(w, r, http.StatusOK, quote)
}
