package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// PlanReader is the read side of the plan catalog used by the quote pipeline.
type PlanReader interface {
	Get(ctx context.Context, id string) (*types.PricingPlan, error)
}

// TierReader is the read side of the tier catalog used by the quote pipeline.
type TierReader interface {
	Get(ctx context.Context, id string) (*types.PricingTier, error)
}

// QuoteCache stores computed quotes. A miss returns (nil, false, nil).
type QuoteCache interface {
	Get(ctx context.Context, key string) (*types.Quote, bool, error)
	Set(ctx context.Context, key string, quote types.Quote) error
}

// QuoteMetrics records the outcome of each quote request.
type QuoteMetrics interface {
	RecordQuote(cycle, outcome string)
}

// Quote outcomes reported to QuoteMetrics.
const (
	OutcomeComputed = "computed"
	OutcomeCached   = "cached"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// QuoteService runs the quote pipeline: look up the plan, validate the
// configuration, compute the quote. Cache and metrics are optional.
type QuoteService struct {
	plans   PlanReader
	tiers   TierReader
	cache   QuoteCache
	metrics QuoteMetrics
	logger  *slog.Logger

	flight singleflight.Group
}

// NewQuoteService creates a QuoteService. cache and metrics may be nil.
func NewQuoteService(plans PlanReader, tiers TierReader, cache QuoteCache, metrics QuoteMetrics, logger *slog.Logger) *QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteService{
		plans:   plans,
		tiers:   tiers,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Quote prices cfg against the plan for the billing cycle.
func (s *QuoteService) Quote(ctx context.Context, planID string, cfg types.Configuration, cycle types.BillingCycle) (types.Quote, error) {
	q, err := s.quote(ctx, planID, cfg, cycle)
	s.record(cycle, err, q.outcome)
	return q.Quote, err
}

// QuoteTier prices a tier preset against the plan being viewed. The tier's
// minimum duration and sessions per week become the configuration and go
// through the same validation as a hand-picked one.
func (s *QuoteService) QuoteTier(ctx context.Context, planID, tierID string, cycle types.BillingCycle) (types.Quote, error) {
	if !cycle.IsValid() {
		err := invalidCycle(cycle)
		s.record(cycle, err, "")
		return types.Quote{}, err
	}

	tier, err := s.tiers.Get(ctx, tierID)
	if err != nil {
		s.record(cycle, err, "")
		return types.Quote{}, err
	}

	q, err := s.quote(ctx, planID, TierConfiguration(tier), cycle)
	s.record(cycle, err, q.outcome)
	return q.Quote, err
}

type servedQuote struct {
	types.Quote
	outcome string
}

func (s *QuoteService) quote(ctx context.Context, planID string, cfg types.Configuration, cycle types.BillingCycle) (servedQuote, error) {
	if !cycle.IsValid() {
		return servedQuote{}, invalidCycle(cycle)
	}

	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return servedQuote{}, err
	}

	accepted, err := ValidateConfiguration(plan, cfg)
	if err != nil {
		s.logger.Debug("configuration rejected",
			"plan_id", planID,
			"violation", string(types.ViolationOf(err)),
		)
		return servedQuote{}, err
	}

	if s.cache == nil {
		q, err := Compute(accepted, cycle)
		return servedQuote{Quote: q, outcome: OutcomeComputed}, err
	}

	key := QuoteCacheKey(plan, cfg, cycle)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("quote cache read failed", "plan_id", planID, "error", err)
	} else if ok {
		return servedQuote{Quote: *cached, outcome: OutcomeCached}, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		q, err := Compute(accepted, cycle)
		if err != nil {
			return types.Quote{}, err
		}
		if err := s.cache.Set(ctx, key, q); err != nil {
			s.logger.Warn("quote cache write failed", "plan_id", planID, "error", err)
		}
		return q, nil
	})
	if err != nil {
		return servedQuote{}, err
	}
	return servedQuote{Quote: v.(types.Quote), outcome: OutcomeComputed}, nil
}

func (s *QuoteService) record(cycle types.BillingCycle, err error, outcome string) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		outcome = errorOutcome(err)
	}
	s.metrics.RecordQuote(string(cycle), outcome)
}

func errorOutcome(err error) string {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		return OutcomeError
	}
	switch {
	case types.ViolationOf(err) != "":
		return OutcomeRejected
	case types.IsNotFound(err):
		return OutcomeNotFound
	case appErr.Code == types.ErrCodeInvalidArgument:
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

func invalidCycle(cycle types.BillingCycle) error {
	return types.NewInvalidArgument(fmt.Sprintf("unknown billing cycle %q", cycle))
}

// QuoteCacheKey identifies a quote. The plan's UpdatedAt is part of the key
// so an edited plan never serves a quote computed from its old terms.
func QuoteCacheKey(plan *types.PricingPlan, cfg types.Configuration, cycle types.BillingCycle) string {
	return fmt.Sprintf("quote:v1:%s:%d:%d:%d:%d:%s",
		plan.ID,
		plan.UpdatedAt.UnixNano(),
		cfg.Duration,
		cfg.DaysPerWeek,
		cfg.SessionsPerWeek,
		cycle,
	)
}
