package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

const planColumns = `id, name, description, type, category, level,
	min_duration, max_duration, duration_step, days_per_week, sessions_per_week,
	base_price, price_per_minute, price_per_session, currency,
	monthly_discount, quarterly_discount, yearly_discount,
	features, is_active, is_public, order_index, created_at, updated_at`

// PlanRepository persists pricing plans in the pricing_plans table.
// It implements types.PlanRepository.
type PlanRepository struct {
	db DBTX
}

// NewPlanRepository creates a new PlanRepository backed by the given
// database connection (pool or transaction).
func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

// Get retrieves a plan by ID. Returns ErrCodeNotFoundPlan if absent.
func (r *PlanRepository) Get(ctx context.Context, id string) (*types.PricingPlan, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+planColumns+` FROM pricing_plans WHERE id = $1`,
		id,
	)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundPlan, "pricing plan not found: "+id, nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to get pricing plan", err)
	}
	return p, nil
}

// Put inserts the plan or replaces the stored row with the same ID.
func (r *PlanRepository) Put(ctx context.Context, p *types.PricingPlan) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pricing_plans (`+planColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		         $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     description = EXCLUDED.description,
		     type = EXCLUDED.type,
		     category = EXCLUDED.category,
		     level = EXCLUDED.level,
		     min_duration = EXCLUDED.min_duration,
		     max_duration = EXCLUDED.max_duration,
		     duration_step = EXCLUDED.duration_step,
		     days_per_week = EXCLUDED.days_per_week,
		     sessions_per_week = EXCLUDED.sessions_per_week,
		     base_price = EXCLUDED.base_price,
		     price_per_minute = EXCLUDED.price_per_minute,
		     price_per_session = EXCLUDED.price_per_session,
		     currency = EXCLUDED.currency,
		     monthly_discount = EXCLUDED.monthly_discount,
		     quarterly_discount = EXCLUDED.quarterly_discount,
		     yearly_discount = EXCLUDED.yearly_discount,
		     features = EXCLUDED.features,
		     is_active = EXCLUDED.is_active,
		     is_public = EXCLUDED.is_public,
		     order_index = EXCLUDED.order_index,
		     updated_at = EXCLUDED.updated_at`,
		p.ID,
		p.Name,
		p.Description,
		string(p.Type),
		string(p.Category),
		string(p.Level),
		p.MinDuration,
		p.MaxDuration,
		p.DurationStep,
		p.DaysPerWeek,
		p.SessionsPerWeek,
		p.BasePrice,
		nullDecimal(p.PricePerMinute),
		nullDecimal(p.PricePerSession),
		string(p.Currency),
		p.MonthlyDiscount,
		p.QuarterlyDiscount,
		p.YearlyDiscount,
		p.Features,
		p.IsActive,
		p.IsPublic,
		p.OrderIndex,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to store pricing plan", err)
	}
	return nil
}

// Delete removes the plan. Returns ErrCodeNotFoundPlan if no row matched.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pricing_plans WHERE id = $1`, id)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete pricing plan", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundPlan, "pricing plan not found: "+id, nil)
	}
	return nil
}

// List returns the plans matching filter. A nil filter field matches any value.
func (r *PlanRepository) List(ctx context.Context, filter types.PlanFilter) ([]*types.PricingPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+planColumns+` FROM pricing_plans
		 WHERE ($1::boolean IS NULL OR is_active = $1)
		   AND ($2::boolean IS NULL OR is_public = $2)
		 ORDER BY order_index ASC, created_at ASC, id ASC`,
		filter.IsActive,
		filter.IsPublic,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list pricing plans", err)
	}
	defer rows.Close()

	plans := []*types.PricingPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan pricing plan", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating pricing plans", err)
	}
	return plans, nil
}

func scanPlan(row pgx.Row) (*types.PricingPlan, error) {
	var (
		p                               types.PricingPlan
		planType, category, level, curr string
		perMinute, perSession           decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&planType,
		&category,
		&level,
		&p.MinDuration,
		&p.MaxDuration,
		&p.DurationStep,
		&p.DaysPerWeek,
		&p.SessionsPerWeek,
		&p.BasePrice,
		&perMinute,
		&perSession,
		&curr,
		&p.MonthlyDiscount,
		&p.QuarterlyDiscount,
		&p.YearlyDiscount,
		&p.Features,
		&p.IsActive,
		&p.IsPublic,
		&p.OrderIndex,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = types.PlanType(planType)
	p.Category = types.Category(category)
	p.Level = types.Level(level)
	p.Currency = types.Currency(curr)
	p.PricePerMinute = decimalPtr(perMinute)
	p.PricePerSession = decimalPtr(perSession)
	if p.Features == nil {
		p.Features = []string{}
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
