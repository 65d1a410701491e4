package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

const tierColumns = `id, min_duration, days_per_week, sessions_per_week,
	price_per_session, price_per_month, is_recommended, created_at, updated_at`

// TierRepository persists tier presets in the pricing_tiers table.
type TierRepository struct {
	db DBTX
}

func NewTierRepository(db DBTX) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) Get(ctx context.Context, id string) (*types.PricingTier, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tierColumns+` FROM pricing_tiers WHERE id = $1`,
		id,
	)
	t, err := scanTier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundTier, "pricing tier not found: "+id, nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to get pricing tier", err)
	}
	return t, nil
}

// Put upserts the tier. price_per_month is written as computed by the caller.
func (r *TierRepository) Put(ctx context.Context, t *types.PricingTier) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pricing_tiers (`+tierColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     min_duration = EXCLUDED.min_duration,
		     days_per_week = EXCLUDED.days_per_week,
		     sessions_per_week = EXCLUDED.sessions_per_week,
		     price_per_session = EXCLUDED.price_per_session,
		     price_per_month = EXCLUDED.price_per_month,
		     is_recommended = EXCLUDED.is_recommended,
		     updated_at = EXCLUDED.updated_at`,
		t.ID,
		t.MinDuration,
		t.DaysPerWeek,
		t.SessionsPerWeek,
		t.PricePerSession,
		t.PricePerMonth,
		t.IsRecommended,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to store pricing tier", err)
	}
	return nil
}

func (r *TierRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pricing_tiers WHERE id = $1`, id)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete pricing tier", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundTier, "pricing tier not found: "+id, nil)
	}
	return nil
}

func (r *TierRepository) List(ctx context.Context) ([]*types.PricingTier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tierColumns+` FROM pricing_tiers ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list pricing tiers", err)
	}
	defer rows.Close()

	tiers := []*types.PricingTier{}
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan pricing tier", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating pricing tiers", err)
	}
	return tiers, nil
}

func scanTier(row pgx.Row) (*types.PricingTier, error) {
	var t types.PricingTier
	if err := row.Scan(
		&t.ID,
		&t.MinDuration,
		&t.DaysPerWeek,
		&t.SessionsPerWeek,
		&t.PricePerSession,
		&t.PricePerMonth,
		&t.IsRecommended,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
