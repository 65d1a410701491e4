package types

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// PricingPlan is a named pricing definition describing which session
// configurations a course offering allows and what they cost.
//
// The validate tags encode the field-level invariants; cross-field rules
// (max vs. min duration, step alignment) are checked by the billing package.
type PricingPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description"`
	Type        PlanType `json:"type" validate:"enum"`
	Category    Category `json:"category" validate:"enum"`
	Level       Level    `json:"level" validate:"enum"`

	// Durations are in minutes. A nil MaxDuration means unbounded.
	MinDuration  int  `json:"min_duration" validate:"gte=30"`
	MaxDuration  *int `json:"max_duration,omitempty"`
	DurationStep int  `json:"duration_step" validate:"gte=5"`

	// Allowed weekly counts (not specific weekdays). Kept sorted and unique.
	DaysPerWeek     []int `json:"days_per_week" validate:"required,min=1,dive,min=1,max=7"`
	SessionsPerWeek []int `json:"sessions_per_week" validate:"required,min=1,dive,min=1,max=7"`

	BasePrice       decimal.Decimal  `json:"base_price" validate:"decgte=0"`
	PricePerMinute  *decimal.Decimal `json:"price_per_minute,omitempty" validate:"omitempty,decgte=0"`
	PricePerSession *decimal.Decimal `json:"price_per_session,omitempty" validate:"omitempty,decgte=0"`
	Currency        Currency         `json:"currency" validate:"enum"`

	// Discount percentages in [0, 100], selected by billing cycle.
	MonthlyDiscount   decimal.Decimal `json:"monthly_discount" validate:"decgte=0,declte=100"`
	QuarterlyDiscount decimal.Decimal `json:"quarterly_discount" validate:"decgte=0,declte=100"`
	YearlyDiscount    decimal.Decimal `json:"yearly_discount" validate:"decgte=0,declte=100"`

	Features   []string  `json:"features" validate:"dive,required,max=200"`
	IsActive   bool      `json:"is_active"`
	IsPublic   bool      `json:"is_public"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing slices or pointers with the stored record.
func (p *PricingPlan) Clone() *PricingPlan {
	if p == nil {
		return nil
	}
	c := *p
	if p.MaxDuration != nil {
		v := *p.MaxDuration
		c.MaxDuration = &v
	}
	if p.PricePerMinute != nil {
		v := *p.PricePerMinute
		c.PricePerMinute = &v
	}
	if p.PricePerSession != nil {
		v := *p.PricePerSession
		c.PricePerSession = &v
	}
	c.DaysPerWeek = slices.Clone(p.DaysPerWeek)
	c.SessionsPerWeek = slices.Clone(p.SessionsPerWeek)
	c.Features = slices.Clone(p.Features)
	return &c
}

// DiscountFor returns the discount percentage that applies to the cycle.
func (p *PricingPlan) DiscountFor(cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case CycleQuarterly:
		return p.QuarterlyDiscount
	case CycleYearly:
		return p.YearlyDiscount
	default:
		return p.MonthlyDiscount
	}
}

// PlanDefinition is the administrator-supplied content of a new plan.
// Identity and timestamps are assigned by the registry.
type PlanDefinition struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Type              PlanType         `json:"type"`
	Category          Category         `json:"category"`
	Level             Level            `json:"level"`
	MinDuration       int              `json:"min_duration"`
	MaxDuration       *int             `json:"max_duration,omitempty"`
	DurationStep      int              `json:"duration_step"`
	DaysPerWeek       []int            `json:"days_per_week"`
	SessionsPerWeek   []int            `json:"sessions_per_week"`
	BasePrice         decimal.Decimal  `json:"base_price"`
	PricePerMinute    *decimal.Decimal `json:"price_per_minute,omitempty"`
	PricePerSession   *decimal.Decimal `json:"price_per_session,omitempty"`
	Currency          Currency         `json:"currency"`
	MonthlyDiscount   decimal.Decimal  `json:"monthly_discount"`
	QuarterlyDiscount decimal.Decimal  `json:"quarterly_discount"`
	YearlyDiscount    decimal.Decimal  `json:"yearly_discount"`
	Features          []string         `json:"features"`
	IsActive          bool             `json:"is_active"`
	IsPublic          bool             `json:"is_public"`
	OrderIndex        int              `json:"order_index"`
}

// PlanPatch is a partial update. Nil fields are left unchanged; the Clear*
// flags unset optional fields.
type PlanPatch struct {
	Name                 *string          `json:"name,omitempty"`
	Description          *string          `json:"description,omitempty"`
	Type                 *PlanType        `json:"type,omitempty"`
	Category             *Category        `json:"category,omitempty"`
	Level                *Level           `json:"level,omitempty"`
	MinDuration          *int             `json:"min_duration,omitempty"`
	MaxDuration          *int             `json:"max_duration,omitempty"`
	ClearMaxDuration     bool             `json:"clear_max_duration,omitempty"`
	DurationStep         *int             `json:"duration_step,omitempty"`
	DaysPerWeek          []int            `json:"days_per_week,omitempty"`
	SessionsPerWeek      []int            `json:"sessions_per_week,omitempty"`
	BasePrice            *decimal.Decimal `json:"base_price,omitempty"`
	PricePerMinute       *decimal.Decimal `json:"price_per_minute,omitempty"`
	ClearPricePerMinute  bool             `json:"clear_price_per_minute,omitempty"`
	PricePerSession      *decimal.Decimal `json:"price_per_session,omitempty"`
	ClearPricePerSession bool             `json:"clear_price_per_session,omitempty"`
	Currency             *Currency        `json:"currency,omitempty"`
	MonthlyDiscount      *decimal.Decimal `json:"monthly_discount,omitempty"`
	QuarterlyDiscount    *decimal.Decimal `json:"quarterly_discount,omitempty"`
	YearlyDiscount       *decimal.Decimal `json:"yearly_discount,omitempty"`
	Features             []string         `json:"features,omitempty"`
	IsActive             *bool            `json:"is_active,omitempty"`
	IsPublic             *bool            `json:"is_public,omitempty"`
	OrderIndex           *int             `json:"order_index,omitempty"`
}

// PlanFilter narrows PlanRepository.List. Nil fields match any value.
type PlanFilter struct {
	IsActive *bool
	IsPublic *bool
}

// Matches reports whether p passes the filter.
func (f PlanFilter) Matches(p *PricingPlan) bool {
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.IsPublic != nil && p.IsPublic != *f.IsPublic {
		return false
	}
	return true
}

// PricingTier is an independent preset configuration offered as a
// quick-select shortcut. It is not owned by any plan.
type PricingTier struct {
	ID              string          `json:"id"`
	MinDuration     int             `json:"min_duration" validate:"gte=30"`
	DaysPerWeek     int             `json:"days_per_week" validate:"min=1,max=7"`
	SessionsPerWeek int             `json:"sessions_per_week" validate:"min=1,max=7"`
	PricePerSession decimal.Decimal `json:"price_per_session" validate:"decgte=0"`

	// PricePerMonth is a cache of PricePerSession x SessionsPerWeek x 4,
	// recomputed on every write.
	PricePerMonth decimal.Decimal `json:"price_per_month"`
	IsRecommended bool            `json:"is_recommended"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Clone returns a copy of the tier.
func (t *PricingTier) Clone() *PricingTier {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// TierDefinition is the administrator-supplied content of a new tier.
type TierDefinition struct {
	MinDuration     int             `json:"min_duration"`
	DaysPerWeek     int             `json:"days_per_week"`
	SessionsPerWeek int             `json:"sessions_per_week"`
	PricePerSession decimal.Decimal `json:"price_per_session"`
	IsRecommended   bool            `json:"is_recommended"`
}

// TierPatch is a partial tier update. Nil fields are left unchanged.
type TierPatch struct {
	MinDuration     *int             `json:"min_duration,omitempty"`
	DaysPerWeek     *int             `json:"days_per_week,omitempty"`
	SessionsPerWeek *int             `json:"sessions_per_week,omitempty"`
	PricePerSession *decimal.Decimal `json:"price_per_session,omitempty"`
	IsRecommended   *bool            `json:"is_recommended,omitempty"`
}

// Configuration is a concrete session choice requested against a plan.
// DaysPerWeek is optional; zero means the caller did not choose one.
type Configuration struct {
	Duration        int `json:"duration"`
	DaysPerWeek     int `json:"days_per_week,omitempty"`
	SessionsPerWeek int `json:"sessions_per_week"`
}

// Quote is the rounded price breakdown for a validated configuration.
type Quote struct {
	PlanID          string          `json:"plan_id"`
	Duration        int             `json:"duration"`
	DaysPerWeek     int             `json:"days_per_week,omitempty"`
	SessionsPerWeek int             `json:"sessions_per_week"`
	BillingCycle    BillingCycle    `json:"billing_cycle"`
	PerSessionPrice decimal.Decimal `json:"per_session_price"`
	MonthlyTotal    decimal.Decimal `json:"monthly_total"`
	CycleBaseTotal  decimal.Decimal `json:"cycle_base_total"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	FinalTotal      decimal.Decimal `json:"final_total"`
	Currency        Currency        `json:"currency"`
}

// ChangeEvent describes a committed mutation of a plan or tier, published
// so downstream consumers can drop cached quotes.
type ChangeEvent struct {
	ID         string     `json:"id"`
	Entity     string     `json:"entity"`
	EntityID   string     `json:"entity_id"`
	Kind       ChangeKind `json:"kind"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Entity names used in ChangeEvent.Entity.
const (
	EntityPlan = "plan"
	EntityTier = "tier"
)
