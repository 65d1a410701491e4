package types

// PlanType identifies how a plan is delivered. The set is closed; IsValid
// rejects anything outside it.
type PlanType string

const (
	PlanOneOnOne PlanType = "one_on_one"
	PlanGroup    PlanType = "group"
	PlanClass    PlanType = "class"
	PlanCustom   PlanType = "custom"
)

// PlanTypes lists every known PlanType in display order.
var PlanTypes = []PlanType{PlanOneOnOne, PlanGroup, PlanClass, PlanCustom}

// IsValid reports whether t is a known plan type.
func (t PlanType) IsValid() bool {
	switch t {
	case PlanOneOnOne, PlanGroup, PlanClass, PlanCustom:
		return true
	}
	return false
}

// Category is the subject tag of a plan.
type Category string

const (
	CategoryMemorization     Category = "memorization"
	CategoryRecitationRules  Category = "recitation_rules"
	CategoryLanguage         Category = "language"
	CategoryJurisprudence    Category = "jurisprudence"
	CategoryCreed            Category = "creed"
	CategoryBiography        Category = "biography"
	CategoryTraditionStudies Category = "tradition_studies"
	CategoryGeneral          Category = "general"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMemorization, CategoryRecitationRules, CategoryLanguage,
		CategoryJurisprudence, CategoryCreed, CategoryBiography,
		CategoryTraditionStudies, CategoryGeneral:
		return true
	}
	return false
}

// Level is the student level a plan targets.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelAllLevels    Level = "all_levels"
)

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAllLevels:
		return true
	}
	return false
}

// Currency is an ISO-style currency code. No conversion is ever performed;
// quotes are always in the plan's currency.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencySAR Currency = "SAR"
	CurrencyAED Currency = "AED"
	CurrencyPKR Currency = "PKR"
)

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencySAR, CurrencyAED, CurrencyPKR:
		return true
	}
	return false
}

// BillingCycle is the subscription length a discount applies to.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

// IsValid reports whether c is a known billing cycle.
func (c BillingCycle) IsValid() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// Months returns how many months the cycle bills for, or 0 for an unknown cycle.
func (c BillingCycle) Months() int {
	switch c {
	case CycleMonthly:
		return 1
	case CycleQuarterly:
		return 3
	case CycleYearly:
		return 12
	}
	return 0
}

// Violation names the configuration constraint a quote request broke.
type Violation string

const (
	ViolationOutOfRangeDuration         Violation = "out_of_range_duration"
	ViolationInvalidDurationStep        Violation = "invalid_duration_step"
	ViolationUnsupportedDaysPerWeek     Violation = "unsupported_days_per_week"
	ViolationUnsupportedSessionsPerWeek Violation = "unsupported_sessions_per_week"
)

// ChangeKind identifies what happened to a plan or tier record.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)
