/*
Package simulation provides the core policy-impact calculation engine.

PURPOSE:
  This package contains the domain types and algorithms for projecting the
  impact of municipal policy changes (fines, permits, inspections, taxes)
  on four outcome domains: revenue, compliance, operational workload, and
  citizen/business satisfaction. Given a set of effective policy parameters,
  population records, and a time-horizon configuration, the engine produces
  a structured metrics result and a month-by-month projection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Parameters: Effective policy parameters (known fields + open extension bag)
  - CitizenGroup / BusinessCategory: Population segments with baseline behavior
  - Config: Time horizon, seasonality, and growth configuration
  - Metrics: The four KPI breakdowns plus the monthly projection sequence
  - SizeCategory: Closed enumeration for business size with lookup tables

DESIGN PRINCIPLES:
  1. Purity: One run constructs one isolated Metrics value; no shared state
     between runs, so callers may run scenarios in parallel with no
     coordination.
  2. Totality: Every optional input has a documented default; a missing key
     degrades to the default's effect instead of raising an error.
  3. Determinism: All stages are bit-reproducible on identical inputs except
     the monthly compliance/satisfaction jitter, which is isolated behind an
     injectable random source (see projection.go).

USAGE:
  engine := simulation.NewEngine()
  metrics, err := engine.Run(simulation.Input{
      Parameters: simulation.BindParameters(simulation.Aggregate(contributions)),
      Citizens:   groups,
      Businesses: categories,
      Config:     simulation.Config{TimeHorizonMonths: 12},
  })

SEE ALSO:
  - params.go: Parameter aggregation and binding
  - engine.go: Stage orchestration and input validation
  - compare.go: Baseline vs scenario comparison
*/
package simulation

// =============================================================================
// POPULATION SEGMENTS
// =============================================================================

// Demographic and behavior-rule keys read by the models. Unknown keys in
// either map are preserved but ignored.
const (
	DemAverageIncome     = "averageIncome"
	DemPermitEligibility = "permitEligibility"

	RuleIncomeSensitivity = "incomeSensitivity"
	RulePolicyAwareness   = "policyAwareness"
	RuleAverageRevenue    = "averageRevenue"
)

// Model-level defaults for optional demographic/behavior values.
const (
	defaultAverageIncome     = 30000.0
	defaultPermitEligibility = 0.3
	defaultBehaviorRule      = 1.0
)

// CitizenGroup is one segment of the resident population.
type CitizenGroup struct {
	ID             string
	Name           string
	Population     int     // >= 0
	ComplianceRate float64 // baseline, in [0,1]

	// Demographics should supply averageIncome and permitEligibility;
	// model-level defaults (30000 and 0.3) apply when absent.
	Demographics map[string]float64

	// BehaviorRules may supply incomeSensitivity and policyAwareness
	// multipliers, default 1.0 each.
	BehaviorRules map[string]float64
}

func (g CitizenGroup) demographic(key string, fallback float64) float64 {
	if v, ok := g.Demographics[key]; ok {
		return v
	}
	return fallback
}

func (g CitizenGroup) rule(key string) float64 {
	if v, ok := g.BehaviorRules[key]; ok {
		return v
	}
	return defaultBehaviorRule
}

// BusinessCategory is one segment of the business population.
type BusinessCategory struct {
	ID             string
	Name           string
	Count          int     // >= 0
	ComplianceRate float64 // baseline, in [0,1]
	Size           SizeCategory

	// BehaviorRules may supply averageRevenue and policyAwareness.
	BehaviorRules map[string]float64
}

func (b BusinessCategory) rule(key string, fallback float64) float64 {
	if v, ok := b.BehaviorRules[key]; ok {
		return v
	}
	return fallback
}

// =============================================================================
// SIZE CATEGORY - Closed enumeration with lookup tables
// =============================================================================

// SizeCategory classifies a business segment. Unknown or empty values
// resolve to SizeSmall.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

// sizeProfile holds the per-size constants the models dispatch on.
type sizeProfile struct {
	// RevenueMultiplier scales business fines and permit revenue.
	RevenueMultiplier float64

	// DefaultRevenue is the assumed annual revenue when the category
	// supplies no averageRevenue behavior rule.
	DefaultRevenue float64

	// TaxSensitivity scales the tax impact term in business satisfaction.
	// Large operators absorb tax changes better than small ones.
	TaxSensitivity float64
}

var sizeProfiles = map[SizeCategory]sizeProfile{
	SizeSmall:  {RevenueMultiplier: 1, DefaultRevenue: 100000, TaxSensitivity: 1.2},
	SizeMedium: {RevenueMultiplier: 2, DefaultRevenue: 500000, TaxSensitivity: 1.0},
	SizeLarge:  {RevenueMultiplier: 5, DefaultRevenue: 2000000, TaxSensitivity: 0.8},
}

func (s SizeCategory) profile() sizeProfile {
	if p, ok := sizeProfiles[s]; ok {
		return p
	}
	return sizeProfiles[SizeSmall]
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config controls the temporal shape of one simulation run.
type Config struct {
	TimeHorizonMonths  int // >= 1
	IncludeSeasonality bool

	// Annual growth rates, in percent.
	PopulationGrowth float64
	EconomicGrowth   float64
}

// =============================================================================
// METRICS - The output aggregate
// =============================================================================

// Metrics is the result of one simulation run: the four KPI breakdowns and
// the monthly projection sequence. Created fresh per run, fully populated by
// the model stages in order, and immutable thereafter.
type Metrics struct {
	Revenue      RevenueBreakdown
	Compliance   ComplianceBreakdown
	Workload     WorkloadBreakdown
	Satisfaction SatisfactionBreakdown

	// Months has length == Config.TimeHorizonMonths, always.
	Months []MonthlyProjection
}

// RevenueBreakdown decomposes projected revenue over the time horizon.
// Invariant: Total == FromFines + FromPermits + FromTaxes + FromFees.
// FromFees exists in the schema but no fee revenue source is computed;
// permit fees are routed into the permits bucket.
type RevenueBreakdown struct {
	Total       float64
	FromFines   float64
	FromPermits float64
	FromTaxes   float64
	FromFees    float64

	// Fixed proportional splits of the fine and permit totals, not
	// independently computed figures.
	CitizenFines    float64 // 30% of FromFines
	BusinessFines   float64 // 70% of FromFines
	CitizenPermits  float64 // 40% of FromPermits
	BusinessPermits float64 // 60% of FromPermits
}

// ComplianceBreakdown holds adjusted compliance rates, each in [0,1].
// Overall is the unweighted mean of the two segment averages - deliberately
// not weighted by absolute population vs business count.
type ComplianceBreakdown struct {
	Overall  float64
	Citizen  float64
	Business float64
}

// WorkloadBreakdown holds projected operational load over the horizon.
type WorkloadBreakdown struct {
	Inspections   float64
	Permits       float64
	Appeals       float64
	TotalHours    float64
	StaffRequired int
}

// SatisfactionBreakdown holds satisfaction indices, each in [0,100].
// Overall is the unweighted mean of the two segment averages.
type SatisfactionBreakdown struct {
	Overall  float64
	Citizen  float64
	Business float64
}

// MonthlyProjection is one month's snapshot of the projection sequence.
// Revenue and Workload distribute the run totals across months with
// seasonal/growth scaling; Compliance and Satisfaction replicate the
// aggregate value with a small per-month jitter.
type MonthlyProjection struct {
	Month        int // 1-based
	Revenue      float64
	Compliance   float64
	Workload     float64 // hours
	Satisfaction float64
}
