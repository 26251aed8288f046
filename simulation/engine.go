/*
engine.go - Stage orchestration

PURPOSE:
  Runs the five model stages in dependency order against one shared,
  append-only Metrics value:

    1. Revenue       (revenue.go)
    2. Compliance    (compliance.go)
    3. Workload      (workload.go, reads the compliance result)
    4. Satisfaction  (satisfaction.go)
    5. Projections   (projection.go)

  The engine is single-threaded and purely computational: no I/O, no
  blocking, bounded by O(citizens + businesses + timeHorizon) arithmetic.
  All inputs must be fully materialized by the caller before Run; the
  engine never fetches data itself. Independent runs share no state and
  may execute in parallel from the caller.

VALIDATION:
  Run validates the structural input contract before any stage executes:
  time horizon >= 1 month, permitDuration > 0, non-negative population
  counts, and baseline compliance rates in [0,1]. Violations surface as
  *InvalidConfigurationError; nothing else in the engine returns an error.

SEE ALSO:
  - params.go: Building Input.Parameters from policy contributions
  - compare.go: Diffing two completed runs
*/
package simulation

import "time"

// Input carries everything one run needs.
type Input struct {
	// Parameters is the effective parameter set for the scenario; use
	// Aggregate + BindParameters to build it from policy contributions.
	Parameters Parameters

	Citizens   []CitizenGroup
	Businesses []BusinessCategory
	Config     Config
}

// Engine runs simulations. The zero value is usable; NewEngine seeds the
// projection jitter from the wall clock. Inject a seeded JitterSource for
// reproducible projections.
type Engine struct {
	Jitter JitterSource
}

// NewEngine returns an engine with a time-seeded jitter source. Two engines
// created this way produce runs that differ only in the compliance and
// satisfaction fields of the monthly projections.
func NewEngine() *Engine {
	return &Engine{Jitter: NewRandomJitter(time.Now().UnixNano())}
}

// Run executes all model stages and returns the populated metrics.
// The returned value is freshly constructed per call and never retained
// by the engine.
func (e *Engine) Run(in Input) (*Metrics, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	m := &Metrics{}
	computeRevenue(m, in)
	computeCompliance(m, in)
	computeWorkload(m, in)
	computeSatisfaction(m, in)
	e.generateProjections(m, in)
	return m, nil
}

func validateInput(in Input) error {
	if in.Config.TimeHorizonMonths < 1 {
		return &InvalidConfigurationError{
			Field:  "timeHorizonMonths",
			Value:  float64(in.Config.TimeHorizonMonths),
			Reason: "time horizon must be at least one month",
		}
	}
	// The workload model divides by permitDuration; a non-positive value is
	// an input-contract violation, rejected here rather than guarded inside
	// the model.
	if in.Parameters.PermitDuration <= 0 {
		return &InvalidConfigurationError{
			Field:  "permitDuration",
			Value:  in.Parameters.PermitDuration,
			Reason: "permit duration must be positive",
		}
	}
	for _, g := range in.Citizens {
		if g.Population < 0 {
			return &InvalidConfigurationError{
				Field:  "population",
				Value:  float64(g.Population),
				Reason: "citizen group population must be non-negative",
			}
		}
		if g.ComplianceRate < 0 || g.ComplianceRate > 1 {
			return &InvalidConfigurationError{
				Field:  "complianceRate",
				Value:  g.ComplianceRate,
				Reason: "baseline compliance must be in [0,1]",
			}
		}
	}
	for _, b := range in.Businesses {
		if b.Count < 0 {
			return &InvalidConfigurationError{
				Field:  "count",
				Value:  float64(b.Count),
				Reason: "business category count must be non-negative",
			}
		}
		if b.ComplianceRate < 0 || b.ComplianceRate > 1 {
			return &InvalidConfigurationError{
				Field:  "complianceRate",
				Value:  b.ComplianceRate,
				Reason: "baseline compliance must be in [0,1]",
			}
		}
	}
	return nil
}

// horizonYears converts the configured horizon to years; several stages
// scale annualized quantities by it.
func horizonYears(c Config) float64 {
	return float64(c.TimeHorizonMonths) / 12
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
