/*
projection.go - Monthly projection sequence

PURPOSE:
  Expands the aggregate annualized results into an ordered, finite sequence
  of monthly snapshots, one per month of the configured horizon.

MODEL:
  Revenue and workload distribute the run totals evenly across months, then
  apply the per-month seasonal and growth factors. Compliance and
  satisfaction replicate the overall aggregate value with an independent
  +/-1% pseudorandom jitter per month, clamped to the domain bounds
  ([0,1] and [0,100]) so an upward draw cannot push a capped value past
  its cap.

SEASONALITY:
  A fixed 12-entry factor table (peaking mid-year, trough in winter) is
  indexed by (month-1) mod 12 when Config.IncludeSeasonality is set;
  otherwise every month's factor is 1.

DETERMINISM:
  The jitter is the only non-deterministic computation in the engine.
  It is isolated behind the JitterSource interface so tests can fix the
  seed: two runs on identical inputs with the same seed are bit-identical,
  and without injection two runs differ only in the Compliance and
  Satisfaction fields of the monthly projections.
*/
package simulation

import "math/rand"

// seasonalFactors scales monthly activity when seasonality is enabled.
// Municipal enforcement and permitting activity peaks mid-year and dips
// over the winter months.
var seasonalFactors = [12]float64{
	0.85, // Jan
	0.88, // Feb
	0.95, // Mar
	1.02, // Apr
	1.08, // May
	1.12, // Jun
	1.15, // Jul
	1.12, // Aug
	1.05, // Sep
	0.98, // Oct
	0.92, // Nov
	0.88, // Dec
}

// jitterSpread is the half-width of the per-month jitter band.
const jitterSpread = 0.01

// JitterSource supplies the per-month jitter factor applied to the
// compliance and satisfaction projections. Factor must return a value in
// [1-jitterSpread, 1+jitterSpread].
type JitterSource interface {
	Factor() float64
}

// randomJitter draws factors from a seeded PRNG.
type randomJitter struct {
	rng *rand.Rand
}

// NewRandomJitter returns a JitterSource backed by a PRNG with the given
// seed. Same seed, same factor sequence.
func NewRandomJitter(seed int64) JitterSource {
	return &randomJitter{rng: rand.New(rand.NewSource(seed))}
}

func (j *randomJitter) Factor() float64 {
	return 1 + (j.rng.Float64()*2-1)*jitterSpread
}

// FixedJitter always returns its value; use FixedJitter(1) in tests to
// remove jitter entirely.
type FixedJitter float64

func (f FixedJitter) Factor() float64 { return float64(f) }

func (e *Engine) generateProjections(m *Metrics, in Input) {
	horizon := in.Config.TimeHorizonMonths
	monthlyRevenue := m.Revenue.Total / float64(horizon)
	monthlyHours := m.Workload.TotalHours / float64(horizon)

	jitter := e.Jitter
	if jitter == nil {
		jitter = FixedJitter(1)
	}

	m.Months = make([]MonthlyProjection, 0, horizon)
	for month := 1; month <= horizon; month++ {
		seasonal := 1.0
		if in.Config.IncludeSeasonality {
			seasonal = seasonalFactors[(month-1)%12]
		}
		growth := 1 + (in.Config.EconomicGrowth/100)*(float64(month)/12)

		m.Months = append(m.Months, MonthlyProjection{
			Month:        month,
			Revenue:      monthlyRevenue * seasonal * growth,
			Workload:     monthlyHours * seasonal * growth,
			Compliance:   clamp(m.Compliance.Overall*jitter.Factor(), 0, 1),
			Satisfaction: clamp(m.Satisfaction.Overall*jitter.Factor(), 0, 100),
		})
	}
}
