/*
compare.go - Scenario comparison

PURPOSE:
  Diffs a baseline simulation result against one or more scenario results.
  Invoked separately from the engine, against already-computed metrics.

MODEL:
  For each scenario and each of the four top-level KPIs (revenue total,
  overall compliance, total workload hours, overall satisfaction):

    delta         = scenario.value - baseline.value
    percentChange = baseline.value != 0 ? delta/baseline.value*100 : 0

  CompareNamed performs the same computation for arbitrary named metrics,
  matching by name. Baseline metrics with no counterpart in the scenario
  list are silently skipped, not an error. Each metric carries a direction
  polarity (IsPositive: higher is better); the improvement flag follows it.
*/
package simulation

// ScenarioResult pairs a scenario's identity with its computed metrics.
type ScenarioResult struct {
	ID      string
	Name    string
	Metrics *Metrics
}

// KPIDelta is the baseline-vs-scenario difference for one KPI.
type KPIDelta struct {
	Baseline      float64
	Scenario      float64
	Delta         float64
	PercentChange float64
}

// ScenarioComparison holds the per-KPI deltas for one scenario.
type ScenarioComparison struct {
	ID      string
	Name    string
	Metrics *Metrics

	Revenue      KPIDelta
	Compliance   KPIDelta
	Workload     KPIDelta
	Satisfaction KPIDelta
}

// Comparison is the full result of comparing a baseline against scenarios.
type Comparison struct {
	Baseline  *Metrics
	Scenarios []ScenarioComparison
}

// Compare computes deltas and percent changes between a baseline result and
// each scenario result, for the four top-level KPIs.
func Compare(baseline *Metrics, scenarios []ScenarioResult) *Comparison {
	c := &Comparison{
		Baseline:  baseline,
		Scenarios: make([]ScenarioComparison, 0, len(scenarios)),
	}

	for _, s := range scenarios {
		c.Scenarios = append(c.Scenarios, ScenarioComparison{
			ID:           s.ID,
			Name:         s.Name,
			Metrics:      s.Metrics,
			Revenue:      kpiDelta(baseline.Revenue.Total, s.Metrics.Revenue.Total),
			Compliance:   kpiDelta(baseline.Compliance.Overall, s.Metrics.Compliance.Overall),
			Workload:     kpiDelta(baseline.Workload.TotalHours, s.Metrics.Workload.TotalHours),
			Satisfaction: kpiDelta(baseline.Satisfaction.Overall, s.Metrics.Satisfaction.Overall),
		})
	}

	return c
}

func kpiDelta(baseline, scenario float64) KPIDelta {
	delta := scenario - baseline
	pct := 0.0
	if baseline != 0 {
		pct = delta / baseline * 100
	}
	return KPIDelta{
		Baseline:      baseline,
		Scenario:      scenario,
		Delta:         delta,
		PercentChange: pct,
	}
}

// =============================================================================
// NAMED-METRIC COMPARISON
// =============================================================================

// MetricValue is one named metric with its direction polarity.
// IsPositive true means higher values are better (revenue, compliance);
// false means lower is better (workload, appeals).
type MetricValue struct {
	Name       string
	Value      float64
	IsPositive bool
}

// MetricDelta is the comparison result for one named metric.
type MetricDelta struct {
	Name          string
	Baseline      float64
	Scenario      float64
	Delta         float64
	PercentChange float64

	// IsImprovement follows the metric's polarity: delta > 0 for
	// positive-direction metrics, delta < 0 otherwise.
	IsImprovement bool
}

// CompareNamed matches metrics by name between the baseline and scenario
// lists and computes the delta/percentChange for each pair. Baseline names
// with no counterpart in the scenario list are dropped.
func CompareNamed(baseline, scenario []MetricValue) []MetricDelta {
	byName := make(map[string]MetricValue, len(scenario))
	for _, mv := range scenario {
		byName[mv.Name] = mv
	}

	var deltas []MetricDelta
	for _, base := range baseline {
		scen, ok := byName[base.Name]
		if !ok {
			continue
		}
		kd := kpiDelta(base.Value, scen.Value)
		improvement := kd.Delta > 0
		if !base.IsPositive {
			improvement = kd.Delta < 0
		}
		deltas = append(deltas, MetricDelta{
			Name:          base.Name,
			Baseline:      kd.Baseline,
			Scenario:      kd.Scenario,
			Delta:         kd.Delta,
			PercentChange: kd.PercentChange,
			IsImprovement: improvement,
		})
	}
	return deltas
}

// KPIMetrics flattens a result into the named-metric form used by
// CompareNamed, with the standard polarity for each KPI.
func KPIMetrics(m *Metrics) []MetricValue {
	return []MetricValue{
		{Name: "revenue.total", Value: m.Revenue.Total, IsPositive: true},
		{Name: "revenue.fromFines", Value: m.Revenue.FromFines, IsPositive: true},
		{Name: "revenue.fromPermits", Value: m.Revenue.FromPermits, IsPositive: true},
		{Name: "revenue.fromTaxes", Value: m.Revenue.FromTaxes, IsPositive: true},
		{Name: "compliance.overall", Value: m.Compliance.Overall, IsPositive: true},
		{Name: "compliance.citizen", Value: m.Compliance.Citizen, IsPositive: true},
		{Name: "compliance.business", Value: m.Compliance.Business, IsPositive: true},
		{Name: "workload.totalHours", Value: m.Workload.TotalHours, IsPositive: false},
		{Name: "workload.inspections", Value: m.Workload.Inspections, IsPositive: false},
		{Name: "workload.appeals", Value: m.Workload.Appeals, IsPositive: false},
		{Name: "satisfaction.overall", Value: m.Satisfaction.Overall, IsPositive: true},
		{Name: "satisfaction.citizen", Value: m.Satisfaction.Citizen, IsPositive: true},
		{Name: "satisfaction.business", Value: m.Satisfaction.Business, IsPositive: true},
	}
}
