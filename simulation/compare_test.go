package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/impact-engine/simulation"
)

func metricsWith(revenue, compliance, hours, satisfaction float64) *simulation.Metrics {
	return &simulation.Metrics{
		Revenue:      simulation.RevenueBreakdown{Total: revenue},
		Compliance:   simulation.ComplianceBreakdown{Overall: compliance},
		Workload:     simulation.WorkloadBreakdown{TotalHours: hours},
		Satisfaction: simulation.SatisfactionBreakdown{Overall: satisfaction},
	}
}

func TestCompare_KPIDeltas(t *testing.T) {
	baseline := metricsWith(100000, 0.5, 8000, 70)
	scenario := metricsWith(120000, 0.55, 7000, 65)

	c := simulation.Compare(baseline, []simulation.ScenarioResult{
		{ID: "scn-1", Name: "Higher fines", Metrics: scenario},
	})

	require.Len(t, c.Scenarios, 1)
	s := c.Scenarios[0]

	assert.Equal(t, "scn-1", s.ID)
	assert.InDelta(t, 20000, s.Revenue.Delta, 1e-9)
	assert.InDelta(t, 20, s.Revenue.PercentChange, 1e-9)
	assert.InDelta(t, 0.05, s.Compliance.Delta, 1e-9)
	assert.InDelta(t, 10, s.Compliance.PercentChange, 1e-9)
	assert.InDelta(t, -1000, s.Workload.Delta, 1e-9)
	assert.InDelta(t, -12.5, s.Workload.PercentChange, 1e-9)
	assert.InDelta(t, -5, s.Satisfaction.Delta, 1e-9)
}

func TestCompare_ZeroBaseline_ZeroPercentChange(t *testing.T) {
	// percentChange is defined as 0 whenever the baseline value is 0,
	// regardless of the scenario value.
	baseline := metricsWith(0, 0, 0, 0)
	scenario := metricsWith(50000, 0.4, 100, 60)

	c := simulation.Compare(baseline, []simulation.ScenarioResult{
		{ID: "scn-1", Metrics: scenario},
	})

	s := c.Scenarios[0]
	assert.Zero(t, s.Revenue.PercentChange)
	assert.Zero(t, s.Compliance.PercentChange)
	assert.Zero(t, s.Workload.PercentChange)
	assert.Zero(t, s.Satisfaction.PercentChange)

	// Deltas still carry the raw difference.
	assert.InDelta(t, 50000, s.Revenue.Delta, 1e-9)
}

func TestCompare_MultipleScenarios_IndependentDeltas(t *testing.T) {
	baseline := metricsWith(100000, 0.5, 8000, 70)

	c := simulation.Compare(baseline, []simulation.ScenarioResult{
		{ID: "a", Metrics: metricsWith(110000, 0.5, 8000, 70)},
		{ID: "b", Metrics: metricsWith(90000, 0.5, 8000, 70)},
	})

	require.Len(t, c.Scenarios, 2)
	assert.InDelta(t, 10, c.Scenarios[0].Revenue.PercentChange, 1e-9)
	assert.InDelta(t, -10, c.Scenarios[1].Revenue.PercentChange, 1e-9)
}

func TestCompareNamed_MatchesByNameAndSkipsMissing(t *testing.T) {
	baseline := []simulation.MetricValue{
		{Name: "revenue.total", Value: 100, IsPositive: true},
		{Name: "workload.totalHours", Value: 500, IsPositive: false},
		{Name: "only.in.baseline", Value: 1, IsPositive: true},
	}
	scenario := []simulation.MetricValue{
		{Name: "revenue.total", Value: 150, IsPositive: true},
		{Name: "workload.totalHours", Value: 400, IsPositive: false},
		{Name: "only.in.scenario", Value: 9, IsPositive: true},
	}

	deltas := simulation.CompareNamed(baseline, scenario)

	// only.in.baseline is silently dropped; only.in.scenario never matches.
	require.Len(t, deltas, 2)
	assert.Equal(t, "revenue.total", deltas[0].Name)
	assert.Equal(t, "workload.totalHours", deltas[1].Name)
}

func TestCompareNamed_PolarityDrivesImprovementFlag(t *testing.T) {
	baseline := []simulation.MetricValue{
		{Name: "revenue.total", Value: 100, IsPositive: true},
		{Name: "workload.totalHours", Value: 500, IsPositive: false},
		{Name: "satisfaction.overall", Value: 70, IsPositive: true},
	}
	scenario := []simulation.MetricValue{
		{Name: "revenue.total", Value: 150, IsPositive: true},      // up, good
		{Name: "workload.totalHours", Value: 400, IsPositive: false}, // down, good
		{Name: "satisfaction.overall", Value: 60, IsPositive: true},  // down, bad
	}

	deltas := simulation.CompareNamed(baseline, scenario)
	require.Len(t, deltas, 3)

	assert.True(t, deltas[0].IsImprovement, "rising revenue is an improvement")
	assert.True(t, deltas[1].IsImprovement, "falling workload is an improvement")
	assert.False(t, deltas[2].IsImprovement, "falling satisfaction is not")
}

func TestKPIMetrics_EndToEndWithEngine(t *testing.T) {
	// GIVEN: Two real runs that differ only in fine amount
	// WHEN: Flattening to named metrics and comparing
	// THEN: Revenue rises (improvement), workload rises (not an improvement)

	e := newTestEngine()

	base := singleGroupInput()
	m1, err := e.Run(base)
	require.NoError(t, err)

	raised := singleGroupInput()
	raised.Parameters.FineAmount = 300
	m2, err := e.Run(raised)
	require.NoError(t, err)

	deltas := simulation.CompareNamed(simulation.KPIMetrics(m1), simulation.KPIMetrics(m2))
	byName := map[string]simulation.MetricDelta{}
	for _, d := range deltas {
		byName[d.Name] = d
	}

	assert.True(t, byName["revenue.total"].IsImprovement)
	assert.Greater(t, byName["workload.totalHours"].Delta, 0.0, "higher fines drive more appeals")
	assert.False(t, byName["workload.totalHours"].IsImprovement)
	assert.False(t, byName["satisfaction.overall"].IsImprovement, "higher fines lower satisfaction")
}
