package municipal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/impact-engine/factory"
	"github.com/warp/impact-engine/municipal"
	"github.com/warp/impact-engine/simulation"
)

func TestPolicyPresets_ParseThroughFactory(t *testing.T) {
	f := factory.NewPolicyFactory()

	presets := []factory.PolicyJSON{
		municipal.ParkingFinePolicy("parking", "Parking Fines", 75, 14),
		municipal.BusinessLicensePolicy("licensing", "Business Licensing", 250, 365, 30),
		municipal.RestaurantInspectionPolicy("inspection", "Restaurant Inspections", 4, 0.1),
		municipal.LocalBusinessTaxPolicy("tax", "Local Business Tax", 2.5),
	}

	for _, pj := range presets {
		c, err := f.FromJSON(pj)
		require.NoError(t, err, pj.ID)
		assert.Equal(t, pj.ID, c.PolicyID)
		assert.NotEmpty(t, c.Parameters)
	}
}

func TestDemoPopulations_RunThroughEngine(t *testing.T) {
	// The presets must form a valid end-to-end input: fold the four demo
	// policies, bind, and run against the demo city.

	f := factory.NewPolicyFactory()
	var contributions []simulation.Contribution
	for _, pj := range []factory.PolicyJSON{
		municipal.ParkingFinePolicy("parking", "Parking Fines", 75, 14),
		municipal.BusinessLicensePolicy("licensing", "Business Licensing", 250, 365, 30),
		municipal.RestaurantInspectionPolicy("inspection", "Restaurant Inspections", 4, 0.1),
		municipal.LocalBusinessTaxPolicy("tax", "Local Business Tax", 2.5),
	} {
		c, err := f.FromJSON(pj)
		require.NoError(t, err)
		contributions = append(contributions, c)
	}

	engine := &simulation.Engine{Jitter: simulation.FixedJitter(1)}
	m, err := engine.Run(simulation.Input{
		Parameters: simulation.BindParameters(simulation.Aggregate(contributions)),
		Citizens:   municipal.DemoCitizenGroups(),
		Businesses: municipal.DemoBusinessCategories(),
		Config:     simulation.Config{TimeHorizonMonths: 12, IncludeSeasonality: true, EconomicGrowth: 2},
	})
	require.NoError(t, err)

	assert.Positive(t, m.Revenue.Total)
	assert.InDelta(t, m.Revenue.FromFines+m.Revenue.FromPermits+m.Revenue.FromTaxes, m.Revenue.Total, 1e-6)
	assert.GreaterOrEqual(t, m.Compliance.Overall, 0.0)
	assert.LessOrEqual(t, m.Compliance.Overall, 1.0)
	assert.GreaterOrEqual(t, m.Satisfaction.Overall, 0.0)
	assert.LessOrEqual(t, m.Satisfaction.Overall, 100.0)
	assert.Len(t, m.Months, 12)
	assert.Positive(t, m.Workload.StaffRequired)
}

func TestDemoPopulations_NonDegenerate(t *testing.T) {
	for _, g := range municipal.DemoCitizenGroups() {
		assert.Positive(t, g.Population, g.ID)
		assert.GreaterOrEqual(t, g.ComplianceRate, 0.0, g.ID)
		assert.LessOrEqual(t, g.ComplianceRate, 1.0, g.ID)
	}
	for _, b := range municipal.DemoBusinessCategories() {
		assert.Positive(t, b.Count, b.ID)
		assert.GreaterOrEqual(t, b.ComplianceRate, 0.0, b.ID)
		assert.LessOrEqual(t, b.ComplianceRate, 1.0, b.ID)
	}
}
