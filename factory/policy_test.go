package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/impact-engine/factory"
	"github.com/warp/impact-engine/simulation"
)

func TestParseContribution_FullDefinition(t *testing.T) {
	f := factory.NewPolicyFactory()

	c, err := f.ParseContribution(`{
		"id": "parking-fines-v2",
		"name": "Downtown Parking Fines",
		"category": "parking",
		"parameters": {
			"fineAmount": 75,
			"gracePeriod": 14,
			"zone": "downtown",
			"towing": true
		},
		"overrides": {"fineAmount": 90}
	}`)
	require.NoError(t, err)

	assert.Equal(t, "parking-fines-v2", c.PolicyID)
	assert.Equal(t, 75.0, c.Parameters["fineAmount"])
	assert.Equal(t, "downtown", c.Parameters["zone"])
	assert.Equal(t, true, c.Parameters["towing"])
	assert.Equal(t, 90.0, c.Overrides["fineAmount"])
}

func TestParseContribution_StructuralValidation(t *testing.T) {
	f := factory.NewPolicyFactory()

	cases := map[string]string{
		"not json":       `{`,
		"missing id":     `{"name": "X", "parameters": {"fineAmount": 1}}`,
		"missing name":   `{"id": "x", "parameters": {"fineAmount": 1}}`,
		"no parameters":  `{"id": "x", "name": "X"}`,
		"empty params":   `{"id": "x", "name": "X", "parameters": {}}`,
	}

	for name, jsonStr := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ParseContribution(jsonStr)
			assert.Error(t, err)
		})
	}
}

func TestParseContributions_PreservesOrder(t *testing.T) {
	f := factory.NewPolicyFactory()

	contributions, err := f.ParseContributions([]string{
		`{"id": "a", "name": "A", "parameters": {"fineAmount": 100}}`,
		`{"id": "b", "name": "B", "parameters": {"fineAmount": 200}}`,
		`{"id": "c", "name": "C", "parameters": {"fineAmount": 300}}`,
	})
	require.NoError(t, err)
	require.Len(t, contributions, 3)

	// Order survives into the aggregation fold: 225, not the true mean 200.
	merged := simulation.Aggregate(contributions)
	assert.Equal(t, 225.0, merged["fineAmount"])
}

func TestParseContributions_ReportsFailingIndex(t *testing.T) {
	f := factory.NewPolicyFactory()

	_, err := f.ParseContributions([]string{
		`{"id": "a", "name": "A", "parameters": {"fineAmount": 100}}`,
		`{"id": "", "name": "B", "parameters": {"fineAmount": 200}}`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definition 1")
}
