package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/impact-engine/simulation"
	"github.com/warp/impact-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPolicies_SaveGetList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sqlite.PolicyRecord{
		ID:         "parking",
		Name:       "Parking Fines",
		Category:   "parking",
		ConfigJSON: `{"id":"parking","name":"Parking Fines","parameters":{"fineAmount":75}}`,
	}
	require.NoError(t, store.SavePolicy(ctx, rec))

	got, err := store.GetPolicy(ctx, "parking")
	require.NoError(t, err)
	assert.Equal(t, "Parking Fines", got.Name)
	assert.Equal(t, 1, got.Version)

	// Re-saving bumps the version.
	require.NoError(t, store.SavePolicy(ctx, rec))
	got, err = store.GetPolicy(ctx, "parking")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	all, err := store.ListPolicies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPolicies_GetMissing_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPolicy(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, simulation.ErrPolicyNotFound))
	assert.True(t, simulation.IsNotFound(err))
}

func TestScenarios_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sqlite.ScenarioRecord{
		ID:          "scn-reform",
		Name:        "Parking Reform",
		Description: "Raised fines downtown",
		ParentID:    "scn-baseline",
		PolicyIDs:   []string{"parking", "licensing", "tax"},
		Overrides: map[string]map[string]any{
			"parking": {"fineAmount": 90.0},
		},
	}
	require.NoError(t, store.SaveScenario(ctx, rec))

	got, err := store.GetScenario(ctx, "scn-reform")
	require.NoError(t, err)
	assert.Equal(t, []string{"parking", "licensing", "tax"}, got.PolicyIDs, "policy order must survive")
	assert.Equal(t, "scn-baseline", got.ParentID)
	assert.Equal(t, 90.0, got.Overrides["parking"]["fineAmount"])

	_, err = store.GetScenario(ctx, "missing")
	assert.True(t, errors.Is(err, simulation.ErrScenarioNotFound))
}

func TestPopulations_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCitizenGroup(ctx, simulation.CitizenGroup{
		ID: "downtown", Name: "Downtown", Population: 18000, ComplianceRate: 0.72,
		Demographics:  map[string]float64{"averageIncome": 52000},
		BehaviorRules: map[string]float64{"policyAwareness": 1.3},
	}))
	require.NoError(t, store.SaveBusinessCategory(ctx, simulation.BusinessCategory{
		ID: "cafes", Name: "Cafes", Count: 320, ComplianceRate: 0.68,
		Size: simulation.SizeSmall,
	}))

	groups, err := store.ListCitizenGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 52000.0, groups[0].Demographics["averageIncome"])
	assert.Equal(t, 1.3, groups[0].BehaviorRules["policyAwareness"])

	categories, err := store.ListBusinessCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, simulation.SizeSmall, categories[0].Size)
}

func TestBusinessCategory_EmptySizeDefaultsToSmall(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBusinessCategory(ctx, simulation.BusinessCategory{
		ID: "misc", Name: "Misc", Count: 5, ComplianceRate: 0.5,
	}))

	categories, err := store.ListBusinessCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, simulation.SizeSmall, categories[0].Size)
}

func TestRuns_SaveAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	engine := &simulation.Engine{Jitter: simulation.FixedJitter(1)}
	metrics, err := engine.Run(simulation.Input{
		Parameters: simulation.BindParameters(simulation.Bag{
			"fineAmount": 150.0, "inspectionFrequency": 4.0,
			"feeAmount": 50.0, "taxRate": 2.5,
		}),
		Citizens: []simulation.CitizenGroup{
			{ID: "g", Population: 1000, ComplianceRate: 0.8},
		},
		Config: simulation.Config{TimeHorizonMonths: 12},
	})
	require.NoError(t, err)

	require.NoError(t, store.SaveRun(ctx, sqlite.RunRecord{
		ID:         "run-1",
		ScenarioID: "scn-1",
		Config:     simulation.Config{TimeHorizonMonths: 12},
		Metrics:    metrics,
	}))

	got, ok, err := store.LatestRun(ctx, "scn-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "run-1", got.ID)
	assert.InDelta(t, metrics.Revenue.Total, got.Metrics.Revenue.Total, 1e-6)
	assert.Len(t, got.Metrics.Months, 12)

	summaries, err := store.ListRuns(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	// Money summary is the decimal-rounded total.
	assert.InDelta(t, metrics.Revenue.Total, summaries[0].RevenueTotal.InexactFloat64(), 0.01)
	assert.Equal(t, metrics.Workload.StaffRequired, summaries[0].StaffRequired)
}

func TestLatestRun_MissingScenario_NoError(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.LatestRun(context.Background(), "never-simulated")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePolicy(ctx, sqlite.PolicyRecord{
		ID: "p", Name: "P", ConfigJSON: "{}",
	}))
	require.NoError(t, store.Reset(ctx))

	all, err := store.ListPolicies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
