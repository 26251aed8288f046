/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Simulate endpoint (results, caching, invalidation)
- Compare endpoint
- Validation failures mapping to 400/404
- Preset loading
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/impact-engine/cache"
	"github.com/warp/impact-engine/factory"
	"github.com/warp/impact-engine/simulation"
	"github.com/warp/impact-engine/store/sqlite"
)

// newTestServer builds a handler over an in-memory store and cache with a
// deterministic engine (no jitter).
func newTestServer(t *testing.T) (*Handler, *cache.Memory, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mem := cache.NewMemory()
	h := &Handler{
		Store:   store,
		Cache:   mem,
		Engine:  &simulation.Engine{Jitter: simulation.FixedJitter(1)},
		Factory: factory.NewPolicyFactory(),
	}
	return h, mem, store
}

func seedDemoCity(t *testing.T, h *Handler) {
	t.Helper()
	require.NoError(t, h.loadDemoCity(context.Background()))
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// SIMULATE
// =============================================================================

func TestSimulateScenario_ReturnsMetrics(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto MetricsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))

	assert.NotEqual(t, "0", dto.Revenue.Total)
	assert.Equal(t, "0", dto.Revenue.FromFees)
	assert.Len(t, dto.Months, 12)
	assert.Greater(t, dto.Workload.StaffRequired, 0)
	assert.InDelta(t, 0.5, dto.Compliance.Overall, 0.5)
}

func TestSimulateScenario_PersistsRun(t *testing.T) {
	h, _, store := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	require.Equal(t, http.StatusOK, rec.Code)

	runs, err := store.ListRuns(context.Background(), "baseline")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "baseline", runs[0].ScenarioID)
}

func TestSimulateScenario_CacheHitSkipsRecompute(t *testing.T) {
	h, mem, store := newTestServer(t)
	seedDemoCity(t, h)

	first := doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, 1, mem.Len())

	// A cache hit returns early, so no second run is persisted.
	second := doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	runs, err := store.ListRuns(context.Background(), "baseline")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSimulateScenario_DifferentConfigMisses(t *testing.T) {
	h, mem, _ := newTestServer(t)
	seedDemoCity(t, h)

	doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 24})

	assert.Equal(t, 2, mem.Len())
}

func TestSimulateScenario_PolicyUpdateInvalidatesCache(t *testing.T) {
	h, mem, store := newTestServer(t)
	seedDemoCity(t, h)

	doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	require.Equal(t, 1, mem.Len())

	// Re-saving a contributing policy through the API drops the entry.
	rec, err := store.GetPolicy(context.Background(), "parking-fines")
	require.NoError(t, err)
	var config factory.PolicyJSON
	require.NoError(t, json.Unmarshal([]byte(rec.ConfigJSON), &config))
	config.Parameters["fineAmount"] = 200.0

	resp := doRequest(t, h, http.MethodPost, "/api/policies", CreatePolicyRequest{Config: config})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, 0, mem.Len())
}

func TestSimulateScenario_OverridesChangeResult(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	baseline := doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	reform := doRequest(t, h, http.MethodPost, "/api/scenarios/parking-reform/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	require.Equal(t, http.StatusOK, baseline.Code)
	require.Equal(t, http.StatusOK, reform.Code)

	var base, ref MetricsDTO
	require.NoError(t, json.Unmarshal(baseline.Body.Bytes(), &base))
	require.NoError(t, json.Unmarshal(reform.Body.Bytes(), &ref))

	// Doubled fines push citizen satisfaction down.
	assert.Less(t, ref.Satisfaction.Citizen, base.Satisfaction.Citizen)
	assert.NotEqual(t, base.Revenue.FromFines, ref.Revenue.FromFines)
}

func TestSimulateScenario_UnknownScenario404(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/no-such/simulate",
		SimulateRequest{TimeHorizonMonths: 12})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimulateScenario_InvalidHorizon400(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/baseline/simulate",
		SimulateRequest{TimeHorizonMonths: -3})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

// =============================================================================
// COMPARE
// =============================================================================

func TestCompareScenarios(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/compare", CompareRequest{
		BaselineID:  "baseline",
		ScenarioIDs: []string{"parking-reform", "small-business-relief"},
		Config:      SimulateRequest{TimeHorizonMonths: 12},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto ComparisonDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Len(t, dto.Scenarios, 2)

	reform := dto.Scenarios[0]
	assert.Equal(t, "parking-reform", reform.ID)
	// Doubled fines raise revenue relative to baseline.
	assert.Greater(t, reform.Revenue.Delta, 0.0)
	assert.NotEmpty(t, reform.Metrics)

	names := make(map[string]bool)
	for _, m := range reform.Metrics {
		names[m.Name] = true
	}
	assert.True(t, names["revenue.total"])
	assert.True(t, names["satisfaction.overall"])
}

func TestCompareScenarios_MissingBaseline404(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/compare", CompareRequest{
		BaselineID:  "no-such",
		ScenarioIDs: []string{"parking-reform"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// POLICIES AND SCENARIOS
// =============================================================================

func TestCreatePolicy_InvalidDefinition400(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/policies", CreatePolicyRequest{
		Config: factory.PolicyJSON{ID: "bad", Name: ""},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateScenario_UnknownPolicy404(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios", CreateScenarioRequest{
		ID:        "s1",
		Name:      "Bad Scenario",
		PolicyIDs: []string{"no-such-policy"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateScenario_PreservesPolicyOrder(t *testing.T) {
	h, _, _ := newTestServer(t)
	seedDemoCity(t, h)

	ordered := []string{"business-tax", "parking-fines", "restaurant-inspections"}
	rec := doRequest(t, h, http.MethodPost, "/api/scenarios", CreateScenarioRequest{
		ID:        "ordered",
		Name:      "Ordered",
		ParentID:  "baseline",
		PolicyIDs: ordered,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto ScenarioDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, ordered, dto.PolicyIDs)
	assert.Equal(t, "baseline", dto.ParentID)
}

// =============================================================================
// PRESETS
// =============================================================================

func TestLoadPreset_DemoCity(t *testing.T) {
	h, _, store := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/presets/load",
		LoadPresetRequest{PresetID: "demo-city"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ctx := context.Background()
	policies, err := store.ListPolicies(ctx)
	require.NoError(t, err)
	assert.Len(t, policies, 4)

	scenarios, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)

	groups, err := store.ListCitizenGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 3)
}

func TestLoadPreset_Unknown400(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/presets/load",
		LoadPresetRequest{PresetID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
