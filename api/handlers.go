/*
handlers.go - HTTP API handlers for the policy-impact service

PURPOSE:
  Exposes the simulation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Policies:
    GET    /api/policies               List all policies
    POST   /api/policies               Create/update a policy from JSON config
    GET    /api/policies/{id}          Get policy details

  Populations:
    GET    /api/populations/citizens   List citizen groups
    POST   /api/populations/citizens   Create/update a citizen group
    GET    /api/populations/businesses List business categories
    POST   /api/populations/businesses Create/update a business category

  Scenarios:
    GET    /api/scenarios              List scenarios
    POST   /api/scenarios              Create a scenario
    GET    /api/scenarios/{id}         Get scenario details
    GET    /api/scenarios/{id}/runs    List past runs
    POST   /api/scenarios/{id}/simulate Run the engine for a scenario
    POST   /api/compare                Compare a baseline against scenarios

  Presets:
    GET    /api/presets                List demo presets
    POST   /api/presets/load           Load a demo preset (resets the DB)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store:  Database access
  - Cache:  Tag-invalidated result cache (memo of simulation runs)
  - Engine: The simulation engine
  - Factory: JSON to contribution conversion

CACHING:
  Simulation results are cached by (scenario, config) key and tagged with
  the scenario, every contributing policy, and the population set.
  Mutating any of those invalidates the affected entries; the engine
  itself never sees the cache.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (simulation.IsClientError)
  - 404: Resource not found (simulation.IsNotFound)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo preset loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/impact-engine/cache"
	"github.com/warp/impact-engine/factory"
	"github.com/warp/impact-engine/simulation"
	"github.com/warp/impact-engine/store/sqlite"
)

// cacheTTL bounds how long a memoized run can outlive its inputs' last
// invalidation (clock-based safety net on top of tag invalidation).
const cacheTTL = 15 * time.Minute

// populationsTag covers every cached run; population edits affect all
// scenarios.
const populationsTag = "populations"

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Cache   cache.Service
	Engine  *simulation.Engine
	Factory *factory.PolicyFactory
}

// NewHandler creates a handler with the given store and cache.
func NewHandler(store *sqlite.Store, c cache.Service) *Handler {
	return &Handler{
		Store:   store,
		Cache:   c,
		Engine:  simulation.NewEngine(),
		Factory: factory.NewPolicyFactory(),
	}
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, 0, len(records))
	for _, rec := range records {
		dto, err := policyDTO(rec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Corrupt policy config", err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Validate through the factory before persisting.
	if _, err := h.Factory.FromJSON(req.Config); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy definition", err)
		return
	}

	configJSON, err := json.Marshal(req.Config)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode policy", err)
		return
	}

	ctx := r.Context()
	err = h.Store.SavePolicy(ctx, sqlite.PolicyRecord{
		ID:         req.Config.ID,
		Name:       req.Config.Name,
		Category:   req.Config.Category,
		ConfigJSON: string(configJSON),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}

	// Any cached run built from this policy is now stale.
	if err := h.Cache.InvalidateTag(ctx, "policy:"+req.Config.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to invalidate cache", err)
		return
	}

	rec, err := h.Store.GetPolicy(ctx, req.Config.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload policy", err)
		return
	}
	dto, err := policyDTO(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Corrupt policy config", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get policy", err)
		return
	}
	dto, err := policyDTO(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Corrupt policy config", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// POPULATION HANDLERS
// =============================================================================

func (h *Handler) ListCitizenGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Store.ListCitizenGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list citizen groups", err)
		return
	}

	dtos := make([]CitizenGroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, CitizenGroupDTO{
			ID: g.ID, Name: g.Name, Population: g.Population,
			ComplianceRate: g.ComplianceRate,
			Demographics:   g.Demographics, BehaviorRules: g.BehaviorRules,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveCitizenGroup(w http.ResponseWriter, r *http.Request) {
	var dto CitizenGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.Population < 0 || dto.ComplianceRate < 0 || dto.ComplianceRate > 1 {
		writeError(w, http.StatusBadRequest, "Invalid citizen group", nil)
		return
	}

	ctx := r.Context()
	err := h.Store.SaveCitizenGroup(ctx, simulation.CitizenGroup{
		ID: dto.ID, Name: dto.Name, Population: dto.Population,
		ComplianceRate: dto.ComplianceRate,
		Demographics:   dto.Demographics, BehaviorRules: dto.BehaviorRules,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save citizen group", err)
		return
	}
	if err := h.Cache.InvalidateTag(ctx, populationsTag); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to invalidate cache", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) ListBusinessCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListBusinessCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list business categories", err)
		return
	}

	dtos := make([]BusinessCategoryDTO, 0, len(categories))
	for _, b := range categories {
		dtos = append(dtos, BusinessCategoryDTO{
			ID: b.ID, Name: b.Name, Count: b.Count,
			ComplianceRate: b.ComplianceRate, Size: string(b.Size),
			BehaviorRules: b.BehaviorRules,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveBusinessCategory(w http.ResponseWriter, r *http.Request) {
	var dto BusinessCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.Count < 0 || dto.ComplianceRate < 0 || dto.ComplianceRate > 1 {
		writeError(w, http.StatusBadRequest, "Invalid business category", nil)
		return
	}

	ctx := r.Context()
	err := h.Store.SaveBusinessCategory(ctx, simulation.BusinessCategory{
		ID: dto.ID, Name: dto.Name, Count: dto.Count,
		ComplianceRate: dto.ComplianceRate,
		Size:           simulation.SizeCategory(dto.Size),
		BehaviorRules:  dto.BehaviorRules,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save business category", err)
		return
	}
	if err := h.Cache.InvalidateTag(ctx, populationsTag); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to invalidate cache", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, scenarioDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req CreateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" || len(req.PolicyIDs) == 0 {
		writeError(w, http.StatusBadRequest, "Scenario requires id, name, and at least one policy", nil)
		return
	}

	ctx := r.Context()

	// Every referenced policy must exist; order is meaningful and kept.
	for _, policyID := range req.PolicyIDs {
		if _, err := h.Store.GetPolicy(ctx, policyID); err != nil {
			writeDomainError(w, "Unknown policy in scenario", err)
			return
		}
	}
	if req.ParentID != "" {
		if _, err := h.Store.GetScenario(ctx, req.ParentID); err != nil {
			writeDomainError(w, "Unknown parent scenario", err)
			return
		}
	}

	err := h.Store.SaveScenario(ctx, sqlite.ScenarioRecord{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsBaseline:  req.IsBaseline,
		PolicyIDs:   req.PolicyIDs,
		Overrides:   req.Overrides,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save scenario", err)
		return
	}
	if err := h.Cache.InvalidateTag(ctx, "scenario:"+req.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to invalidate cache", err)
		return
	}

	rec, err := h.Store.GetScenario(ctx, req.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, scenarioDTO(rec))
}

func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, scenarioDTO(rec))
}

func (h *Handler) ListScenarioRuns(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Store.ListRuns(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	type runDTO struct {
		ID            string  `json:"id"`
		RevenueTotal  string  `json:"revenue_total"`
		Compliance    float64 `json:"compliance"`
		Satisfaction  float64 `json:"satisfaction"`
		StaffRequired int     `json:"staff_required"`
		CreatedAt     string  `json:"created_at"`
	}
	dtos := make([]runDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, runDTO{
			ID:            s.ID,
			RevenueTotal:  s.RevenueTotal.String(),
			Compliance:    s.Compliance,
			Satisfaction:  s.Satisfaction,
			StaffRequired: s.StaffRequired,
			CreatedAt:     formatTime(s.CreatedAt),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SIMULATION HANDLERS
// =============================================================================

func (h *Handler) SimulateScenario(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	metrics, err := h.runScenario(r, chi.URLParam(r, "id"), req.toConfig())
	if err != nil {
		writeDomainError(w, "Simulation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, metricsDTO(metrics))
}

func (h *Handler) CompareScenarios(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BaselineID == "" || len(req.ScenarioIDs) == 0 {
		writeError(w, http.StatusBadRequest, "Comparison requires baseline_id and scenario_ids", nil)
		return
	}

	cfg := req.Config.toConfig()

	baseline, err := h.runScenario(r, req.BaselineID, cfg)
	if err != nil {
		writeDomainError(w, "Baseline simulation failed", err)
		return
	}

	results := make([]simulation.ScenarioResult, 0, len(req.ScenarioIDs))
	for _, id := range req.ScenarioIDs {
		rec, err := h.Store.GetScenario(r.Context(), id)
		if err != nil {
			writeDomainError(w, "Unknown scenario", err)
			return
		}
		metrics, err := h.runScenario(r, id, cfg)
		if err != nil {
			writeDomainError(w, "Scenario simulation failed", err)
			return
		}
		results = append(results, simulation.ScenarioResult{ID: rec.ID, Name: rec.Name, Metrics: metrics})
	}

	comparison := simulation.Compare(baseline, results)
	baselineNamed := simulation.KPIMetrics(baseline)

	dto := ComparisonDTO{Baseline: metricsDTO(baseline)}
	for _, s := range comparison.Scenarios {
		scn := ScenarioComparisonDTO{
			ID:           s.ID,
			Name:         s.Name,
			Revenue:      kpiDeltaDTO(s.Revenue),
			Compliance:   kpiDeltaDTO(s.Compliance),
			Workload:     kpiDeltaDTO(s.Workload),
			Satisfaction: kpiDeltaDTO(s.Satisfaction),
		}
		for _, d := range simulation.CompareNamed(baselineNamed, simulation.KPIMetrics(s.Metrics)) {
			scn.Metrics = append(scn.Metrics, MetricDeltaDTO{
				Name:          d.Name,
				Baseline:      d.Baseline,
				Scenario:      d.Scenario,
				Delta:         d.Delta,
				PercentChange: d.PercentChange,
				IsImprovement: d.IsImprovement,
			})
		}
		dto.Scenarios = append(dto.Scenarios, scn)
	}

	writeJSON(w, http.StatusOK, dto)
}

// runScenario executes (or recalls) one simulation: cache lookup, input
// assembly, engine run, persistence, cache fill.
func (h *Handler) runScenario(r *http.Request, scenarioID string, cfg simulation.Config) (*simulation.Metrics, error) {
	ctx := r.Context()
	key := fmt.Sprintf("sim:%s:%d:%t:%g:%g",
		scenarioID, cfg.TimeHorizonMonths, cfg.IncludeSeasonality, cfg.PopulationGrowth, cfg.EconomicGrowth)

	if cached, ok := h.Cache.Get(ctx, key); ok {
		var m simulation.Metrics
		if err := json.Unmarshal(cached, &m); err == nil {
			return &m, nil
		}
		// Undecodable entries fall through to recompute.
	}

	scenario, err := h.Store.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	contributions := make([]simulation.Contribution, 0, len(scenario.PolicyIDs))
	tags := []string{"scenario:" + scenarioID, populationsTag}
	for _, policyID := range scenario.PolicyIDs {
		rec, err := h.Store.GetPolicy(ctx, policyID)
		if err != nil {
			return nil, err
		}
		contribution, err := h.Factory.ParseContribution(rec.ConfigJSON)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", policyID, err)
		}
		// Scenario-level overrides layer on top of the policy's own.
		if scenarioOverrides := scenario.Overrides[policyID]; len(scenarioOverrides) > 0 {
			merged := simulation.Bag{}
			for k, v := range contribution.Overrides {
				merged[k] = v
			}
			for k, v := range scenarioOverrides {
				merged[k] = v
			}
			contribution.Overrides = merged
		}
		contributions = append(contributions, contribution)
		tags = append(tags, "policy:"+policyID)
	}

	citizens, err := h.Store.ListCitizenGroups(ctx)
	if err != nil {
		return nil, err
	}
	businesses, err := h.Store.ListBusinessCategories(ctx)
	if err != nil {
		return nil, err
	}

	metrics, err := h.Engine.Run(simulation.Input{
		Parameters: simulation.BindParameters(simulation.Aggregate(contributions)),
		Citizens:   citizens,
		Businesses: businesses,
		Config:     cfg,
	})
	if err != nil {
		return nil, err
	}

	if err := h.Store.SaveRun(ctx, sqlite.RunRecord{
		ID:         fmt.Sprintf("run-%s-%d", scenarioID, time.Now().UnixNano()),
		ScenarioID: scenarioID,
		Config:     cfg,
		Metrics:    metrics,
	}); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(metrics); err == nil {
		// Cache failures are not fatal; the result is already computed.
		_ = h.Cache.SetWithTags(ctx, key, payload, cacheTTL, tags...)
	}

	return metrics, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func policyDTO(rec sqlite.PolicyRecord) (PolicyDTO, error) {
	var config factory.PolicyJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &config); err != nil {
		return PolicyDTO{}, fmt.Errorf("policy %q: %w", rec.ID, err)
	}
	return PolicyDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Category:  rec.Category,
		Config:    config,
		Version:   rec.Version,
		CreatedAt: formatTime(rec.CreatedAt),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// writeDomainError maps engine/store errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case simulation.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case simulation.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
