/*
Package sqlite provides a SQLite-backed implementation of the storage layer.

PURPOSE:
  Persists the records the simulation engine consumes and produces:
  policy definitions (versioned config JSON), scenarios (ordered policy
  references plus per-policy overrides), population segments, and
  completed simulation runs. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  policies:            Versioned policy definitions (config JSON)
  scenarios:           Named what-if bundles of policy versions
  citizen_groups:      Resident population segments
  business_categories: Business population segments
  simulation_runs:     Completed runs (full metrics JSON + summary columns)

MONEY COLUMNS:
  Revenue summary figures are stored as TEXT via decimal.Decimal rounded
  to cents, so reporting queries never accumulate float artifacts.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/impact.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - simulation/types.go: The domain types persisted here
  - api/handlers.go: The consumer of this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/impact-engine/simulation"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// PolicyRecord is one stored policy definition. ConfigJSON holds the
// factory.PolicyJSON document; Version increments on each save.
type PolicyRecord struct {
	ID         string
	Name       string
	Category   string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
}

// ScenarioRecord is one named what-if bundle. PolicyIDs is ordered - the
// order drives the aggregation fold. Overrides maps policy ID to the
// override bag applied for that policy within this scenario. ParentID
// links a branched scenario to the one it was branched from.
type ScenarioRecord struct {
	ID          string
	Name        string
	Description string
	ParentID    string
	IsBaseline  bool
	PolicyIDs   []string
	Overrides   map[string]map[string]any
	CreatedAt   time.Time
}

// RunRecord is one completed simulation run.
type RunRecord struct {
	ID         string
	ScenarioID string
	Config     simulation.Config
	Metrics    *simulation.Metrics
	CreatedAt  time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store implements the storage layer using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		parent_id TEXT,
		is_baseline INTEGER NOT NULL DEFAULT 0,
		policy_ids_json TEXT NOT NULL,
		overrides_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS citizen_groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		population INTEGER NOT NULL,
		compliance_rate REAL NOT NULL,
		demographics_json TEXT,
		behavior_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS business_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		count INTEGER NOT NULL,
		compliance_rate REAL NOT NULL,
		size TEXT NOT NULL,
		behavior_json TEXT,
		created_at TEXT NOT NULL
	);

	-- Completed runs keep the full metrics document plus summary columns
	-- for listing without deserializing the blob. Revenue is TEXT decimal.
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL,
		config_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		revenue_total TEXT NOT NULL,
		compliance_overall REAL NOT NULL,
		satisfaction_overall REAL NOT NULL,
		staff_required INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario
		ON simulation_runs(scenario_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_scenarios_parent
		ON scenarios(parent_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Used by demo scenario loading; not exposed in
// production deployments.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{
		"simulation_runs", "scenarios", "policies", "citizen_groups", "business_categories",
	} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// POLICIES
// =============================================================================

// SavePolicy inserts or replaces a policy definition, bumping its version
// when it already exists.
func (s *Store) SavePolicy(ctx context.Context, rec PolicyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := 1
	var existing int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM policies WHERE id = ?", rec.ID).Scan(&existing)
	if err == nil {
		version = existing + 1
	} else if err != sql.ErrNoRows {
		return err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO policies (id, name, category, config_json, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Category, rec.ConfigJSON, version, createdAt.Format(time.RFC3339))
	return err
}

// GetPolicy returns one policy or simulation.ErrPolicyNotFound.
func (s *Store) GetPolicy(ctx context.Context, id string) (PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec PolicyRecord
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, config_json, version, created_at
		FROM policies WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Name, &rec.Category, &rec.ConfigJSON, &rec.Version, &createdAt)
	if err == sql.ErrNoRows {
		return PolicyRecord{}, fmt.Errorf("policy %q: %w", id, simulation.ErrPolicyNotFound)
	}
	if err != nil {
		return PolicyRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}

// ListPolicies returns all policies ordered by creation time.
func (s *Store) ListPolicies(ctx context.Context) ([]PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, config_json, version, created_at
		FROM policies ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PolicyRecord
	for rows.Next() {
		var rec PolicyRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.ConfigJSON, &rec.Version, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// SCENARIOS
// =============================================================================

func (s *Store) SaveScenario(ctx context.Context, rec ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	policyIDs, err := json.Marshal(rec.PolicyIDs)
	if err != nil {
		return err
	}
	var overrides []byte
	if len(rec.Overrides) > 0 {
		if overrides, err = json.Marshal(rec.Overrides); err != nil {
			return err
		}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	isBaseline := 0
	if rec.IsBaseline {
		isBaseline = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scenarios
			(id, name, description, parent_id, is_baseline, policy_ids_json, overrides_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Description, nullable(rec.ParentID), isBaseline,
		string(policyIDs), string(overrides), createdAt.Format(time.RFC3339))
	return err
}

// GetScenario returns one scenario or simulation.ErrScenarioNotFound.
func (s *Store) GetScenario(ctx context.Context, id string) (ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec ScenarioRecord
	var parentID sql.NullString
	var isBaseline int
	var policyIDs, createdAt string
	var overrides sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, parent_id, is_baseline, policy_ids_json, overrides_json, created_at
		FROM scenarios WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Name, &rec.Description, &parentID, &isBaseline, &policyIDs, &overrides, &createdAt)
	if err == sql.ErrNoRows {
		return ScenarioRecord{}, fmt.Errorf("scenario %q: %w", id, simulation.ErrScenarioNotFound)
	}
	if err != nil {
		return ScenarioRecord{}, err
	}

	rec.ParentID = parentID.String
	rec.IsBaseline = isBaseline == 1
	if err := json.Unmarshal([]byte(policyIDs), &rec.PolicyIDs); err != nil {
		return ScenarioRecord{}, fmt.Errorf("scenario %q: corrupt policy list: %w", id, err)
	}
	if overrides.Valid && overrides.String != "" {
		if err := json.Unmarshal([]byte(overrides.String), &rec.Overrides); err != nil {
			return ScenarioRecord{}, fmt.Errorf("scenario %q: corrupt overrides: %w", id, err)
		}
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}

func (s *Store) ListScenarios(ctx context.Context) ([]ScenarioRecord, error) {
	s.mu.RLock()
	ids := []string{}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM scenarios ORDER BY created_at, id`)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			s.mu.RUnlock()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	s.mu.RUnlock()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]ScenarioRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetScenario(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// =============================================================================
// POPULATIONS
// =============================================================================

func (s *Store) SaveCitizenGroup(ctx context.Context, g simulation.CitizenGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	demographics, err := json.Marshal(g.Demographics)
	if err != nil {
		return err
	}
	behavior, err := json.Marshal(g.BehaviorRules)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO citizen_groups
			(id, name, population, compliance_rate, demographics_json, behavior_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Population, g.ComplianceRate,
		string(demographics), string(behavior), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListCitizenGroups(ctx context.Context) ([]simulation.CitizenGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, population, compliance_rate, demographics_json, behavior_json
		FROM citizen_groups ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []simulation.CitizenGroup
	for rows.Next() {
		var g simulation.CitizenGroup
		var demographics, behavior sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &g.Population, &g.ComplianceRate, &demographics, &behavior); err != nil {
			return nil, err
		}
		if demographics.Valid && demographics.String != "null" {
			if err := json.Unmarshal([]byte(demographics.String), &g.Demographics); err != nil {
				return nil, fmt.Errorf("citizen group %q: corrupt demographics: %w", g.ID, err)
			}
		}
		if behavior.Valid && behavior.String != "null" {
			if err := json.Unmarshal([]byte(behavior.String), &g.BehaviorRules); err != nil {
				return nil, fmt.Errorf("citizen group %q: corrupt behavior rules: %w", g.ID, err)
			}
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Store) SaveBusinessCategory(ctx context.Context, b simulation.BusinessCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	behavior, err := json.Marshal(b.BehaviorRules)
	if err != nil {
		return err
	}

	size := b.Size
	if size == "" {
		size = simulation.SizeSmall
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO business_categories
			(id, name, count, compliance_rate, size, behavior_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Count, b.ComplianceRate, string(size),
		string(behavior), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListBusinessCategories(ctx context.Context) ([]simulation.BusinessCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, count, compliance_rate, size, behavior_json
		FROM business_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []simulation.BusinessCategory
	for rows.Next() {
		var b simulation.BusinessCategory
		var size string
		var behavior sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.Count, &b.ComplianceRate, &size, &behavior); err != nil {
			return nil, err
		}
		b.Size = simulation.SizeCategory(size)
		if behavior.Valid && behavior.String != "null" {
			if err := json.Unmarshal([]byte(behavior.String), &b.BehaviorRules); err != nil {
				return nil, fmt.Errorf("business category %q: corrupt behavior rules: %w", b.ID, err)
			}
		}
		categories = append(categories, b)
	}
	return categories, rows.Err()
}

// =============================================================================
// SIMULATION RUNS
// =============================================================================

// SaveRun persists one completed run: the full metrics document plus
// decimal-rounded summary columns for reporting queries.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := json.Marshal(rec.Config)
	if err != nil {
		return err
	}
	metrics, err := json.Marshal(rec.Metrics)
	if err != nil {
		return err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	revenueTotal := decimal.NewFromFloat(rec.Metrics.Revenue.Total).Round(2)

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO simulation_runs
			(id, scenario_id, config_json, metrics_json, revenue_total,
			 compliance_overall, satisfaction_overall, staff_required, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ScenarioID, string(config), string(metrics), revenueTotal.String(),
		rec.Metrics.Compliance.Overall, rec.Metrics.Satisfaction.Overall,
		rec.Metrics.Workload.StaffRequired, createdAt.Format(time.RFC3339))
	return err
}

// LatestRun returns the most recent run for a scenario, or false when the
// scenario has never been simulated.
func (s *Store) LatestRun(ctx context.Context, scenarioID string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec RunRecord
	var config, metrics, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario_id, config_json, metrics_json, created_at
		FROM simulation_runs WHERE scenario_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, scenarioID).
		Scan(&rec.ID, &rec.ScenarioID, &config, &metrics, &createdAt)
	if err == sql.ErrNoRows {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}

	if err := json.Unmarshal([]byte(config), &rec.Config); err != nil {
		return RunRecord{}, false, fmt.Errorf("run %q: corrupt config: %w", rec.ID, err)
	}
	rec.Metrics = &simulation.Metrics{}
	if err := json.Unmarshal([]byte(metrics), rec.Metrics); err != nil {
		return RunRecord{}, false, fmt.Errorf("run %q: corrupt metrics: %w", rec.ID, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, true, nil
}

// RunSummary is the listing view of a run; money comes back as the
// decimal string stored at save time.
type RunSummary struct {
	ID            string
	ScenarioID    string
	RevenueTotal  decimal.Decimal
	Compliance    float64
	Satisfaction  float64
	StaffRequired int
	CreatedAt     time.Time
}

// ListRuns returns run summaries for a scenario, newest first.
func (s *Store) ListRuns(ctx context.Context, scenarioID string) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario_id, revenue_total, compliance_overall,
		       satisfaction_overall, staff_required, created_at
		FROM simulation_runs WHERE scenario_id = ?
		ORDER BY created_at DESC, id DESC`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var sum RunSummary
		var revenue, createdAt string
		if err := rows.Scan(&sum.ID, &sum.ScenarioID, &revenue, &sum.Compliance,
			&sum.Satisfaction, &sum.StaffRequired, &createdAt); err != nil {
			return nil, err
		}
		sum.RevenueTotal, err = decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("run %q: corrupt revenue total: %w", sum.ID, err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
