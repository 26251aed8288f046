/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  Revenue figures are rendered as decimal strings rounded to cents
  ("778800.00"), matching what the store persists. Rates and indices stay
  plain JSON numbers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type embedded in policy payloads
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/impact-engine/factory"
	"github.com/warp/impact-engine/simulation"
	"github.com/warp/impact-engine/store/sqlite"
)

// =============================================================================
// POLICY / SCENARIO / POPULATION TYPES
// =============================================================================

type PolicyDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Category  string             `json:"category,omitempty"`
	Config    factory.PolicyJSON `json:"config"`
	Version   int                `json:"version"`
	CreatedAt string             `json:"created_at,omitempty"`
}

type CreatePolicyRequest struct {
	Config factory.PolicyJSON `json:"config"`
}

type ScenarioDTO struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	ParentID    string                    `json:"parent_id,omitempty"`
	IsBaseline  bool                      `json:"is_baseline"`
	PolicyIDs   []string                  `json:"policy_ids"`
	Overrides   map[string]map[string]any `json:"overrides,omitempty"`
	CreatedAt   string                    `json:"created_at,omitempty"`
}

type CreateScenarioRequest struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	ParentID    string                    `json:"parent_id,omitempty"`
	IsBaseline  bool                      `json:"is_baseline,omitempty"`
	PolicyIDs   []string                  `json:"policy_ids"`
	Overrides   map[string]map[string]any `json:"overrides,omitempty"`
}

type CitizenGroupDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Population     int                `json:"population"`
	ComplianceRate float64            `json:"compliance_rate"`
	Demographics   map[string]float64 `json:"demographics,omitempty"`
	BehaviorRules  map[string]float64 `json:"behavior_rules,omitempty"`
}

type BusinessCategoryDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Count          int                `json:"count"`
	ComplianceRate float64            `json:"compliance_rate"`
	Size           string             `json:"size,omitempty"`
	BehaviorRules  map[string]float64 `json:"behavior_rules,omitempty"`
}

// =============================================================================
// SIMULATION TYPES
// =============================================================================

// SimulateRequest configures one run. Defaults: 12-month horizon,
// seasonality off, zero growth.
type SimulateRequest struct {
	TimeHorizonMonths  int     `json:"time_horizon_months"`
	IncludeSeasonality bool    `json:"include_seasonality"`
	PopulationGrowth   float64 `json:"population_growth"`
	EconomicGrowth     float64 `json:"economic_growth"`
}

func (r SimulateRequest) toConfig() simulation.Config {
	cfg := simulation.Config{
		TimeHorizonMonths:  r.TimeHorizonMonths,
		IncludeSeasonality: r.IncludeSeasonality,
		PopulationGrowth:   r.PopulationGrowth,
		EconomicGrowth:     r.EconomicGrowth,
	}
	if cfg.TimeHorizonMonths == 0 {
		cfg.TimeHorizonMonths = 12
	}
	return cfg
}

type RevenueDTO struct {
	Total           string `json:"total"`
	FromFines       string `json:"from_fines"`
	FromPermits     string `json:"from_permits"`
	FromTaxes       string `json:"from_taxes"`
	FromFees        string `json:"from_fees"`
	CitizenFines    string `json:"citizen_fines"`
	BusinessFines   string `json:"business_fines"`
	CitizenPermits  string `json:"citizen_permits"`
	BusinessPermits string `json:"business_permits"`
}

type ComplianceDTO struct {
	Overall  float64 `json:"overall"`
	Citizen  float64 `json:"citizen"`
	Business float64 `json:"business"`
}

type WorkloadDTO struct {
	Inspections   float64 `json:"inspections"`
	Permits       float64 `json:"permits"`
	Appeals       float64 `json:"appeals"`
	TotalHours    float64 `json:"total_hours"`
	StaffRequired int     `json:"staff_required"`
}

type SatisfactionDTO struct {
	Overall  float64 `json:"overall"`
	Citizen  float64 `json:"citizen"`
	Business float64 `json:"business"`
}

type MonthDTO struct {
	Month        int     `json:"month"`
	Revenue      string  `json:"revenue"`
	Compliance   float64 `json:"compliance"`
	Workload     float64 `json:"workload"`
	Satisfaction float64 `json:"satisfaction"`
}

type MetricsDTO struct {
	Revenue      RevenueDTO      `json:"revenue"`
	Compliance   ComplianceDTO   `json:"compliance"`
	Workload     WorkloadDTO     `json:"workload"`
	Satisfaction SatisfactionDTO `json:"satisfaction"`
	Months       []MonthDTO      `json:"monthly_projections"`
}

// =============================================================================
// COMPARISON TYPES
// =============================================================================

type CompareRequest struct {
	BaselineID  string          `json:"baseline_id"`
	ScenarioIDs []string        `json:"scenario_ids"`
	Config      SimulateRequest `json:"config"`
}

type KPIDeltaDTO struct {
	Baseline      float64 `json:"baseline"`
	Scenario      float64 `json:"scenario"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
}

type MetricDeltaDTO struct {
	Name          string  `json:"name"`
	Baseline      float64 `json:"baseline"`
	Scenario      float64 `json:"scenario"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
	IsImprovement bool    `json:"is_improvement"`
}

type ScenarioComparisonDTO struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Revenue      KPIDeltaDTO      `json:"revenue"`
	Compliance   KPIDeltaDTO      `json:"compliance"`
	Workload     KPIDeltaDTO      `json:"workload"`
	Satisfaction KPIDeltaDTO      `json:"satisfaction"`
	Metrics      []MetricDeltaDTO `json:"metrics"`
}

type ComparisonDTO struct {
	Baseline  MetricsDTO              `json:"baseline"`
	Scenarios []ScenarioComparisonDTO `json:"scenarios"`
}

// PresetDTO describes one loadable demo scenario.
type PresetDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadPresetRequest struct {
	PresetID string `json:"preset_id"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func metricsDTO(m *simulation.Metrics) MetricsDTO {
	dto := MetricsDTO{
		Revenue: RevenueDTO{
			Total:           money(m.Revenue.Total),
			FromFines:       money(m.Revenue.FromFines),
			FromPermits:     money(m.Revenue.FromPermits),
			FromTaxes:       money(m.Revenue.FromTaxes),
			FromFees:        money(m.Revenue.FromFees),
			CitizenFines:    money(m.Revenue.CitizenFines),
			BusinessFines:   money(m.Revenue.BusinessFines),
			CitizenPermits:  money(m.Revenue.CitizenPermits),
			BusinessPermits: money(m.Revenue.BusinessPermits),
		},
		Compliance: ComplianceDTO{
			Overall:  m.Compliance.Overall,
			Citizen:  m.Compliance.Citizen,
			Business: m.Compliance.Business,
		},
		Workload: WorkloadDTO{
			Inspections:   m.Workload.Inspections,
			Permits:       m.Workload.Permits,
			Appeals:       m.Workload.Appeals,
			TotalHours:    m.Workload.TotalHours,
			StaffRequired: m.Workload.StaffRequired,
		},
		Satisfaction: SatisfactionDTO{
			Overall:  m.Satisfaction.Overall,
			Citizen:  m.Satisfaction.Citizen,
			Business: m.Satisfaction.Business,
		},
	}
	for _, month := range m.Months {
		dto.Months = append(dto.Months, MonthDTO{
			Month:        month.Month,
			Revenue:      money(month.Revenue),
			Compliance:   month.Compliance,
			Workload:     month.Workload,
			Satisfaction: month.Satisfaction,
		})
	}
	return dto
}

func kpiDeltaDTO(d simulation.KPIDelta) KPIDeltaDTO {
	return KPIDeltaDTO{
		Baseline:      d.Baseline,
		Scenario:      d.Scenario,
		Delta:         d.Delta,
		PercentChange: d.PercentChange,
	}
}

func scenarioDTO(rec sqlite.ScenarioRecord) ScenarioDTO {
	return ScenarioDTO{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		ParentID:    rec.ParentID,
		IsBaseline:  rec.IsBaseline,
		PolicyIDs:   rec.PolicyIDs,
		Overrides:   rec.Overrides,
		CreatedAt:   formatTime(rec.CreatedAt),
	}
}
