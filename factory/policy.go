/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts JSON policy definitions into simulation.Contribution values.
  This enables policy configuration without code changes - analysts define
  policies in JSON, and the factory produces the contributions the
  aggregator folds.

JSON SCHEMA:
  {
    "id": "parking-fines-v2",
    "name": "Downtown Parking Fines",
    "category": "parking",
    "parameters": {
      "fineAmount": 75,
      "gracePeriod": 14,
      "zone": "downtown"
    },
    "overrides": {
      "fineAmount": 90
    }
  }

  Parameter values may be numeric, string, or boolean. Unknown keys are
  preserved; only the keys the models read affect the simulation. Malformed
  values (non-numeric where the models expect numeric) pass through without
  validation - that is a documented caller responsibility of the engine.

KEY FEATURES:
  - Validates the structural envelope (id, name, non-empty parameters)
  - Preserves contribution order: callers pass definitions in the order
    the aggregator should fold them

USAGE:
  f := factory.NewPolicyFactory()
  contribution, err := f.ParseContribution(jsonStr)
  ...
  effective := simulation.BindParameters(simulation.Aggregate(contributions))

SEE ALSO:
  - simulation/params.go: Aggregation semantics
  - municipal/policies.go: Pre-built policy definitions
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/impact-engine/simulation"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of one policy version.
type PolicyJSON struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
	Overrides   map[string]any `json:"overrides,omitempty"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policy definitions to contributions.
type PolicyFactory struct{}

func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParseContribution parses a JSON string into a simulation.Contribution.
func (f *PolicyFactory) ParseContribution(jsonStr string) (simulation.Contribution, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return simulation.Contribution{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts a PolicyJSON to a simulation.Contribution.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (simulation.Contribution, error) {
	if pj.ID == "" {
		return simulation.Contribution{}, fmt.Errorf("policy definition missing id")
	}
	if pj.Name == "" {
		return simulation.Contribution{}, fmt.Errorf("policy %q missing name", pj.ID)
	}
	if len(pj.Parameters) == 0 {
		return simulation.Contribution{}, fmt.Errorf("policy %q has no parameters", pj.ID)
	}

	c := simulation.Contribution{
		PolicyID:   pj.ID,
		Parameters: simulation.Bag(pj.Parameters),
	}
	if len(pj.Overrides) > 0 {
		c.Overrides = simulation.Bag(pj.Overrides)
	}
	return c, nil
}

// ParseContributions parses an ordered list of definitions, preserving
// order (order affects the aggregation result).
func (f *PolicyFactory) ParseContributions(jsonStrs []string) ([]simulation.Contribution, error) {
	contributions := make([]simulation.Contribution, 0, len(jsonStrs))
	for i, s := range jsonStrs {
		c, err := f.ParseContribution(s)
		if err != nil {
			return nil, fmt.Errorf("definition %d: %w", i, err)
		}
		contributions = append(contributions, c)
	}
	return contributions, nil
}
