/*
Package municipal provides domain-specific policy and population presets
for the policy-impact simulation engine.

PURPOSE:
  Ready-to-use policy definitions for the policy instruments a city
  typically models, plus representative citizen/business populations for
  demos and tests. These are convenience builders over factory.PolicyJSON;
  real deployments define their own policies through the API.

AVAILABLE POLICIES:
  ParkingFinePolicy:        Fines with a grace period
  BusinessLicensePolicy:    Permit fees, duration, renewal
  RestaurantInspectionPolicy: Inspection frequency and penalty rate
  LocalBusinessTaxPolicy:   Flat-rate local tax

CUSTOMIZATION:
  These are starting points. Scenario overrides adjust individual
  parameters without touching the policy definition itself.

EXAMPLE:
  pj := municipal.ParkingFinePolicy("parking-2026", "Parking Reform", 75, 14)
  contribution, err := factory.NewPolicyFactory().FromJSON(pj)

SEE ALSO:
  - population.go: Demo citizen groups and business categories
  - factory/policy.go: JSON schema and parsing
*/
package municipal

import "github.com/warp/impact-engine/factory"

// =============================================================================
// POLICY CATEGORIES
// =============================================================================

const (
	CategoryParking    = "parking"
	CategoryLicensing  = "licensing"
	CategoryInspection = "inspection"
	CategoryTaxation   = "taxation"
)

// =============================================================================
// POLICY PRESETS
// =============================================================================

// ParkingFinePolicy returns a fine-based enforcement policy.
func ParkingFinePolicy(id, name string, fineAmount, gracePeriodDays float64) factory.PolicyJSON {
	return factory.PolicyJSON{
		ID:       id,
		Name:     name,
		Category: CategoryParking,
		Parameters: map[string]any{
			"fineAmount":  fineAmount,
			"gracePeriod": gracePeriodDays,
			"penaltyRate": 0.05,
		},
	}
}

// BusinessLicensePolicy returns a permit/licensing policy.
func BusinessLicensePolicy(id, name string, feeAmount, permitDurationDays, renewalPeriodDays float64) factory.PolicyJSON {
	return factory.PolicyJSON{
		ID:       id,
		Name:     name,
		Category: CategoryLicensing,
		Parameters: map[string]any{
			"feeAmount":      feeAmount,
			"permitDuration": permitDurationDays,
			"renewalPeriod":  renewalPeriodDays,
		},
	}
}

// RestaurantInspectionPolicy returns an inspection regime.
func RestaurantInspectionPolicy(id, name string, inspectionsPerYear, penaltyRate float64) factory.PolicyJSON {
	return factory.PolicyJSON{
		ID:       id,
		Name:     name,
		Category: CategoryInspection,
		Parameters: map[string]any{
			"inspectionFrequency": inspectionsPerYear,
			"penaltyRate":         penaltyRate,
		},
	}
}

// LocalBusinessTaxPolicy returns a flat-rate local tax policy.
func LocalBusinessTaxPolicy(id, name string, taxRatePercent float64) factory.PolicyJSON {
	return factory.PolicyJSON{
		ID:       id,
		Name:     name,
		Category: CategoryTaxation,
		Parameters: map[string]any{
			"taxRate": taxRatePercent,
		},
	}
}
