/*
population.go - Representative population presets

PURPOSE:
  Citizen groups and business categories modeled on a mid-size city, used
  by the demo scenarios and as realistic fixtures in tests. Compliance
  baselines and demographics are plausible round numbers, not calibrated
  statistics.
*/
package municipal

import "github.com/warp/impact-engine/simulation"

// DemoCitizenGroups returns a three-segment resident population.
func DemoCitizenGroups() []simulation.CitizenGroup {
	return []simulation.CitizenGroup{
		{
			ID:             "downtown-residents",
			Name:           "Downtown Residents",
			Population:     18000,
			ComplianceRate: 0.72,
			Demographics: map[string]float64{
				"averageIncome":     52000,
				"permitEligibility": 0.4,
			},
			BehaviorRules: map[string]float64{
				"incomeSensitivity": 0.8,
				"policyAwareness":   1.3,
			},
		},
		{
			ID:             "suburban-households",
			Name:           "Suburban Households",
			Population:     43000,
			ComplianceRate: 0.81,
			Demographics: map[string]float64{
				"averageIncome":     64000,
				"permitEligibility": 0.55,
			},
		},
		{
			ID:             "students",
			Name:           "Students & Young Renters",
			Population:     9000,
			ComplianceRate: 0.6,
			Demographics: map[string]float64{
				"averageIncome":     18000,
				"permitEligibility": 0.1,
			},
			BehaviorRules: map[string]float64{
				"incomeSensitivity": 1.6,
				"policyAwareness":   0.7,
			},
		},
	}
}

// DemoBusinessCategories returns a three-segment business population.
func DemoBusinessCategories() []simulation.BusinessCategory {
	return []simulation.BusinessCategory{
		{
			ID:             "cafes-restaurants",
			Name:           "Cafes & Restaurants",
			Count:          320,
			ComplianceRate: 0.68,
			Size:           simulation.SizeSmall,
			BehaviorRules: map[string]float64{
				"averageRevenue":  180000,
				"policyAwareness": 1.2,
			},
		},
		{
			ID:             "retail-chains",
			Name:           "Retail Chains",
			Count:          85,
			ComplianceRate: 0.82,
			Size:           simulation.SizeMedium,
		},
		{
			ID:             "manufacturers",
			Name:           "Manufacturers",
			Count:          12,
			ComplianceRate: 0.9,
			Size:           simulation.SizeLarge,
			BehaviorRules: map[string]float64{
				"averageRevenue": 4500000,
			},
		},
	}
}
