/*
compliance.go - Adjusted compliance rates per population segment

PURPOSE:
  Computes how the effective parameters shift each segment's baseline
  compliance rate, clamped to [0,1].

MODEL:
  Citizen impact terms:
    fineImpact       = min(0.1, fineAmount/10000)
    inspectionImpact = min(0.05, inspectionFrequency/20)
    permitImpact     = -min(0.02, (permitDuration-365)/3650)

  Permits longer than the 365-day default reduce compliance; shorter ones
  raise it (the permit term goes negative, which adds to compliance).

  Business impact terms are steeper and have no permit term:
    fineImpact       = min(0.15, fineAmount/5000)
    inspectionImpact = min(0.08, inspectionFrequency/12)

  Citizen average is population-weighted; business average is
  count-weighted. Overall is the unweighted mean of the two segment
  averages - deliberately not weighted by absolute population vs business
  count. A zero total population (or zero business count) yields 0 for
  that sub-average rather than an undefined ratio.
*/
package simulation

import "math"

func computeCompliance(m *Metrics, in Input) {
	p := in.Parameters

	citizenFineImpact := math.Min(0.1, p.FineAmount/10000)
	citizenInspImpact := math.Min(0.05, p.InspectionFrequency/20)
	permitImpact := -math.Min(0.02, (p.PermitDuration-365)/3650)

	var citizenWeighted, totalPopulation float64
	for _, g := range in.Citizens {
		pop := float64(g.Population)
		adjusted := clamp(g.ComplianceRate+citizenFineImpact+citizenInspImpact+permitImpact, 0, 1)
		citizenWeighted += adjusted * pop
		totalPopulation += pop
	}

	citizen := 0.0
	if totalPopulation > 0 {
		citizen = citizenWeighted / totalPopulation
	}

	businessFineImpact := math.Min(0.15, p.FineAmount/5000)
	businessInspImpact := math.Min(0.08, p.InspectionFrequency/12)

	var businessWeighted, totalCount float64
	for _, b := range in.Businesses {
		count := float64(b.Count)
		adjusted := clamp(b.ComplianceRate+businessFineImpact+businessInspImpact, 0, 1)
		businessWeighted += adjusted * count
		totalCount += count
	}

	business := 0.0
	if totalCount > 0 {
		business = businessWeighted / totalCount
	}

	m.Compliance = ComplianceBreakdown{
		Overall:  (citizen + business) / 2,
		Citizen:  citizen,
		Business: business,
	}
}
