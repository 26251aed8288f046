/*
satisfaction.go - Citizen and business satisfaction index

PURPOSE:
  Computes a 0-100 satisfaction index per population segment from a base
  of 70, shifted by shared impact terms:

    fineImpact   = -min(20, fineAmount/50)
    permitImpact = min(10, (permitDuration-180)/50)
    taxImpact    = -min(15, taxRate/2)
    graceImpact  = min(5, gracePeriod/10)

  Citizen segments scale the fine term by incomeSensitivity and the grace
  term by policyAwareness (default 1.0 each), population-weighted.

  Business segments dampen the fine term (0.5x), amplify the permit term
  (1.5x), and scale the tax term by 1.2 * sizeSensitivity * policyAwareness
  where sizeSensitivity is 1.2 (small), 1.0 (medium), 0.8 (large);
  count-weighted.

  Overall is the unweighted mean of the two segment averages (same
  asymmetry as compliance). An empty segment reports the base value.
*/
package simulation

import "math"

const baseSatisfaction = 70.0

func computeSatisfaction(m *Metrics, in Input) {
	p := in.Parameters

	fineImpact := -math.Min(20, p.FineAmount/50)
	permitImpact := math.Min(10, (p.PermitDuration-180)/50)
	taxImpact := -math.Min(15, p.TaxRate/2)
	graceImpact := math.Min(5, p.GracePeriod/10)

	var citizenWeighted, totalPopulation float64
	for _, g := range in.Citizens {
		pop := float64(g.Population)
		score := baseSatisfaction +
			fineImpact*g.rule(RuleIncomeSensitivity) +
			permitImpact +
			taxImpact +
			graceImpact*g.rule(RulePolicyAwareness)
		citizenWeighted += clamp(score, 0, 100) * pop
		totalPopulation += pop
	}

	citizen := baseSatisfaction
	if totalPopulation > 0 {
		citizen = citizenWeighted / totalPopulation
	}

	var businessWeighted, totalCount float64
	for _, b := range in.Businesses {
		count := float64(b.Count)
		prof := b.Size.profile()
		score := baseSatisfaction +
			fineImpact*0.5 +
			permitImpact*1.5 +
			taxImpact*1.2*prof.TaxSensitivity*b.rule(RulePolicyAwareness, defaultBehaviorRule)
		businessWeighted += clamp(score, 0, 100) * count
		totalCount += count
	}

	business := baseSatisfaction
	if totalCount > 0 {
		business = businessWeighted / totalCount
	}

	m.Satisfaction = SatisfactionBreakdown{
		Overall:  (citizen + business) / 2,
		Citizen:  citizen,
		Business: business,
	}
}
