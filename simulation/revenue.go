/*
revenue.go - Fine, permit, and tax revenue projection

PURPOSE:
  Computes projected revenue over the time horizon from the population
  segments and the effective parameters.

MODEL:
  Per citizen group:
    fines   += population * (1 - complianceRate) * detectionRate * fineAmount
    permits += population * permitEligibility * feeAmount
    taxes   += population * averageIncome * (taxRate/100) * horizonYears

  Per business category, the same detection rate applies but fines and
  permit revenue are scaled by the size multiplier (small=1, medium=2,
  large=5), and taxes use the category's averageRevenue (or the size-based
  default) in place of averageIncome.

  An economic growth factor 1 + (economicGrowth/100) * horizonYears scales
  all three totals uniformly.

  The citizen/business breakdown fields are fixed proportional splits
  (30/70 for fines, 40/60 for permits), not independently computed - a
  modeling simplification preserved as-is.

  No fee revenue source is computed; FromFees is always zero and permit
  fees land in the permits bucket.
*/
package simulation

import "math"

// detectionRate is the probability a non-compliant entity is caught and
// fined, driven by inspection frequency. Capped at 0.9.
func detectionRate(inspectionFrequency float64) float64 {
	return math.Min(0.9, 0.3+math.Min(0.4, inspectionFrequency/25))
}

func computeRevenue(m *Metrics, in Input) {
	p := in.Parameters
	years := horizonYears(in.Config)
	det := detectionRate(p.InspectionFrequency)

	var fines, permits, taxes float64

	for _, g := range in.Citizens {
		pop := float64(g.Population)
		nonCompliant := pop * (1 - g.ComplianceRate)

		fines += nonCompliant * det * p.FineAmount
		permits += pop * g.demographic(DemPermitEligibility, defaultPermitEligibility) * p.FeeAmount
		taxes += pop * g.demographic(DemAverageIncome, defaultAverageIncome) * (p.TaxRate / 100) * years
	}

	for _, b := range in.Businesses {
		count := float64(b.Count)
		prof := b.Size.profile()
		nonCompliant := count * (1 - b.ComplianceRate)

		fines += nonCompliant * det * p.FineAmount * prof.RevenueMultiplier
		permits += count * p.FeeAmount * prof.RevenueMultiplier
		taxes += count * b.rule(RuleAverageRevenue, prof.DefaultRevenue) * (p.TaxRate / 100) * years
	}

	growth := 1 + (in.Config.EconomicGrowth/100)*years
	fines *= growth
	permits *= growth
	taxes *= growth

	m.Revenue = RevenueBreakdown{
		Total:       fines + permits + taxes,
		FromFines:   fines,
		FromPermits: permits,
		FromTaxes:   taxes,
		FromFees:    0,

		CitizenFines:    fines * 0.3,
		BusinessFines:   fines * 0.7,
		CitizenPermits:  permits * 0.4,
		BusinessPermits: permits * 0.6,
	}
}
