/*
workload.go - Operational workload and staffing projection

PURPOSE:
  Computes inspection, permit-processing, and appeal volumes over the time
  horizon, converts them to work hours at fixed per-unit costs, and derives
  required staffing. Runs after the compliance stage: the appeal volume
  depends on the overall adjusted compliance rate.

MODEL:
  inspections = sum(population * (inspectionFrequency/12) * horizonMonths)
              + sum(count * (inspectionFrequency/12) * horizonMonths * 2)
  (businesses are inspected at double the per-entity rate)

  permits = (totalPopulation*0.1 + totalBusinesses)
            * (12 / (permitDuration/30)) * horizonYears

  appeals = (totalPopulation + totalBusinesses)
            * (1 - overallCompliance) * 0.1 * (fineAmount/500)

  totalHours    = inspections*2 + permits*0.5 + appeals*4
  staffRequired = ceil(totalHours / (160 * horizonYears))
  (160 work-hours per staff-month)

  permitDuration is guaranteed positive by Run's boundary validation; the
  division here is intentionally unguarded.
*/
package simulation

import "math"

// Per-unit hour costs and monthly staff capacity.
const (
	hoursPerInspection = 2.0
	hoursPerPermit     = 0.5
	hoursPerAppeal     = 4.0
	hoursPerStaffMonth = 160.0
)

func computeWorkload(m *Metrics, in Input) {
	p := in.Parameters
	months := float64(in.Config.TimeHorizonMonths)
	years := horizonYears(in.Config)

	var inspections float64
	var totalPopulation, totalBusinesses float64

	for _, g := range in.Citizens {
		pop := float64(g.Population)
		inspections += pop * (p.InspectionFrequency / 12) * months
		totalPopulation += pop
	}
	for _, b := range in.Businesses {
		count := float64(b.Count)
		inspections += count * (p.InspectionFrequency / 12) * months * 2
		totalBusinesses += count
	}

	permits := (totalPopulation*0.1 + totalBusinesses) * (12 / (p.PermitDuration / 30)) * years

	appeals := (totalPopulation + totalBusinesses) * (1 - m.Compliance.Overall) * 0.1 * (p.FineAmount / 500)

	totalHours := inspections*hoursPerInspection + permits*hoursPerPermit + appeals*hoursPerAppeal

	m.Workload = WorkloadBreakdown{
		Inspections:   inspections,
		Permits:       permits,
		Appeals:       appeals,
		TotalHours:    totalHours,
		StaffRequired: int(math.Ceil(totalHours / (hoursPerStaffMonth * years))),
	}
}
