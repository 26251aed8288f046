/*
params.go - Policy parameter aggregation

PURPOSE:
  Merges an ordered sequence of policy contributions (each a parameter bag
  plus an optional override map) into one effective parameter set, then
  binds the open bag into the fixed Parameters record the models read.

MERGE SEMANTICS:
  Parameters fold in contribution order. When a key repeats and both the
  existing and incoming values are numeric, the merged value becomes
  (existing + new) / 2 - a pairwise running average. This is order-dependent
  and not associative: [100, 200, 300] folds to ((100+200)/2 + 300)/2 = 225,
  not the true mean 200, and the reversed order folds to 175. Downstream
  behavior depends on this exact fold, so it must not be replaced with a
  true mean.

  Overrides are applied after all parameter bags have been folded, as an
  unconditional last-write in contribution order: overrides always win over
  merged policy values, and a later contribution's override wins over an
  earlier one's for the same key.

SEE ALSO:
  - types.go: Known parameter field documentation
  - engine.go: Boundary validation of bound parameters
*/
package simulation

// Bag is an open-ended parameter map as supplied by policy definitions.
// Values may be numeric, string, or boolean; only numeric values
// participate in the running-average merge.
type Bag map[string]any

// Contribution is one policy's parameter set plus optional overrides.
// Contributions form an ordered sequence; order affects the result.
type Contribution struct {
	PolicyID   string
	Parameters Bag
	Overrides  Bag
}

// Known parameter keys read by the models. Unknown keys are preserved in
// Parameters.Extra but ignored.
const (
	ParamFineAmount          = "fineAmount"
	ParamPermitDuration      = "permitDuration"      // days
	ParamInspectionFrequency = "inspectionFrequency" // per year
	ParamTaxRate             = "taxRate"             // percent
	ParamFeeAmount           = "feeAmount"
	ParamPenaltyRate         = "penaltyRate"
	ParamGracePeriod         = "gracePeriod"   // days
	ParamRenewalPeriod       = "renewalPeriod" // days
)

// defaultPermitDuration applies when no contribution supplies a permit
// duration. All other parameters default to zero.
const defaultPermitDuration = 365.0

// Parameters is the effective parameter set after aggregation: the known
// fields every model reads, plus the unrecognized remainder.
type Parameters struct {
	FineAmount          float64
	PermitDuration      float64
	InspectionFrequency float64
	TaxRate             float64
	FeeAmount           float64
	PenaltyRate         float64
	GracePeriod         float64
	RenewalPeriod       float64

	// Extra holds keys no model reads, preserved for callers.
	Extra Bag
}

// Aggregate folds an ordered sequence of contributions into one effective
// parameter bag. Pure function; inputs are not modified.
func Aggregate(contributions []Contribution) Bag {
	merged := Bag{}

	for _, c := range contributions {
		for key, value := range c.Parameters {
			if existing, ok := merged[key]; ok {
				en, okExisting := numericValue(existing)
				nn, okNew := numericValue(value)
				if okExisting && okNew {
					merged[key] = (en + nn) / 2
					continue
				}
			}
			// First occurrence, or a non-numeric pairing: overwrite.
			merged[key] = value
		}
	}

	// Overrides win unconditionally, in contribution order.
	for _, c := range contributions {
		for key, value := range c.Overrides {
			merged[key] = value
		}
	}

	return merged
}

// BindParameters extracts the known fields from a bag, applying defaults
// for missing keys, and collects the remainder into Extra. Non-numeric
// values under known keys pass through to Extra unvalidated; preventing
// them is a caller responsibility.
func BindParameters(bag Bag) Parameters {
	p := Parameters{PermitDuration: defaultPermitDuration}

	bound := map[string]*float64{
		ParamFineAmount:          &p.FineAmount,
		ParamPermitDuration:      &p.PermitDuration,
		ParamInspectionFrequency: &p.InspectionFrequency,
		ParamTaxRate:             &p.TaxRate,
		ParamFeeAmount:           &p.FeeAmount,
		ParamPenaltyRate:         &p.PenaltyRate,
		ParamGracePeriod:         &p.GracePeriod,
		ParamRenewalPeriod:       &p.RenewalPeriod,
	}

	for key, value := range bag {
		field, known := bound[key]
		if !known {
			if p.Extra == nil {
				p.Extra = Bag{}
			}
			p.Extra[key] = value
			continue
		}
		if n, ok := numericValue(value); ok {
			*field = n
			continue
		}
		if p.Extra == nil {
			p.Extra = Bag{}
		}
		p.Extra[key] = value
	}

	return p
}

// numericValue reports whether v carries a numeric value and returns it as
// float64. JSON decoding yields float64; the integer cases cover values
// constructed in Go code.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
