/*
tenure.go - Long-service decoration tiers on calendar anniversaries

PURPOSE:
  Evaluates the three ranked tiers of the long-service decoration against
  the enlistment anniversary. Tier N+1 is only evaluated once tier N's
  stored status is Granted (tier 1 has no gate).

STATUS RULES (per tier, ascending):
  Granted (stored)            -> passthrough, engine never overwrites
  current year == anniversary -> Eligible (newly due this cycle)
  current year >  anniversary -> Eligible (overdue; flagged with rationale)
  current year <  anniversary -> NotYet, years remaining in rationale
  unknown enlistment date     -> every tier NotYet, no date

  A tier behind an ungated predecessor is NotYet with a gating rationale
  and no projected date: projecting a date for it would imply it can become
  due before the lower tier is issued.
*/
package person

import (
	"github.com/meritdesk/awards-engine/eligibility"
)

// TenureInput is everything the tenure calculator needs. Prior carries the
// stored per-tier statuses so externally-advanced Granted flags survive
// recomputation.
type TenureInput struct {
	EnlistedOn eligibility.Date // zero = unknown
	Thresholds [eligibility.TierCount]int // required years per tier, ascending
	Prior      [eligibility.TierCount]eligibility.TierStatus
	Today      eligibility.Date
}

// EvaluateTenure computes the per-tier outcome. Missing data is a
// first-class outcome (NotYet), never an error.
func EvaluateTenure(in TenureInput) [eligibility.TierCount]eligibility.TierState {
	var out [eligibility.TierCount]eligibility.TierState

	if in.EnlistedOn.IsZero() {
		for i := range out {
			out[i] = eligibility.TierState{
				Status:    eligibility.StatusNotYet,
				Rationale: noEnlistmentRationale(i + 1),
			}
		}
		return out
	}

	for i := range out {
		anniversary := in.EnlistedOn.AddYears(in.Thresholds[i])

		// Granted passthrough before the gate check: an already-issued
		// tier stays issued regardless of what the gate would say now.
		if in.Prior[i] == eligibility.StatusGranted {
			out[i] = eligibility.TierState{
				Status:     eligibility.StatusGranted,
				EligibleOn: anniversary,
				Rationale:  grantedRationale(i + 1),
			}
			continue
		}

		// Sequential rank-gating: tier N+1 is only evaluated once tier N
		// has actually been granted.
		if i > 0 && in.Prior[i-1] != eligibility.StatusGranted {
			out[i] = eligibility.TierState{
				Status:    eligibility.StatusNotYet,
				Rationale: gatedRationale(i + 1),
			}
			continue
		}

		switch {
		case in.Today.Year() == anniversary.Year():
			out[i] = eligibility.TierState{
				Status:     eligibility.StatusEligible,
				EligibleOn: anniversary,
				Rationale:  dueRationale(i+1, in.Thresholds[i], anniversary),
			}
		case in.Today.Year() > anniversary.Year():
			out[i] = eligibility.TierState{
				Status:     eligibility.StatusEligible,
				EligibleOn: anniversary,
				Rationale:  overdueRationale(i+1, anniversary, in.Today.Year()-anniversary.Year()),
			}
		default:
			out[i] = eligibility.TierState{
				Status:     eligibility.StatusNotYet,
				EligibleOn: anniversary,
				Rationale:  yearsRemainingRationale(i+1, anniversary.Year()-in.Today.Year()),
			}
		}
	}

	return out
}
