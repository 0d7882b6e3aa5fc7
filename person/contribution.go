/*
contribution.go - Contribution decoration tiers on weighted service time

PURPOSE:
  Aggregates a person's cumulative position-assignment time into a whole
  month count and applies the same sequential rank-gating as the tenure
  calculator, comparing months to per-tier month thresholds instead of
  calendar anniversaries.

TWO FIGURES, ONE GATE:
  - TotalMonths: plain calendar-month spans summed per assignment (the open
    assignment ends "now"). This is what thresholds compare against.
  - WeightBuckets: each span's months multiplied by its stored contribution
    coefficient, bucketed into low/medium/high responsibility bands.
    Display only; never affects eligibility status.
*/
package person

import (
	"github.com/shopspring/decimal"

	"github.com/meritdesk/awards-engine/eligibility"
)

// CoefficientBands splits positions into responsibility bands by their
// contribution coefficient: low < MediumMin <= medium < HighMin <= high.
type CoefficientBands struct {
	MediumMin decimal.Decimal
	HighMin   decimal.Decimal
}

// ContributionInput is everything the contribution calculator needs.
type ContributionInput struct {
	Assignments []eligibility.AssignmentRecord // start date asc
	SeparatedOn eligibility.Date               // zero = still serving
	Thresholds  [eligibility.TierCount]int     // required months per tier, ascending
	Prior       [eligibility.TierCount]eligibility.TierStatus
	Today       eligibility.Date
}

// ContributionResult is the structured outcome: the raw month count, the
// informational weighted buckets, and the gated per-tier states.
type ContributionResult struct {
	TotalMonths int
	Weighted    eligibility.WeightBuckets
	Tiers       [eligibility.TierCount]eligibility.TierState
}

// EvaluateContribution computes cumulative service months and the per-tier
// outcome. Pure and deterministic.
func EvaluateContribution(in ContributionInput, bands CoefficientBands) ContributionResult {
	asOf := in.Today
	if !in.SeparatedOn.IsZero() && in.SeparatedOn.Before(asOf) {
		asOf = in.SeparatedOn
	}

	var res ContributionResult
	res.Weighted = eligibility.WeightBuckets{
		Low:    decimal.Zero,
		Medium: decimal.Zero,
		High:   decimal.Zero,
	}

	for _, a := range in.Assignments {
		months := a.Months(asOf)
		res.TotalMonths += months

		weighted := decimal.NewFromInt(int64(months)).Mul(a.Coefficient)
		switch {
		case a.Coefficient.GreaterThanOrEqual(bands.HighMin):
			res.Weighted.High = res.Weighted.High.Add(weighted)
		case a.Coefficient.GreaterThanOrEqual(bands.MediumMin):
			res.Weighted.Medium = res.Weighted.Medium.Add(weighted)
		default:
			res.Weighted.Low = res.Weighted.Low.Add(weighted)
		}
	}

	for i := range res.Tiers {
		if in.Prior[i] == eligibility.StatusGranted {
			res.Tiers[i] = eligibility.TierState{
				Status:     eligibility.StatusGranted,
				EligibleOn: crossingDate(in.Assignments, in.Thresholds[i], asOf),
				Rationale:  grantedRationale(i + 1),
			}
			continue
		}

		if i > 0 && in.Prior[i-1] != eligibility.StatusGranted {
			res.Tiers[i] = eligibility.TierState{
				Status:    eligibility.StatusNotYet,
				Rationale: gatedRationale(i + 1),
			}
			continue
		}

		if res.TotalMonths >= in.Thresholds[i] {
			res.Tiers[i] = eligibility.TierState{
				Status:     eligibility.StatusEligible,
				EligibleOn: crossingDate(in.Assignments, in.Thresholds[i], asOf),
				Rationale:  monthsMetRationale(i+1, res.TotalMonths, in.Thresholds[i]),
			}
		} else {
			res.Tiers[i] = eligibility.TierState{
				Status:    eligibility.StatusNotYet,
				Rationale: monthsRemainingRationale(i+1, in.Thresholds[i]-res.TotalMonths),
			}
		}
	}

	return res
}

// crossingDate walks the assignment spans in order and finds the calendar
// date on which cumulative months first reached the threshold. Returns the
// zero date when the threshold was never reached.
func crossingDate(assignments []eligibility.AssignmentRecord, thresholdMonths int, asOf eligibility.Date) eligibility.Date {
	accumulated := 0
	for _, a := range assignments {
		months := a.Months(asOf)
		if accumulated+months >= thresholdMonths {
			return a.Start.AddMonths(thresholdMonths - accumulated)
		}
		accumulated += months
	}
	return eligibility.Date{}
}
