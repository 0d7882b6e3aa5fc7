package person_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/person"
)

var (
	defaultMonths = [eligibility.TierCount]int{120, 240, 360}
	defaultBands  = person.CoefficientBands{
		MediumMin: decimal.NewFromFloat(1.0),
		HighMin:   decimal.NewFromFloat(1.5),
	}
)

func span(start, end eligibility.Date, coefficient string) eligibility.AssignmentRecord {
	return eligibility.AssignmentRecord{
		ID:          "asg",
		PersonID:    "p1",
		PositionID:  "pos",
		Coefficient: decimal.RequireFromString(coefficient),
		Start:       start,
		End:         end,
	}
}

func TestEvaluateContribution_BucketsNeverGate(t *testing.T) {
	// GIVEN: One assignment Jan 2015 - Jan 2020 (60 months) in a
	//        mid-coefficient position, tier-1 threshold 120 months
	// WHEN: Evaluated in mid-2020
	// THEN: Tier 1 is NotYet with "5 years remaining", regardless of the
	//       weighted display figures

	res := person.EvaluateContribution(person.ContributionInput{
		Assignments: []eligibility.AssignmentRecord{
			span(eligibility.NewDate(2015, time.January, 1),
				eligibility.NewDate(2020, time.January, 1), "1.2"),
		},
		Thresholds: defaultMonths,
		Today:      eligibility.NewDate(2020, time.June, 15),
	}, defaultBands)

	if res.TotalMonths != 60 {
		t.Fatalf("total months = %d, want 60", res.TotalMonths)
	}
	if res.Tiers[0].Status != eligibility.StatusNotYet {
		t.Errorf("tier 1 status = %s, want not_yet", res.Tiers[0].Status)
	}
	if !strings.Contains(res.Tiers[0].Rationale, "5 years remaining") {
		t.Errorf("rationale = %q, want 5 years remaining", res.Tiers[0].Rationale)
	}
	// 60 months * 1.2 lands in the medium bucket and stays display-only.
	if !res.Weighted.Medium.Equal(decimal.RequireFromString("72")) {
		t.Errorf("medium bucket = %s, want 72", res.Weighted.Medium)
	}
}

func TestEvaluateContribution_ThresholdMetWithCrossingDate(t *testing.T) {
	// GIVEN: A closed 8-year span followed by an open 4-year span
	// WHEN: Evaluated; cumulative months pass the 120 threshold inside the
	//       second span
	// THEN: Tier 1 is Eligible and EligibleOn is the crossing date

	res := person.EvaluateContribution(person.ContributionInput{
		Assignments: []eligibility.AssignmentRecord{
			span(eligibility.NewDate(2012, time.January, 1),
				eligibility.NewDate(2020, time.January, 1), "1.0"), // 96 months
			span(eligibility.NewDate(2020, time.January, 1),
				eligibility.Date{}, "1.6"), // open
		},
		Thresholds: defaultMonths,
		Today:      eligibility.NewDate(2024, time.June, 1),
	}, defaultBands)

	if res.TotalMonths != 96+53 {
		t.Fatalf("total months = %d, want 149", res.TotalMonths)
	}
	if res.Tiers[0].Status != eligibility.StatusEligible {
		t.Fatalf("tier 1 status = %s, want eligible", res.Tiers[0].Status)
	}
	// 96 months accumulated by Jan 2020; 24 more months reach 120 on
	// 2022-01-01.
	if res.Tiers[0].EligibleOn.String() != "2022-01-01" {
		t.Errorf("crossing date = %s, want 2022-01-01", res.Tiers[0].EligibleOn)
	}
	if res.Tiers[1].Status != eligibility.StatusNotYet {
		t.Errorf("tier 2 status = %s, want not_yet (gated)", res.Tiers[1].Status)
	}
}

func TestEvaluateContribution_SeparationFreezesAccrual(t *testing.T) {
	// GIVEN: An open assignment but a separation date in the past
	// WHEN: Evaluated later
	// THEN: Months stop accruing at separation

	res := person.EvaluateContribution(person.ContributionInput{
		Assignments: []eligibility.AssignmentRecord{
			span(eligibility.NewDate(2020, time.January, 1), eligibility.Date{}, "1.0"),
		},
		SeparatedOn: eligibility.NewDate(2022, time.January, 1),
		Thresholds:  defaultMonths,
		Today:       eligibility.NewDate(2024, time.June, 1),
	}, defaultBands)

	if res.TotalMonths != 24 {
		t.Errorf("total months = %d, want 24 (frozen at separation)", res.TotalMonths)
	}
}

func TestEvaluateContribution_WeightedBucketSplit(t *testing.T) {
	// GIVEN: Three spans with low, medium, and high coefficients
	// WHEN: Evaluated
	// THEN: Each span's weighted months land in its own bucket

	res := person.EvaluateContribution(person.ContributionInput{
		Assignments: []eligibility.AssignmentRecord{
			span(eligibility.NewDate(2020, time.January, 1),
				eligibility.NewDate(2021, time.January, 1), "0.8"),
			span(eligibility.NewDate(2021, time.January, 1),
				eligibility.NewDate(2022, time.January, 1), "1.0"),
			span(eligibility.NewDate(2022, time.January, 1),
				eligibility.NewDate(2023, time.January, 1), "1.5"),
		},
		Thresholds: defaultMonths,
		Today:      eligibility.NewDate(2024, time.June, 1),
	}, defaultBands)

	if !res.Weighted.Low.Equal(decimal.RequireFromString("9.6")) {
		t.Errorf("low bucket = %s, want 9.6", res.Weighted.Low)
	}
	if !res.Weighted.Medium.Equal(decimal.RequireFromString("12")) {
		t.Errorf("medium bucket = %s, want 12", res.Weighted.Medium)
	}
	if !res.Weighted.High.Equal(decimal.RequireFromString("18")) {
		t.Errorf("high bucket = %s, want 18", res.Weighted.High)
	}
}

func TestEvaluateContribution_GrantedPassthrough(t *testing.T) {
	// GIVEN: Tier 1 stored as Granted, enough months for tier 2
	// WHEN: Evaluated
	// THEN: Tier 1 stays Granted, tier 2 becomes Eligible

	prior := allNotYet()
	prior[0] = eligibility.StatusGranted

	res := person.EvaluateContribution(person.ContributionInput{
		Assignments: []eligibility.AssignmentRecord{
			span(eligibility.NewDate(2000, time.January, 1), eligibility.Date{}, "1.0"),
		},
		Thresholds: defaultMonths,
		Prior:      prior,
		Today:      eligibility.NewDate(2024, time.June, 1),
	}, defaultBands)

	if res.Tiers[0].Status != eligibility.StatusGranted {
		t.Errorf("tier 1 status = %s, want granted passthrough", res.Tiers[0].Status)
	}
	if res.Tiers[1].Status != eligibility.StatusEligible {
		t.Errorf("tier 2 status = %s, want eligible (293 months >= 240)", res.Tiers[1].Status)
	}
	if res.Tiers[2].Status != eligibility.StatusNotYet {
		t.Errorf("tier 3 status = %s, want not_yet (gated)", res.Tiers[2].Status)
	}
}

func TestEvaluateContribution_NoAssignments(t *testing.T) {
	res := person.EvaluateContribution(person.ContributionInput{
		Thresholds: defaultMonths,
		Today:      eligibility.NewDate(2024, time.June, 1),
	}, defaultBands)

	if res.TotalMonths != 0 {
		t.Errorf("total months = %d, want 0", res.TotalMonths)
	}
	if res.Tiers[0].Status != eligibility.StatusNotYet {
		t.Errorf("tier 1 status = %s, want not_yet", res.Tiers[0].Status)
	}
	if !res.Tiers[0].EligibleOn.IsZero() {
		t.Error("no crossing date should be projected with no history")
	}
}
