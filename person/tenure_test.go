package person_test

import (
	"strings"
	"testing"
	"time"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/person"
)

var defaultYears = [eligibility.TierCount]int{10, 20, 30}

func allNotYet() [eligibility.TierCount]eligibility.TierStatus {
	return [eligibility.TierCount]eligibility.TierStatus{
		eligibility.StatusNotYet, eligibility.StatusNotYet, eligibility.StatusNotYet,
	}
}

func TestEvaluateTenure_EligibleInAnniversaryYear(t *testing.T) {
	// GIVEN: Enlistment 2010-03-01, tier-1 threshold 10 years
	// WHEN: Evaluated on 2020-06-01 (the anniversary's calendar year)
	// THEN: Tier 1 is Eligible with eligibility date 2020-03-01

	out := person.EvaluateTenure(person.TenureInput{
		EnlistedOn: eligibility.NewDate(2010, time.March, 1),
		Thresholds: defaultYears,
		Prior:      allNotYet(),
		Today:      eligibility.NewDate(2020, time.June, 1),
	})

	if out[0].Status != eligibility.StatusEligible {
		t.Fatalf("tier 1 status = %s, want eligible", out[0].Status)
	}
	if out[0].EligibleOn.String() != "2020-03-01" {
		t.Errorf("tier 1 eligible on = %s, want 2020-03-01", out[0].EligibleOn)
	}
}

func TestEvaluateTenure_OverdueStaysEligible(t *testing.T) {
	// GIVEN: The same person
	// WHEN: Evaluated in 2021, a year past the anniversary
	// THEN: Tier 1 remains Eligible (never reverts to NotYet) with an
	//       overdue rationale

	out := person.EvaluateTenure(person.TenureInput{
		EnlistedOn: eligibility.NewDate(2010, time.March, 1),
		Thresholds: defaultYears,
		Prior:      allNotYet(),
		Today:      eligibility.NewDate(2021, time.June, 1),
	})

	if out[0].Status != eligibility.StatusEligible {
		t.Fatalf("tier 1 status = %s, want eligible", out[0].Status)
	}
	if !strings.Contains(out[0].Rationale, "overdue") {
		t.Errorf("rationale = %q, want overdue wording", out[0].Rationale)
	}
}

func TestEvaluateTenure_NotYetBeforeAnniversary(t *testing.T) {
	out := person.EvaluateTenure(person.TenureInput{
		EnlistedOn: eligibility.NewDate(2015, time.March, 1),
		Thresholds: defaultYears,
		Prior:      allNotYet(),
		Today:      eligibility.NewDate(2020, time.June, 1),
	})

	if out[0].Status != eligibility.StatusNotYet {
		t.Fatalf("tier 1 status = %s, want not_yet", out[0].Status)
	}
	if !strings.Contains(out[0].Rationale, "5 years remaining") {
		t.Errorf("rationale = %q, want years remaining", out[0].Rationale)
	}
}

func TestEvaluateTenure_SequentialGating(t *testing.T) {
	// GIVEN: 25 years of service but tier 1 not yet granted
	// WHEN: Evaluated
	// THEN: Tier 1 is Eligible; tier 2 is gated despite its anniversary
	//       having passed; tier 3 is gated behind tier 2

	out := person.EvaluateTenure(person.TenureInput{
		EnlistedOn: eligibility.NewDate(1999, time.January, 1),
		Thresholds: defaultYears,
		Prior:      allNotYet(),
		Today:      eligibility.NewDate(2024, time.June, 1),
	})

	if out[0].Status != eligibility.StatusEligible {
		t.Errorf("tier 1 status = %s, want eligible", out[0].Status)
	}
	if out[1].Status != eligibility.StatusNotYet {
		t.Errorf("tier 2 status = %s, want not_yet (gated)", out[1].Status)
	}
	if !strings.Contains(out[1].Rationale, "awaiting grant of tier 1") {
		t.Errorf("tier 2 rationale = %q, want gating wording", out[1].Rationale)
	}
	if !out[1].EligibleOn.IsZero() {
		t.Error("a gated tier must not project an eligibility date")
	}
}

func TestEvaluateTenure_GateOpensAfterGrant(t *testing.T) {
	// GIVEN: Tier 1 stored as Granted
	// WHEN: Evaluated at 25 years of service
	// THEN: Tier 1 passes through as Granted; tier 2 becomes Eligible

	prior := allNotYet()
	prior[0] = eligibility.StatusGranted

	out := person.EvaluateTenure(person.TenureInput{
		EnlistedOn: eligibility.NewDate(1999, time.January, 1),
		Thresholds: defaultYears,
		Prior:      prior,
		Today:      eligibility.NewDate(2024, time.June, 1),
	})

	if out[0].Status != eligibility.StatusGranted {
		t.Errorf("tier 1 status = %s, want granted passthrough", out[0].Status)
	}
	if out[1].Status != eligibility.StatusEligible {
		t.Errorf("tier 2 status = %s, want eligible", out[1].Status)
	}
	if out[2].Status != eligibility.StatusNotYet {
		t.Errorf("tier 3 status = %s, want not_yet (gated)", out[2].Status)
	}
}

func TestEvaluateTenure_UnknownEnlistment(t *testing.T) {
	// GIVEN: No enlistment date on record
	// WHEN: Evaluated
	// THEN: Every tier is NotYet with an explanatory rationale, no error

	out := person.EvaluateTenure(person.TenureInput{
		Thresholds: defaultYears,
		Prior:      allNotYet(),
		Today:      eligibility.NewDate(2024, time.June, 1),
	})

	for i, tier := range out {
		if tier.Status != eligibility.StatusNotYet {
			t.Errorf("tier %d status = %s, want not_yet", i+1, tier.Status)
		}
		if !strings.Contains(tier.Rationale, "enlistment date unknown") {
			t.Errorf("tier %d rationale = %q, want unknown-enlistment wording", i+1, tier.Rationale)
		}
		if !tier.EligibleOn.IsZero() {
			t.Errorf("tier %d should not project a date", i+1)
		}
	}
}
