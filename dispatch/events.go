/*
Package dispatch routes raw-record changes to profile recalculations.

PURPOSE:
  Every write path that touches a raw record (create, update, approve,
  delete) publishes a RecordChanged event instead of calling calculators
  directly. One dispatcher decides what must be recomputed, so the
  recompute-trigger logic lives in exactly one place.

FAILURE POLICY:
  A recalculation triggered as a side effect of a CRUD write must never
  fail that write: the dispatcher catches the error, logs it, counts it,
  and leaves the system consistent-but-stale until the next
  recalculation. User-initiated recalculations (the explicit endpoints and
  the bulk sweep) report errors to their caller instead.
*/
package dispatch

import (
	"github.com/meritdesk/awards-engine/eligibility"
)

// RecordKind identifies which raw-record store changed.
type RecordKind string

const (
	KindAnnualAward RecordKind = "annual_award"
	KindAchievement RecordKind = "achievement"
	KindAssignment  RecordKind = "assignment"
	KindPersonFacts RecordKind = "person_facts" // enlistment/separation dates
	KindUnitAward   RecordKind = "unit_award"
)

// RecordChanged is the domain event published after a raw-record mutation
// has committed. Exactly one of PersonID/UnitID is set, matching the kind.
type RecordChanged struct {
	Kind     RecordKind
	PersonID eligibility.PersonID
	UnitID   eligibility.UnitID
}

func AnnualAwardChanged(id eligibility.PersonID) RecordChanged {
	return RecordChanged{Kind: KindAnnualAward, PersonID: id}
}

func AchievementChanged(id eligibility.PersonID) RecordChanged {
	return RecordChanged{Kind: KindAchievement, PersonID: id}
}

func AssignmentChanged(id eligibility.PersonID) RecordChanged {
	return RecordChanged{Kind: KindAssignment, PersonID: id}
}

func PersonFactsChanged(id eligibility.PersonID) RecordChanged {
	return RecordChanged{Kind: KindPersonFacts, PersonID: id}
}

func UnitAwardChanged(id eligibility.UnitID) RecordChanged {
	return RecordChanged{Kind: KindUnitAward, UnitID: id}
}
