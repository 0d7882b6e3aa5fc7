/*
records.go - Raw history record types

PURPOSE:
  These are the already-validated, already-persisted facts the engine
  consumes. They are created and approved by the surrounding workflow
  (record CRUD, proposal approval) and are strictly read-only here: the
  engine reads full per-subject histories and writes back only derived
  profiles, never the records themselves.

RECORD KINDS:
  AnnualAwardRecord:  one per person per year; the base merit title plus
                      the grant flags for the two higher citations
  AchievementRecord:  research/innovation achievements; only approved ones
                      satisfy a cluster year's secondary requirement
  AssignmentRecord:   position assignment spans with the contribution
                      coefficient copied at assignment time
  UnitAwardRecord:    one per unit per year; the model-unit title

SEE ALSO:
  - profile.go: What the engine derives from these
  - store.go: How histories are read
*/
package eligibility

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ANNUAL AWARD RECORD - Per person, per year
// =============================================================================

// AnnualAwardRecord is a person's merit outcome for a single year.
// Unique per (PersonID, Year); uniqueness is enforced by the store.
//
// The citation grant flags record that a higher decoration was formally
// issued covering this year. They are written by the issuing workflow and
// consumed here to recognize already-satisfied clusters and to reset the
// streak baseline after an honor citation.
type AnnualAwardRecord struct {
	ID       string
	PersonID PersonID
	Year     int
	Title    Title

	MeritCitationGranted bool
	MeritCitationRef     string
	HonorCitationGranted bool
	HonorCitationRef     string
}

// AchievementRecord is an approved-or-pending secondary achievement for a
// given year. Several achievements may exist for one year; a year's
// secondary requirement is satisfied once, regardless of how many.
type AchievementRecord struct {
	ID       string
	PersonID PersonID
	Year     int
	Kind     string
	Approval ApprovalStatus
}

// =============================================================================
// POSITION ASSIGNMENT RECORD - Per person
// =============================================================================

// AssignmentRecord is one span of a person's position history. The
// coefficient is copied from the position at assignment time, so later
// position edits never retroactively change history. End is zero for the
// currently-held assignment; the assignment-change workflow guarantees at
// most one open span per person.
type AssignmentRecord struct {
	ID          string
	PersonID    PersonID
	PositionID  PositionID
	Coefficient decimal.Decimal
	Start       Date
	End         Date // zero = currently held
}

// Months returns the whole-month span of the assignment. An open span ends
// at asOf.
func (a AssignmentRecord) Months(asOf Date) int {
	end := a.End
	if end.IsZero() {
		end = asOf
	}
	return MonthsBetween(a.Start, end)
}

// =============================================================================
// UNIT AWARD RECORD - Per unit, per year
// =============================================================================

// UnitAwardRecord is a unit's model-unit title outcome for a single year.
// Unique per (UnitID, Year). Only approved records count toward streaks.
type UnitAwardRecord struct {
	ID       string
	UnitID   UnitID
	Year     int
	Title    string
	Approval ApprovalStatus
}
