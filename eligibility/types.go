/*
Package eligibility provides the core award eligibility calculation engine.

PURPOSE:
  This package contains the shared types and algorithms for deriving
  decoration eligibility from a subject's historical award and service
  records. Whether the subject is a person with annual merit titles or an
  organizational unit with model-unit titles, the same shapes apply:
  a time-ordered history is scanned for streaks and windows, and a derived
  profile is produced.

KEY CONCEPTS IN THIS FILE (types.go):
  - PersonID/UnitID/PositionID: Type-safe identifiers
  - Title: The base annual merit title (first class, second class, or none)
  - TierStatus: The three-state lifecycle of a ranked decoration tier
  - TierState: Per-tier outcome (status, eligibility date, rationale)
  - ApprovalStatus: Workflow state of a raw record (only Approved counts)

DESIGN PRINCIPLES:
  1. Pure derivation: every profile is a pure function of the subject's
     full history plus the previously-persisted Granted flags. Recomputing
     twice with no history change yields identical output.
  2. Absence of data is an outcome, not an error: tiers degrade to NotYet
     with an explanatory rationale instead of failing.
  3. Rank gating: tier N+1 of a ranked decoration is only evaluated once
     tier N has actually been granted. Granted is the one state the engine
     never sets itself; it is advanced externally and read back.
  4. Precision: contribution coefficients use decimal.Decimal so weighted
     service figures never accumulate floating-point drift.

SEE ALSO:
  - records.go: Raw history record types (read-only facts)
  - profile.go: Derived profile types (engine-owned)
  - streak.go: Consecutive-year run detection
  - store.go: Persistence interfaces at the engine boundary
*/
package eligibility

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string
type UnitID string
type PositionID string

// =============================================================================
// TITLES - The base annual merit title
// =============================================================================

// Title is the base annual merit title held for a single year.
// Only the first-class title counts toward streaks and decorations;
// the second-class title is recorded but does not qualify.
type Title string

const (
	TitleNone        Title = ""
	TitleFirstClass  Title = "first_class"
	TitleSecondClass Title = "second_class"
)

// Qualifies reports whether the title counts toward a merit streak.
func (t Title) Qualifies() bool { return t == TitleFirstClass }

// =============================================================================
// APPROVAL STATUS - Workflow state of raw records
// =============================================================================

// ApprovalStatus is the workflow state of a raw record. The approval
// workflow itself is external to the engine; the engine only cares that
// records which have not been approved do not count.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Approved() bool { return s == ApprovalApproved }

// =============================================================================
// TIER STATUS - Ranked decoration lifecycle
// =============================================================================

// TierStatus is the lifecycle state of one tier of a ranked decoration.
//
// The engine moves a tier between NotYet and Eligible on every
// recalculation. Granted is set externally when the decoration is formally
// issued; the engine reads it back (to gate the next tier up) but never
// overwrites it.
type TierStatus string

const (
	StatusNotYet   TierStatus = "not_yet"
	StatusEligible TierStatus = "eligible"
	StatusGranted  TierStatus = "granted"
)

// TierState is the derived outcome for one tier of a ranked decoration.
type TierState struct {
	Status     TierStatus
	EligibleOn Date // zero when no date applies (NotYet without a projection)
	Rationale  string
}

// TierCount is the number of ranked tiers carried by the service-length
// and contribution decorations.
const TierCount = 3

// =============================================================================
// SUBJECTS
// =============================================================================

// Person is the engine-visible slice of a personnel record: identity plus
// the two dates the tenure and contribution calculators depend on.
type Person struct {
	ID          PersonID
	Name        string
	EnlistedOn  Date // zero = unknown; tenure tiers degrade to NotYet
	SeparatedOn Date // zero = still serving
}

// Unit is an organizational unit. Units form a two-level hierarchy for
// the purposes of the model-unit calculator: a parent unit's history
// includes the records of its immediate sub-units.
type Unit struct {
	ID       UnitID
	Name     string
	ParentID UnitID // zero = top-level unit
}
