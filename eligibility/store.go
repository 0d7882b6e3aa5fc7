/*
store.go - Persistence interfaces at the engine boundary

PURPOSE:
  The engine's boundary is two narrow contracts: a read interface over the
  four raw-record kinds ("all records for subject X, ordered by year/date")
  plus subject lookups, and an idempotent profile upsert per subject per
  calculator. Everything else - record CRUD, approval workflow, import and
  export - belongs to the surrounding application.

GRANTED-FLAG SURVIVAL:
  Profile reads exist so a recalculation can carry the externally-advanced
  Granted statuses forward. Save* implementations must be straight upserts:
  last write wins, keyed by subject id. Concurrent recalculations for the
  same subject are safe because every run is a full re-derivation.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - eligibility/store: in-memory store for tests and demos

SEE ALSO:
  - dispatch: the only consumer of the combined Store interface
*/
package eligibility

import "context"

// =============================================================================
// HISTORY READER - Ordered raw-record queries
// =============================================================================

// HistoryReader exposes the raw-record history the calculators consume.
// All slices come back in ascending year/date order.
type HistoryReader interface {
	// AnnualAwards returns all of a person's annual award records, year asc.
	AnnualAwards(ctx context.Context, id PersonID) ([]AnnualAwardRecord, error)

	// Achievements returns all of a person's secondary achievement records,
	// year asc, regardless of approval status. Filtering to approved is the
	// calculators' concern.
	Achievements(ctx context.Context, id PersonID) ([]AchievementRecord, error)

	// Assignments returns a person's position history, start date asc.
	Assignments(ctx context.Context, id PersonID) ([]AssignmentRecord, error)

	// UnitAwards returns a unit's own annual award records, year asc.
	// Sub-unit records are fetched separately via SubjectReader.SubUnits.
	UnitAwards(ctx context.Context, id UnitID) ([]UnitAwardRecord, error)
}

// =============================================================================
// SUBJECT READER - Person/unit lookups
// =============================================================================

// SubjectReader resolves subjects. Lookups return the relevant NotFound
// sentinel when the id is unknown.
type SubjectReader interface {
	GetPerson(ctx context.Context, id PersonID) (Person, error)
	GetUnit(ctx context.Context, id UnitID) (Unit, error)

	// SubUnits returns the immediate sub-units of a unit, possibly empty.
	SubUnits(ctx context.Context, id UnitID) ([]Unit, error)

	// ListPersonIDs and ListUnitIDs enumerate subjects for bulk
	// recalculation.
	ListPersonIDs(ctx context.Context) ([]PersonID, error)
	ListUnitIDs(ctx context.Context) ([]UnitID, error)
}

// =============================================================================
// PROFILE STORE - Idempotent derived-state upserts
// =============================================================================

// ProfileStore reads and upserts derived profiles. Reads return
// ErrProfileNotFound for subjects never recalculated; Save* methods are
// idempotent upserts keyed by subject id.
type ProfileStore interface {
	AnnualProfile(ctx context.Context, id PersonID) (AnnualProfile, error)
	SaveAnnualProfile(ctx context.Context, p AnnualProfile) error

	ServiceProfile(ctx context.Context, id PersonID) (ServiceProfile, error)
	SaveServiceProfile(ctx context.Context, p ServiceProfile) error

	ContributionProfile(ctx context.Context, id PersonID) (ContributionProfile, error)
	SaveContributionProfile(ctx context.Context, p ContributionProfile) error

	UnitProfile(ctx context.Context, id UnitID) (UnitProfile, error)
	SaveUnitProfile(ctx context.Context, p UnitProfile) error
}

// =============================================================================
// COMBINED STORE
// =============================================================================

// Store is everything a recalculation needs. The sqlite and memory stores
// both satisfy it.
type Store interface {
	HistoryReader
	SubjectReader
	ProfileStore
}
