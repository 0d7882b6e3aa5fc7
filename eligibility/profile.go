/*
profile.go - Derived profile types (engine-owned)

PURPOSE:
  Profiles are the engine's only output: one row per subject per
  calculator, upserted on every recalculation. They are never hand-edited,
  with one exception: the TierStatus fields on the service and contribution
  profiles may be advanced to Granted by the external issuing workflow.
  The engine reads those flags back and preserves them across recomputation.

IDEMPOTENCE CONTRACT:
  A profile is a pure function of (full history, previously-persisted
  Granted flags, evaluation date). Recomputing twice with no intervening
  change yields an identical profile.

SEE ALSO:
  - records.go: The facts profiles are derived from
  - store.go: Profile upsert interface
*/
package eligibility

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ANNUAL PROFILE - Per person, from the streak/cluster analyzer
// =============================================================================

// AnnualProfile is the derived state of a person's annual-award streak.
type AnnualProfile struct {
	PersonID PersonID

	// Lifetime totals over the full history.
	FirstClassCount  int
	AchievementCount int

	// Length of the live streak; zero when the streak is stale or absent.
	StreakLength int

	MeritCitationEligible bool
	HonorCitationEligible bool

	Rationale  string
	ComputedAt Date
}

// =============================================================================
// SERVICE PROFILE - Per person, tenure tiers
// =============================================================================

// ServiceProfile holds the three ranked tiers of the long-service
// decoration. Tiers[0] is the lowest tier; Tiers[n+1] is gated on
// Tiers[n] being Granted.
type ServiceProfile struct {
	PersonID   PersonID
	Tiers      [TierCount]TierState
	ComputedAt Date
}

// =============================================================================
// CONTRIBUTION PROFILE - Per person, weighted-service tiers
// =============================================================================

// WeightBuckets splits coefficient-weighted service months into three
// display bands by position responsibility. Purely informational: bucketing
// never affects eligibility status.
type WeightBuckets struct {
	Low    decimal.Decimal
	Medium decimal.Decimal
	High   decimal.Decimal
}

// ContributionProfile holds the three ranked tiers of the contribution
// decoration plus the raw cumulative month count the thresholds compare
// against.
type ContributionProfile struct {
	PersonID    PersonID
	TotalMonths int
	Weighted    WeightBuckets
	Tiers       [TierCount]TierState
	ComputedAt  Date
}

// =============================================================================
// UNIT PROFILE - Per unit, model-unit streak
// =============================================================================

// UnitProfile is the derived state of a unit's model-unit streak.
type UnitProfile struct {
	UnitID UnitID

	TitleCount   int
	StreakLength int

	// Escalating commendations at streak lengths 3 and 5.
	Commendation1Eligible bool
	Commendation2Eligible bool

	Rationale  string
	ComputedAt Date
}
