/*
errors.go - Centralized error types for the eligibility engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  The propagation policy is deliberately narrow: "not enough data yet" is
  never an error (tiers degrade to NotYet with a rationale); only missing
  subjects and store failures propagate.

ERROR CATEGORIES:
  1. Missing subject - fatal to one invocation, no profile written
  2. Write-path invariant violations - surfaced by the stores
  3. Recalculation failures - wrapped with subject context so the
     dispatcher can log without losing the cause

USAGE:
  Callers distinguish categories with errors.Is:

    if eligibility.IsNotFound(err) {
        // 404, don't retry
    }

SEE ALSO:
  - store.go: Interfaces whose implementations return these
  - dispatch: recompute-or-log policy built on RecalcError
*/
package eligibility

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPersonNotFound is returned when a person id has no record in the
	// persistence layer. Fatal to that recalculation; no profile is written.
	ErrPersonNotFound = errors.New("person not found")

	// ErrUnitNotFound is the unit analogue of ErrPersonNotFound.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrProfileNotFound is returned by profile reads when the subject has
	// never been recalculated. Callers treat it as "no prior Granted flags".
	ErrProfileNotFound = errors.New("profile not found")

	// ErrDuplicateYear is returned when inserting a second annual record for
	// the same subject and year. Records are unique per (subject, year).
	ErrDuplicateYear = errors.New("record already exists for this year")

	// ErrOpenAssignmentExists is returned by the assignment write path when a
	// person already holds an open-ended assignment. At most one span per
	// person may have no end date.
	ErrOpenAssignmentExists = errors.New("person already has an open assignment")
)

// =============================================================================
// STRUCTURED ERRORS - Carry subject context
// =============================================================================

// RecalcError wraps a failed recalculation with the subject it was for.
// The dispatcher logs these without failing the triggering CRUD write.
type RecalcError struct {
	Calculator string // "annual", "service", "contribution", "unit"
	Subject    string
	Err        error
}

func (e *RecalcError) Error() string {
	return fmt.Sprintf("recalculation failed: %s for %s: %v", e.Calculator, e.Subject, e.Err)
}

func (e *RecalcError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing subject or
// profile.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrUnitNotFound) ||
		errors.Is(err, ErrProfileNotFound)
}

// IsConflict reports whether the error is a write-path invariant violation
// caused by client input.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateYear) ||
		errors.Is(err, ErrOpenAssignmentExists)
}
