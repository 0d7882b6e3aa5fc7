/*
Package unit implements the unit-level annual-award streak calculator.

PURPOSE:
  The unit-scoped analogue of the individual streak analyzer, without
  secondary-achievement clustering: walk the unit's approved model-unit
  title years, measure the run of consecutive years reaching the
  evaluation year, and declare escalating commendation eligibility at
  simple streak-length thresholds (3 and 5 years by default).

PARENT UNITS:
  A parent unit's history is the union of its own records and its
  immediate sub-units' records: a year qualifies when any of them holds an
  approved title that year. The union is assembled by the recalculator;
  the analyzer itself only sees qualifying years.

STALENESS:
  Identical boundary to the individual analyzer: a streak is live while
  the evaluation year trails its final year by at most one. A unit whose
  streak stopped short retains no stale eligibility.
*/
package unit

import (
	"fmt"

	"github.com/meritdesk/awards-engine/eligibility"
)

// Default commendation thresholds, in consecutive title years.
var DefaultStreakThresholds = [2]int{3, 5}

// StreakResult is the structured outcome of the unit streak analysis.
type StreakResult struct {
	EvalYear int

	// TitleCount is the number of distinct approved title years on record.
	TitleCount int

	Streak     eligibility.Run
	StreakLive bool

	// Length of the live streak; zero when stale or absent.
	StreakLength int

	Commendation1Eligible bool
	Commendation2Eligible bool
}

// AnalyzeStreak derives commendation eligibility from a unit's approved
// title years. Pure and deterministic; records and achievements from
// sub-units must already be merged into the input.
func AnalyzeStreak(records []eligibility.UnitAwardRecord, evalYear int, thresholds [2]int) StreakResult {
	res := StreakResult{EvalYear: evalYear}

	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		if !r.Approval.Approved() || seen[r.Year] {
			continue
		}
		seen[r.Year] = true
		years = append(years, r.Year)
		if r.Year <= evalYear {
			res.TitleCount++
		}
	}

	run, live := eligibility.CurrentRun(years, evalYear)
	res.Streak = run
	res.StreakLive = live
	if !live {
		return res
	}

	res.StreakLength = run.Length()
	res.Commendation1Eligible = res.StreakLength >= thresholds[0]
	res.Commendation2Eligible = res.StreakLength >= thresholds[1]
	return res
}

// FormatStreakRationale renders the analysis as one display string.
func FormatStreakRationale(res StreakResult, thresholds [2]int) string {
	switch {
	case res.Streak.Length() == 0:
		return fmt.Sprintf("no approved model-unit title years as of %d", res.EvalYear)
	case !res.StreakLive:
		return fmt.Sprintf("title streak %d-%d lapsed before %d; no current eligibility",
			res.Streak.Start, res.Streak.End, res.EvalYear)
	case res.Commendation2Eligible:
		return fmt.Sprintf("title streak %d-%d (%d years); second commendation threshold (%d years) met",
			res.Streak.Start, res.Streak.End, res.StreakLength, thresholds[1])
	case res.Commendation1Eligible:
		return fmt.Sprintf("title streak %d-%d (%d years); first commendation threshold (%d years) met, %d more for the second",
			res.Streak.Start, res.Streak.End, res.StreakLength, thresholds[0], thresholds[1]-res.StreakLength)
	default:
		return fmt.Sprintf("title streak %d-%d (%d years); %d more consecutive years for the first commendation",
			res.Streak.Start, res.Streak.End, res.StreakLength, thresholds[0]-res.StreakLength)
	}
}
