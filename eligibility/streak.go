/*
streak.go - Consecutive-year run detection

PURPOSE:
  The one algorithm every calculator shares: given the ascending list of
  qualifying years, find maximal runs of consecutive years, and decide
  whether the most recent run is still "live" at the evaluation year.

STALENESS:
  A run is live while the evaluation year is at most MaxStreakLag years
  past the run's final year. With MaxStreakLag = 1, a run ending in 2022
  is still live when evaluated in 2023 (the current year's award may simply
  not have been decided yet) but is stale from 2024 on. The same boundary
  applies to individual and unit streaks.

SEE ALSO:
  - person/annual.go: Cluster evaluation over a live run
  - unit/streak.go: Commendation tiers from run length
*/
package eligibility

import "sort"

// MaxStreakLag is how many years the evaluation year may trail a run's
// final year before the run stops counting.
const MaxStreakLag = 1

// =============================================================================
// RUN - A maximal stretch of consecutive years
// =============================================================================

type Run struct {
	Start int // first year, inclusive
	End   int // last year, inclusive
}

func (r Run) Length() int {
	if r.Start == 0 && r.End == 0 {
		return 0
	}
	return r.End - r.Start + 1
}

// Years expands the run into its individual years, ascending.
func (r Run) Years() []int {
	if r.Length() == 0 {
		return nil
	}
	years := make([]int, 0, r.Length())
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}

func (r Run) Contains(year int) bool {
	return r.Length() > 0 && year >= r.Start && year <= r.End
}

// =============================================================================
// RUN DETECTION
// =============================================================================

// Runs splits a list of years into maximal consecutive runs. The input
// need not be sorted or unique; duplicates collapse.
func Runs(years []int) []Run {
	if len(years) == 0 {
		return nil
	}

	sorted := append([]int(nil), years...)
	sort.Ints(sorted)

	var runs []Run
	current := Run{Start: sorted[0], End: sorted[0]}
	for _, y := range sorted[1:] {
		switch {
		case y == current.End: // duplicate year
		case y == current.End+1:
			current.End = y
		default:
			runs = append(runs, current)
			current = Run{Start: y, End: y}
		}
	}
	return append(runs, current)
}

// CurrentRun returns the most recent run among the given years, restricted
// to years not after evalYear, and whether that run is live at evalYear.
// A run that stopped more than MaxStreakLag years before the evaluation
// year is returned with live=false: it contributes no current streak and
// no new eligibility.
func CurrentRun(years []int, evalYear int) (run Run, live bool) {
	var bounded []int
	for _, y := range years {
		if y <= evalYear {
			bounded = append(bounded, y)
		}
	}

	runs := Runs(bounded)
	if len(runs) == 0 {
		return Run{}, false
	}

	last := runs[len(runs)-1]
	return last, evalYear-last.End <= MaxStreakLag
}
