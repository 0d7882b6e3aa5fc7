/*
Package person implements the individual eligibility calculators.

PURPOSE:
  Three calculators over one person's history, each a pure function from
  ordered records to a structured result:

  AnalyzeAnnual:         first-class title streaks and the 2-year merit /
                         3-year honor citation windows within them
  EvaluateTenure:        calendar-anniversary tiers of the long-service
                         decoration, sequentially rank-gated
  EvaluateContribution:  cumulative assignment months against month
                         thresholds, same gating, plus coefficient-weighted
                         display buckets

  The pure functions know nothing about persistence; recalc.go wires them
  to the eligibility store interfaces and preserves externally-advanced
  Granted statuses across recomputation.

CLUSTER RULES (annual analyzer):
  - A cluster is a fixed-length window at the FRONT of the live streak,
    evaluated as an independent unit. Clusters never share a year;
    consuming one advances strictly past its years.
  - Merit citation: the first 2 streak years, both with an approved
    secondary achievement. If already granted for either year, the cluster
    is consumed and the honor window opens.
  - Honor citation: the next 3 streak years, all with approved
    achievements. Only reachable after a granted merit cluster.
  - A granted honor citation resets the streak baseline: qualifying years
    up to and including the grant year no longer feed new clusters.
  - An unsatisfied cluster blocks: later years are not re-examined for a
    different window placement.

SEE ALSO:
  - rationale.go: Display-string formatting over the structured results
  - eligibility/streak.go: Run detection and the staleness boundary
*/
package person

import (
	"github.com/meritdesk/awards-engine/eligibility"
)

// Window lengths for the two citation clusters.
const (
	MeritWindow = 2
	HonorWindow = 3
)

// =============================================================================
// INPUT / RESULT TYPES
// =============================================================================

// AnnualHistory is the full ordered history the analyzer consumes.
type AnnualHistory struct {
	Awards       []eligibility.AnnualAwardRecord
	Achievements []eligibility.AchievementRecord
}

type ClusterKind string

const (
	ClusterMerit ClusterKind = "merit"
	ClusterHonor ClusterKind = "honor"
)

// Cluster is one evaluated citation window within the live streak.
type Cluster struct {
	Kind  ClusterKind
	Years []int

	// Satisfied means every cluster year has at least one approved
	// secondary achievement. Several achievements in one year satisfy that
	// year once.
	Satisfied    bool
	MissingYears []int

	// Granted means the citation was already formally issued for a year
	// inside this cluster.
	Granted bool
}

// AnnualResult is the structured outcome of the streak analysis. Rationale
// text is produced separately by FormatAnnualRationale.
type AnnualResult struct {
	EvalYear int

	// Lifetime totals over the full history.
	FirstClassCount  int
	AchievementCount int

	// The most recent run of consecutive first-class years (after any
	// honor-citation baseline reset) and whether it still counts at the
	// evaluation year.
	Streak     eligibility.Run
	StreakLive bool

	// Length of the live streak; zero when stale or absent.
	StreakLength int

	Clusters []Cluster

	MeritEligible bool
	HonorEligible bool

	// When the walk stopped because the streak is too short for the next
	// window, NeededYears is how many more consecutive first-class years
	// would complete a NeededKind cluster.
	NeededKind  ClusterKind
	NeededYears int
}

// =============================================================================
// ANALYZER
// =============================================================================

// AnalyzeAnnual derives streak and citation-window eligibility from one
// person's full annual history. Pure and deterministic: identical inputs
// yield identical results.
func AnalyzeAnnual(h AnnualHistory, evalYear int) AnnualResult {
	res := AnnualResult{EvalYear: evalYear}

	achieved := make(map[int]bool)
	for _, a := range h.Achievements {
		if !a.Approval.Approved() {
			continue
		}
		res.AchievementCount++
		achieved[a.Year] = true
	}

	byYear := make(map[int]eligibility.AnnualAwardRecord, len(h.Awards))
	var qualifying []int
	lastHonorYear := 0
	for _, aw := range h.Awards {
		byYear[aw.Year] = aw
		if aw.Title.Qualifies() {
			res.FirstClassCount++
			if aw.Year <= evalYear {
				qualifying = append(qualifying, aw.Year)
			}
		}
		if aw.HonorCitationGranted && aw.Year <= evalYear && aw.Year > lastHonorYear {
			lastHonorYear = aw.Year
		}
	}

	// Honor citation resets the baseline: a person who already holds the
	// top citation starts a fresh streak the following year.
	var baseline []int
	for _, y := range qualifying {
		if y > lastHonorYear {
			baseline = append(baseline, y)
		}
	}

	run, live := eligibility.CurrentRun(baseline, evalYear)
	res.Streak = run
	res.StreakLive = live
	if !live || run.Length() == 0 {
		return res
	}
	res.StreakLength = run.Length()

	// Walk independent windows from the front of the live streak. Merit
	// first; honor only once a merit cluster has been granted; a granted
	// honor cluster restarts the cycle on the remaining years.
	years := run.Years()
	pos := 0
	stage := ClusterMerit
	for {
		window := MeritWindow
		if stage == ClusterHonor {
			window = HonorWindow
		}

		if len(years)-pos < window {
			res.NeededKind = stage
			res.NeededYears = window - (len(years) - pos)
			break
		}

		c := Cluster{
			Kind:  stage,
			Years: append([]int(nil), years[pos:pos+window]...),
		}
		for _, y := range c.Years {
			if !achieved[y] {
				c.MissingYears = append(c.MissingYears, y)
			}
			aw := byYear[y]
			if (stage == ClusterMerit && aw.MeritCitationGranted) ||
				(stage == ClusterHonor && aw.HonorCitationGranted) {
				c.Granted = true
			}
		}
		c.Satisfied = len(c.MissingYears) == 0
		res.Clusters = append(res.Clusters, c)

		if !c.Satisfied {
			// The window is fixed at the front of the streak; an
			// unsatisfied cluster is not re-tried at a later offset.
			break
		}
		if !c.Granted {
			if stage == ClusterMerit {
				res.MeritEligible = true
			} else {
				res.HonorEligible = true
			}
			break
		}

		pos += window
		if stage == ClusterMerit {
			stage = ClusterHonor
		} else {
			stage = ClusterMerit
		}
	}

	return res
}
