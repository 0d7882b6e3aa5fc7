/*
rationale.go - Display-string formatting over structured results

PURPOSE:
  Rationales are deterministic, human-readable derivations of the
  structured results: which years satisfied which condition and what
  remains outstanding. They are display-only and never drive control flow,
  which keeps the calculators testable independent of wording.
*/
package person

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meritdesk/awards-engine/eligibility"
)

// =============================================================================
// ANNUAL STREAK RATIONALE
// =============================================================================

// FormatAnnualRationale renders the streak analysis as one display string.
// Deterministic: the same result always formats identically.
func FormatAnnualRationale(res AnnualResult) string {
	var parts []string

	switch {
	case res.Streak.Length() == 0:
		parts = append(parts, fmt.Sprintf("no first-class title streak on record as of %d", res.EvalYear))
	case !res.StreakLive:
		parts = append(parts, fmt.Sprintf("streak %s lapsed before %d; no current eligibility",
			yearRange(res.Streak.Start, res.Streak.End), res.EvalYear))
	default:
		parts = append(parts, fmt.Sprintf("first-class streak %s (%d years)",
			yearRange(res.Streak.Start, res.Streak.End), res.StreakLength))
	}

	for _, c := range res.Clusters {
		parts = append(parts, clusterLine(c))
	}

	if res.NeededYears > 0 {
		parts = append(parts, fmt.Sprintf("%s citation window needs %s more consecutive first-class %s",
			c8n(res.NeededKind), strconv.Itoa(res.NeededYears), plural(res.NeededYears, "year", "years")))
	}

	return strings.Join(parts, "; ")
}

func clusterLine(c Cluster) string {
	window := fmt.Sprintf("%s citation window %s", c8n(c.Kind), yearRange(c.Years[0], c.Years[len(c.Years)-1]))

	switch {
	case !c.Satisfied:
		return fmt.Sprintf("%s: missing approved achievement in %s", window, yearList(c.MissingYears))
	case c.Granted:
		return fmt.Sprintf("%s: already granted", window)
	default:
		return fmt.Sprintf("%s: approved achievement in every year; eligible", window)
	}
}

func c8n(k ClusterKind) string {
	if k == ClusterHonor {
		return "honor"
	}
	return "merit"
}

func yearRange(from, to int) string {
	if from == to {
		return strconv.Itoa(from)
	}
	return fmt.Sprintf("%d-%d", from, to)
}

func yearList(years []int) string {
	strs := make([]string, len(years))
	for i, y := range years {
		strs[i] = strconv.Itoa(y)
	}
	return strings.Join(strs, ", ")
}

// =============================================================================
// TIER RATIONALES - Shared by the tenure and contribution calculators
// =============================================================================

func noEnlistmentRationale(tier int) string {
	return fmt.Sprintf("tier %d: enlistment date unknown; eligibility cannot be projected", tier)
}

func grantedRationale(tier int) string {
	return fmt.Sprintf("tier %d: already granted", tier)
}

func gatedRationale(tier int) string {
	return fmt.Sprintf("tier %d: awaiting grant of tier %d", tier, tier-1)
}

func dueRationale(tier, years int, anniversary eligibility.Date) string {
	return fmt.Sprintf("tier %d: %d-year anniversary reached on %s", tier, years, anniversary.String())
}

func overdueRationale(tier int, anniversary eligibility.Date, yearsOverdue int) string {
	return fmt.Sprintf("tier %d: overdue since %s (%d %s); pending issue", tier,
		anniversary.String(), yearsOverdue, plural(yearsOverdue, "year", "years"))
}

func yearsRemainingRationale(tier, years int) string {
	return fmt.Sprintf("tier %d: %d %s remaining", tier, years, plural(years, "year", "years"))
}

func monthsMetRationale(tier, months, threshold int) string {
	return fmt.Sprintf("tier %d: %d service months on record (threshold %d)", tier, months, threshold)
}

func monthsRemainingRationale(tier, monthsShort int) string {
	return fmt.Sprintf("tier %d: %s remaining", tier, yearsMonths(monthsShort))
}

// yearsMonths renders a month count as "N years M months", dropping zero
// components.
func yearsMonths(months int) string {
	years := months / 12
	rem := months % 12
	switch {
	case years == 0:
		return fmt.Sprintf("%d %s", rem, plural(rem, "month", "months"))
	case rem == 0:
		return fmt.Sprintf("%d %s", years, plural(years, "year", "years"))
	default:
		return fmt.Sprintf("%d %s %d %s", years, plural(years, "year", "years"), rem, plural(rem, "month", "months"))
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
