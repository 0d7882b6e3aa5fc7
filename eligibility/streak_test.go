package eligibility_test

import (
	"testing"

	"github.com/meritdesk/awards-engine/eligibility"
)

// =============================================================================
// RUN DETECTION TESTS
// =============================================================================

func TestRuns_SplitsMaximalConsecutiveRuns(t *testing.T) {
	// GIVEN: Years with a gap and a duplicate, out of order
	// WHEN: Runs is computed
	// THEN: Two maximal runs, duplicates collapsed

	runs := eligibility.Runs([]int{2021, 2019, 2018, 2021, 2023, 2022})

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %v", len(runs), runs)
	}
	if runs[0] != (eligibility.Run{Start: 2018, End: 2019}) {
		t.Errorf("first run = %+v, want 2018-2019", runs[0])
	}
	if runs[1] != (eligibility.Run{Start: 2021, End: 2023}) {
		t.Errorf("second run = %+v, want 2021-2023", runs[1])
	}
}

func TestRuns_Empty(t *testing.T) {
	if runs := eligibility.Runs(nil); runs != nil {
		t.Errorf("expected nil for empty input, got %v", runs)
	}
}

func TestRun_Length(t *testing.T) {
	if got := (eligibility.Run{}).Length(); got != 0 {
		t.Errorf("zero run length = %d, want 0", got)
	}
	if got := (eligibility.Run{Start: 2020, End: 2020}).Length(); got != 1 {
		t.Errorf("single-year run length = %d, want 1", got)
	}
	if got := (eligibility.Run{Start: 2019, End: 2023}).Length(); got != 5 {
		t.Errorf("run length = %d, want 5", got)
	}
}

// =============================================================================
// STALENESS BOUNDARY TESTS
// =============================================================================

func TestCurrentRun_LiveWithinLag(t *testing.T) {
	// GIVEN: A run ending one year before the evaluation year
	// WHEN: CurrentRun is computed
	// THEN: The run is still live (the current year may not be decided yet)

	run, live := eligibility.CurrentRun([]int{2021, 2022, 2023}, 2024)

	if !live {
		t.Error("run ending at evalYear-1 should be live")
	}
	if run.Length() != 3 {
		t.Errorf("run length = %d, want 3", run.Length())
	}
}

func TestCurrentRun_StaleBeyondLag(t *testing.T) {
	// GIVEN: A run ending two years before the evaluation year
	// WHEN: CurrentRun is computed
	// THEN: The run is returned but no longer live

	run, live := eligibility.CurrentRun([]int{2021, 2022}, 2024)

	if live {
		t.Error("run ending at evalYear-2 should be stale")
	}
	if run != (eligibility.Run{Start: 2021, End: 2022}) {
		t.Errorf("run = %+v, want 2021-2022", run)
	}
}

func TestCurrentRun_IgnoresFutureYears(t *testing.T) {
	// GIVEN: A record year after the evaluation year
	// WHEN: CurrentRun is computed at the earlier year
	// THEN: The future year does not participate

	run, live := eligibility.CurrentRun([]int{2022, 2023, 2026}, 2024)

	if !live {
		t.Error("2022-2023 should still be live at 2024")
	}
	if run.End != 2023 {
		t.Errorf("run end = %d, want 2023", run.End)
	}
}

func TestCurrentRun_PicksMostRecentRun(t *testing.T) {
	// GIVEN: An older long run and a newer short run
	// WHEN: CurrentRun is computed
	// THEN: Only the most recent run counts

	run, live := eligibility.CurrentRun([]int{2015, 2016, 2017, 2018, 2023}, 2024)

	if !live {
		t.Error("the 2023 run should be live at 2024")
	}
	if run != (eligibility.Run{Start: 2023, End: 2023}) {
		t.Errorf("run = %+v, want 2023-2023", run)
	}
}

func TestCurrentRun_NoYears(t *testing.T) {
	run, live := eligibility.CurrentRun(nil, 2024)
	if live || run.Length() != 0 {
		t.Errorf("expected empty dead run, got %+v live=%v", run, live)
	}
}
