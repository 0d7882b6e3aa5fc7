/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Seeds the database with realistic scenarios that demonstrate the
  eligibility rules: citation clusters, tiered decorations, contribution
  thresholds, unit streaks. Each scenario loads a small cast of subjects
  and their histories, then recalculates everything so profiles are
  immediately inspectable.

SCENARIOS:
  merit-cluster:     A merit citation cluster closing this year
  honor-progression: Merit granted, honor window in progress
  tenure-tiers:      Three persons at different anniversaries
  contribution:      High-coefficient assignments crossing a threshold
  unit-streak:       A parent unit carried by its sub-unit's titles

NOTE:
  Scenarios write through the same store methods the API uses but skip
  event dispatch; a single bulk recalculation at the end settles all
  derived profiles.

SEE ALSO:
  - handlers.go: LoadScenario endpoint
  - dispatch/bulk.go: The settling recalculation
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/store/sqlite"
)

// =============================================================================
// SCENARIO CATALOG
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "merit-cluster",
		Name:        "Merit citation cluster",
		Description: "Two consecutive first-class years with approved achievements; the merit citation becomes proposable.",
	},
	{
		ID:          "honor-progression",
		Name:        "Honor citation progression",
		Description: "A granted merit citation followed by a three-year honor window still being earned.",
	},
	{
		ID:          "tenure-tiers",
		Name:        "Length-of-service tiers",
		Description: "Three persons at 9, 10, and 22 years of service showing the three tier states.",
	},
	{
		ID:          "contribution",
		Name:        "Contribution decoration",
		Description: "A career of assignments whose weighted months cross the first threshold.",
	},
	{
		ID:          "unit-streak",
		Name:        "Unit title streak",
		Description: "A battalion with a three-year streak and a parent brigade carried by it.",
	},
}

type scenarioLoader func(ctx context.Context, s *sqlite.Store, year int) error

var scenarioLoaders = map[string]scenarioLoader{
	"merit-cluster":     loadMeritCluster,
	"honor-progression": loadHonorProgression,
	"tenure-tiers":      loadTenureTiers,
	"contribution":      loadContribution,
	"unit-streak":       loadUnitStreak,
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the demo scenario catalog.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": current})
}

// LoadScenario seeds a demo scenario and recalculates all profiles.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	loader, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	year := time.Now().UTC().Year()
	if err := loader(ctx, h.Store, year); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	result, err := h.Dispatcher.RecalculateAll(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to recalculate after load", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"scenario_id": req.ScenarioID,
		"recalc": BulkResultDTO{
			Persons:   result.Persons,
			Units:     result.Units,
			Succeeded: result.Succeeded,
			Failed:    result.Failed,
			Errors:    result.Errors,
		},
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadMeritCluster(ctx context.Context, s *sqlite.Store, year int) error {
	p := eligibility.Person{
		ID:         "demo-chen",
		Name:       "Chen Wei",
		EnlistedOn: eligibility.NewDate(year-6, time.September, 1),
	}
	if err := s.SavePerson(ctx, p); err != nil {
		return err
	}

	// Two consecutive first-class years closing at the current year.
	for _, y := range []int{year - 1, year} {
		if err := seedAward(ctx, s, p.ID, y, eligibility.TitleFirstClass); err != nil {
			return err
		}
		if err := seedAchievement(ctx, s, p.ID, y, "field innovation", eligibility.ApprovalApproved); err != nil {
			return err
		}
	}
	// An earlier second-class year that does not count.
	return seedAward(ctx, s, p.ID, year-2, eligibility.TitleSecondClass)
}

func loadHonorProgression(ctx context.Context, s *sqlite.Store, year int) error {
	p := eligibility.Person{
		ID:         "demo-ivanova",
		Name:       "Maria Ivanova",
		EnlistedOn: eligibility.NewDate(year-9, time.March, 15),
	}
	if err := s.SavePerson(ctx, p); err != nil {
		return err
	}

	// Five-year live streak: the first two years carry a granted merit
	// citation, the next three are working toward the honor citation.
	for i := 4; i >= 0; i-- {
		y := year - i
		if err := seedAward(ctx, s, p.ID, y, eligibility.TitleFirstClass); err != nil {
			return err
		}
		if err := seedAchievement(ctx, s, p.ID, y, "training excellence", eligibility.ApprovalApproved); err != nil {
			return err
		}
	}

	// Mark the merit citation granted on the second streak year.
	records, err := s.AnnualAwards(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Year == year-3 {
			rec.MeritCitationGranted = true
			rec.MeritCitationRef = "order 47/demo"
			if err := s.UpdateAnnualAward(ctx, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadTenureTiers(ctx context.Context, s *sqlite.Store, year int) error {
	persons := []eligibility.Person{
		{ID: "demo-novak", Name: "Petr Novak",
			EnlistedOn: eligibility.NewDate(year-9, time.June, 1)},
		{ID: "demo-silva", Name: "Ana Silva",
			EnlistedOn: eligibility.NewDate(year-10, time.June, 1)},
		{ID: "demo-okafor", Name: "James Okafor",
			EnlistedOn: eligibility.NewDate(year-22, time.June, 1)},
	}
	for _, p := range persons {
		if err := s.SavePerson(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func loadContribution(ctx context.Context, s *sqlite.Store, year int) error {
	p := eligibility.Person{
		ID:         "demo-haddad",
		Name:       "Leila Haddad",
		EnlistedOn: eligibility.NewDate(year-12, time.January, 10),
	}
	if err := s.SavePerson(ctx, p); err != nil {
		return err
	}

	standard := sqlite.Position{
		ID: "demo-instructor", Name: "Instructor",
		ContributionGroup: "training", Coefficient: decimal.NewFromInt(1),
	}
	elevated := sqlite.Position{
		ID: "demo-flight-lead", Name: "Flight Lead",
		ContributionGroup: "operations", Coefficient: decimal.RequireFromString("1.6"),
	}
	for _, pos := range []sqlite.Position{standard, elevated} {
		if err := s.SavePosition(ctx, pos); err != nil {
			return err
		}
	}

	// Seven standard years then an open elevated assignment.
	closed := eligibility.AssignmentRecord{
		ID:          uuid.NewString(),
		PersonID:    p.ID,
		PositionID:  standard.ID,
		Coefficient: standard.Coefficient,
		Start:       eligibility.NewDate(year-12, time.January, 10),
		End:         eligibility.NewDate(year-5, time.January, 10),
	}
	if err := s.CreateAssignment(ctx, closed); err != nil {
		return err
	}
	open := eligibility.AssignmentRecord{
		ID:          uuid.NewString(),
		PersonID:    p.ID,
		PositionID:  elevated.ID,
		Coefficient: elevated.Coefficient,
		Start:       eligibility.NewDate(year-5, time.January, 10),
	}
	return s.CreateAssignment(ctx, open)
}

func loadUnitStreak(ctx context.Context, s *sqlite.Store, year int) error {
	brigade := eligibility.Unit{ID: "demo-brigade", Name: "3rd Demo Brigade"}
	battalion := eligibility.Unit{
		ID: "demo-battalion", Name: "1st Demo Battalion", ParentID: brigade.ID,
	}
	for _, u := range []eligibility.Unit{brigade, battalion} {
		if err := s.SaveUnit(ctx, u); err != nil {
			return err
		}
	}

	// Battalion: three approved consecutive years ending last year.
	for i := 3; i >= 1; i-- {
		rec := eligibility.UnitAwardRecord{
			ID:       uuid.NewString(),
			UnitID:   battalion.ID,
			Year:     year - i,
			Title:    "model unit",
			Approval: eligibility.ApprovalApproved,
		}
		if err := s.CreateUnitAward(ctx, rec); err != nil {
			return err
		}
	}

	// Brigade: one year of its own, inside the battalion's run.
	rec := eligibility.UnitAwardRecord{
		ID:       uuid.NewString(),
		UnitID:   brigade.ID,
		Year:     year - 2,
		Title:    "model unit",
		Approval: eligibility.ApprovalApproved,
	}
	return s.CreateUnitAward(ctx, rec)
}

// =============================================================================
// SEED HELPERS
// =============================================================================

func seedAward(ctx context.Context, s *sqlite.Store, id eligibility.PersonID, year int, title eligibility.Title) error {
	return s.CreateAnnualAward(ctx, eligibility.AnnualAwardRecord{
		ID:       uuid.NewString(),
		PersonID: id,
		Year:     year,
		Title:    title,
	})
}

func seedAchievement(ctx context.Context, s *sqlite.Store, id eligibility.PersonID, year int, kind string, approval eligibility.ApprovalStatus) error {
	return s.SaveAchievement(ctx, eligibility.AchievementRecord{
		ID:       uuid.NewString(),
		PersonID: id,
		Year:     year,
		Kind:     kind,
		Approval: approval,
	})
}
