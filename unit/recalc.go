/*
recalc.go - Persistence wiring for the unit calculator

PURPOSE:
  Loads a unit's own records plus those of its immediate sub-units,
  recomputes the streak from scratch, and upserts the unit profile.
  An unknown unit id is fatal (no profile written); an empty history is an
  ordinary zero-streak outcome.
*/
package unit

import (
	"context"
	"fmt"

	"github.com/meritdesk/awards-engine/eligibility"
)

// Calculator recomputes a unit's derived profile.
type Calculator struct {
	Store      eligibility.Store
	Thresholds [2]int

	// Now is injectable for tests; defaults to eligibility.Today.
	Now func() eligibility.Date
}

// NewCalculator creates a calculator with the default commendation
// thresholds.
func NewCalculator(store eligibility.Store) *Calculator {
	return &Calculator{
		Store:      store,
		Thresholds: DefaultStreakThresholds,
		Now:        eligibility.Today,
	}
}

func (c *Calculator) now() eligibility.Date {
	if c.Now != nil {
		return c.Now()
	}
	return eligibility.Today()
}

// Recalc re-derives and upserts a unit's model-unit streak profile.
func (c *Calculator) Recalc(ctx context.Context, id eligibility.UnitID) (eligibility.UnitProfile, error) {
	if _, err := c.Store.GetUnit(ctx, id); err != nil {
		return eligibility.UnitProfile{}, err
	}

	records, err := c.Store.UnitAwards(ctx, id)
	if err != nil {
		return eligibility.UnitProfile{}, fmt.Errorf("load unit awards: %w", err)
	}

	// Fold in immediate sub-units: a year qualifies for the parent when
	// any unit in the family holds an approved title that year.
	subs, err := c.Store.SubUnits(ctx, id)
	if err != nil {
		return eligibility.UnitProfile{}, fmt.Errorf("load sub-units: %w", err)
	}
	for _, sub := range subs {
		subRecords, err := c.Store.UnitAwards(ctx, sub.ID)
		if err != nil {
			return eligibility.UnitProfile{}, fmt.Errorf("load sub-unit awards: %w", err)
		}
		records = append(records, subRecords...)
	}

	today := c.now()
	res := AnalyzeStreak(records, today.Year(), c.Thresholds)

	profile := eligibility.UnitProfile{
		UnitID:                id,
		TitleCount:            res.TitleCount,
		StreakLength:          res.StreakLength,
		Commendation1Eligible: res.Commendation1Eligible,
		Commendation2Eligible: res.Commendation2Eligible,
		Rationale:             FormatStreakRationale(res, c.Thresholds),
		ComputedAt:            today,
	}
	if err := c.Store.SaveUnitProfile(ctx, profile); err != nil {
		return eligibility.UnitProfile{}, fmt.Errorf("save unit profile: %w", err)
	}
	return profile, nil
}
