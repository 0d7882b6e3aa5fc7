/*
recalc.go - Persistence wiring for the individual calculators

PURPOSE:
  Connects the pure calculators to the store interfaces: load the full
  history, read the prior profile for its externally-advanced Granted
  statuses, recompute from scratch, upsert. Every recalculation is a full
  deterministic re-derivation, which makes repeated runs idempotent and
  concurrent runs for the same person safe under last-write-wins.

ERROR POLICY:
  An unknown person id is fatal to the invocation (ErrPersonNotFound, no
  profile written). Missing facts - no enlistment date, empty histories -
  are ordinary NotYet outcomes, never errors.
*/
package person

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meritdesk/awards-engine/eligibility"
)

// Default decoration policy values; the factory package overrides them
// from configuration.
var (
	DefaultTenureYears        = [eligibility.TierCount]int{10, 20, 30}
	DefaultContributionMonths = [eligibility.TierCount]int{120, 240, 360}
	DefaultBands              = CoefficientBands{
		MediumMin: decimal.NewFromFloat(1.0),
		HighMin:   decimal.NewFromFloat(1.5),
	}
)

// Calculator recomputes an individual's derived profiles.
type Calculator struct {
	Store eligibility.Store

	TenureYears        [eligibility.TierCount]int
	ContributionMonths [eligibility.TierCount]int
	Bands              CoefficientBands

	// Now is injectable for tests; defaults to eligibility.Today.
	Now func() eligibility.Date
}

// NewCalculator creates a calculator with the default decoration policy.
func NewCalculator(store eligibility.Store) *Calculator {
	return &Calculator{
		Store:              store,
		TenureYears:        DefaultTenureYears,
		ContributionMonths: DefaultContributionMonths,
		Bands:              DefaultBands,
		Now:                eligibility.Today,
	}
}

func (c *Calculator) now() eligibility.Date {
	if c.Now != nil {
		return c.Now()
	}
	return eligibility.Today()
}

// =============================================================================
// ANNUAL STREAK PROFILE
// =============================================================================

// RecalcAnnual re-derives and upserts a person's annual streak profile.
func (c *Calculator) RecalcAnnual(ctx context.Context, id eligibility.PersonID) (eligibility.AnnualProfile, error) {
	if _, err := c.Store.GetPerson(ctx, id); err != nil {
		return eligibility.AnnualProfile{}, err
	}

	awards, err := c.Store.AnnualAwards(ctx, id)
	if err != nil {
		return eligibility.AnnualProfile{}, fmt.Errorf("load annual awards: %w", err)
	}
	achievements, err := c.Store.Achievements(ctx, id)
	if err != nil {
		return eligibility.AnnualProfile{}, fmt.Errorf("load achievements: %w", err)
	}

	today := c.now()
	res := AnalyzeAnnual(AnnualHistory{Awards: awards, Achievements: achievements}, today.Year())

	profile := eligibility.AnnualProfile{
		PersonID:              id,
		FirstClassCount:       res.FirstClassCount,
		AchievementCount:      res.AchievementCount,
		StreakLength:          res.StreakLength,
		MeritCitationEligible: res.MeritEligible,
		HonorCitationEligible: res.HonorEligible,
		Rationale:             FormatAnnualRationale(res),
		ComputedAt:            today,
	}

	if err := c.Store.SaveAnnualProfile(ctx, profile); err != nil {
		return eligibility.AnnualProfile{}, fmt.Errorf("save annual profile: %w", err)
	}
	return profile, nil
}

// =============================================================================
// SERVICE (TENURE) PROFILE
// =============================================================================

// RecalcService re-derives and upserts a person's long-service profile,
// carrying stored Granted statuses forward.
func (c *Calculator) RecalcService(ctx context.Context, id eligibility.PersonID) (eligibility.ServiceProfile, error) {
	p, err := c.Store.GetPerson(ctx, id)
	if err != nil {
		return eligibility.ServiceProfile{}, err
	}

	prior, err := c.priorStatuses(ctx, id, serviceKind)
	if err != nil {
		return eligibility.ServiceProfile{}, err
	}

	today := c.now()
	tiers := EvaluateTenure(TenureInput{
		EnlistedOn: p.EnlistedOn,
		Thresholds: c.TenureYears,
		Prior:      prior,
		Today:      today,
	})

	profile := eligibility.ServiceProfile{
		PersonID:   id,
		Tiers:      tiers,
		ComputedAt: today,
	}
	if err := c.Store.SaveServiceProfile(ctx, profile); err != nil {
		return eligibility.ServiceProfile{}, fmt.Errorf("save service profile: %w", err)
	}
	return profile, nil
}

// =============================================================================
// CONTRIBUTION PROFILE
// =============================================================================

// RecalcContribution re-derives and upserts a person's contribution
// profile, carrying stored Granted statuses forward.
func (c *Calculator) RecalcContribution(ctx context.Context, id eligibility.PersonID) (eligibility.ContributionProfile, error) {
	p, err := c.Store.GetPerson(ctx, id)
	if err != nil {
		return eligibility.ContributionProfile{}, err
	}

	assignments, err := c.Store.Assignments(ctx, id)
	if err != nil {
		return eligibility.ContributionProfile{}, fmt.Errorf("load assignments: %w", err)
	}

	prior, err := c.priorStatuses(ctx, id, contributionKind)
	if err != nil {
		return eligibility.ContributionProfile{}, err
	}

	today := c.now()
	res := EvaluateContribution(ContributionInput{
		Assignments: assignments,
		SeparatedOn: p.SeparatedOn,
		Thresholds:  c.ContributionMonths,
		Prior:       prior,
		Today:       today,
	}, c.Bands)

	profile := eligibility.ContributionProfile{
		PersonID:    id,
		TotalMonths: res.TotalMonths,
		Weighted:    res.Weighted,
		Tiers:       res.Tiers,
		ComputedAt:  today,
	}
	if err := c.Store.SaveContributionProfile(ctx, profile); err != nil {
		return eligibility.ContributionProfile{}, fmt.Errorf("save contribution profile: %w", err)
	}
	return profile, nil
}

// =============================================================================
// PRIOR STATUS READ - The one piece of externally-advanced state
// =============================================================================

type profileKind int

const (
	serviceKind profileKind = iota
	contributionKind
)

// priorStatuses reads the stored tier statuses so that Granted flags
// survive recomputation. A missing profile means no prior state: every
// tier starts at NotYet.
func (c *Calculator) priorStatuses(ctx context.Context, id eligibility.PersonID, kind profileKind) ([eligibility.TierCount]eligibility.TierStatus, error) {
	var prior [eligibility.TierCount]eligibility.TierStatus
	for i := range prior {
		prior[i] = eligibility.StatusNotYet
	}

	var tiers [eligibility.TierCount]eligibility.TierState
	switch kind {
	case serviceKind:
		p, err := c.Store.ServiceProfile(ctx, id)
		if err != nil {
			if eligibility.IsNotFound(err) {
				return prior, nil
			}
			return prior, fmt.Errorf("load service profile: %w", err)
		}
		tiers = p.Tiers
	case contributionKind:
		p, err := c.Store.ContributionProfile(ctx, id)
		if err != nil {
			if eligibility.IsNotFound(err) {
				return prior, nil
			}
			return prior, fmt.Errorf("load contribution profile: %w", err)
		}
		tiers = p.Tiers
	}

	for i, t := range tiers {
		if t.Status != "" {
			prior[i] = t.Status
		}
	}
	return prior, nil
}
