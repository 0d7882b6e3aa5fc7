package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestPersonRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	p := eligibility.Person{
		ID: "p1", Name: "Chen Wei",
		EnlistedOn: eligibility.NewDate(2010, time.March, 1),
	}
	require.NoError(t, s.SavePerson(ctx, p))

	got, err := s.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Chen Wei", got.Name)
	assert.Equal(t, "2010-03-01", got.EnlistedOn.String())
	assert.True(t, got.SeparatedOn.IsZero(), "still serving")

	// Upsert: same id, new facts.
	p.SeparatedOn = eligibility.NewDate(2024, time.January, 31)
	require.NoError(t, s.SavePerson(ctx, p))
	got, err = s.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", got.SeparatedOn.String())

	_, err = s.GetPerson(ctx, "ghost")
	assert.ErrorIs(t, err, eligibility.ErrPersonNotFound)
}

func TestUnitHierarchy(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveUnit(ctx, eligibility.Unit{ID: "brigade", Name: "3rd Brigade"}))
	require.NoError(t, s.SaveUnit(ctx, eligibility.Unit{ID: "bn-1", Name: "1st Battalion", ParentID: "brigade"}))
	require.NoError(t, s.SaveUnit(ctx, eligibility.Unit{ID: "bn-2", Name: "2nd Battalion", ParentID: "brigade"}))

	subs, err := s.SubUnits(ctx, "brigade")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, eligibility.UnitID("bn-1"), subs[0].ID)

	_, err = s.GetUnit(ctx, "ghost")
	assert.ErrorIs(t, err, eligibility.ErrUnitNotFound)
}

func TestPositionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	pos := sqlite.Position{
		ID: "flight-lead", Name: "Flight Lead",
		ContributionGroup: "operations",
		Coefficient:       decimal.RequireFromString("1.6"),
	}
	require.NoError(t, s.SavePosition(ctx, pos))

	got, err := s.GetPosition(ctx, "flight-lead")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Coefficient.Equal(decimal.RequireFromString("1.6")))

	missing, err := s.GetPosition(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// RECORD TESTS
// =============================================================================

func TestAnnualAward_DuplicateYearConflict(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rec := eligibility.AnnualAwardRecord{
		ID: "a1", PersonID: "p1", Year: 2023, Title: eligibility.TitleFirstClass,
	}
	require.NoError(t, s.CreateAnnualAward(ctx, rec))

	dup := eligibility.AnnualAwardRecord{
		ID: "a2", PersonID: "p1", Year: 2023, Title: eligibility.TitleSecondClass,
	}
	err := s.CreateAnnualAward(ctx, dup)
	assert.ErrorIs(t, err, eligibility.ErrDuplicateYear)

	// Another person may hold the same year.
	other := eligibility.AnnualAwardRecord{
		ID: "a3", PersonID: "p2", Year: 2023, Title: eligibility.TitleFirstClass,
	}
	assert.NoError(t, s.CreateAnnualAward(ctx, other))
}

func TestAnnualAwards_OrderedAscending(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, y := range []int{2023, 2021, 2022} {
		require.NoError(t, s.CreateAnnualAward(ctx, eligibility.AnnualAwardRecord{
			ID: string(rune('a' + i)), PersonID: "p1", Year: y,
			Title: eligibility.TitleFirstClass,
		}))
	}

	records, err := s.AnnualAwards(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{2021, 2022, 2023},
		[]int{records[0].Year, records[1].Year, records[2].Year})
}

func TestAnnualAward_CitationGrantUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rec := eligibility.AnnualAwardRecord{
		ID: "a1", PersonID: "p1", Year: 2022, Title: eligibility.TitleFirstClass,
	}
	require.NoError(t, s.CreateAnnualAward(ctx, rec))

	rec.HonorCitationGranted = true
	rec.HonorCitationRef = "order 12/2023"
	require.NoError(t, s.UpdateAnnualAward(ctx, rec))

	got, err := s.GetAnnualAward(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HonorCitationGranted)
	assert.Equal(t, "order 12/2023", got.HonorCitationRef)
}

func TestAssignment_OpenSpanConflict(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	open := eligibility.AssignmentRecord{
		ID: "g1", PersonID: "p1", PositionID: "pos",
		Coefficient: decimal.NewFromInt(1),
		Start:       eligibility.NewDate(2020, time.January, 1),
	}
	require.NoError(t, s.CreateAssignment(ctx, open))

	second := open
	second.ID = "g2"
	second.Start = eligibility.NewDate(2023, time.January, 1)
	err := s.CreateAssignment(ctx, second)
	assert.ErrorIs(t, err, eligibility.ErrOpenAssignmentExists)

	// Closing the open span clears the way.
	require.NoError(t, s.CloseAssignment(ctx, "p1", eligibility.NewDate(2022, time.December, 31)))
	assert.NoError(t, s.CreateAssignment(ctx, second))

	records, err := s.Assignments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2022-12-31", records[0].End.String())
	assert.True(t, records[1].End.IsZero())
}

func TestUnitAward_DuplicateYearConflict(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rec := eligibility.UnitAwardRecord{
		ID: "u1", UnitID: "bn-1", Year: 2023, Title: "model unit",
		Approval: eligibility.ApprovalApproved,
	}
	require.NoError(t, s.CreateUnitAward(ctx, rec))

	dup := rec
	dup.ID = "u2"
	assert.ErrorIs(t, s.CreateUnitAward(ctx, dup), eligibility.ErrDuplicateYear)
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestServiceProfile_UpsertAndJSONTiers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.ServiceProfile(ctx, "p1")
	assert.ErrorIs(t, err, eligibility.ErrProfileNotFound)

	profile := eligibility.ServiceProfile{
		PersonID: "p1",
		Tiers: [eligibility.TierCount]eligibility.TierState{
			{Status: eligibility.StatusEligible,
				EligibleOn: eligibility.NewDate(2020, time.March, 1),
				Rationale:  "tier 1: 10-year anniversary reached on 2020-03-01"},
			{Status: eligibility.StatusNotYet, Rationale: "tier 2: awaiting grant of tier 1"},
			{Status: eligibility.StatusNotYet, Rationale: "tier 3: awaiting grant of tier 2"},
		},
		ComputedAt: eligibility.NewDate(2024, time.June, 1),
	}
	require.NoError(t, s.SaveServiceProfile(ctx, profile))

	got, err := s.ServiceProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	// Upsert replaces in place: one row per person.
	profile.Tiers[0].Status = eligibility.StatusGranted
	require.NoError(t, s.SaveServiceProfile(ctx, profile))
	got, err = s.ServiceProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, eligibility.StatusGranted, got.Tiers[0].Status)
}

func TestContributionProfile_DecimalBucketsSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	profile := eligibility.ContributionProfile{
		PersonID:    "p1",
		TotalMonths: 149,
		Weighted: eligibility.WeightBuckets{
			Low:    decimal.RequireFromString("9.6"),
			Medium: decimal.RequireFromString("96"),
			High:   decimal.RequireFromString("84.8"),
		},
		Tiers: [eligibility.TierCount]eligibility.TierState{
			{Status: eligibility.StatusEligible,
				EligibleOn: eligibility.NewDate(2022, time.January, 1)},
			{Status: eligibility.StatusNotYet},
			{Status: eligibility.StatusNotYet},
		},
		ComputedAt: eligibility.NewDate(2024, time.June, 1),
	}
	require.NoError(t, s.SaveContributionProfile(ctx, profile))

	got, err := s.ContributionProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 149, got.TotalMonths)
	assert.True(t, got.Weighted.High.Equal(decimal.RequireFromString("84.8")))
	assert.Equal(t, "2022-01-01", got.Tiers[0].EligibleOn.String())
}

func TestAnnualAndUnitProfiles_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	annual := eligibility.AnnualProfile{
		PersonID: "p1", FirstClassCount: 5, AchievementCount: 6, StreakLength: 5,
		MeritCitationEligible: true,
		Rationale:             "first-class streak 2019-2023 (5 years)",
		ComputedAt:            eligibility.NewDate(2024, time.June, 1),
	}
	require.NoError(t, s.SaveAnnualProfile(ctx, annual))
	gotAnnual, err := s.AnnualProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, annual, gotAnnual)

	unitProfile := eligibility.UnitProfile{
		UnitID: "bn-1", TitleCount: 3, StreakLength: 3,
		Commendation1Eligible: true,
		Rationale:             "title streak 2020-2022 (3 years)",
		ComputedAt:            eligibility.NewDate(2023, time.June, 1),
	}
	require.NoError(t, s.SaveUnitProfile(ctx, unitProfile))
	gotUnit, err := s.UnitProfile(ctx, "bn-1")
	require.NoError(t, err)
	assert.Equal(t, unitProfile, gotUnit)
}

// =============================================================================
// ENUMERATION TESTS
// =============================================================================

func TestListIDs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SavePerson(ctx, eligibility.Person{ID: "p2", Name: "B"}))
	require.NoError(t, s.SavePerson(ctx, eligibility.Person{ID: "p1", Name: "A"}))
	require.NoError(t, s.SaveUnit(ctx, eligibility.Unit{ID: "u1", Name: "Depot"}))

	personIDs, err := s.ListPersonIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []eligibility.PersonID{"p1", "p2"}, personIDs)

	unitIDs, err := s.ListUnitIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []eligibility.UnitID{"u1"}, unitIDs)
}
