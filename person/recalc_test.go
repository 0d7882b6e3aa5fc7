package person_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/eligibility/store"
	"github.com/meritdesk/awards-engine/person"
)

func fixedNow(year int, month time.Month, day int) func() eligibility.Date {
	return func() eligibility.Date { return eligibility.NewDate(year, month, day) }
}

func newCalculator(mem *store.Memory, now func() eligibility.Date) *person.Calculator {
	c := person.NewCalculator(mem)
	c.Now = now
	return c
}

func TestRecalcAnnual_UnknownPersonIsFatal(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: RecalcAnnual runs for an unknown id
	// THEN: ErrPersonNotFound, and no profile is written

	mem := store.NewMemory()
	c := newCalculator(mem, fixedNow(2024, time.June, 1))

	_, err := c.RecalcAnnual(context.Background(), "ghost")
	require.ErrorIs(t, err, eligibility.ErrPersonNotFound)

	_, err = mem.AnnualProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, eligibility.ErrProfileNotFound)
}

func TestRecalcAnnual_EmptyHistoryIsAnOutcome(t *testing.T) {
	// GIVEN: A person with no records at all
	// WHEN: RecalcAnnual runs
	// THEN: A profile is written with zero streak, no eligibility, no error

	mem := store.NewMemory()
	mem.AddPerson(eligibility.Person{ID: "p1", Name: "Chen Wei"})
	c := newCalculator(mem, fixedNow(2024, time.June, 1))

	profile, err := c.RecalcAnnual(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 0, profile.StreakLength)
	assert.False(t, profile.MeritCitationEligible)
	assert.NotEmpty(t, profile.Rationale)
}

func TestRecalcAnnual_Idempotent(t *testing.T) {
	// GIVEN: A seeded history
	// WHEN: RecalcAnnual runs twice with no intervening change
	// THEN: Both runs produce identical profiles

	mem := store.NewMemory()
	mem.AddPerson(eligibility.Person{ID: "p1", Name: "Chen Wei"})
	for _, y := range []int{2022, 2023} {
		require.NoError(t, mem.AddAnnualAward(eligibility.AnnualAwardRecord{
			ID: "aw", PersonID: "p1", Year: y, Title: eligibility.TitleFirstClass,
		}))
		mem.AddAchievement(eligibility.AchievementRecord{
			ID: "ach", PersonID: "p1", Year: y, Approval: eligibility.ApprovalApproved,
		})
	}
	c := newCalculator(mem, fixedNow(2024, time.June, 1))

	first, err := c.RecalcAnnual(context.Background(), "p1")
	require.NoError(t, err)
	second, err := c.RecalcAnnual(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.MeritCitationEligible)
}

func TestRecalcService_PreservesGrantedAcrossRecompute(t *testing.T) {
	// GIVEN: A computed service profile whose tier 1 was externally granted
	// WHEN: RecalcService runs again
	// THEN: Tier 1 stays Granted and tier 2 opens up

	ctx := context.Background()
	mem := store.NewMemory()
	mem.AddPerson(eligibility.Person{
		ID: "p1", Name: "Chen Wei",
		EnlistedOn: eligibility.NewDate(2000, time.April, 1),
	})
	c := newCalculator(mem, fixedNow(2024, time.June, 1))

	profile, err := c.RecalcService(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, eligibility.StatusEligible, profile.Tiers[0].Status)
	require.Equal(t, eligibility.StatusNotYet, profile.Tiers[1].Status, "tier 2 gated")

	// External grant step.
	profile.Tiers[0].Status = eligibility.StatusGranted
	require.NoError(t, mem.SaveServiceProfile(ctx, profile))

	recomputed, err := c.RecalcService(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, eligibility.StatusGranted, recomputed.Tiers[0].Status,
		"engine must never overwrite an external grant")
	assert.Equal(t, eligibility.StatusEligible, recomputed.Tiers[1].Status,
		"24 years of service, gate open")
	assert.Equal(t, eligibility.StatusNotYet, recomputed.Tiers[2].Status)
}

func TestRecalcContribution_PreservesGrantedAcrossRecompute(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.AddPerson(eligibility.Person{ID: "p1", Name: "Chen Wei"})
	require.NoError(t, mem.AddAssignment(eligibility.AssignmentRecord{
		ID: "asg", PersonID: "p1", PositionID: "pos",
		Coefficient: decimal.NewFromInt(1),
		Start:       eligibility.NewDate(2000, time.January, 1),
	}))
	c := newCalculator(mem, fixedNow(2024, time.June, 1))

	profile, err := c.RecalcContribution(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, eligibility.StatusEligible, profile.Tiers[0].Status)

	profile.Tiers[0].Status = eligibility.StatusGranted
	require.NoError(t, mem.SaveContributionProfile(ctx, profile))

	recomputed, err := c.RecalcContribution(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, eligibility.StatusGranted, recomputed.Tiers[0].Status)
	assert.Equal(t, eligibility.StatusEligible, recomputed.Tiers[1].Status)
}

func TestRecalcService_UnknownEnlistmentWritesNotYetProfile(t *testing.T) {
	mem := store.NewMemory()
	mem.AddPerson(eligibility.Person{ID: "p1", Name: "Chen Wei"})
	c := newCalculator(mem, fixedNow(2024, time.June, 1))

	profile, err := c.RecalcService(context.Background(), "p1")
	require.NoError(t, err)

	for _, tier := range profile.Tiers {
		assert.Equal(t, eligibility.StatusNotYet, tier.Status)
	}
}
