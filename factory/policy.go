/*
Package factory provides JSON to Go decoration-policy conversion.

PURPOSE:
  Converts JSON policy definitions into the threshold and band values the
  calculators consume. This enables policy configuration without code
  changes - administrators can adjust tier thresholds in JSON, and the
  factory produces the proper Go values with defaults filled in.

JSON SCHEMA:
  {
    "tenure_years": [10, 20, 30],
    "contribution_months": [120, 240, 360],
    "unit_streak_years": [3, 5],
    "coefficient_bands": {
      "medium_min": "1.0",
      "high_min": "1.5"
    }
  }

  Every field is optional; omitted fields keep their defaults. Band
  boundaries are decimal strings so coefficients never pass through
  floating point.

VALIDATION:
  - threshold lists must carry exactly as many entries as there are tiers
  - thresholds must be strictly ascending and positive
  - band boundaries must satisfy 0 < medium_min < high_min

SEE ALSO:
  - person/recalc.go: Default values and the calculators that consume these
  - unit/streak.go: Unit thresholds
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/person"
	"github.com/meritdesk/awards-engine/unit"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of the decoration policy.
type PolicyJSON struct {
	TenureYears        []int      `json:"tenure_years,omitempty"`
	ContributionMonths []int      `json:"contribution_months,omitempty"`
	UnitStreakYears    []int      `json:"unit_streak_years,omitempty"`
	CoefficientBands   *BandsJSON `json:"coefficient_bands,omitempty"`
}

// BandsJSON carries coefficient band boundaries as decimal strings.
type BandsJSON struct {
	MediumMin string `json:"medium_min"`
	HighMin   string `json:"high_min"`
}

// =============================================================================
// DECORATION POLICY
// =============================================================================

// DecorationPolicy is the resolved, validated policy the application wires
// into the calculators.
type DecorationPolicy struct {
	TenureYears        [eligibility.TierCount]int
	ContributionMonths [eligibility.TierCount]int
	UnitStreakYears    [2]int
	Bands              person.CoefficientBands
}

// Default returns the built-in policy.
func Default() DecorationPolicy {
	return DecorationPolicy{
		TenureYears:        person.DefaultTenureYears,
		ContributionMonths: person.DefaultContributionMonths,
		UnitStreakYears:    unit.DefaultStreakThresholds,
		Bands:              person.DefaultBands,
	}
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go values.
type PolicyFactory struct{}

func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// Parse resolves a JSON policy against the defaults and validates it.
func (f *PolicyFactory) Parse(jsonStr string) (DecorationPolicy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return DecorationPolicy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// LoadFile reads and parses a policy file.
func (f *PolicyFactory) LoadFile(path string) (DecorationPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DecorationPolicy{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	return f.Parse(string(data))
}

// FromJSON resolves an already-decoded policy.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (DecorationPolicy, error) {
	policy := Default()

	if pj.TenureYears != nil {
		tiers, err := tierThresholds("tenure_years", pj.TenureYears)
		if err != nil {
			return DecorationPolicy{}, err
		}
		policy.TenureYears = tiers
	}

	if pj.ContributionMonths != nil {
		tiers, err := tierThresholds("contribution_months", pj.ContributionMonths)
		if err != nil {
			return DecorationPolicy{}, err
		}
		policy.ContributionMonths = tiers
	}

	if pj.UnitStreakYears != nil {
		if len(pj.UnitStreakYears) != 2 {
			return DecorationPolicy{}, fmt.Errorf("unit_streak_years: expected 2 thresholds, got %d", len(pj.UnitStreakYears))
		}
		if pj.UnitStreakYears[0] <= 0 || pj.UnitStreakYears[1] <= pj.UnitStreakYears[0] {
			return DecorationPolicy{}, fmt.Errorf("unit_streak_years: thresholds must be positive and strictly ascending")
		}
		policy.UnitStreakYears = [2]int{pj.UnitStreakYears[0], pj.UnitStreakYears[1]}
	}

	if pj.CoefficientBands != nil {
		bands, err := parseBands(*pj.CoefficientBands)
		if err != nil {
			return DecorationPolicy{}, err
		}
		policy.Bands = bands
	}

	return policy, nil
}

func tierThresholds(field string, values []int) ([eligibility.TierCount]int, error) {
	var tiers [eligibility.TierCount]int
	if len(values) != eligibility.TierCount {
		return tiers, fmt.Errorf("%s: expected %d thresholds, got %d", field, eligibility.TierCount, len(values))
	}
	prev := 0
	for i, v := range values {
		if v <= prev {
			return tiers, fmt.Errorf("%s: thresholds must be positive and strictly ascending", field)
		}
		tiers[i] = v
		prev = v
	}
	return tiers, nil
}

func parseBands(bj BandsJSON) (person.CoefficientBands, error) {
	medium, err := decimal.NewFromString(bj.MediumMin)
	if err != nil {
		return person.CoefficientBands{}, fmt.Errorf("coefficient_bands.medium_min: %w", err)
	}
	high, err := decimal.NewFromString(bj.HighMin)
	if err != nil {
		return person.CoefficientBands{}, fmt.Errorf("coefficient_bands.high_min: %w", err)
	}
	if !medium.IsPositive() || !high.GreaterThan(medium) {
		return person.CoefficientBands{}, fmt.Errorf("coefficient_bands: require 0 < medium_min < high_min")
	}
	return person.CoefficientBands{MediumMin: medium, HighMin: high}, nil
}

// Apply copies the policy onto the calculators.
func (p DecorationPolicy) Apply(pc *person.Calculator, uc *unit.Calculator) {
	pc.TenureYears = p.TenureYears
	pc.ContributionMonths = p.ContributionMonths
	pc.Bands = p.Bands
	uc.Thresholds = p.UnitStreakYears
}
