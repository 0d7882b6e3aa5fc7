/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Catalog:
    PersonDTO, CreatePersonRequest, UnitDTO, CreateUnitRequest,
    PositionDTO, CreatePositionRequest

  Records:
    AnnualAwardDTO, AchievementDTO, AssignmentDTO, UnitAwardDTO
    plus their Create* and Update* request types

  Profiles:
    AnnualProfileDTO, ServiceProfileDTO, ContributionProfileDTO,
    UnitProfileDTO, TierStateDTO

  Operations:
    GrantTierRequest, GrantCitationRequest, BulkResultDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - eligibility/profile.go: The domain profile types these mirror
*/
package api

import (
	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/store/sqlite"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// PersonDTO represents a service member in API responses.
type PersonDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EnlistedOn  string `json:"enlisted_on,omitempty"`
	SeparatedOn string `json:"separated_on,omitempty"`
}

// CreatePersonRequest is the request to create or update a person.
type CreatePersonRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EnlistedOn  string `json:"enlisted_on,omitempty"`
	SeparatedOn string `json:"separated_on,omitempty"`
}

// UnitDTO represents a unit in API responses.
type UnitDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateUnitRequest is the request to create or update a unit.
type CreateUnitRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// PositionDTO represents a catalog position.
type PositionDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ContributionGroup string `json:"contribution_group,omitempty"`
	Coefficient       string `json:"coefficient"`
}

// CreatePositionRequest is the request to create or update a position.
type CreatePositionRequest struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ContributionGroup string `json:"contribution_group,omitempty"`
	Coefficient       string `json:"coefficient"`
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// AnnualAwardDTO represents an annual award record.
type AnnualAwardDTO struct {
	ID                   string `json:"id"`
	PersonID             string `json:"person_id"`
	Year                 int    `json:"year"`
	Title                string `json:"title"`
	MeritCitationGranted bool   `json:"merit_citation_granted"`
	MeritCitationRef     string `json:"merit_citation_ref,omitempty"`
	HonorCitationGranted bool   `json:"honor_citation_granted"`
	HonorCitationRef     string `json:"honor_citation_ref,omitempty"`
}

// CreateAnnualAwardRequest is the request to record an annual award.
type CreateAnnualAwardRequest struct {
	Year  int    `json:"year"`
	Title string `json:"title"`
}

// UpdateAnnualAwardRequest rewrites the mutable fields of an award record.
type UpdateAnnualAwardRequest struct {
	Title string `json:"title"`
}

// AchievementDTO represents a secondary achievement record.
type AchievementDTO struct {
	ID       string `json:"id"`
	PersonID string `json:"person_id"`
	Year     int    `json:"year"`
	Kind     string `json:"kind,omitempty"`
	Approval string `json:"approval"`
}

// CreateAchievementRequest is the request to record an achievement.
type CreateAchievementRequest struct {
	Year     int    `json:"year"`
	Kind     string `json:"kind,omitempty"`
	Approval string `json:"approval,omitempty"`
}

// AssignmentDTO represents a position assignment span.
type AssignmentDTO struct {
	ID          string `json:"id"`
	PersonID    string `json:"person_id"`
	PositionID  string `json:"position_id"`
	Coefficient string `json:"coefficient"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
}

// CreateAssignmentRequest is the request to open an assignment span.
// The coefficient is copied from the position at assignment time.
type CreateAssignmentRequest struct {
	PositionID string `json:"position_id"`
	Start      string `json:"start"`
	End        string `json:"end,omitempty"`
}

// CloseAssignmentRequest ends a person's open assignment span.
type CloseAssignmentRequest struct {
	End string `json:"end"`
}

// UnitAwardDTO represents a unit title record.
type UnitAwardDTO struct {
	ID       string `json:"id"`
	UnitID   string `json:"unit_id"`
	Year     int    `json:"year"`
	Title    string `json:"title"`
	Approval string `json:"approval"`
}

// CreateUnitAwardRequest is the request to record a unit title.
type CreateUnitAwardRequest struct {
	Year     int    `json:"year"`
	Title    string `json:"title"`
	Approval string `json:"approval,omitempty"`
}

// =============================================================================
// PROFILE TYPES
// =============================================================================

// TierStateDTO represents one tier of a tiered decoration.
type TierStateDTO struct {
	Status     string `json:"status"`
	EligibleOn string `json:"eligible_on,omitempty"`
	Rationale  string `json:"rationale,omitempty"`
}

// AnnualProfileDTO is the derived annual-award eligibility state.
type AnnualProfileDTO struct {
	PersonID              string `json:"person_id"`
	FirstClassCount       int    `json:"first_class_count"`
	AchievementCount      int    `json:"achievement_count"`
	StreakLength          int    `json:"streak_length"`
	MeritCitationEligible bool   `json:"merit_citation_eligible"`
	HonorCitationEligible bool   `json:"honor_citation_eligible"`
	Rationale             string `json:"rationale,omitempty"`
	ComputedAt            string `json:"computed_at"`
}

// ServiceProfileDTO is the derived length-of-service decoration state.
type ServiceProfileDTO struct {
	PersonID   string         `json:"person_id"`
	Tiers      []TierStateDTO `json:"tiers"`
	ComputedAt string         `json:"computed_at"`
}

// ContributionProfileDTO is the derived contribution decoration state.
type ContributionProfileDTO struct {
	PersonID    string         `json:"person_id"`
	TotalMonths int            `json:"total_months"`
	WeightedLow string         `json:"weighted_low"`
	WeightedMed string         `json:"weighted_medium"`
	WeightedHi  string         `json:"weighted_high"`
	Tiers       []TierStateDTO `json:"tiers"`
	ComputedAt  string         `json:"computed_at"`
}

// UnitProfileDTO is the derived unit commendation state.
type UnitProfileDTO struct {
	UnitID                string `json:"unit_id"`
	TitleCount            int    `json:"title_count"`
	StreakLength          int    `json:"streak_length"`
	Commendation1Eligible bool   `json:"commendation1_eligible"`
	Commendation2Eligible bool   `json:"commendation2_eligible"`
	Rationale             string `json:"rationale,omitempty"`
	ComputedAt            string `json:"computed_at"`
}

// =============================================================================
// OPERATION TYPES
// =============================================================================

// GrantTierRequest marks one tier of a tiered decoration as granted.
// Tier is 1-based.
type GrantTierRequest struct {
	Tier int `json:"tier"`
}

// GrantCitationRequest records an external citation grant on an annual
// award record. Citation is "merit" or "honor".
type GrantCitationRequest struct {
	Citation string `json:"citation"`
	Ref      string `json:"ref,omitempty"`
}

// BulkResultDTO summarizes a bulk recalculation run.
type BulkResultDTO struct {
	Persons   int      `json:"persons"`
	Units     int      `json:"units"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPersonDTO(p eligibility.Person) PersonDTO {
	return PersonDTO{
		ID:          string(p.ID),
		Name:        p.Name,
		EnlistedOn:  dateString(p.EnlistedOn),
		SeparatedOn: dateString(p.SeparatedOn),
	}
}

func toUnitDTO(u eligibility.Unit) UnitDTO {
	return UnitDTO{
		ID:       string(u.ID),
		Name:     u.Name,
		ParentID: string(u.ParentID),
	}
}

func toPositionDTO(p sqlite.Position) PositionDTO {
	return PositionDTO{
		ID:                string(p.ID),
		Name:              p.Name,
		ContributionGroup: p.ContributionGroup,
		Coefficient:       p.Coefficient.String(),
	}
}

func toAnnualAwardDTO(r eligibility.AnnualAwardRecord) AnnualAwardDTO {
	return AnnualAwardDTO{
		ID:                   r.ID,
		PersonID:             string(r.PersonID),
		Year:                 r.Year,
		Title:                string(r.Title),
		MeritCitationGranted: r.MeritCitationGranted,
		MeritCitationRef:     r.MeritCitationRef,
		HonorCitationGranted: r.HonorCitationGranted,
		HonorCitationRef:     r.HonorCitationRef,
	}
}

func toAchievementDTO(r eligibility.AchievementRecord) AchievementDTO {
	return AchievementDTO{
		ID:       r.ID,
		PersonID: string(r.PersonID),
		Year:     r.Year,
		Kind:     r.Kind,
		Approval: string(r.Approval),
	}
}

func toAssignmentDTO(r eligibility.AssignmentRecord) AssignmentDTO {
	return AssignmentDTO{
		ID:          r.ID,
		PersonID:    string(r.PersonID),
		PositionID:  string(r.PositionID),
		Coefficient: r.Coefficient.String(),
		Start:       r.Start.String(),
		End:         dateString(r.End),
	}
}

func toUnitAwardDTO(r eligibility.UnitAwardRecord) UnitAwardDTO {
	return UnitAwardDTO{
		ID:       r.ID,
		UnitID:   string(r.UnitID),
		Year:     r.Year,
		Title:    r.Title,
		Approval: string(r.Approval),
	}
}

func toTierStateDTOs(tiers [eligibility.TierCount]eligibility.TierState) []TierStateDTO {
	dtos := make([]TierStateDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = TierStateDTO{
			Status:     string(t.Status),
			EligibleOn: dateString(t.EligibleOn),
			Rationale:  t.Rationale,
		}
	}
	return dtos
}

func toAnnualProfileDTO(p eligibility.AnnualProfile) AnnualProfileDTO {
	return AnnualProfileDTO{
		PersonID:              string(p.PersonID),
		FirstClassCount:       p.FirstClassCount,
		AchievementCount:      p.AchievementCount,
		StreakLength:          p.StreakLength,
		MeritCitationEligible: p.MeritCitationEligible,
		HonorCitationEligible: p.HonorCitationEligible,
		Rationale:             p.Rationale,
		ComputedAt:            p.ComputedAt.String(),
	}
}

func toServiceProfileDTO(p eligibility.ServiceProfile) ServiceProfileDTO {
	return ServiceProfileDTO{
		PersonID:   string(p.PersonID),
		Tiers:      toTierStateDTOs(p.Tiers),
		ComputedAt: p.ComputedAt.String(),
	}
}

func toContributionProfileDTO(p eligibility.ContributionProfile) ContributionProfileDTO {
	return ContributionProfileDTO{
		PersonID:    string(p.PersonID),
		TotalMonths: p.TotalMonths,
		WeightedLow: p.Weighted.Low.String(),
		WeightedMed: p.Weighted.Medium.String(),
		WeightedHi:  p.Weighted.High.String(),
		Tiers:       toTierStateDTOs(p.Tiers),
		ComputedAt:  p.ComputedAt.String(),
	}
}

func toUnitProfileDTO(p eligibility.UnitProfile) UnitProfileDTO {
	return UnitProfileDTO{
		UnitID:                string(p.UnitID),
		TitleCount:            p.TitleCount,
		StreakLength:          p.StreakLength,
		Commendation1Eligible: p.Commendation1Eligible,
		Commendation2Eligible: p.Commendation2Eligible,
		Rationale:             p.Rationale,
		ComputedAt:            p.ComputedAt.String(),
	}
}

func dateString(d eligibility.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
