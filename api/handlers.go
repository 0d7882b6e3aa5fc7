/*
handlers.go - HTTP API handlers for the award eligibility service

PURPOSE:
  Exposes the eligibility engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Persons:
    GET    /api/persons                       List all persons
    POST   /api/persons                       Create/update person
    GET    /api/persons/{id}                  Get person details
    GET    /api/persons/{id}/awards           Annual award history
    POST   /api/persons/{id}/awards           Record an annual award
    GET    /api/persons/{id}/achievements     Achievement history
    POST   /api/persons/{id}/achievements     Record an achievement
    GET    /api/persons/{id}/assignments      Assignment history
    POST   /api/persons/{id}/assignments      Open an assignment span
    POST   /api/persons/{id}/assignments/close Close the open span
    GET    /api/persons/{id}/profiles         All three derived profiles
    POST   /api/persons/{id}/profiles/service/grant       Mark tier granted
    POST   /api/persons/{id}/profiles/contribution/grant  Mark tier granted

  Records (by record id):
    PUT    /api/awards/{id}                   Update an annual award
    DELETE /api/awards/{id}                   Delete an annual award
    POST   /api/awards/{id}/citation          Record a citation grant
    POST   /api/achievements/{id}/approve     Approve an achievement
    POST   /api/achievements/{id}/reject      Reject an achievement
    DELETE /api/achievements/{id}             Delete an achievement
    DELETE /api/assignments/{id}              Delete an assignment

  Units:
    GET    /api/units                         List all units
    POST   /api/units                         Create/update unit
    GET    /api/units/{id}                    Get unit details
    GET    /api/units/{id}/awards             Unit title history
    POST   /api/units/{id}/awards             Record a unit title
    GET    /api/units/{id}/profile            Derived commendation profile
    PUT    /api/unit-awards/{id}              Update a unit title record
    DELETE /api/unit-awards/{id}              Delete a unit title record

  Positions:
    GET    /api/positions                     List catalog positions
    POST   /api/positions                     Create/update position

  Recalculation:
    POST   /api/recalc/persons/{id}           Recalculate one person
    POST   /api/recalc/units/{id}             Recalculate one unit
    POST   /api/recalc/all                    Bulk recalculation

  Scenarios:
    GET    /api/scenarios                     List demo scenarios
    POST   /api/scenarios/load                Load a demo scenario

RECORD MUTATION FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Commit the raw record
  4. Publish a change event; the dispatcher recomputes affected profiles,
     swallowing and logging any recalculation failure so the committed
     write always stands
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Person/unit/record not found
  - 409: Conflict (duplicate year, open assignment exists)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/meritdesk/awards-engine/dispatch"
	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Dispatcher *dispatch.Dispatcher
	Log        *zap.Logger

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler.
func NewHandler(store *sqlite.Store, dispatcher *dispatch.Dispatcher, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Store:      store,
		Dispatcher: dispatcher,
		Log:        log,
	}
}

// publish hands a record mutation to the dispatcher. The dispatcher owns
// the swallow-and-log policy, so the committed write is already final.
func (h *Handler) publish(r *http.Request, ev dispatch.RecordChanged) {
	if err := h.Dispatcher.Publish(r.Context(), ev); err != nil {
		h.Log.Warn("event dispatch failed", zap.Error(err))
	}
}

// =============================================================================
// PERSON HANDLERS
// =============================================================================

// ListPersons returns all persons.
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Store.ListPersons(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list persons", err)
		return
	}

	dtos := make([]PersonDTO, len(persons))
	for i, p := range persons {
		dtos[i] = toPersonDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPerson returns a single person.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := eligibility.PersonID(chi.URLParam(r, "id"))

	p, err := h.Store.GetPerson(r.Context(), id)
	if eligibility.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonDTO(p))
}

// SavePerson creates or updates a person. Changing enlistment or
// separation dates triggers recalculation of both tiered decorations.
func (h *Handler) SavePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	enlisted, err := parseOptionalDate(req.EnlistedOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid enlisted_on format (use YYYY-MM-DD)", err)
		return
	}
	separated, err := parseOptionalDate(req.SeparatedOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid separated_on format (use YYYY-MM-DD)", err)
		return
	}

	p := eligibility.Person{
		ID:          eligibility.PersonID(req.ID),
		Name:        req.Name,
		EnlistedOn:  enlisted,
		SeparatedOn: separated,
	}
	if err := h.Store.SavePerson(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save person", err)
		return
	}

	h.publish(r, dispatch.PersonFactsChanged(p.ID))
	writeJSON(w, http.StatusCreated, toPersonDTO(p))
}

// GetProfiles returns all three derived profiles for a person. Profiles
// that have never been computed are omitted.
func (h *Handler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := eligibility.PersonID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetPerson(ctx, id); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Person not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}

	out := map[string]any{"person_id": string(id)}

	if p, err := h.Store.AnnualProfile(ctx, id); err == nil {
		out["annual"] = toAnnualProfileDTO(p)
	} else if !eligibility.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to load annual profile", err)
		return
	}
	if p, err := h.Store.ServiceProfile(ctx, id); err == nil {
		out["service"] = toServiceProfileDTO(p)
	} else if !eligibility.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to load service profile", err)
		return
	}
	if p, err := h.Store.ContributionProfile(ctx, id); err == nil {
		out["contribution"] = toContributionProfileDTO(p)
	} else if !eligibility.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to load contribution profile", err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// ANNUAL AWARD HANDLERS
// =============================================================================

// ListAnnualAwards returns a person's annual award history.
func (h *Handler) ListAnnualAwards(w http.ResponseWriter, r *http.Request) {
	id := eligibility.PersonID(chi.URLParam(r, "id"))

	records, err := h.Store.AnnualAwards(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list annual awards", err)
		return
	}

	dtos := make([]AnnualAwardDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAnnualAwardDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAnnualAward records an annual award outcome for one year.
func (h *Handler) CreateAnnualAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID := eligibility.PersonID(chi.URLParam(r, "id"))

	var req CreateAnnualAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1900 || req.Year > 2200 {
		writeError(w, http.StatusBadRequest, "year out of range", nil)
		return
	}
	title, ok := parseTitle(req.Title)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"title must be first_class, second_class, or empty", nil)
		return
	}

	if _, err := h.Store.GetPerson(ctx, personID); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Person not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}

	rec := eligibility.AnnualAwardRecord{
		ID:       uuid.NewString(),
		PersonID: personID,
		Year:     req.Year,
		Title:    title,
	}
	if err := h.Store.CreateAnnualAward(ctx, rec); err != nil {
		if eligibility.IsConflict(err) {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("An award record for %d already exists", req.Year), err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create annual award", err)
		return
	}

	h.publish(r, dispatch.AnnualAwardChanged(personID))
	writeJSON(w, http.StatusCreated, toAnnualAwardDTO(rec))
}

// UpdateAnnualAward changes the title on an existing award record.
func (h *Handler) UpdateAnnualAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req UpdateAnnualAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	title, ok := parseTitle(req.Title)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"title must be first_class, second_class, or empty", nil)
		return
	}

	rec, err := h.Store.GetAnnualAward(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get annual award", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Annual award not found", nil)
		return
	}

	rec.Title = title
	if err := h.Store.UpdateAnnualAward(ctx, *rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update annual award", err)
		return
	}

	h.publish(r, dispatch.AnnualAwardChanged(rec.PersonID))
	writeJSON(w, http.StatusOK, toAnnualAwardDTO(*rec))
}

// DeleteAnnualAward removes an award record, e.g. one entered in error.
func (h *Handler) DeleteAnnualAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetAnnualAward(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get annual award", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Annual award not found", nil)
		return
	}

	if err := h.Store.DeleteAnnualAward(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete annual award", err)
		return
	}

	h.publish(r, dispatch.AnnualAwardChanged(rec.PersonID))
	w.WriteHeader(http.StatusNoContent)
}

// GrantCitation records that a merit or honor citation was formally
// issued covering the award record's year. An honor citation resets the
// streak baseline on the next recalculation.
func (h *Handler) GrantCitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req GrantCitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Store.GetAnnualAward(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get annual award", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Annual award not found", nil)
		return
	}

	switch req.Citation {
	case "merit":
		rec.MeritCitationGranted = true
		rec.MeritCitationRef = req.Ref
	case "honor":
		rec.HonorCitationGranted = true
		rec.HonorCitationRef = req.Ref
	default:
		writeError(w, http.StatusBadRequest, "citation must be merit or honor", nil)
		return
	}

	if err := h.Store.UpdateAnnualAward(ctx, *rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update annual award", err)
		return
	}

	h.publish(r, dispatch.AnnualAwardChanged(rec.PersonID))
	writeJSON(w, http.StatusOK, toAnnualAwardDTO(*rec))
}

// =============================================================================
// ACHIEVEMENT HANDLERS
// =============================================================================

// ListAchievements returns a person's achievement history.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	id := eligibility.PersonID(chi.URLParam(r, "id"))

	records, err := h.Store.Achievements(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list achievements", err)
		return
	}

	dtos := make([]AchievementDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAchievementDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAchievement records a secondary achievement.
func (h *Handler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID := eligibility.PersonID(chi.URLParam(r, "id"))

	var req CreateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1900 || req.Year > 2200 {
		writeError(w, http.StatusBadRequest, "year out of range", nil)
		return
	}
	approval := eligibility.ApprovalPending
	if req.Approval != "" {
		parsed, ok := parseApproval(req.Approval)
		if !ok {
			writeError(w, http.StatusBadRequest,
				"approval must be pending, approved, or rejected", nil)
			return
		}
		approval = parsed
	}

	if _, err := h.Store.GetPerson(ctx, personID); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Person not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}

	rec := eligibility.AchievementRecord{
		ID:       uuid.NewString(),
		PersonID: personID,
		Year:     req.Year,
		Kind:     req.Kind,
		Approval: approval,
	}
	if err := h.Store.SaveAchievement(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create achievement", err)
		return
	}

	h.publish(r, dispatch.AchievementChanged(personID))
	writeJSON(w, http.StatusCreated, toAchievementDTO(rec))
}

// ApproveAchievement moves an achievement to approved.
func (h *Handler) ApproveAchievement(w http.ResponseWriter, r *http.Request) {
	h.setAchievementApproval(w, r, eligibility.ApprovalApproved)
}

// RejectAchievement moves an achievement to rejected.
func (h *Handler) RejectAchievement(w http.ResponseWriter, r *http.Request) {
	h.setAchievementApproval(w, r, eligibility.ApprovalRejected)
}

func (h *Handler) setAchievementApproval(w http.ResponseWriter, r *http.Request, approval eligibility.ApprovalStatus) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetAchievement(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get achievement", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Achievement not found", nil)
		return
	}

	rec.Approval = approval
	if err := h.Store.SaveAchievement(ctx, *rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update achievement", err)
		return
	}

	h.publish(r, dispatch.AchievementChanged(rec.PersonID))
	writeJSON(w, http.StatusOK, toAchievementDTO(*rec))
}

// DeleteAchievement removes an achievement record.
func (h *Handler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetAchievement(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get achievement", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Achievement not found", nil)
		return
	}

	if err := h.Store.DeleteAchievement(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete achievement", err)
		return
	}

	h.publish(r, dispatch.AchievementChanged(rec.PersonID))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// ListAssignments returns a person's assignment history.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id := eligibility.PersonID(chi.URLParam(r, "id"))

	records, err := h.Store.Assignments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAssignmentDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAssignment opens an assignment span for a person. The position's
// current coefficient is copied onto the record so later position edits
// never rewrite history.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID := eligibility.PersonID(chi.URLParam(r, "id"))

	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := eligibility.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}
	end, err := parseOptionalDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}
	if !end.IsZero() && end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not precede start", nil)
		return
	}

	if _, err := h.Store.GetPerson(ctx, personID); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Person not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}

	pos, err := h.Store.GetPosition(ctx, eligibility.PositionID(req.PositionID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get position", err)
		return
	}
	if pos == nil {
		writeError(w, http.StatusNotFound, "Position not found", nil)
		return
	}

	rec := eligibility.AssignmentRecord{
		ID:          uuid.NewString(),
		PersonID:    personID,
		PositionID:  pos.ID,
		Coefficient: pos.Coefficient,
		Start:       start,
		End:         end,
	}
	if err := h.Store.CreateAssignment(ctx, rec); err != nil {
		if eligibility.IsConflict(err) {
			writeError(w, http.StatusConflict,
				"Person already has an open assignment; close it first", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create assignment", err)
		return
	}

	h.publish(r, dispatch.AssignmentChanged(personID))
	writeJSON(w, http.StatusCreated, toAssignmentDTO(rec))
}

// CloseAssignment ends a person's open assignment span.
func (h *Handler) CloseAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID := eligibility.PersonID(chi.URLParam(r, "id"))

	var req CloseAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	end, err := eligibility.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.CloseAssignment(ctx, personID, end); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to close assignment", err)
		return
	}

	h.publish(r, dispatch.AssignmentChanged(personID))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAssignment removes an assignment record.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetAssignment(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get assignment", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Assignment not found", nil)
		return
	}

	if err := h.Store.DeleteAssignment(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete assignment", err)
		return
	}

	h.publish(r, dispatch.AssignmentChanged(rec.PersonID))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TIER GRANT HANDLERS
// =============================================================================

// GrantServiceTier marks one tier of the length-of-service decoration as
// granted. The engine only ever proposes Eligible; this is the external
// grant step that unlocks the next tier.
func (h *Handler) GrantServiceTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID := eligibility.PersonID(chi.URLParam(r, "id"))

	tier, ok := parseTierRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.Store.ServiceProfile(ctx, personID)
	if eligibility.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Service profile not found; recalculate first", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load service profile", err)
		return
	}

	if profile.Tiers[tier-1].Status != eligibility.StatusEligible {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("tier %d is not eligible", tier), nil)
		return
	}
	profile.Tiers[tier-1].Status = eligibility.StatusGranted
	if err := h.Store.SaveServiceProfile(ctx, profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save service profile", err)
		return
	}

	// Granting tier N makes tier N+1 evaluable.
	h.publish(r, dispatch.PersonFactsChanged(personID))

	profile, err = h.Store.ServiceProfile(ctx, personID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload service profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceProfileDTO(profile))
}

// GrantContributionTier marks one tier of the contribution decoration as
// granted.
func (h *Handler) GrantContributionTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID := eligibility.PersonID(chi.URLParam(r, "id"))

	tier, ok := parseTierRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.Store.ContributionProfile(ctx, personID)
	if eligibility.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Contribution profile not found; recalculate first", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contribution profile", err)
		return
	}

	if profile.Tiers[tier-1].Status != eligibility.StatusEligible {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("tier %d is not eligible", tier), nil)
		return
	}
	profile.Tiers[tier-1].Status = eligibility.StatusGranted
	if err := h.Store.SaveContributionProfile(ctx, profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contribution profile", err)
		return
	}

	h.publish(r, dispatch.PersonFactsChanged(personID))

	profile, err = h.Store.ContributionProfile(ctx, personID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload contribution profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toContributionProfileDTO(profile))
}

func parseTierRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req GrantTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return 0, false
	}
	if req.Tier < 1 || req.Tier > eligibility.TierCount {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("tier must be between 1 and %d", eligibility.TierCount), nil)
		return 0, false
	}
	return req.Tier, true
}

// =============================================================================
// UNIT HANDLERS
// =============================================================================

// ListUnits returns all units.
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Store.ListUnits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list units", err)
		return
	}

	dtos := make([]UnitDTO, len(units))
	for i, u := range units {
		dtos[i] = toUnitDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUnit returns a single unit.
func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id := eligibility.UnitID(chi.URLParam(r, "id"))

	u, err := h.Store.GetUnit(r.Context(), id)
	if eligibility.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Unit not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get unit", err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitDTO(u))
}

// SaveUnit creates or updates a unit.
func (h *Handler) SaveUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	u := eligibility.Unit{
		ID:       eligibility.UnitID(req.ID),
		Name:     req.Name,
		ParentID: eligibility.UnitID(req.ParentID),
	}
	if err := h.Store.SaveUnit(r.Context(), u); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save unit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUnitDTO(u))
}

// GetUnitProfile returns a unit's derived commendation profile.
func (h *Handler) GetUnitProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := eligibility.UnitID(chi.URLParam(r, "id"))

	profile, err := h.Store.UnitProfile(ctx, id)
	if eligibility.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Unit profile not found; recalculate first", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load unit profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitProfileDTO(profile))
}

// ListUnitAwards returns a unit's own title history (sub-unit records are
// folded in at calculation time, not here).
func (h *Handler) ListUnitAwards(w http.ResponseWriter, r *http.Request) {
	id := eligibility.UnitID(chi.URLParam(r, "id"))

	records, err := h.Store.UnitAwards(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list unit awards", err)
		return
	}

	dtos := make([]UnitAwardDTO, len(records))
	for i, rec := range records {
		dtos[i] = toUnitAwardDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUnitAward records a unit title outcome for one year.
func (h *Handler) CreateUnitAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	unitID := eligibility.UnitID(chi.URLParam(r, "id"))

	var req CreateUnitAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1900 || req.Year > 2200 {
		writeError(w, http.StatusBadRequest, "year out of range", nil)
		return
	}
	approval := eligibility.ApprovalPending
	if req.Approval != "" {
		parsed, ok := parseApproval(req.Approval)
		if !ok {
			writeError(w, http.StatusBadRequest,
				"approval must be pending, approved, or rejected", nil)
			return
		}
		approval = parsed
	}

	if _, err := h.Store.GetUnit(ctx, unitID); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Unit not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get unit", err)
		return
	}

	rec := eligibility.UnitAwardRecord{
		ID:       uuid.NewString(),
		UnitID:   unitID,
		Year:     req.Year,
		Title:    req.Title,
		Approval: approval,
	}
	if err := h.Store.CreateUnitAward(ctx, rec); err != nil {
		if eligibility.IsConflict(err) {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("A unit award record for %d already exists", req.Year), err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create unit award", err)
		return
	}

	h.publishUnitAward(r, unitID)
	writeJSON(w, http.StatusCreated, toUnitAwardDTO(rec))
}

// UpdateUnitAward changes the title or approval on a unit award record.
func (h *Handler) UpdateUnitAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req CreateUnitAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Store.GetUnitAward(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get unit award", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Unit award not found", nil)
		return
	}

	if req.Title != "" {
		rec.Title = req.Title
	}
	if req.Approval != "" {
		approval, ok := parseApproval(req.Approval)
		if !ok {
			writeError(w, http.StatusBadRequest,
				"approval must be pending, approved, or rejected", nil)
			return
		}
		rec.Approval = approval
	}

	if err := h.Store.UpdateUnitAward(ctx, *rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update unit award", err)
		return
	}

	h.publishUnitAward(r, rec.UnitID)
	writeJSON(w, http.StatusOK, toUnitAwardDTO(*rec))
}

// DeleteUnitAward removes a unit award record.
func (h *Handler) DeleteUnitAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetUnitAward(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get unit award", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Unit award not found", nil)
		return
	}

	if err := h.Store.DeleteUnitAward(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete unit award", err)
		return
	}

	h.publishUnitAward(r, rec.UnitID)
	w.WriteHeader(http.StatusNoContent)
}

// publishUnitAward dispatches a unit award change for the unit itself and,
// if it has a parent, for the parent too: parent streaks fold in sub-unit
// records.
func (h *Handler) publishUnitAward(r *http.Request, unitID eligibility.UnitID) {
	h.publish(r, dispatch.UnitAwardChanged(unitID))

	u, err := h.Store.GetUnit(r.Context(), unitID)
	if err != nil || u.ParentID == "" {
		return
	}
	h.publish(r, dispatch.UnitAwardChanged(u.ParentID))
}

// =============================================================================
// POSITION HANDLERS
// =============================================================================

// ListPositions returns the position catalog.
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Store.ListPositions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list positions", err)
		return
	}

	dtos := make([]PositionDTO, len(positions))
	for i, p := range positions {
		dtos[i] = toPositionDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SavePosition creates or updates a catalog position. Coefficient edits
// only affect assignments created afterwards.
func (h *Handler) SavePosition(w http.ResponseWriter, r *http.Request) {
	var req CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	coefficient, err := decimalFromString(req.Coefficient)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coefficient", err)
		return
	}

	pos := sqlite.Position{
		ID:                eligibility.PositionID(req.ID),
		Name:              req.Name,
		ContributionGroup: req.ContributionGroup,
		Coefficient:       coefficient,
	}
	if err := h.Store.SavePosition(r.Context(), pos); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save position", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPositionDTO(pos))
}

// =============================================================================
// RECALCULATION HANDLERS
// =============================================================================

// RecalcPerson runs all three individual calculators for one person.
// Unlike event-driven recomputation, errors propagate to the caller.
func (h *Handler) RecalcPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := eligibility.PersonID(chi.URLParam(r, "id"))

	if err := h.Dispatcher.RecalculatePerson(ctx, id); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Person not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Recalculation failed", err)
		return
	}

	h.GetProfiles(w, r)
}

// RecalcUnit recomputes one unit's profile.
func (h *Handler) RecalcUnit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := eligibility.UnitID(chi.URLParam(r, "id"))

	if err := h.Dispatcher.RecalculateUnit(ctx, id); err != nil {
		if eligibility.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Unit not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Recalculation failed", err)
		return
	}

	h.GetUnitProfile(w, r)
}

// RecalcAll recomputes every person and unit, e.g. after a policy change.
func (h *Handler) RecalcAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.Dispatcher.RecalculateAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Bulk recalculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, BulkResultDTO{
		Persons:   result.Persons,
		Units:     result.Units,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Errors:    result.Errors,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func parseOptionalDate(s string) (eligibility.Date, error) {
	if s == "" {
		return eligibility.Date{}, nil
	}
	return eligibility.ParseDate(s)
}

func parseTitle(s string) (eligibility.Title, bool) {
	switch eligibility.Title(s) {
	case eligibility.TitleNone, eligibility.TitleFirstClass, eligibility.TitleSecondClass:
		return eligibility.Title(s), true
	}
	return eligibility.TitleNone, false
}

func decimalFromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || d.IsZero() {
		return decimal.Zero, fmt.Errorf("coefficient must be positive, got %s", s)
	}
	return d, nil
}

func parseApproval(s string) (eligibility.ApprovalStatus, bool) {
	switch eligibility.ApprovalStatus(s) {
	case eligibility.ApprovalPending, eligibility.ApprovalApproved, eligibility.ApprovalRejected:
		return eligibility.ApprovalStatus(s), true
	}
	return eligibility.ApprovalPending, false
}
