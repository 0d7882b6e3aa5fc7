package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meritdesk/awards-engine/api"
	"github.com/meritdesk/awards-engine/dispatch"
	"github.com/meritdesk/awards-engine/person"
	"github.com/meritdesk/awards-engine/store/sqlite"
	"github.com/meritdesk/awards-engine/unit"
)

// newTestServer wires the full stack against an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	d := dispatch.NewDispatcher(
		person.NewCalculator(store), unit.NewCalculator(store), zap.NewNop())
	h := api.NewHandler(store, d, zap.NewNop())

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with a JSON body and decodes the JSON response
// into out (skipped when out is nil or the response has no body).
func doJSON(t *testing.T, method, url string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func seedPerson(t *testing.T, srv *httptest.Server, id, name, enlistedOn string) {
	t.Helper()
	code := doJSON(t, http.MethodPost, srv.URL+"/api/persons", map[string]any{
		"id": id, "name": name, "enlisted_on": enlistedOn,
	}, nil)
	require.Equal(t, http.StatusCreated, code)
}

// =============================================================================
// PERSON + PROFILE FLOW
// =============================================================================

func TestSavePersonAndGet(t *testing.T) {
	srv := newTestServer(t)

	seedPerson(t, srv, "p1", "Chen Wei", "2015-03-01")

	var got map[string]any
	code := doJSON(t, http.MethodGet, srv.URL+"/api/persons/p1", nil, &got)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Chen Wei", got["name"])
	assert.Equal(t, "2015-03-01", got["enlisted_on"])

	code = doJSON(t, http.MethodGet, srv.URL+"/api/persons/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAwardFlow_RecomputesAnnualProfile(t *testing.T) {
	srv := newTestServer(t)
	year := time.Now().UTC().Year()

	seedPerson(t, srv, "p1", "Chen Wei", "2015-03-01")

	// Two consecutive first-class years, both backed by an approved
	// achievement: the merit citation window opens.
	for _, y := range []int{year - 2, year - 1} {
		code := doJSON(t, http.MethodPost, srv.URL+"/api/persons/p1/awards",
			map[string]any{"year": y, "title": "first_class"}, nil)
		require.Equal(t, http.StatusCreated, code)

		code = doJSON(t, http.MethodPost, srv.URL+"/api/persons/p1/achievements",
			map[string]any{"year": y, "kind": "marksmanship", "approval": "approved"}, nil)
		require.Equal(t, http.StatusCreated, code)
	}

	var profiles map[string]json.RawMessage
	code := doJSON(t, http.MethodGet, srv.URL+"/api/persons/p1/profiles", nil, &profiles)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, profiles, "annual")

	var annual struct {
		StreakLength          int  `json:"streak_length"`
		MeritCitationEligible bool `json:"merit_citation_eligible"`
	}
	require.NoError(t, json.Unmarshal(profiles["annual"], &annual))
	assert.Equal(t, 2, annual.StreakLength)
	assert.True(t, annual.MeritCitationEligible)
}

func TestCreateAward_DuplicateYearConflicts(t *testing.T) {
	srv := newTestServer(t)
	year := time.Now().UTC().Year()

	seedPerson(t, srv, "p1", "Chen Wei", "2015-03-01")

	body := map[string]any{"year": year - 1, "title": "first_class"}
	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, srv.URL+"/api/persons/p1/awards", body, nil))
	assert.Equal(t, http.StatusConflict,
		doJSON(t, http.MethodPost, srv.URL+"/api/persons/p1/awards", body, nil))
}

func TestCreateAward_UnknownPerson(t *testing.T) {
	srv := newTestServer(t)

	code := doJSON(t, http.MethodPost, srv.URL+"/api/persons/ghost/awards",
		map[string]any{"year": 2023, "title": "first_class"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

// =============================================================================
// TIER GRANT FLOW
// =============================================================================

func TestGrantServiceTier(t *testing.T) {
	srv := newTestServer(t)
	year := time.Now().UTC().Year()

	// 12 years of service: the first tier (10 years) is eligible, the
	// second (20) is not.
	seedPerson(t, srv, "p1", "Maria Silva", fmt.Sprintf("%d-01-01", year-12))

	var granted struct {
		Tiers []struct {
			Status string `json:"status"`
		} `json:"tiers"`
	}
	code := doJSON(t, http.MethodPost,
		srv.URL+"/api/persons/p1/profiles/service/grant",
		map[string]any{"tier": 1}, &granted)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, granted.Tiers, 3)
	assert.Equal(t, "granted", granted.Tiers[0].Status)
	assert.Equal(t, "not_yet", granted.Tiers[1].Status)

	// Tier 2 is not eligible yet.
	code = doJSON(t, http.MethodPost,
		srv.URL+"/api/persons/p1/profiles/service/grant",
		map[string]any{"tier": 2}, nil)
	assert.Equal(t, http.StatusConflict, code)

	// Out-of-range tier.
	code = doJSON(t, http.MethodPost,
		srv.URL+"/api/persons/p1/profiles/service/grant",
		map[string]any{"tier": 9}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

// =============================================================================
// UNIT FLOW
// =============================================================================

func TestUnitAwardFlow_StreakCommendation(t *testing.T) {
	srv := newTestServer(t)
	year := time.Now().UTC().Year()

	code := doJSON(t, http.MethodPost, srv.URL+"/api/units",
		map[string]any{"id": "bn-1", "name": "1st Battalion"}, nil)
	require.Equal(t, http.StatusCreated, code)

	for _, y := range []int{year - 3, year - 2, year - 1} {
		code = doJSON(t, http.MethodPost, srv.URL+"/api/units/bn-1/awards",
			map[string]any{"year": y, "title": "model unit", "approval": "approved"}, nil)
		require.Equal(t, http.StatusCreated, code)
	}

	var profile struct {
		StreakLength          int  `json:"streak_length"`
		Commendation1Eligible bool `json:"commendation1_eligible"`
		Commendation2Eligible bool `json:"commendation2_eligible"`
	}
	code = doJSON(t, http.MethodGet, srv.URL+"/api/units/bn-1/profile", nil, &profile)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, profile.StreakLength)
	assert.True(t, profile.Commendation1Eligible)
	assert.False(t, profile.Commendation2Eligible)
}

// =============================================================================
// BULK RECALCULATION + SCENARIOS
// =============================================================================

func TestRecalcAll(t *testing.T) {
	srv := newTestServer(t)

	seedPerson(t, srv, "p1", "Chen Wei", "2015-03-01")
	require.Equal(t, http.StatusCreated,
		doJSON(t, http.MethodPost, srv.URL+"/api/units",
			map[string]any{"id": "bn-1", "name": "1st Battalion"}, nil))

	var result struct {
		Persons   int `json:"persons"`
		Units     int `json:"units"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	code := doJSON(t, http.MethodPost, srv.URL+"/api/recalc/all", nil, &result)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, result.Persons)
	assert.Equal(t, 1, result.Units)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

func TestLoadScenario(t *testing.T) {
	srv := newTestServer(t)

	code := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "tenure-tiers"}, nil)
	require.Equal(t, http.StatusOK, code)

	var current map[string]string
	code = doJSON(t, http.MethodGet, srv.URL+"/api/scenarios/current", nil, &current)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "tenure-tiers", current["scenario_id"])

	code = doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "no-such"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
