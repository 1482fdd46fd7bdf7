package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvecard/curvecard/pkg/homeassistant"
	"github.com/curvecard/curvecard/pkg/rateplan"
	"github.com/curvecard/curvecard/pkg/storage"
	"github.com/curvecard/curvecard/pkg/types"
)

func TestGetPreferencesDefaults(t *testing.T) {
	srv := newTestServer(t, new(homeassistant.MockClient), storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res PreferencesRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Stored)
	assert.Equal(t, types.DefaultPreferences(), res.Preferences)
}

func TestGetPreferencesStored(t *testing.T) {
	db := storage.NewMemory()
	want := types.DefaultPreferences()
	want.HomeSizeSqFt = 4100
	require.NoError(t, db.SetPreferences(context.Background(), want, types.CurrentPreferencesVersion))
	srv := newTestServer(t, new(homeassistant.MockClient), db)

	req := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res PreferencesRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Stored)
	assert.Equal(t, 4100, res.Preferences.HomeSizeSqFt)
	assert.Equal(t, types.CurrentPreferencesVersion, res.Version)
}

func TestGetPreferencesMigrates(t *testing.T) {
	db := storage.NewMemory()
	// version 0 rows predate the rate plan field
	old := types.PreferenceRequest{HomeSizeSqFt: 1500}
	require.NoError(t, db.SetPreferences(context.Background(), old, 0))
	srv := newTestServer(t, new(homeassistant.MockClient), db)

	req := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res PreferencesRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, types.CurrentPreferencesVersion, res.Version)
	assert.Equal(t, 1500, res.Preferences.HomeSizeSqFt)
	assert.Equal(t, rateplan.Default, res.Preferences.RatePlan)

	// the migrated copy is written back
	stored, version, err := db.GetPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.CurrentPreferencesVersion, version)
	assert.Equal(t, rateplan.Default, stored.RatePlan)
}

func TestListRatePlans(t *testing.T) {
	srv := newTestServer(t, new(homeassistant.MockClient), storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/api/rateplans", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Plans []rateplan.Plan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Plans, rateplan.NumSelectable)
	assert.Equal(t, rateplan.SDGETouDR1, res.Plans[0].ID)

	// each plan carries its full price curve and tier labels for the
	// settings form preview
	for _, p := range res.Plans {
		require.Len(t, p.Prices, 48, "plan %d", p.ID)
		require.Len(t, p.TierLabels, 48, "plan %d", p.ID)
		assert.Greater(t, p.PriceCeiling, 0.0)
	}
	assert.Equal(t, 24.7, res.Plans[0].Prices[0])
	assert.Equal(t, "Off-Peak", res.Plans[0].TierLabels[0])
}

func TestSubmissionHistory(t *testing.T) {
	db := storage.NewMemory()
	require.NoError(t, db.InsertSubmission(context.Background(), types.DefaultPreferences()))
	srv := newTestServer(t, new(homeassistant.MockClient), db)
	handler := srv.setupHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/history/submissions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Submissions []storage.Submission `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Submissions, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/history/submissions?start=yesterday", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
