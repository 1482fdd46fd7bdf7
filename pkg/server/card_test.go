package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/curvecard/curvecard/pkg/homeassistant"
	"github.com/curvecard/curvecard/pkg/storage"
	"github.com/curvecard/curvecard/pkg/types"
)

func optimizedStates() map[string]homeassistant.Entity {
	series := func(v float64) map[string]any {
		data := make([]any, 48)
		for i := range data {
			data[i] = v + float64(i%4)
		}
		return map[string]any{"data": data}
	}
	labels := make([]any, 48)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:%02d", i/2, (i%2)*30)
	}
	return map[string]homeassistant.Entity{
		homeassistant.EntityOptimizationSwitch: {
			EntityID: homeassistant.EntityOptimizationSwitch, State: "on",
		},
		homeassistant.EntityStatusSensor: {
			EntityID: homeassistant.EntityStatusSensor, State: "Optimized",
		},
		homeassistant.EntitySavingsSensor: {
			EntityID: homeassistant.EntitySavingsSensor, State: "42.7",
		},
		homeassistant.EntityCO2Sensor: {
			EntityID:   homeassistant.EntityCO2Sensor,
			State:      "0.21",
			Attributes: map[string]any{homeassistant.AttrCarsEquivalent: "1.1 cars"},
		},
		homeassistant.EntitySetpointSensor: {
			EntityID: homeassistant.EntitySetpointSensor, State: "72",
		},
		homeassistant.EntityIntervalSensor: {
			EntityID: homeassistant.EntityIntervalSensor, State: "09:00 - 09:30",
		},
		homeassistant.EntityChartSensor: {
			EntityID: homeassistant.EntityChartSensor,
			Attributes: map[string]any{
				homeassistant.AttrGraphData: map[string]any{
					"datasets":    []any{series(70), series(75), series(66), series(10)},
					"time_labels": labels,
				},
			},
		},
	}
}

func TestGetCard(t *testing.T) {
	ha := new(homeassistant.MockClient)
	ha.On("States", mock.Anything).Return(optimizedStates(), nil)
	srv := newTestServer(t, ha, storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/api/card", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res CardRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.State.Toggle)
	assert.Equal(t, "$42.70", res.State.Savings)
	assert.Equal(t, "0.210 t", res.State.CO2Avoided)
	assert.Equal(t, "1.1 cars", res.State.CarsEquivalent)
	assert.Equal(t, "72.0°F", res.State.NextSetpoint)
	assert.Equal(t, "09:00 - 09:30", res.State.CurrentInterval)
	assert.Equal(t, "dashboard", res.Mode.String())
	assert.Equal(t, 4, res.SizeHint)
	assert.Empty(t, res.Placeholder)
	require.NotNil(t, res.State.Dataset)
}

func TestGetCardPlaceholder(t *testing.T) {
	ha := new(homeassistant.MockClient)
	ha.On("States", mock.Anything).Return(map[string]homeassistant.Entity{}, nil)
	srv := newTestServer(t, ha, storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/api/card", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res CardRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Nil(t, res.State.Dataset)
	assert.Equal(t, "No schedule yet", res.Placeholder)
}

func TestGetChart(t *testing.T) {
	ha := new(homeassistant.MockClient)
	ha.On("States", mock.Anything).Return(optimizedStates(), nil)
	srv := newTestServer(t, ha, storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/api/card/chart.svg?w=600&h=300", nil)
	req.Header.Set("Accept-Encoding", "identity")
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `width="600"`)
	assert.Contains(t, body, "polyline")
}

func TestGetChartPlaceholder(t *testing.T) {
	ha := new(homeassistant.MockClient)
	ha.On("States", mock.Anything).Return(map[string]homeassistant.Entity{}, nil)
	srv := newTestServer(t, ha, storage.NewMemory())

	// garbage dimensions fall back to the defaults
	req := httptest.NewRequest(http.MethodGet, "/api/card/chart.svg?w=-5&h=abc", nil)
	req.Header.Set("Accept-Encoding", "identity")
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `width="500"`)
	assert.Contains(t, body, "No schedule yet")
	assert.NotContains(t, body, "polyline")
}

func TestToggle(t *testing.T) {
	ha := new(homeassistant.MockClient)
	ha.On("States", mock.Anything).Return(optimizedStates(), nil)
	ha.On("CallService", mock.Anything, homeassistant.SwitchDomain,
		homeassistant.ServiceTurnOff, mock.Anything).Return(nil).Once()
	srv := newTestServer(t, ha, storage.NewMemory())
	handler := srv.setupHandler()

	// seed the card state so the toggle knows the switch is on
	req := httptest.NewRequest(http.MethodGet, "/api/card", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/card/toggle", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	ha.AssertExpectations(t)
}

func TestSubmitScheduleBasicForm(t *testing.T) {
	ha := new(homeassistant.MockClient)
	db := storage.NewMemory()
	ha.On("States", mock.Anything).Return(optimizedStates(), nil)
	ha.On("CallService", mock.Anything, homeassistant.Domain,
		homeassistant.ServiceUpdateSchedule, mock.MatchedBy(func(data map[string]any) bool {
			return data["homeSize"] == 2600 && data["savingsLevel"] == 3
		})).Return(nil).Once()
	srv := newTestServer(t, ha, db)

	form := url.Values{
		"mode":         {"basic"},
		"homeSize":     {"2600"},
		"savingsLevel": {"3"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/card/schedule",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	ha.AssertExpectations(t)

	// accepted submissions are persisted
	prefs, _, err := db.GetPreferences(req.Context())
	require.NoError(t, err)
	assert.Equal(t, 2600, prefs.HomeSizeSqFt)
}

func TestSubmitScheduleDetailedForm(t *testing.T) {
	ha := new(homeassistant.MockClient)
	ha.On("States", mock.Anything).Return(optimizedStates(), nil)
	ha.On("CallService", mock.Anything, homeassistant.Domain,
		homeassistant.ServiceUpdateSchedule, mock.MatchedBy(func(data map[string]any) bool {
			sched, ok := data["temperatureSchedule"].(map[string]any)
			if !ok {
				return false
			}
			high := sched["highTemperatures"].([]float64)
			// hourly values expand into consecutive half-hour slots
			return len(high) == 48 && high[0] == 78 && high[1] == 78
		})).Return(nil).Once()
	srv := newTestServer(t, ha, storage.NewMemory())

	form := url.Values{
		"mode":    {"detailed"},
		"high_00": {"78"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/card/schedule",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	ha.AssertExpectations(t)
}

func TestSubmitScheduleInvalid(t *testing.T) {
	ha := new(homeassistant.MockClient)
	srv := newTestServer(t, ha, storage.NewMemory())

	req := httptest.NewRequest(http.MethodPost, "/api/card/schedule",
		strings.NewReader(`{"homeSizeSqFt": 50}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ha.AssertNotCalled(t, "CallService", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitScheduleFailureKeepsMode(t *testing.T) {
	ha := new(homeassistant.MockClient)
	srv := newTestServer(t, ha, storage.NewMemory())
	handler := srv.setupHandler()

	// user is editing the detailed schedule
	req := httptest.NewRequest(http.MethodPost, "/api/card/mode",
		strings.NewReader(`{"mode":"detailedSchedule"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/card/schedule",
		strings.NewReader(`{"homeSizeSqFt": 50}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// the rejection names the problem so the frontend can show it
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errRes struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errRes))
	assert.NotEmpty(t, errRes.Error)

	// a failed submission must not bounce the card back to the dashboard
	assert.Equal(t, types.ModeDetailedSchedule, srv.card.Mode())
}

func TestSetMode(t *testing.T) {
	ha := new(homeassistant.MockClient)
	srv := newTestServer(t, ha, storage.NewMemory())

	req := httptest.NewRequest(http.MethodPost, "/api/card/mode",
		strings.NewReader(`{"mode":"detailedSchedule"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Mode     string `json:"mode"`
		SizeHint int    `json:"sizeHint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "detailedSchedule", res.Mode)
	assert.Equal(t, 8, res.SizeHint)
}
