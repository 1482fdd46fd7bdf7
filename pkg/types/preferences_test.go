package types

import (
	"testing"

	"github.com/curvecard/curvecard/pkg/rateplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	assert.Equal(t, 2000, p.HomeSizeSqFt)
	assert.Equal(t, 72.0, p.TargetTemperatureF)
	assert.Equal(t, rateplan.ID(1), p.RatePlan)
	assert.Equal(t, "08:00", p.TimeAway)
	assert.Equal(t, "17:00", p.TimeHome)
	assert.Equal(t, 2, p.SavingsLevel)
	assert.False(t, p.Detailed())
	assert.NoError(t, p.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PreferenceRequest)
		errMsg string
	}{
		{"home size too small", func(p *PreferenceRequest) { p.HomeSizeSqFt = 499 }, "home size"},
		{"home size too large", func(p *PreferenceRequest) { p.HomeSizeSqFt = 10001 }, "home size"},
		{"target too cold", func(p *PreferenceRequest) { p.TargetTemperatureF = 64.5 }, "target temperature"},
		{"target too hot", func(p *PreferenceRequest) { p.TargetTemperatureF = 80.5 }, "target temperature"},
		{"unknown plan", func(p *PreferenceRequest) { p.RatePlan = 9 }, "rate plan"},
		{"free nights not selectable", func(p *PreferenceRequest) { p.RatePlan = rateplan.TexasFreeNight }, "rate plan"},
		{"bad savings level", func(p *PreferenceRequest) { p.SavingsLevel = 4 }, "savings level"},
		{"bad time", func(p *PreferenceRequest) { p.TimeAway = "25:00" }, "time of day"},
		{"malformed time", func(p *PreferenceRequest) { p.TimeHome = "5pm" }, "time of day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateDetailed(t *testing.T) {
	p := DefaultPreferences()
	p.HourlyHighLimitsF = repeatF(75, 24)
	p.HourlyLowLimitsF = repeatF(69, 24)
	assert.True(t, p.Detailed())
	assert.NoError(t, p.Validate())

	p.HourlyHighLimitsF = repeatF(75, 23)
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "24 high")

	p.HourlyHighLimitsF = repeatF(86, 24)
	require.Error(t, p.Validate())

	p.HourlyHighLimitsF = repeatF(70, 24)
	p.HourlyLowLimitsF = repeatF(72, 24)
	err = p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "above high limit")
}

func TestExpandHourly(t *testing.T) {
	hourly := make([]float64, 24)
	for i := range hourly {
		hourly[i] = 65 + float64(i)*0.5
	}

	expanded, err := ExpandHourly(hourly, 30)
	require.NoError(t, err)
	require.Len(t, expanded, 48)
	for k := 0; k < 24; k++ {
		assert.Equal(t, hourly[k], expanded[2*k], "slot %d", 2*k)
		assert.Equal(t, hourly[k], expanded[2*k+1], "slot %d", 2*k+1)
	}

	// 60-minute intervals pass through untouched
	same, err := ExpandHourly(hourly, 60)
	require.NoError(t, err)
	assert.Equal(t, hourly, same)

	_, err = ExpandHourly(hourly[:23], 30)
	assert.Error(t, err)
	_, err = ExpandHourly(hourly, 45)
	assert.Error(t, err)
}

func TestServicePayload(t *testing.T) {
	p := DefaultPreferences()
	payload, err := p.ServicePayload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"homeSize":        2000,
		"homeTemperature": 72.0,
		"location":        1,
		"timeAway":        "08:00",
		"timeHome":        "17:00",
		"savingsLevel":    2,
	}, payload)

	p.RatePlan = rateplan.TexasXcelTOU
	p.HourlyHighLimitsF = repeatF(76, 24)
	p.HourlyLowLimitsF = repeatF(68, 24)
	payload, err = p.ServicePayload()
	require.NoError(t, err)
	assert.Equal(t, 7, payload["location"])

	sched, ok := payload["temperatureSchedule"].(map[string]any)
	require.True(t, ok, "detailed request must include temperatureSchedule")
	assert.Equal(t, 30, sched["intervalMinutes"])
	assert.Equal(t, 48, sched["totalIntervals"])
	assert.Equal(t, repeatF(76, 48), sched["highTemperatures"])
	assert.Equal(t, repeatF(68, 48), sched["lowTemperatures"])
}

func TestMigratePreferences(t *testing.T) {
	// version 0 -> current backfills every default
	p, changed, err := MigratePreferences(PreferenceRequest{}, 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, DefaultPreferences(), p)

	// already current: untouched
	p2, changed, err := MigratePreferences(p, CurrentPreferencesVersion)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, p, p2)

	// half-filled detailed bounds get padded at version 2
	partial := DefaultPreferences()
	partial.HourlyHighLimitsF = []float64{80, 80}
	p3, changed, err := MigratePreferences(partial, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, p3.HourlyHighLimitsF, 24)
	require.Len(t, p3.HourlyLowLimitsF, 24)
	assert.Equal(t, 80.0, p3.HourlyHighLimitsF[0])
	assert.Equal(t, float64(DefaultHourlyHighF), p3.HourlyHighLimitsF[2])
	assert.Equal(t, float64(DefaultHourlyLowF), p3.HourlyLowLimitsF[0])
}

func repeatF(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}
