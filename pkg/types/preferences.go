package types

import (
	"fmt"
	"math"

	"github.com/curvecard/curvecard/pkg/rateplan"
)

// CurrentPreferencesVersion is the current version of the stored preferences.
// Increment when adding fields that need backfilled defaults.
const CurrentPreferencesVersion = 2

// Preference defaults, matching the backend's config defaults.
const (
	DefaultHomeSizeSqFt       = 2000
	DefaultTargetTemperatureF = 72
	DefaultTimeAway           = "08:00"
	DefaultTimeHome           = "17:00"
	DefaultSavingsLevel       = 2
	DefaultHourlyHighF        = 75
	DefaultHourlyLowF         = 69
)

// PreferenceRequest is the write-path payload for a schedule update. Basic
// mode carries only the scalar fields; detailed mode additionally carries the
// 24 per-hour comfort bounds.
type PreferenceRequest struct {
	HomeSizeSqFt       int         `json:"homeSizeSqFt"`
	TargetTemperatureF float64     `json:"targetTemperatureF"`
	RatePlan           rateplan.ID `json:"ratePlanId"`
	TimeAway           string      `json:"timeAway"`
	TimeHome           string      `json:"timeHome"`
	SavingsLevel       int         `json:"savingsLevel"`

	// Detailed mode only; exactly 24 entries each when present.
	HourlyHighLimitsF []float64 `json:"hourlyHighLimitsF,omitempty"`
	HourlyLowLimitsF  []float64 `json:"hourlyLowLimitsF,omitempty"`
}

// DefaultPreferences returns the documented field defaults for the basic form.
func DefaultPreferences() PreferenceRequest {
	return PreferenceRequest{
		HomeSizeSqFt:       DefaultHomeSizeSqFt,
		TargetTemperatureF: DefaultTargetTemperatureF,
		RatePlan:           rateplan.Default,
		TimeAway:           DefaultTimeAway,
		TimeHome:           DefaultTimeHome,
		SavingsLevel:       DefaultSavingsLevel,
	}
}

// Detailed reports whether the request carries per-hour comfort bounds.
func (p *PreferenceRequest) Detailed() bool {
	return len(p.HourlyHighLimitsF) > 0 || len(p.HourlyLowLimitsF) > 0
}

// Validate applies the advisory field ranges. The backend remains the source
// of truth for rejecting values; this mirrors the form's min/max hints so the
// API can give an immediate answer for obviously broken payloads.
func (p *PreferenceRequest) Validate() error {
	if p.HomeSizeSqFt < 500 || p.HomeSizeSqFt > 10000 {
		return fmt.Errorf("home size must be between 500 and 10000 sq ft")
	}
	if p.TargetTemperatureF < 65 || p.TargetTemperatureF > 80 {
		return fmt.Errorf("target temperature must be between 65 and 80 °F")
	}
	if !p.RatePlan.Valid() {
		return fmt.Errorf("unknown rate plan %d", int(p.RatePlan))
	}
	if p.SavingsLevel < 1 || p.SavingsLevel > 3 {
		return fmt.Errorf("savings level must be 1, 2 or 3")
	}
	for _, ts := range []string{p.TimeAway, p.TimeHome} {
		if !validClockTime(ts) {
			return fmt.Errorf("invalid time of day %q", ts)
		}
	}
	if p.Detailed() {
		if len(p.HourlyHighLimitsF) != 24 || len(p.HourlyLowLimitsF) != 24 {
			return fmt.Errorf("detailed schedule needs 24 high and 24 low entries, got %d/%d",
				len(p.HourlyHighLimitsF), len(p.HourlyLowLimitsF))
		}
		for hour := 0; hour < 24; hour++ {
			hi, lo := p.HourlyHighLimitsF[hour], p.HourlyLowLimitsF[hour]
			for _, v := range []float64{hi, lo} {
				if v < 65 || v > 85 {
					return fmt.Errorf("hour %d: limit %.1f outside 65-85 °F", hour, v)
				}
			}
			if lo > hi {
				return fmt.Errorf("hour %d: low limit %.1f above high limit %.1f", hour, lo, hi)
			}
		}
	}
	return nil
}

func validClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// ExpandHourly duplicates each of the 24 hourly values into the consecutive
// interval slots covering that hour, so a detailed schedule lines up with the
// backend's native interval count (48 slots at 30-minute resolution: hourly
// value k lands in slots 2k and 2k+1).
func ExpandHourly(hourly []float64, intervalMinutes int) ([]float64, error) {
	if len(hourly) != 24 {
		return nil, fmt.Errorf("expected 24 hourly values, got %d", len(hourly))
	}
	if intervalMinutes <= 0 || 60%intervalMinutes != 0 {
		return nil, fmt.Errorf("interval %d does not divide an hour", intervalMinutes)
	}
	perHour := 60 / intervalMinutes
	out := make([]float64, 0, 24*perHour)
	for _, v := range hourly {
		for i := 0; i < perHour; i++ {
			out = append(out, v)
		}
	}
	return out, nil
}

// ServicePayload marshals the request into the field names the backend's
// update_schedule service expects. Detailed bounds are expanded to the
// backend's native interval resolution.
func (p *PreferenceRequest) ServicePayload() (map[string]any, error) {
	payload := map[string]any{
		"homeSize":        p.HomeSizeSqFt,
		"homeTemperature": p.TargetTemperatureF,
		"location":        int(p.RatePlan),
		"timeAway":        p.TimeAway,
		"timeHome":        p.TimeHome,
		"savingsLevel":    p.SavingsLevel,
	}
	if p.Detailed() {
		high, err := ExpandHourly(p.HourlyHighLimitsF, DefaultIntervalMinutes)
		if err != nil {
			return nil, fmt.Errorf("high limits: %w", err)
		}
		low, err := ExpandHourly(p.HourlyLowLimitsF, DefaultIntervalMinutes)
		if err != nil {
			return nil, fmt.Errorf("low limits: %w", err)
		}
		payload["temperatureSchedule"] = map[string]any{
			"highTemperatures": high,
			"lowTemperatures":  low,
			"intervalMinutes":  DefaultIntervalMinutes,
			"totalIntervals":   len(high),
		}
	}
	return payload, nil
}

// MigratePreferences migrates stored preferences to the current version,
// returning the migrated value and whether anything changed.
func MigratePreferences(p PreferenceRequest, currentVersion int) (PreferenceRequest, bool, error) {
	if currentVersion >= CurrentPreferencesVersion {
		return p, false, nil
	}

	migrated := false
	for version := currentVersion + 1; version <= CurrentPreferencesVersion; version++ {
		switch version {
		case 1:
			// version 1: backfill the basic-form defaults
			if p.HomeSizeSqFt == 0 {
				p.HomeSizeSqFt = DefaultHomeSizeSqFt
				migrated = true
			}
			if p.TargetTemperatureF == 0 {
				p.TargetTemperatureF = DefaultTargetTemperatureF
				migrated = true
			}
			if p.RatePlan == 0 {
				p.RatePlan = rateplan.Default
				migrated = true
			}
			if p.TimeAway == "" {
				p.TimeAway = DefaultTimeAway
				migrated = true
			}
			if p.TimeHome == "" {
				p.TimeHome = DefaultTimeHome
				migrated = true
			}
			if p.SavingsLevel == 0 {
				p.SavingsLevel = DefaultSavingsLevel
				migrated = true
			}
		case 2:
			// version 2: detailed bounds were added; a stored half-filled pair
			// is padded so the detailed form round-trips
			if p.Detailed() && (len(p.HourlyHighLimitsF) != 24 || len(p.HourlyLowLimitsF) != 24) {
				p.HourlyHighLimitsF = padHourly(p.HourlyHighLimitsF, DefaultHourlyHighF)
				p.HourlyLowLimitsF = padHourly(p.HourlyLowLimitsF, DefaultHourlyLowF)
				migrated = true
			}
		default:
			return p, false, fmt.Errorf("unknown preferences version: %d", version)
		}
	}
	return p, migrated, nil
}

func padHourly(vals []float64, def float64) []float64 {
	out := make([]float64, 24)
	for i := range out {
		if i < len(vals) && !math.IsNaN(vals[i]) {
			out[i] = vals[i]
		} else {
			out[i] = def
		}
	}
	return out
}
