package card

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/curvecard/curvecard/pkg/rateplan"
	"github.com/curvecard/curvecard/pkg/types"
)

// ParseBasic decodes a basic-settings form submission. Missing or
// non-numeric fields fall back to the documented defaults rather than
// failing; validation happens later in SubmitPreferences.
func ParseBasic(form url.Values) types.PreferenceRequest {
	req := types.DefaultPreferences()
	req.HomeSizeSqFt = intField(form, "homeSize", req.HomeSizeSqFt)
	req.TargetTemperatureF = floatField(form, "targetTemperature", req.TargetTemperatureF)
	req.RatePlan = rateplan.ID(intField(form, "ratePlan", int(req.RatePlan)))
	if v := form.Get("timeAway"); v != "" {
		req.TimeAway = v
	}
	if v := form.Get("timeHome"); v != "" {
		req.TimeHome = v
	}
	req.SavingsLevel = intField(form, "savingsLevel", req.SavingsLevel)
	return req
}

// ParseDetailed decodes a detailed-schedule submission: the basic fields
// plus 24 per-hour limit pairs named high_00..high_23 and low_00..low_23.
// Missing hours take the hourly defaults of 75 high and 69 low.
func ParseDetailed(form url.Values) types.PreferenceRequest {
	req := ParseBasic(form)
	req.HourlyHighLimitsF = make([]float64, 24)
	req.HourlyLowLimitsF = make([]float64, 24)
	for h := 0; h < 24; h++ {
		req.HourlyHighLimitsF[h] = floatField(form, fmt.Sprintf("high_%02d", h), types.DefaultHourlyHighF)
		req.HourlyLowLimitsF[h] = floatField(form, fmt.Sprintf("low_%02d", h), types.DefaultHourlyLowF)
	}
	return req
}

func intField(form url.Values, name string, def int) int {
	v, err := strconv.Atoi(form.Get(name))
	if err != nil {
		return def
	}
	return v
}

func floatField(form url.Values, name string, def float64) float64 {
	v, err := strconv.ParseFloat(form.Get(name), 64)
	if err != nil {
		return def
	}
	return v
}
