package types

import (
	"fmt"
	"math"
)

const (
	// DefaultIntervalMinutes is the backend's native schedule resolution.
	DefaultIntervalMinutes = 30
	// MinutesPerDay is used to check that a dataset covers whole days.
	MinutesPerDay = 24 * 60
)

// ScheduleDataset is the payload driving the schedule chart. It is produced
// wholesale by the backend's chart sensor; the card never mutates it and
// replaces it entirely on every refresh.
type ScheduleDataset struct {
	TargetTemperatures []float64 `json:"targetTemperatures"`
	HighLimits         []float64 `json:"highLimits"`
	LowLimits          []float64 `json:"lowLimits"`
	ElectricityPrices  []float64 `json:"electricityPrices"`
	IntervalMinutes    int       `json:"intervalMinutes"`
	TimeLabels         []string  `json:"timeLabels,omitempty"`
}

// Intervals returns the number of samples in the dataset.
func (d *ScheduleDataset) Intervals() int {
	return len(d.TargetTemperatures)
}

// Validate checks the dataset invariants: all four series have equal non-zero
// length, every value is finite, and the length covers whole days at the
// stated interval.
func (d *ScheduleDataset) Validate() error {
	n := len(d.TargetTemperatures)
	if n == 0 {
		return fmt.Errorf("dataset has no samples")
	}
	if len(d.HighLimits) != n || len(d.LowLimits) != n || len(d.ElectricityPrices) != n {
		return fmt.Errorf("series lengths differ: target=%d high=%d low=%d price=%d",
			n, len(d.HighLimits), len(d.LowLimits), len(d.ElectricityPrices))
	}
	if d.IntervalMinutes <= 0 {
		return fmt.Errorf("invalid interval minutes: %d", d.IntervalMinutes)
	}
	perDay := MinutesPerDay / d.IntervalMinutes
	if perDay == 0 || n%perDay != 0 {
		return fmt.Errorf("sample count %d is not a whole number of days at %d-minute intervals", n, d.IntervalMinutes)
	}
	for _, series := range [][]float64{d.TargetTemperatures, d.HighLimits, d.LowLimits, d.ElectricityPrices} {
		for _, v := range series {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("series contains a non-finite value")
			}
		}
	}
	return nil
}

// DatasetFromGraphData decodes the chart sensor's graph_data attribute, shaped
// as {"datasets": [{"data": [...]}, ...], "time_labels": [...]} with dataset
// index 0 = target, 1 = high limit, 2 = low limit, 3 = price. It returns nil
// when the attribute is missing, null, or not shaped like chart data; a
// malformed payload is the "no data" path, never an error.
func DatasetFromGraphData(attr any) *ScheduleDataset {
	m, ok := attr.(map[string]any)
	if !ok {
		return nil
	}
	rawSets, ok := m["datasets"].([]any)
	if !ok || len(rawSets) < 4 {
		return nil
	}
	series := make([][]float64, 0, 4)
	for _, rs := range rawSets[:4] {
		sm, ok := rs.(map[string]any)
		if !ok {
			return nil
		}
		data, ok := sm["data"].([]any)
		if !ok {
			return nil
		}
		vals := make([]float64, 0, len(data))
		for _, dv := range data {
			f, ok := toFloat(dv)
			if !ok {
				return nil
			}
			vals = append(vals, f)
		}
		series = append(series, vals)
	}
	d := &ScheduleDataset{
		TargetTemperatures: series[0],
		HighLimits:         series[1],
		LowLimits:          series[2],
		ElectricityPrices:  series[3],
		IntervalMinutes:    DefaultIntervalMinutes,
	}
	if labels, ok := m["time_labels"].([]any); ok {
		d.TimeLabels = make([]string, 0, len(labels))
		for _, l := range labels {
			s, ok := l.(string)
			if !ok {
				return nil
			}
			d.TimeLabels = append(d.TimeLabels, s)
		}
	}
	if err := d.Validate(); err != nil {
		return nil
	}
	return d
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	// json.Number shows up when callers decode with UseNumber.
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
