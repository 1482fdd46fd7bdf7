package chart

import (
	"math"

	"github.com/curvecard/curvecard/pkg/types"
)

// Padding is the fixed margin reserved on every side of the plot area.
const Padding = 40

// Geometry maps dataset indices and values to surface coordinates. It is
// recomputed on every render because the dataset can change shape and range
// between updates.
type Geometry struct {
	W, H float64
	N    int

	// Temperature axis bounds: floor of the series minimum minus 2 and ceil
	// of the maximum plus 2, over the union of target/high/low.
	AxisMin, AxisMax float64

	// PriceCeiling is the fixed top of the right-hand price axis.
	PriceCeiling float64
}

// NewGeometry computes the mapping for a dataset on a w×h surface. ok is
// false when the surface is too small to hold the padded plot area or the
// dataset has fewer than two samples.
func NewGeometry(w, h float64, d *types.ScheduleDataset, priceCeiling float64) (Geometry, bool) {
	g := Geometry{W: w, H: h, PriceCeiling: priceCeiling}
	if w <= 2*Padding || h <= 2*Padding || d == nil {
		return g, false
	}
	g.N = d.Intervals()
	if g.N < 2 {
		return g, false
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, series := range [][]float64{d.TargetTemperatures, d.HighLimits, d.LowLimits} {
		for _, v := range series {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	g.AxisMin = math.Floor(lo) - 2
	g.AxisMax = math.Ceil(hi) + 2
	return g, true
}

// PlotWidth is the usable horizontal extent inside the padding.
func (g Geometry) PlotWidth() float64 { return g.W - 2*Padding }

// PlotHeight is the usable vertical extent inside the padding.
func (g Geometry) PlotHeight() float64 { return g.H - 2*Padding }

// PointX maps sample index i to the x of a line-series point. Endpoints sit
// exactly on the plot's left and right edges.
func (g Geometry) PointX(i int) float64 {
	return Padding + float64(i)/float64(g.N-1)*g.PlotWidth()
}

// BarX maps sample index i to the left edge of its price bar. Bars represent
// intervals rather than points, so they divide the plot into N slots instead
// of N-1 spans.
func (g Geometry) BarX(i int) float64 {
	return Padding + float64(i)/float64(g.N)*g.PlotWidth()
}

// BarWidth is the horizontal extent of one price bar.
func (g Geometry) BarWidth() float64 {
	return g.PlotWidth() / float64(g.N)
}

// TempY maps a temperature to a y coordinate on the left axis.
func (g Geometry) TempY(v float64) float64 {
	return (g.H - Padding) - (v-g.AxisMin)/(g.AxisMax-g.AxisMin)*g.PlotHeight()
}

// PriceY maps a price to a y coordinate on the right axis, clamped at the
// ceiling so an outlier cannot escape the plot area.
func (g Geometry) PriceY(v float64) float64 {
	if v > g.PriceCeiling {
		v = g.PriceCeiling
	}
	if v < 0 {
		v = 0
	}
	return (g.H - Padding) - v/g.PriceCeiling*g.PlotHeight()
}
