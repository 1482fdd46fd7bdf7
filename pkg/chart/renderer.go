package chart

import (
	"fmt"

	"github.com/curvecard/curvecard/pkg/types"
)

// Series colors, matching the backend's chart sensor styling.
const (
	colorTarget = "rgb(75,192,192)"
	colorHigh   = "rgb(255,99,132)"
	colorLow    = "rgb(54,162,235)"
	colorPrice  = "rgb(255,206,86)"
	colorAxis   = "#888"
	colorLabel  = "#444"
)

// DefaultPriceCeiling is the right-axis top used when the caller doesn't know
// the active rate plan.
const DefaultPriceCeiling = 100

// Renderer draws a ScheduleDataset onto a Surface.
type Renderer struct {
	// PriceCeiling overrides the right-hand axis top; zero means
	// DefaultPriceCeiling.
	PriceCeiling float64
}

func (r *Renderer) ceiling() float64 {
	if r.PriceCeiling > 0 {
		return r.PriceCeiling
	}
	return DefaultPriceCeiling
}

// Render fully repaints the chart. A nil or unsized surface, or a dataset too
// small to plot, is a no-op; the caller re-invokes on the next state update.
func (r *Renderer) Render(s Surface, d *types.ScheduleDataset) {
	if s == nil {
		return
	}
	w, h := s.Size()
	g, ok := NewGeometry(w, h, d, r.ceiling())
	if !ok {
		return
	}

	// back-to-front: axes, dashed limits, target, bars, labels, legend
	r.drawAxes(s, g)
	r.drawLine(s, g, d.HighLimits, Stroke{Color: colorHigh, Width: 1, Dash: []float64{5, 5}})
	r.drawLine(s, g, d.LowLimits, Stroke{Color: colorLow, Width: 1, Dash: []float64{5, 5}})
	r.drawLine(s, g, d.TargetTemperatures, Stroke{Color: colorTarget, Width: 3})
	r.drawBars(s, g, d.ElectricityPrices)
	r.drawHourLabels(s, g, d)
	r.drawTempLabels(s, g)
	r.drawLegend(s)
}

// RenderPlaceholder paints the explanatory text shown when there is no
// dataset to plot.
func (r *Renderer) RenderPlaceholder(s Surface, text string) {
	if s == nil {
		return
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.Text(Point{X: w / 2, Y: h / 2}, text, TextStyle{Color: colorLabel, Size: 14, Anchor: AnchorMiddle})
}

func (r *Renderer) drawAxes(s Surface, g Geometry) {
	axis := Stroke{Color: colorAxis, Width: 1}
	// y axis
	s.Line(Point{X: Padding, Y: Padding}, Point{X: Padding, Y: g.H - Padding}, axis)
	// x axis
	s.Line(Point{X: Padding, Y: g.H - Padding}, Point{X: g.W - Padding, Y: g.H - Padding}, axis)
}

func (r *Renderer) drawLine(s Surface, g Geometry, series []float64, stroke Stroke) {
	// guard before the N-1 division: singleton or empty series are skipped
	if len(series) < 2 {
		return
	}
	pts := make([]Point, len(series))
	for i, v := range series {
		pts[i] = Point{X: g.PointX(i), Y: g.TempY(v)}
	}
	s.Polyline(pts, stroke)
}

func (r *Renderer) drawBars(s Surface, g Geometry, prices []float64) {
	if len(prices) < 2 {
		return
	}
	fill := Fill{Color: colorPrice, Opacity: 0.3}
	for i, v := range prices {
		top := g.PriceY(v)
		s.Rect(Point{X: g.BarX(i), Y: top}, g.BarWidth(), (g.H-Padding)-top, fill)
	}
}

func (r *Renderer) drawHourLabels(s Surface, g Geometry, d *types.ScheduleDataset) {
	if d.IntervalMinutes <= 0 {
		return
	}
	perHour := 60 / d.IntervalMinutes
	if perHour == 0 {
		return
	}
	style := TextStyle{Color: colorLabel, Size: 10, Anchor: AnchorMiddle}
	for hour := 0; hour*perHour < g.N; hour += 3 {
		i := hour * perHour
		s.Text(Point{X: g.PointX(i), Y: g.H - Padding + 14}, fmt.Sprintf("%02d:00", hour%24), style)
	}
}

func (r *Renderer) drawTempLabels(s Surface, g Geometry) {
	style := TextStyle{Color: colorLabel, Size: 10, Anchor: AnchorEnd}
	mid := (g.AxisMin + g.AxisMax) / 2
	for _, v := range []float64{g.AxisMin, mid, g.AxisMax} {
		s.Text(Point{X: Padding - 5, Y: g.TempY(v) + 3}, fmt.Sprintf("%.0f°", v), style)
	}
}

func (r *Renderer) drawLegend(s Surface) {
	entries := []struct {
		label string
		color string
	}{
		{"Target", colorTarget},
		{"High Limit", colorHigh},
		{"Low Limit", colorLow},
	}
	// fixed position inside the top padding band
	x := Padding + 6.0
	y := 14.0
	style := TextStyle{Color: colorLabel, Size: 10, Anchor: AnchorStart}
	for _, e := range entries {
		s.Rect(Point{X: x, Y: y - 8}, 10, 10, Fill{Color: e.color, Opacity: 1})
		s.Text(Point{X: x + 14, Y: y}, e.label, style)
		x += 14 + float64(len(e.label))*6 + 16
	}
}
