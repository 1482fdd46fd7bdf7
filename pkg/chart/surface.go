// Package chart renders a schedule dataset onto a 2-D drawing surface. The
// renderer is a pure function of the dataset: every call is a full repaint
// and no state accumulates between renders.
package chart

// Point is a coordinate on the surface, origin top-left.
type Point struct {
	X, Y float64
}

// Stroke describes line styling.
type Stroke struct {
	Color string
	Width float64
	// Dash is the on/off pattern; empty means solid.
	Dash []float64
}

// Fill describes a filled region.
type Fill struct {
	Color   string
	Opacity float64
}

// Anchor positions text relative to its coordinate.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextStyle describes label styling.
type TextStyle struct {
	Color  string
	Size   float64
	Anchor Anchor
}

// Surface is the drawing target. Implementations must tolerate coordinates
// anywhere inside their size; the renderer guarantees it never draws outside
// the padded plot area for data-driven geometry.
type Surface interface {
	// Size returns the surface dimensions. A zero dimension means the surface
	// is not ready and rendering is skipped.
	Size() (w, h float64)

	Line(a, b Point, s Stroke)
	Polyline(pts []Point, s Stroke)
	Rect(origin Point, w, h float64, f Fill)
	Text(at Point, text string, t TextStyle)
}
