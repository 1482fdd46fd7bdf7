package chart

import (
	"bytes"
	"fmt"
	"strings"
)

// SVG is a Surface that accumulates drawing ops into an SVG document.
type SVG struct {
	w, h float64
	buf  bytes.Buffer
}

var _ Surface = (*SVG)(nil)

// NewSVG creates an SVG surface of the given pixel size.
func NewSVG(w, h float64) *SVG {
	return &SVG{w: w, h: h}
}

// Size returns the surface dimensions.
func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func fmtCoord(v float64) string {
	// two decimals keeps output stable and small
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func (s *SVG) stroke(st Stroke) string {
	attrs := fmt.Sprintf(` stroke=%q stroke-width=%q fill="none"`, st.Color, fmtCoord(st.Width))
	if len(st.Dash) > 0 {
		parts := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			parts[i] = fmtCoord(d)
		}
		attrs += fmt.Sprintf(` stroke-dasharray=%q`, strings.Join(parts, ","))
	}
	return attrs
}

// Line draws a straight segment.
func (s *SVG) Line(a, b Point, st Stroke) {
	fmt.Fprintf(&s.buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
		fmtCoord(a.X), fmtCoord(a.Y), fmtCoord(b.X), fmtCoord(b.Y), s.stroke(st))
}

// Polyline draws connected segments through pts.
func (s *SVG) Polyline(pts []Point, st Stroke) {
	if len(pts) < 2 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmtCoord(p.X) + "," + fmtCoord(p.Y)
	}
	fmt.Fprintf(&s.buf, `<polyline points="%s"%s/>`+"\n", strings.Join(coords, " "), s.stroke(st))
}

// Rect draws a filled rectangle.
func (s *SVG) Rect(origin Point, w, h float64, f Fill) {
	if w <= 0 || h <= 0 {
		return
	}
	fmt.Fprintf(&s.buf, `<rect x="%s" y="%s" width="%s" height="%s" fill=%q fill-opacity="%s"/>`+"\n",
		fmtCoord(origin.X), fmtCoord(origin.Y), fmtCoord(w), fmtCoord(h), f.Color, fmtCoord(f.Opacity))
}

// Text draws a label.
func (s *SVG) Text(at Point, text string, t TextStyle) {
	anchor := "start"
	switch t.Anchor {
	case AnchorMiddle:
		anchor = "middle"
	case AnchorEnd:
		anchor = "end"
	}
	fmt.Fprintf(&s.buf, `<text x="%s" y="%s" fill=%q font-size="%s" font-family="sans-serif" text-anchor=%q>%s</text>`+"\n",
		fmtCoord(at.X), fmtCoord(at.Y), t.Color, fmtCoord(t.Size), anchor, escapeXML(text))
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		fmtCoord(s.w), fmtCoord(s.h), fmtCoord(s.w), fmtCoord(s.h))
	out.Write(s.buf.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
