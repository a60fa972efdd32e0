// Package geom provides the value types shared by the placement engine:
// rectangles, four-sided edges and CSS-like lengths.
//
// All coordinates are in CSS pixels. Rectangles use viewport semantics: the
// y axis grows downwards, so Top <= Bottom for a well-formed rectangle.
package geom

import "math"

// Rect is an axis-aligned rectangle in viewport coordinates, the shape
// returned by a bounding-rect query.
type Rect struct {
	Left, Top     float64
	Right, Bottom float64
}

// RectFromXYWH constructs a Rect from its top-left corner and size.
func RectFromXYWH(x, y, width, height float64) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Round returns r with every edge rounded to the given number of decimals.
// Layout results are rounded before comparison so that float noise does not
// leak into assertions or cache keys.
func (r Rect) Round(decimals int) Rect {
	p := math.Pow(10, float64(decimals))
	f := func(v float64) float64 { return math.Round(v*p) / p }
	return Rect{Left: f(r.Left), Top: f(r.Top), Right: f(r.Right), Bottom: f(r.Bottom)}
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Edges holds one value per side of a box, in CSS order.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// EdgeTRBL creates Edges following CSS order: top, right, bottom, left.
func EdgeTRBL(t, r, b, l float64) Edges {
	return Edges{Top: t, Right: r, Bottom: b, Left: l}
}

// Horizontal returns the sum of Left and Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns the sum of Top and Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// IsZero reports whether all four values are zero.
func (e Edges) IsZero() bool {
	return e.Top == 0 && e.Right == 0 && e.Bottom == 0 && e.Left == 0
}
