// Package viewport decides whether a laid-out rectangle is fully visible.
//
// The check is a pure read of layout that has already happened: callers
// commit a candidate placement to the overlay first and then pass the
// resulting bounding rectangle to [Viewport.IsFullyVisible].
package viewport

import "github.com/matzehuels/overlay/pkg/geom"

// DefaultEpsilon absorbs sub-pixel rounding in layout results.
const DefaultEpsilon = 0.5

// Oracle answers whether a rectangle lies entirely inside the visible area.
type Oracle interface {
	IsFullyVisible(r geom.Rect) bool
}

// Viewport is the visible area of the page, anchored at the origin.
type Viewport struct {
	Width, Height float64

	// Epsilon is the tolerance applied to every edge. Zero means exact.
	Epsilon float64
}

// New returns a viewport of the given size with [DefaultEpsilon].
func New(width, height float64) Viewport {
	return Viewport{Width: width, Height: height, Epsilon: DefaultEpsilon}
}

// Rect returns the viewport bounds.
func (v Viewport) Rect() geom.Rect {
	return geom.Rect{Right: v.Width, Bottom: v.Height}
}

// IsFullyVisible reports whether all four edges of r fall within
// [0, Width] x [0, Height], inclusive of Epsilon.
//
// Empty rectangles are never visible: a detached or collapsed overlay
// must trigger the fallback search rather than be accepted.
func (v Viewport) IsFullyVisible(r geom.Rect) bool {
	if r.Empty() || v.Width <= 0 || v.Height <= 0 {
		return false
	}
	e := v.Epsilon
	return r.Top >= -e &&
		r.Left >= -e &&
		r.Bottom <= v.Height+e &&
		r.Right <= v.Width+e
}

// Overflow returns how far r extends past each viewport edge; zero where it
// does not. Useful for diagnostics when no side fits.
func (v Viewport) Overflow(r geom.Rect) geom.Edges {
	return geom.Edges{
		Top:    max(0, -r.Top),
		Right:  max(0, r.Right-v.Width),
		Bottom: max(0, r.Bottom-v.Height),
		Left:   max(0, -r.Left),
	}
}

var _ Oracle = Viewport{}
