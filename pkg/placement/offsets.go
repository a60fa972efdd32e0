package placement

import "github.com/matzehuels/overlay/pkg/geom"

// TriangleSize is the gap between anchor and overlay reserved for the
// callout arrow, in pixels.
const TriangleSize = 5

// MarginOffset corrects an overlay dimension for the anchor's margin on the
// same axis. The wrapper shrink-wraps the anchor's margin box, so without
// the correction the margin would be counted twice against the margin
// shorthand the solver writes.
func MarginOffset(margin, dimension float64) float64 {
	if margin > 0 {
		return dimension - margin
	}
	return dimension
}

// ComputeStyle returns the inline style that places an overlay of the given
// size on side s of the anchor. gap is normally [TriangleSize].
//
// Horizontal sides are vertically centered with top: 50% and a negative
// half-height margin; vertical sides are horizontally centered the same way
// with left: 50%. The bottom side relies on the overlay's static position
// below the anchor and only adds the gap.
func ComputeStyle(s Side, a AnchorGeometry, size geom.Size, gap float64) geom.InlineStyle {
	var st geom.InlineStyle
	switch s {
	case Bottom:
		st.Left = geom.Pct(50)
		st.SetMargin(geom.Edges{
			Top:  gap,
			Left: -MarginOffset(a.Margin.Left, size.Width) / 2,
		})
	case Right:
		st.Top = geom.Pct(50)
		st.Left = geom.Px(a.OffsetLeft + a.OffsetWidth + gap)
		st.SetMargin(geom.Edges{
			Top: -MarginOffset(a.Margin.Top, size.Height) / 2,
		})
	case Left:
		st.Top = geom.Pct(50)
		st.Left = geom.Px(-gap)
		st.SetMargin(geom.Edges{
			Top:  -MarginOffset(a.Margin.Top, size.Height) / 2,
			Left: leftInset(a, size.Width),
		})
	default:
		st.Left = geom.Pct(50)
		st.Top = geom.Px(-gap)
		st.SetMargin(geom.Edges{
			Top:  -MarginOffset(a.Margin.Top, size.Height),
			Left: -MarginOffset(a.Margin.Left, size.Width) / 2,
		})
	}
	return st
}

// leftInset is the horizontal margin for the left side. When the anchor sits
// further right than the overlay is wide the overlay is pushed right toward
// the anchor; otherwise it is pulled left past it. The boundary is a
// heuristic kept for compatibility with existing pages.
func leftInset(a AnchorGeometry, width float64) float64 {
	if a.OffsetLeft > width {
		return MarginOffset(a.Margin.Left, a.OffsetLeft-width)
	}
	return -MarginOffset(a.Margin.Left, width)
}
