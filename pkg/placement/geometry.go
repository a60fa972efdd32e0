package placement

import "github.com/matzehuels/overlay/pkg/geom"

// AnchorGeometry is a snapshot of the trigger element's box, read fresh for
// every candidate because layout may change between attempts.
//
// Offsets are relative to the anchor's offset parent, which is the
// positioning wrapper shared with the overlay. Margins come from the
// anchor's computed style.
type AnchorGeometry struct {
	OffsetLeft   float64
	OffsetTop    float64
	OffsetWidth  float64
	OffsetHeight float64
	Margin       geom.Edges
}

// Anchor is the element an overlay is attached to.
type Anchor interface {
	// Connected reports whether the element is attached to a laid-out
	// document. Detached anchors are ignored.
	Connected() bool

	// Geometry returns the current box and computed margins.
	Geometry() AnchorGeometry
}

// Overlay is the floating element being positioned.
type Overlay interface {
	// Connected reports whether the element is attached to a laid-out
	// document.
	Connected() bool

	// OffsetSize returns the current rendered size, which depends on the
	// classes applied (notably width compression).
	OffsetSize() geom.Size

	// InlineStyle returns the inline offsets last written.
	InlineStyle() geom.InlineStyle

	// SetInlineStyle replaces the inline offsets and margin shorthand.
	SetInlineStyle(geom.InlineStyle)

	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool

	// BoundingClientRect returns the viewport rectangle after layout of
	// the current style and classes.
	BoundingClientRect() geom.Rect
}
