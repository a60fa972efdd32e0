// Package placement positions a floating overlay (tooltip body, popover,
// menu) next to the element that triggered it.
//
// # Model
//
// The overlay is an absolutely positioned sibling of its anchor inside a
// relatively positioned wrapper that shrink-wraps the anchor's margin box.
// The solver never computes viewport coordinates itself; it writes a small
// inline style (top, left and a margin shorthand) and asks the geometry
// provider where the overlay ended up. Visibility is then decided by a
// [viewport.Oracle] against that real layout.
//
// # Search
//
// [Solver.Place] applies the preferred side first. When the result is
// clipped it walks [FallbackOrder] (top, bottom, right, left) and stops at
// the first visible candidate. When no side fits it adds the
// width-compression class to the overlay and searches again, for at most
// MaxAttempts full searches in total. If nothing fits after that, the last
// candidate is
// kept as a best-effort placement; Place never fails and never loops
// unboundedly.
//
// Every candidate starts from a cleared inline style and a cleared side
// class, so repeated calls with unchanged geometry produce identical
// results. That makes Place safe to call again on resize or scroll.
//
// # Geometry providers
//
// [Anchor] and [Overlay] abstract the layout engine. The dom package in this
// module implements both; tests use synthetic rectangles.
package placement
