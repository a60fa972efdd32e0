// Package dom is a small in-memory element model that stands in for browser
// layout when placing overlays outside a browser.
//
// It models exactly the structure the tooltip component renders: a
// positioning wrapper placed in the viewport, an anchor element in normal
// flow inside it, and an absolutely positioned overlay that shares the
// wrapper as its containing block.
//
// # Layout
//
// Layout is computed on demand and follows the CSS rules the placement
// engine relies on:
//
//   - A root element's margin box starts at the position given to
//     [Element.MoveTo]. Elements without an explicit size shrink-wrap their
//     in-flow children, which stack vertically.
//   - offsetLeft and offsetTop are measured from the parent's border box.
//   - Absolutely positioned children resolve percentage offsets against the
//     parent's border box. With no vertical offset set they keep their static
//     position, directly below the preceding in-flow siblings.
//   - An inline margin shorthand replaces the element's computed margins.
//   - When the document's width-compression class is present the element's
//     width is capped at its wrap width and its height re-flowed into
//     ceil(width / wrapWidth) lines.
//
// [Element] satisfies both placement.Anchor and placement.Overlay, and
// [Document] satisfies viewport.Oracle for its current size.
//
// All methods are safe for concurrent use; a document-wide lock guards every
// element.
package dom
