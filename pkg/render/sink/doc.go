// Package sink turns placement results into output formats.
//
// A [Frame] captures a viewport and the placements inside it; every sink
// reads from a Frame:
//
//   - [RenderSVG] draws the viewport, each anchor and its overlay with a
//     callout arrow on the anchor side. Width-compressed overlays are
//     highlighted and clipped ones outlined.
//   - [RenderJSON] writes a pretty-printed placement report.
//   - [TraceDOT] describes the fallback search of every tooltip as a
//     Graphviz digraph; [RenderTraceSVG] lays it out with Graphviz.
//
// Basic usage:
//
//	page.ShowAll(ctx)
//	f := sink.FrameOf(page)
//	svg := sink.RenderSVG(f, sink.WithTrace())
package sink
