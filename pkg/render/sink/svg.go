package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/placement"
	"github.com/matzehuels/overlay/pkg/scene"
)

const svgCSS = `
    .viewport { fill: #f9f9f9; stroke: #565c65; stroke-width: 1; }
    .anchor { fill: #d9e8f6; stroke: #005ea2; stroke-width: 1; }
    .anchor-label { font: 12px sans-serif; fill: #1b1b1b; }
    .overlay { fill: #1b1b1b; }
    .overlay.compressed { fill: #8b0a03; }
    .overlay.clipped { fill-opacity: 0.6; stroke: #d54309; stroke-width: 2; stroke-dasharray: 4 2; }
    .overlay-text { font: 14px sans-serif; fill: #ffffff; }
    .candidate { fill: none; stroke: #a9aeb1; stroke-dasharray: 3 3; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	trace   bool
	padding float64
}

// WithTrace also draws every rejected candidate as a dashed outline.
func WithTrace() SVGOption { return func(r *svgRenderer) { r.trace = true } }

// WithPadding sets the space around the drawing. Default 16.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = max(0, p) } }

// RenderSVG draws f. Overlays that leave the viewport grow the canvas so
// that clipping stays visible.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{padding: 16}
	for _, opt := range opts {
		opt(&r)
	}

	b := f.bounds(r.trace)
	x, y := b.Left-r.padding, b.Top-r.padding
	w, h := b.Width()+2*r.padding, b.Height()+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		x, y, w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)
	fmt.Fprintf(&buf, `  <rect class="viewport" x="0" y="0" width="%.1f" height="%.1f"/>`+"\n",
		f.Viewport.Width, f.Viewport.Height)

	for _, p := range f.Placements {
		r.renderPlacement(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderPlacement(buf *bytes.Buffer, p scene.Placement) {
	res := p.Result
	fmt.Fprintf(buf, `  <g id="tooltip-%s" data-side="%s">`+"\n", escape(p.ID), res.Side)
	writeRect(buf, "anchor", p.Anchor)
	fmt.Fprintf(buf, `    <text class="anchor-label" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		p.Anchor.CenterX(), p.Anchor.CenterY(), escape(p.ID))

	if res.Skipped {
		buf.WriteString("  </g>\n")
		return
	}

	if r.trace && len(res.Trace) > 1 {
		for _, c := range res.Trace[:len(res.Trace)-1] {
			writeRect(buf, "candidate", c.Rect)
		}
	}

	class := "overlay"
	if res.WidthCompressed {
		class += " compressed"
	}
	if !res.Visible {
		class += " clipped"
	}
	writeRect(buf, class, res.Rect)
	fmt.Fprintf(buf, `    <polygon class="%s" points="%s"/>`+"\n", class, arrow(res.Side, res.Rect))
	if p.Text != "" {
		fmt.Fprintf(buf, `    <text class="overlay-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			res.Rect.CenterX(), res.Rect.CenterY(), escape(p.Text))
	}
	buf.WriteString("  </g>\n")
}

func writeRect(buf *bytes.Buffer, class string, r geom.Rect) {
	fmt.Fprintf(buf, `    <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
		class, r.Left, r.Top, r.Width(), r.Height())
}

// arrow returns the callout triangle on the overlay edge facing the anchor.
func arrow(s placement.Side, r geom.Rect) string {
	const t = placement.TriangleSize
	cx, cy := r.CenterX(), r.CenterY()
	var pts [3][2]float64
	switch s {
	case placement.Bottom:
		pts = [3][2]float64{{cx - t, r.Top}, {cx + t, r.Top}, {cx, r.Top - t}}
	case placement.Right:
		pts = [3][2]float64{{r.Left, cy - t}, {r.Left, cy + t}, {r.Left - t, cy}}
	case placement.Left:
		pts = [3][2]float64{{r.Right, cy - t}, {r.Right, cy + t}, {r.Right + t, cy}}
	default:
		pts = [3][2]float64{{cx - t, r.Bottom}, {cx + t, r.Bottom}, {cx, r.Bottom + t}}
	}
	return fmt.Sprintf("%.1f,%.1f %.1f,%.1f %.1f,%.1f",
		pts[0][0], pts[0][1], pts[1][0], pts[1][1], pts[2][0], pts[2][1])
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
