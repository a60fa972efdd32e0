package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/overlay/pkg/scene"
)

// TraceDOT describes the fallback search of every placement as a Graphviz
// digraph: one cluster per tooltip, one node per applied candidate, chained
// in the order they were tried. The accepted candidate is filled green, or
// red when nothing fit.
func TraceDOT(f Frame) string {
	var buf bytes.Buffer
	buf.WriteString("digraph trace {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"sans-serif\", fontsize=12];\n")
	buf.WriteString("\n")

	for i, p := range f.Placements {
		writeCluster(&buf, i, p)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, i int, p scene.Placement) {
	res := p.Result
	fmt.Fprintf(buf, "  subgraph cluster_%d {\n", i)
	fmt.Fprintf(buf, "    label=%q;\n", p.ID)

	start := fmt.Sprintf("t%d_start", i)
	fmt.Fprintf(buf, "    %s [label=%q, shape=ellipse];\n", start, "preferred")
	if res.Skipped {
		fmt.Fprintf(buf, "    t%d_skipped [label=\"skipped\", fillcolor=lightgrey];\n", i)
		fmt.Fprintf(buf, "    %s -> t%d_skipped;\n", start, i)
		buf.WriteString("  }\n")
		return
	}

	prev := start
	for j, c := range res.Trace {
		node := fmt.Sprintf("t%d_%d", i, j)
		label := fmt.Sprintf("%d. %s", j+1, c.Side)
		if c.Compressed {
			label += " (wrap)"
		}
		label += fmt.Sprintf("\n%.0f,%.0f %.0fx%.0f", c.Rect.Left, c.Rect.Top, c.Rect.Width(), c.Rect.Height())

		attrs := fmt.Sprintf("label=%q", label)
		switch {
		case j == len(res.Trace)-1 && res.Visible:
			attrs += ", fillcolor=palegreen"
		case j == len(res.Trace)-1:
			attrs += ", fillcolor=lightpink"
		case !c.Visible:
			attrs += ", style=\"rounded,dashed\""
		}
		fmt.Fprintf(buf, "    %s [%s];\n", node, attrs)
		fmt.Fprintf(buf, "    %s -> %s;\n", prev, node)
		prev = node
	}
	buf.WriteString("  }\n")
}

// RenderTraceSVG lays out a DOT graph with Graphviz.
func RenderTraceSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
