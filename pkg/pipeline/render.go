package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/overlay/pkg/render"
	"github.com/matzehuels/overlay/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, f sink.Frame, opts Options) (map[string][]byte, error) {
	var svgOpts []sink.SVGOption
	var jsonOpts []sink.JSONOption
	if opts.Trace {
		svgOpts = append(svgOpts, sink.WithTrace())
		jsonOpts = append(jsonOpts, sink.WithJSONTrace())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(f, svgOpts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatJSON:
			data, err = sink.RenderJSON(f, jsonOpts...)
		case FormatDOT:
			data = []byte(sink.TraceDOT(f))
		case FormatTrace:
			data, err = sink.RenderTraceSVG(ctx, sink.TraceDOT(f))
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgOnce(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
