// Package render converts rendered SVG into print and raster formats.
//
// The drawings themselves come from the [sink] subpackage; [ToPDF] and
// [ToPNG] shell out to rsvg-convert (librsvg) for the remaining formats:
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [sink]: github.com/matzehuels/overlay/pkg/render/sink
package render
