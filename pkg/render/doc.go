// Package render holds the chart renderers and format conversion.
//
// Charts are drawn as SVG element trees into [svg.Container]s by the
// subpackages:
//   - [violin]: mirrored density areas, one row per population
//   - [boxplot]: box and whisker marks with jittered frequency samples
//   - [colorbar]: vertical gradient legend for a continuous colour scale
//   - [hierarchy]: gate hierarchy diagrams through Graphviz
//
// [ToPDF] and [ToPNG] convert serialised SVG with the external rsvg-convert
// tool from librsvg:
//
//	png, err := render.ToPNG(ctx, svgBytes, 2.0)
//
// [svg.Container]: github.com/matzehuels/flowplot/pkg/render/svg.Container
package render
