// Package hierarchy draws gate hierarchies as node-link diagrams through
// Graphviz.
//
// Each gate becomes a box, edges run from parent to child, and population
// gates (leaves) are filled with their style colour so the diagram doubles
// as a legend for the violin chart:
//
//	styles, _ := store.List(ctx)
//	svg, err := hierarchy.RenderSVG(ctx, schema.DOT(styles))
//
// PNG and PDF go through SVG and rsvg-convert; see [render.ToPNG].
//
// [render.ToPNG]: github.com/matzehuels/flowplot/pkg/render.ToPNG
package hierarchy
