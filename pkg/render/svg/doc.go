// Package svg is a small SVG document model for server-side charts.
//
// Charts draw into a [Container], an <svg> root found by selector on a
// [Page]. Elements keep attribute order so output is reproducible, and
// [Embed] adds interaction scripts at most once per container. Axes follow
// the usual conventions for linear, band and point scales; [BasisArea]
// produces the smoothed closed outlines used for violins.
package svg
