// Package scale maps data values to pixel positions and colours.
//
// The scales follow the semantics of the d3 scale primitives the charts were
// first drawn with, so positions computed here line up with browser renderings
// of the same data:
//
//   - [Linear]: piecewise-linear over K domain stops, invertible, with nice ticks
//   - [Band]: ordinal bands with inner and outer padding
//   - [Point]: ordinal points (a band scale with zero bandwidth)
//   - [Color]: continuous colour scale interpolating K colour stops
//   - [Ordinal]: name to colour lookup
//
// Scales are values; copying one never shares mutable state with the original.
package scale
