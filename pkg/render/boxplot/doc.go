// Package boxplot renders grouped frequency box plots with jittered points.
//
// Frequencies are computed per population, condition and optional batch by
// [stats.Compute]. Each population gets a row with its own percentage axis
// scaled to the row maximum; each condition a band holding a translucent
// quartile box, a min-to-max whisker and one point per sample. Render
// clears the container first, so redrawing is idempotent.
package boxplot
