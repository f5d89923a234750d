// Package density estimates per-group channel densities for violin plots.
//
// Densities use a Gaussian kernel with a normal-reference bandwidth. All
// groups of one chart are evaluated on shared bin centres spanning the
// pooled extent, and each curve is scaled so its peak is 1:
//
//	groups := density.GroupEvents(events, "CD3", names, ids)
//	data, err := density.Violins(groups, 64)
package density
