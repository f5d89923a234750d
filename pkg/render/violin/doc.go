// Package violin renders horizontal violin plots of per-group densities.
//
// Each group is a closed, smoothed outline mirrored around the group's
// position on a point scale. Clicking a violin opens a colour picker;
// the chosen colour is applied to every element sharing the group ID and
// to the gate style of the same ID. [Recolor] performs the same change on
// server-held documents.
package violin
