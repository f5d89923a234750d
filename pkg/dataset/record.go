package dataset

import (
	"slices"
	"strings"
)

// Record is one measured entity with its categorical tags and a count.
type Record struct {
	Names []string `json:"names"`
	Count float64  `json:"count"`
}

// Has reports whether the record carries every tag in tags.
func (r Record) Has(tags ...string) bool {
	for _, t := range tags {
		if !slices.Contains(r.Names, t) {
			return false
		}
	}
	return true
}

// Records is a collection of records.
type Records []Record

// Sum returns the total count of records carrying every tag in tags.
func (rs Records) Sum(tags ...string) float64 {
	var total float64
	for _, r := range rs {
		if r.Has(tags...) {
			total += r.Count
		}
	}
	return total
}

// Tags returns the distinct tags across all records in first-seen order.
func (rs Records) Tags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, r := range rs {
		for _, n := range r.Names {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			tags = append(tags, n)
		}
	}
	return tags
}

// Unique returns names with duplicates and empty strings removed, preserving order.
func Unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// key returns a canonical map key for a tag set.
func key(tags []string) string {
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x1f")
}
