package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Quantile returns the p-quantile of sorted values using linear interpolation
// between closest ranks (R-7, the definition used by d3 and numpy).
// It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if p <= 0 || n < 2 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	i := float64(n-1) * p
	lo := int(math.Floor(i))
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*(i-float64(lo))
}

// Extent returns the minimum and maximum of values.
// It returns NaN, NaN for an empty slice.
func Extent(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(values), floats.Max(values)
}

// Summary is the box-and-whisker reduction of one (population, condition) pair.
type Summary struct {
	Population string  `json:"population"`
	Condition  string  `json:"condition"`
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	N          int     `json:"n"`
}

// Epsilon is the fraction of the maximum used to separate box edges from the
// whisker ends.
const Epsilon = 1e-2

// Summarize reduces samples to a Summary. ok is false for an empty sample set.
func Summarize(samples []float64) (s Summary, ok bool) {
	if len(samples) == 0 {
		return Summary{}, false
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	s.Q1 = Quantile(sorted, 0.25)
	s.Q3 = Quantile(sorted, 0.75)
	s.Lower = s.Q1 - Epsilon*s.Max
	s.Upper = s.Q3 + Epsilon*s.Max
	s.N = len(sorted)
	return s, true
}

// Summaries computes a Summary for every (population, condition) pair with at
// least one surviving frequency sample, ordered by population then condition.
func Summaries(freqs []Frequency, populations, conditions []string) []Summary {
	var out []Summary
	for _, population := range populations {
		for _, condition := range conditions {
			s, ok := Summarize(Samples(freqs, population, condition))
			if !ok {
				continue
			}
			s.Population, s.Condition = population, condition
			out = append(out, s)
		}
	}
	return out
}
