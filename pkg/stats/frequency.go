package stats

import (
	"math"

	"github.com/matzehuels/flowplot/pkg/dataset"
)

// Ungrouped is the group assigned to samples when no batches are given.
const Ungrouped = "Ungrouped"

// Frequency is one population fraction within a condition (and batch).
type Frequency struct {
	Frequency  float64 `json:"frequency"`
	Population string  `json:"population"`
	Condition  string  `json:"condition"`
	Group      string  `json:"group"`
}

// Frequencies computes per (population, condition[, batch]) frequencies.
// The output is ordered by population, then condition, then batch.
//
// The denominator sums every record tagged with the condition (and batch),
// including the population's own records. Sample totals are therefore the
// population counts plus whatever remainder records the input carries.
func Frequencies(records dataset.Records, populations, conditions, batches []string) []Frequency {
	var out []Frequency
	for _, population := range populations {
		for _, condition := range conditions {
			out = appendPair(out, records, population, condition, batches)
		}
	}
	return out
}

func appendPair(out []Frequency, records dataset.Records, population, condition string, batches []string) []Frequency {
	if len(batches) == 0 {
		f := records.Sum(population, condition) / records.Sum(condition)
		if keep(f) {
			out = append(out, Frequency{Frequency: f, Population: population, Condition: condition, Group: Ungrouped})
		}
		return out
	}
	for _, batch := range batches {
		f := records.Sum(population, condition, batch) / records.Sum(condition, batch)
		if keep(f) {
			out = append(out, Frequency{Frequency: f, Population: population, Condition: condition, Group: batch})
		}
	}
	return out
}

// keep drops 0/0 results. Counts are non-negative and the numerator records are
// a subset of the denominator records, so infinities only appear for malformed
// (negative) counts; those are dropped as well.
func keep(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Samples returns the frequency values for one (population, condition) pair.
func Samples(freqs []Frequency, population, condition string) []float64 {
	var out []float64
	for _, f := range freqs {
		if f.Population == population && f.Condition == condition {
			out = append(out, f.Frequency)
		}
	}
	return out
}

// MaxFrequency returns the largest frequency observed for population, or 0
// when the population has no samples.
func MaxFrequency(freqs []Frequency, population string) float64 {
	var m float64
	for _, f := range freqs {
		if f.Population == population && f.Frequency > m {
			m = f.Frequency
		}
	}
	return m
}
