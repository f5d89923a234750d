package stats

import (
	"strconv"

	"github.com/matzehuels/flowplot/pkg/dataset"
)

// Report bundles the aggregation results for one box plot dataset.
type Report struct {
	Frequencies []Frequency `json:"frequencies"`
	Summaries   []Summary   `json:"summaries"`
}

// Compute runs [Frequencies] and [Summaries] over a box plot dataset.
func Compute(data dataset.BoxplotData) Report {
	freqs := Frequencies(data.Records, data.Populations, data.Conditions, data.Batches)
	return Report{
		Frequencies: freqs,
		Summaries:   Summaries(freqs, data.Populations, data.Conditions),
	}
}

// Table is a header row plus formatted data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// FrequencyTable lists every sample with its frequency as a percentage with
// two decimals.
func (r Report) FrequencyTable() Table {
	t := Table{Header: []string{"Population", "Condition", "Group", "Frequency"}}
	for _, f := range r.Frequencies {
		t.Rows = append(t.Rows, []string{f.Population, f.Condition, f.Group, percent(f.Frequency)})
	}
	return t
}

// SummaryTable lists the box plot reduction of every pair.
func (r Report) SummaryTable() Table {
	t := Table{Header: []string{"Population", "Condition", "N", "Min", "Q1", "Q3", "Max"}}
	for _, s := range r.Summaries {
		t.Rows = append(t.Rows, []string{
			s.Population, s.Condition, strconv.Itoa(s.N),
			percent(s.Min), percent(s.Q1), percent(s.Q3), percent(s.Max),
		})
	}
	return t
}

func percent(v float64) string {
	return strconv.FormatFloat(100*v, 'f', 2, 64) + "%"
}
