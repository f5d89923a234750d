package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplot/pkg/dataset"
)

func TestReportTables(t *testing.T) {
	report := Compute(dataset.BoxplotData{
		Records: dataset.Records{
			{Names: []string{"PopA", "CondX"}, Count: 10},
			{Names: []string{"PopA", "CondY"}, Count: 5},
			{Names: []string{"CondX"}, Count: 20},
			{Names: []string{"CondY"}, Count: 5},
		},
		Populations: []string{"PopA"},
		Conditions:  []string{"CondX", "CondY"},
	})

	freq := report.FrequencyTable()
	assert.Equal(t, []string{"Population", "Condition", "Group", "Frequency"}, freq.Header)
	require.Len(t, freq.Rows, 2)
	assert.Equal(t, []string{"PopA", "CondX", Ungrouped, "33.33%"}, freq.Rows[0])
	assert.Equal(t, []string{"PopA", "CondY", Ungrouped, "50.00%"}, freq.Rows[1])

	sum := report.SummaryTable()
	require.Len(t, sum.Rows, 2)
	assert.Equal(t, []string{"PopA", "CondY", "1", "50.00%", "50.00%", "50.00%", "50.00%"}, sum.Rows[1])
	for _, row := range sum.Rows {
		assert.Len(t, row, len(sum.Header))
	}
}

func TestReportTablesEmpty(t *testing.T) {
	var r Report
	assert.Empty(t, r.FrequencyTable().Rows)
	assert.Empty(t, r.SummaryTable().Rows)
}
