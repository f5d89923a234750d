package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsCSV = `CD3, CD19, tissue, patient, label
500, 10, Blood, 01C, T cells
250, 20, Blood, 01C, T cells
0, 900, Blood, 01C, B cells
125, 30, Spleen, 02C,
`

func TestReadEventsCSV(t *testing.T) {
	events, channels, err := ReadEventsCSV(strings.NewReader(eventsCSV), CSVOptions{
		TagColumns: []string{"tissue", "patient", "label"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"CD3", "CD19"}, channels)
	require.Len(t, events, 4)
	assert.Equal(t, 500.0, events[0].Values["CD3"])
	assert.Equal(t, []string{"Blood", "01C", "T cells"}, events[0].Tags)
	assert.Equal(t, []string{"Spleen", "02C"}, events[3].Tags, "empty tag cells are skipped")
}

func TestReadEventsCSVBadValue(t *testing.T) {
	_, _, err := ReadEventsCSV(strings.NewReader("CD3,label\nabc,T\n"), CSVOptions{TagColumns: []string{"label"}})
	assert.ErrorContains(t, err, "line 2")
}

func TestEventsArcsinh(t *testing.T) {
	events := Events{{Values: map[string]float64{"CD3": 250}}}
	events.Arcsinh(0)
	assert.InDelta(t, math.Asinh(1), events[0].Values["CD3"], 1e-12)
}

func TestEventsChannel(t *testing.T) {
	events, _, err := ReadEventsCSV(strings.NewReader(eventsCSV), CSVOptions{
		TagColumns: []string{"tissue", "patient", "label"},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{500, 250}, events.Channel("CD3", "T cells"))
	assert.Len(t, events.Channel("CD3"), 4)
	assert.Empty(t, events.Channel("CD8"))
}

func TestEventsSubsample(t *testing.T) {
	var events Events
	for i := 0; i < 100; i++ {
		events = append(events, Event{Values: map[string]float64{"CD3": float64(i)}})
	}

	sub := events.Subsample(10, 3)
	require.Len(t, sub, 10)
	values := sub.Channel("CD3")
	assert.IsIncreasing(t, values, "original order is kept")
	assert.Equal(t, values, events.Subsample(10, 3).Channel("CD3"), "same seed, same draw")
	assert.NotEqual(t, values, events.Subsample(10, 4).Channel("CD3"))

	assert.Len(t, events.Subsample(100, 3), 100)
	assert.Len(t, events.Subsample(500, 3), 100)
	assert.Len(t, events.Subsample(0, 3), 100)
}

func TestEventsCountRecords(t *testing.T) {
	events, _, err := ReadEventsCSV(strings.NewReader(eventsCSV), CSVOptions{
		TagColumns: []string{"tissue", "patient", "label"},
	})
	require.NoError(t, err)

	records := events.CountRecords()
	require.Len(t, records, 3)
	assert.Equal(t, 2.0, records[0].Count)
	assert.Equal(t, 2.0, records.Sum("Blood", "T cells"))
	assert.Equal(t, 3.0, records.Sum("Blood"))
}
