package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// DefaultCofactor is the arcsinh cofactor used for fluorescence channels.
const DefaultCofactor = 250.0

// Event is a single measured cell: channel values plus categorical tags.
type Event struct {
	Values map[string]float64
	Tags   []string
}

// Events is a collection of events.
type Events []Event

// CSVOptions configures [ReadEventsCSV].
type CSVOptions struct {
	// TagColumns are read verbatim into Event.Tags. Every other column must
	// parse as a float and becomes a channel value.
	TagColumns []string
	// Comma is the field delimiter (default ',').
	Comma rune
}

// ReadEventsCSV reads events from a CSV stream with a header row.
func ReadEventsCSV(r io.Reader, opts CSVOptions) (Events, []string, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read header")
	}

	var channels []string
	isTag := make([]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		if slices.Contains(opts.TagColumns, h) {
			isTag[i] = true
			continue
		}
		channels = append(channels, h)
	}

	var events Events
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "line %d", line)
		}

		ev := Event{Values: make(map[string]float64, len(channels))}
		for i, cell := range row {
			if isTag[i] {
				if cell = strings.TrimSpace(cell); cell != "" {
					ev.Tags = append(ev.Tags, cell)
				}
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeInvalidDataset, err,
					"line %d: column %s", line, header[i])
			}
			ev.Values[header[i]] = v
		}
		events = append(events, ev)
	}
	return events, channels, nil
}

// Arcsinh applies the biexponential-like transform asinh(x/cofactor) to every
// channel value in place. A non-positive cofactor uses [DefaultCofactor].
func (es Events) Arcsinh(cofactor float64) {
	if cofactor <= 0 {
		cofactor = DefaultCofactor
	}
	for _, e := range es {
		for ch, v := range e.Values {
			e.Values[ch] = math.Asinh(v / cofactor)
		}
	}
}

// Subsample returns n events drawn without replacement, in their original
// order. The draw depends only on seed. With n <= 0 or no more than n events
// the receiver is returned as is.
func (es Events) Subsample(n int, seed uint64) Events {
	if n <= 0 || len(es) <= n {
		return es
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	idx := rng.Perm(len(es))[:n]
	slices.Sort(idx)
	out := make(Events, n)
	for i, j := range idx {
		out[i] = es[j]
	}
	return out
}

// Channel returns the values of one channel for events carrying every tag.
func (es Events) Channel(channel string, tags ...string) []float64 {
	var out []float64
	for _, e := range es {
		if !(Record{Names: e.Tags}).Has(tags...) {
			continue
		}
		if v, ok := e.Values[channel]; ok {
			out = append(out, v)
		}
	}
	return out
}

// CountRecords collapses events into one record per distinct tag set.
// Records are returned in first-seen order.
func (es Events) CountRecords() Records {
	index := make(map[string]int)
	var out Records
	for _, e := range es {
		k := key(e.Tags)
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, Record{Names: slices.Clone(e.Tags), Count: 1})
	}
	return out
}

// String implements fmt.Stringer for log output.
func (es Events) String() string {
	return fmt.Sprintf("%d events", len(es))
}
