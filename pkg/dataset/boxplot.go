package dataset

import "github.com/matzehuels/flowplot/pkg/errors"

// BoxplotData is the box/strip-plot renderer input.
//
// Batches is optional. BarColors is keyed by population, MarkerColors by batch.
type BoxplotData struct {
	Records      Records           `json:"records"`
	Populations  []string          `json:"populations"`
	Conditions   []string          `json:"conditions"`
	Batches      []string          `json:"batches,omitempty"`
	BarColors    map[string]string `json:"barColors,omitempty"`
	MarkerColors map[string]string `json:"markerColors,omitempty"`
}

// Normalize de-duplicates the name sets in place and allocates nil colour maps.
func (b *BoxplotData) Normalize() {
	b.Populations = Unique(b.Populations)
	b.Conditions = Unique(b.Conditions)
	b.Batches = Unique(b.Batches)
	if b.BarColors == nil {
		b.BarColors = map[string]string{}
	}
	if b.MarkerColors == nil {
		b.MarkerColors = map[string]string{}
	}
}

// Validate checks the name sets are present and colours are well formed.
// Missing colours are allowed; they render with the chart defaults.
func (b BoxplotData) Validate() error {
	if len(b.Populations) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "populations cannot be empty")
	}
	if len(b.Conditions) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "conditions cannot be empty")
	}
	for name, c := range b.BarColors {
		if err := errors.ValidateColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "barColors[%s]", name)
		}
	}
	for name, c := range b.MarkerColors {
		if err := errors.ValidateColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "markerColors[%s]", name)
		}
	}
	return nil
}
