package dataset

import (
	"fmt"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// DensitySeries is a named density curve aligned to shared bin centres.
// ID links the rendered shape to a gate in the style store.
type DensitySeries struct {
	Name   string    `json:"name"`
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// ViolinData is the violin renderer input.
type ViolinData struct {
	Density    []DensitySeries `json:"density"`
	BinCentres []float64       `json:"binCentres"`
}

// Names returns the group names in input order.
func (v ViolinData) Names() []string {
	names := make([]string, len(v.Density))
	for i, d := range v.Density {
		names[i] = d.Name
	}
	return names
}

// Validate checks that every series is aligned to the bin centres and that
// series IDs are unique. Recolouring by ID is only correct for unique IDs.
func (v ViolinData) Validate() error {
	if len(v.BinCentres) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "binCentres cannot be empty")
	}
	ids := make(map[string]string, len(v.Density))
	for i, d := range v.Density {
		if len(d.Values) != len(v.BinCentres) {
			return errors.New(errors.ErrCodeInvalidDataset,
				"density[%d] (%s): %d values for %d bin centres", i, d.Name, len(d.Values), len(v.BinCentres))
		}
		if d.ID == "" {
			return errors.New(errors.ErrCodeInvalidDataset, "density[%d] (%s): missing id", i, d.Name)
		}
		if other, ok := ids[d.ID]; ok {
			return errors.New(errors.ErrCodeInvalidDataset,
				"density id %q shared by %q and %q", d.ID, other, d.Name)
		}
		ids[d.ID] = d.Name
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (v ViolinData) String() string {
	return fmt.Sprintf("%d groups x %d bins", len(v.Density), len(v.BinCentres))
}
