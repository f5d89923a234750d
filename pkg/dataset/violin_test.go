package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/flowplot/pkg/errors"
)

func TestViolinDataValidate(t *testing.T) {
	bins := []float64{0, 1, 2}

	tests := []struct {
		name    string
		data    ViolinData
		wantErr bool
	}{
		{
			name: "valid",
			data: ViolinData{BinCentres: bins, Density: []DensitySeries{
				{Name: "A", ID: "g1", Values: []float64{0, 1, 0}},
				{Name: "B", ID: "g2", Values: []float64{1, 0.5, 0}},
			}},
		},
		{
			name:    "no bins",
			data:    ViolinData{Density: []DensitySeries{{Name: "A", ID: "g1"}}},
			wantErr: true,
		},
		{
			name: "misaligned",
			data: ViolinData{BinCentres: bins, Density: []DensitySeries{
				{Name: "A", ID: "g1", Values: []float64{0, 1}},
			}},
			wantErr: true,
		},
		{
			name: "duplicate id",
			data: ViolinData{BinCentres: bins, Density: []DensitySeries{
				{Name: "A", ID: "g1", Values: []float64{0, 1, 0}},
				{Name: "B", ID: "g1", Values: []float64{0, 1, 0}},
			}},
			wantErr: true,
		},
		{
			name: "missing id",
			data: ViolinData{BinCentres: bins, Density: []DensitySeries{
				{Name: "A", Values: []float64{0, 1, 0}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidDataset), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestViolinDataNames(t *testing.T) {
	v := ViolinData{Density: []DensitySeries{{Name: "T cells"}, {Name: "B cells"}}}
	assert.Equal(t, []string{"T cells", "B cells"}, v.Names())
}

func TestBoxplotDataNormalizeValidate(t *testing.T) {
	b := BoxplotData{
		Populations: []string{"PopA", "PopA", "PopB"},
		Conditions:  []string{"CondX"},
		Batches:     []string{"", "B1"},
	}
	b.Normalize()

	assert.Equal(t, []string{"PopA", "PopB"}, b.Populations)
	assert.Equal(t, []string{"B1"}, b.Batches)
	assert.NotNil(t, b.BarColors)
	assert.NoError(t, b.Validate())

	b.BarColors["PopA"] = "blue"
	assert.True(t, errors.Is(b.Validate(), errors.ErrCodeInvalidDataset))

	assert.Error(t, BoxplotData{Conditions: []string{"x"}}.Validate())
	assert.Error(t, BoxplotData{Populations: []string{"x"}}.Validate())
}
