package density

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplot/pkg/dataset"
)

func TestNormalReferenceConstant(t *testing.T) {
	assert.InDelta(t, 1.0592, normalReference, 1e-4)
}

func TestBandwidth(t *testing.T) {
	assert.Zero(t, Bandwidth(nil))
	assert.Zero(t, Bandwidth([]float64{3}))
	assert.Zero(t, Bandwidth([]float64{2, 2, 2}))

	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bw := Bandwidth(x)
	assert.Greater(t, bw, 0.0)
	assert.Less(t, bw, 5.0)
}

func TestEstimateIntegratesToOne(t *testing.T) {
	values := []float64{-1, 0, 0.5, 1, 2}
	grid := make([]float64, 2001)
	for i := range grid {
		grid[i] = -10 + float64(i)*0.01
	}
	dens := Estimate(values, grid, 0)

	area := 0.0
	for _, d := range dens {
		area += d * 0.01
	}
	assert.InDelta(t, 1.0, area, 1e-3)
}

func TestEstimateSymmetric(t *testing.T) {
	dens := Estimate([]float64{0}, []float64{-1, 0, 1}, 1)
	assert.InDelta(t, dens[0], dens[2], 1e-12)
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), dens[1], 1e-12)
}

func TestCentres(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0.5, 1.5, 2.5, 3.5}, Centres(0, 4, 4), 1e-12)
	assert.Equal(t, []float64{2}, Centres(0, 4, 1))
	assert.Nil(t, Centres(0, 4, 0))
}

func TestViolins(t *testing.T) {
	groups := []Group{
		{Name: "T cells", ID: "tcells", Values: []float64{1, 1.2, 1.4, 2, 2.1}},
		{Name: "B cells", ID: "bcells", Values: []float64{4, 4.5, 5}},
		{Name: "empty", ID: "empty"},
	}
	data, err := Violins(groups, 10)
	require.NoError(t, err)

	require.Len(t, data.BinCentres, 10)
	require.Len(t, data.Density, 3)
	assert.Equal(t, "tcells", data.Density[0].ID)
	for _, s := range data.Density[:2] {
		require.Len(t, s.Values, 10)
		peak := 0.0
		for _, v := range s.Values {
			peak = math.Max(peak, v)
		}
		assert.InDelta(t, 1.0, peak, 1e-12, s.Name)
	}
	for _, v := range data.Density[2].Values {
		assert.Zero(t, v)
	}
	assert.InDelta(t, 1.2, data.BinCentres[0], 1e-12)
	assert.InDelta(t, 4.8, data.BinCentres[9], 1e-12)
}

func TestViolinsNoValues(t *testing.T) {
	_, err := Violins([]Group{{Name: "a", ID: "a"}}, 0)
	assert.Error(t, err)
}

func TestGroupEvents(t *testing.T) {
	events := dataset.Events{
		{Values: map[string]float64{"CD3": 1}, Tags: []string{"T cells"}},
		{Values: map[string]float64{"CD3": 2}, Tags: []string{"B cells"}},
		{Values: map[string]float64{"CD3": 3}, Tags: []string{"T cells"}},
	}
	groups := GroupEvents(events, "CD3", []string{"T cells", "B cells"}, []string{"tcells"})
	require.Len(t, groups, 2)
	assert.Equal(t, []float64{1, 3}, groups[0].Values)
	assert.Equal(t, "tcells", groups[0].ID)
	assert.Equal(t, "B cells", groups[1].ID)
}
