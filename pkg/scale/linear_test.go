package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearMapInvert(t *testing.T) {
	s := NewLinear([]float64{0, 10}, []float64{100, 200})

	assert.Equal(t, 150.0, s.Map(5))
	assert.Equal(t, 250.0, s.Map(15), "extrapolates outside the domain")
	assert.Equal(t, 5.0, s.Invert(150))
}

func TestLinearPiecewise(t *testing.T) {
	// Three colour-bar stops mapped onto a reversed pixel range.
	s := NewLinear([]float64{0, 0.5, 1}, []float64{100, 50, 0})

	assert.Equal(t, 100.0, s.Map(0))
	assert.Equal(t, 75.0, s.Map(0.25))
	assert.Equal(t, 0.0, s.Map(1))
	assert.InDelta(t, 0.25, s.Invert(75), 1e-12)
	assert.InDelta(t, 0.9, s.Invert(10), 1e-12)
}

func TestLinearDescendingDomain(t *testing.T) {
	s := NewLinear([]float64{1, 0}, []float64{0, 10})
	assert.Equal(t, 2.5, s.Map(0.75))
	assert.Equal(t, 0.75, s.Invert(2.5))
}

func TestLinearDegenerate(t *testing.T) {
	s := NewLinear([]float64{0, 0}, []float64{0, -200})
	assert.Equal(t, -100.0, s.Map(0))
	assert.True(t, math.IsNaN(NewLinear(nil, nil).Map(1)))
}

func TestLinearCopyIndependent(t *testing.T) {
	s := NewLinear([]float64{0, 1}, []float64{0, 10})
	c := s.WithRange([]float64{10, 0})

	assert.Equal(t, 5.0, s.Map(0.5))
	assert.Equal(t, 0.0, s.Map(0))
	assert.Equal(t, 10.0, c.Map(0))

	d := s.Domain()
	d[0] = 99
	assert.Equal(t, 0.0, s.Map(0), "Domain returns a copy")
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		want        []float64
	}{
		{"unit tenths", 0, 1, 10, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{"unit fifths", 0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{"hundreds", 0, 100, 3, []float64{0, 50, 100}},
		{"offset", -1.3, 4.1, 3, []float64{0, 2, 4}},
		{"reversed", 1, 0, 2, []float64{1, 0.5, 0}},
		{"equal", 3, 3, 5, []float64{3}},
		{"no count", 0, 1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(tt.start, tt.stop, tt.count)
			assert.Len(t, got, len(tt.want))
			if len(tt.want) > 0 {
				assert.InDeltaSlice(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestLinearNice(t *testing.T) {
	s := NewLinear([]float64{0.13, 0.87}, []float64{0, 1}).Nice(10)
	assert.InDeltaSlice(t, []float64{0.1, 0.9}, s.Domain(), 1e-12)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "15%", FormatPercent(0.154))
	assert.Equal(t, "7%", FormatPercent(0.07))
	assert.Equal(t, "0%", FormatPercent(-0.001))
	assert.Equal(t, "0.2", FormatTick(0.2, 0.1))
	assert.Equal(t, "50", FormatTick(50, 50))
	assert.Equal(t, "0", FormatTick(math.Copysign(0, -1), 1))
}
