package scale

import (
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a continuous colour scale: K numeric stops mapped onto K colours,
// interpolated in RGB between adjacent stops and clamped outside the domain.
type Color struct {
	domain []float64
	colors []colorful.Color
}

// NewColor builds a colour scale from numeric stops and hex colours.
func NewColor(domain []float64, hexColors []string) (Color, error) {
	n := min(len(domain), len(hexColors))
	c := Color{domain: slices.Clone(domain[:n]), colors: make([]colorful.Color, n)}
	for i := 0; i < n; i++ {
		col, err := ParseColor(hexColors[i])
		if err != nil {
			return Color{}, err
		}
		c.colors[i] = col
	}
	return c, nil
}

// NewColorRamp spreads the colours evenly across [lo, hi].
func NewColorRamp(lo, hi float64, hexColors []string) (Color, error) {
	domain := make([]float64, len(hexColors))
	for i := range domain {
		if len(domain) == 1 {
			domain[i] = lo
			continue
		}
		domain[i] = lo + (hi-lo)*float64(i)/float64(len(domain)-1)
	}
	return NewColor(domain, hexColors)
}

// Domain returns a copy of the numeric stops.
func (c Color) Domain() []float64 { return slices.Clone(c.domain) }

// Range returns the colour stops as hex strings.
func (c Color) Range() []string {
	out := make([]string, len(c.colors))
	for i, col := range c.colors {
		out[i] = col.Hex()
	}
	return out
}

// Copy returns an independent copy of c.
func (c Color) Copy() Color {
	return Color{domain: slices.Clone(c.domain), colors: slices.Clone(c.colors)}
}

// Positions returns a linear scale over the colour stops with the given
// positional range, for axes and inversion.
func (c Color) Positions(rng []float64) Linear {
	return NewLinear(c.domain, rng)
}

// At returns the interpolated colour for v as a hex string.
func (c Color) At(v float64) string {
	return c.color(v).Clamped().Hex()
}

func (c Color) color(v float64) colorful.Color {
	n := len(c.domain)
	switch {
	case n == 0:
		return colorful.Color{}
	case n == 1 || math.IsNaN(v):
		return c.colors[0]
	}

	// Normalise to an index position using the piecewise stops; the result is
	// clamped so values outside the domain take the end colours.
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	pos := math.Min(float64(n-1), math.Max(0, piecewise(c.domain, idx, v)))
	i := min(int(pos), n-2)
	return c.colors[i].BlendRgb(c.colors[i+1], pos-float64(i))
}

// ParseColor parses a #rgb, #rrggbb or #rrggbbaa colour. The alpha byte is
// ignored for interpolation.
func ParseColor(hex string) (colorful.Color, error) {
	if len(hex) == 9 {
		hex = hex[:7]
	}
	if len(hex) == 4 {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return colorful.Hex(hex)
}

// Viridis returns the viridis ramp spread over [lo, hi].
func Viridis(lo, hi float64) Color {
	c, _ := NewColorRamp(lo, hi, viridis)
	return c
}

var viridis = []string{
	"#440154", "#482374", "#404387", "#345e8d", "#29788e",
	"#20908c", "#22a784", "#44be70", "#79d151", "#bdde26", "#fde725",
}

// Ordinal maps names to colours with a fallback for unknown names.
type Ordinal struct {
	colors   map[string]string
	fallback string
}

// NewOrdinal builds an ordinal colour lookup.
func NewOrdinal(colors map[string]string, fallback string) Ordinal {
	m := make(map[string]string, len(colors))
	for k, v := range colors {
		m[k] = v
	}
	return Ordinal{colors: m, fallback: fallback}
}

// At returns the colour for name.
func (o Ordinal) At(name string) string {
	if c, ok := o.colors[name]; ok && c != "" {
		return c
	}
	return o.fallback
}
