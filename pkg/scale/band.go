package scale

import (
	"math"
	"slices"
)

// Band divides a continuous range into uniform bands, one per domain name.
type Band struct {
	domain       []string
	index        map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64

	start, step, bandwidth float64
}

// NewBand returns a band scale over domain spanning [r0, r1] with no padding.
func NewBand(domain []string, r0, r1 float64) Band {
	b := Band{domain: slices.Clone(domain), r0: r0, r1: r1, align: 0.5}
	b.index = make(map[string]int, len(domain))
	for i, d := range b.domain {
		if _, ok := b.index[d]; !ok {
			b.index[d] = i
		}
	}
	b.rescale()
	return b
}

// WithPadding returns a copy of b with inner and outer padding set to p,
// clamped to [0, 1].
func (b Band) WithPadding(p float64) Band {
	p = math.Min(1, math.Max(0, p))
	b.paddingInner, b.paddingOuter = p, p
	b.rescale()
	return b
}

// WithPaddingOuter returns a copy of b with the outer padding set to p.
func (b Band) WithPaddingOuter(p float64) Band {
	b.paddingOuter = math.Max(0, p)
	b.rescale()
	return b
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	reverse := b.r1 < b.r0
	start, stop := b.r0, b.r1
	if reverse {
		start, stop = b.r1, b.r0
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	if reverse {
		// Positions are assigned from the far end.
		b.start = start + b.step*(n-1)
		b.step = -b.step
	} else {
		b.start = start
	}
}

// Domain returns a copy of the band names.
func (b Band) Domain() []string { return slices.Clone(b.domain) }

// Range returns the range extent.
func (b Band) Range() (float64, float64) { return b.r0, b.r1 }

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return math.Abs(b.step) }

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Map returns the start of the band for name, or NaN for unknown names.
func (b Band) Map(name string) float64 {
	i, ok := b.index[name]
	if !ok {
		return math.NaN()
	}
	return b.start + b.step*float64(i)
}

// Contains reports whether name is in the domain.
func (b Band) Contains(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Point is a band scale with zero bandwidth: each name maps to a point.
type Point struct {
	Band
}

// NewPoint returns a point scale over domain spanning [r0, r1].
func NewPoint(domain []string, r0, r1 float64) Point {
	b := Band{domain: slices.Clone(domain), r0: r0, r1: r1, align: 0.5, paddingInner: 1}
	b.index = make(map[string]int, len(domain))
	for i, d := range b.domain {
		if _, ok := b.index[d]; !ok {
			b.index[d] = i
		}
	}
	b.rescale()
	return Point{Band: b}
}

// WithPadding returns a copy of p with outer padding set, in units of step.
func (p Point) WithPadding(pad float64) Point {
	return Point{Band: p.Band.WithPaddingOuter(pad)}
}
