package scale

import (
	"math"
	"slices"
	"sort"
)

// Linear is a piecewise-linear scale from K domain stops to K range stops.
// Domain stops must be monotonic; range stops may run in either direction.
type Linear struct {
	domain []float64
	rng    []float64
}

// NewLinear returns a linear scale. Domain and range are truncated to the
// shorter of the two, and both must hold at least two stops to map values.
func NewLinear(domain, rng []float64) Linear {
	n := min(len(domain), len(rng))
	return Linear{domain: slices.Clone(domain[:n]), rng: slices.Clone(rng[:n])}
}

// Domain returns a copy of the domain stops.
func (s Linear) Domain() []float64 { return slices.Clone(s.domain) }

// Range returns a copy of the range stops.
func (s Linear) Range() []float64 { return slices.Clone(s.rng) }

// Copy returns an independent copy of s.
func (s Linear) Copy() Linear { return NewLinear(s.domain, s.rng) }

// WithRange returns a copy of s with the given range stops.
func (s Linear) WithRange(rng []float64) Linear { return NewLinear(s.domain, rng) }

// Map returns the range value for x.
func (s Linear) Map(x float64) float64 {
	return piecewise(s.domain, s.rng, x)
}

// Invert returns the domain value for the range value y.
func (s Linear) Invert(y float64) float64 {
	return piecewise(s.rng, s.domain, y)
}

// piecewise interpolates x from the stops in from onto the stops in to.
// A degenerate segment maps to its midpoint.
func piecewise(from, to []float64, x float64) float64 {
	n := len(from)
	if n < 2 {
		if n == 1 {
			return to[0]
		}
		return math.NaN()
	}

	// Work in ascending order so the segment search is a binary search.
	f, t := from, to
	if f[n-1] < f[0] {
		f, t = slices.Clone(f), slices.Clone(t)
		slices.Reverse(f)
		slices.Reverse(t)
	}

	i := sort.SearchFloat64s(f[1:n-1], x) // segment index in [0, n-2]
	d0, d1 := f[i], f[i+1]
	r0, r1 := t[i], t[i+1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	return r0 + (x-d0)/(d1-d0)*(r1-r0)
}

// Ticks returns approximately count evenly spaced, human-friendly values
// within the domain extent.
func (s Linear) Ticks(count int) []float64 {
	if len(s.domain) == 0 {
		return nil
	}
	return Ticks(s.domain[0], s.domain[len(s.domain)-1], count)
}

// TickStep returns the tick spacing [Ticks] uses for the domain extent.
func (s Linear) TickStep(count int) float64 {
	if len(s.domain) == 0 {
		return math.NaN()
	}
	return tickStep(s.domain[0], s.domain[len(s.domain)-1], count)
}

// Nice returns a copy of s whose outer domain stops are rounded outward to
// tick multiples.
func (s Linear) Nice(count int) Linear {
	out := s.Copy()
	n := len(out.domain)
	if n < 2 {
		return out
	}
	lo, hi := out.domain[0], out.domain[n-1]
	reversed := hi < lo
	if reversed {
		lo, hi = hi, lo
	}
	for i := 0; i < 10; i++ {
		step := tickIncrement(lo, hi, count)
		switch {
		case step > 0:
			lo, hi = math.Floor(lo/step)*step, math.Ceil(hi/step)*step
		case step < 0:
			lo, hi = math.Ceil(lo*step)/step, math.Floor(hi*step)/step
		default:
			i = 10
		}
	}
	if reversed {
		lo, hi = hi, lo
	}
	out.domain[0], out.domain[n-1] = lo, hi
	return out
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns approximately count nice values in [start, stop].
// If start > stop the ticks are returned in descending order.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	step := tickIncrement(start, stop, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}

	var ticks []float64
	if step > 0 {
		r0, r1 := math.Ceil(start/step), math.Floor(stop/step)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i*step)
		}
	} else {
		step = -step
		r0, r1 := math.Ceil(start*step), math.Floor(stop*step)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i/step)
		}
	}
	if reverse {
		slices.Reverse(ticks)
	}
	return ticks
}

// tickIncrement returns a positive step, or the negated reciprocal of the
// step when it is below one, to keep tick arithmetic in integers.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func tickStep(start, stop float64, count int) float64 {
	step0 := math.Abs(stop-start) / math.Max(0, float64(count))
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	err := step0 / step1
	switch {
	case err >= e10:
		step1 *= 10
	case err >= e5:
		step1 *= 5
	case err >= e2:
		step1 *= 2
	}
	if stop < start {
		return -step1
	}
	return step1
}
