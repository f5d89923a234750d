package svg

import (
	"github.com/matzehuels/flowplot/pkg/scale"
)

// Tick is a labelled position along an axis.
type Tick struct {
	Pos   float64
	Label string
}

// AxisScale adapts a scale for axis rendering.
type AxisScale interface {
	// Ticks returns tick positions and labels. count is a hint and format
	// may be nil for the scale's default labels.
	Ticks(count int, values []float64, format func(float64) string) []Tick
	// Extent returns the first and last range positions.
	Extent() (float64, float64)
}

// Linear adapts a linear scale.
func Linear(s scale.Linear) AxisScale { return linearAxis{s} }

// Band adapts a band scale; ticks sit at band centres.
func Band(b scale.Band) AxisScale { return bandAxis{b} }

// Point adapts a point scale.
func Point(p scale.Point) AxisScale { return bandAxis{p.Band} }

type linearAxis struct{ s scale.Linear }

func (a linearAxis) Ticks(count int, values []float64, format func(float64) string) []Tick {
	if values == nil {
		values = a.s.Ticks(count)
	}
	if format == nil {
		step := a.s.TickStep(count)
		format = func(v float64) string { return scale.FormatTick(v, step) }
	}
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Pos: a.s.Map(v), Label: format(v)}
	}
	return out
}

func (a linearAxis) Extent() (float64, float64) {
	r := a.s.Range()
	if len(r) == 0 {
		return 0, 0
	}
	return r[0], r[len(r)-1]
}

type bandAxis struct{ b scale.Band }

func (a bandAxis) Ticks(int, []float64, func(float64) string) []Tick {
	half := a.b.Bandwidth() / 2
	names := a.b.Domain()
	out := make([]Tick, len(names))
	for i, name := range names {
		out[i] = Tick{Pos: a.b.Map(name) + half, Label: name}
	}
	return out
}

func (a bandAxis) Extent() (float64, float64) { return a.b.Range() }

type orient int

const (
	top orient = iota
	right
	bottom
	left
)

type axis struct {
	count     int
	values    []float64
	format    func(float64) string
	sizeInner float64
	sizeOuter float64
	padding   float64
	domain    bool
}

// AxisOption configures an axis.
type AxisOption func(*axis)

// WithTicks sets the tick count hint for linear scales.
func WithTicks(n int) AxisOption { return func(a *axis) { a.count = n } }

// WithTickValues places ticks at explicit domain values.
func WithTickValues(v []float64) AxisOption { return func(a *axis) { a.values = v } }

// WithTickFormat overrides tick labels of linear scales.
func WithTickFormat(f func(float64) string) AxisOption {
	return func(a *axis) { a.format = f }
}

// WithTickSize sets both inner and outer tick sizes.
func WithTickSize(n float64) AxisOption {
	return func(a *axis) { a.sizeInner, a.sizeOuter = n, n }
}

// WithTickSizeOuter sets the size of the domain path end ticks.
func WithTickSizeOuter(n float64) AxisOption { return func(a *axis) { a.sizeOuter = n } }

// WithTickPadding sets the gap between tick and label.
func WithTickPadding(n float64) AxisOption { return func(a *axis) { a.padding = n } }

// WithoutDomain omits the domain path.
func WithoutDomain() AxisOption { return func(a *axis) { a.domain = false } }

// AxisBottom renders a horizontal axis with labels below.
func AxisBottom(s AxisScale, opts ...AxisOption) *Element { return renderAxis(bottom, s, opts) }

// AxisTop renders a horizontal axis with labels above.
func AxisTop(s AxisScale, opts ...AxisOption) *Element { return renderAxis(top, s, opts) }

// AxisLeft renders a vertical axis with labels on the left.
func AxisLeft(s AxisScale, opts ...AxisOption) *Element { return renderAxis(left, s, opts) }

// AxisRight renders a vertical axis with labels on the right.
func AxisRight(s AxisScale, opts ...AxisOption) *Element { return renderAxis(right, s, opts) }

func renderAxis(o orient, s AxisScale, opts []AxisOption) *Element {
	a := axis{count: 10, sizeInner: 6, sizeOuter: 6, padding: 3, domain: true}
	for _, opt := range opts {
		opt(&a)
	}

	k := 1.0
	if o == top || o == left {
		k = -1
	}
	anchor := "middle"
	switch o {
	case left:
		anchor = "end"
	case right:
		anchor = "start"
	}
	horizontal := o == top || o == bottom
	spacing := max(a.sizeInner, 0) + a.padding

	g := New("g").
		SetAttr("class", "axis").
		SetAttr("fill", "none").
		SetAttr("font-size", 10).
		SetAttr("font-family", "sans-serif").
		SetAttr("text-anchor", anchor)

	if a.domain {
		r0, r1 := s.Extent()
		outer := k * a.sizeOuter
		var d string
		if horizontal {
			d = "M" + Num(r0) + "," + Num(outer) + "V0H" + Num(r1) + "V" + Num(outer)
		} else {
			d = "M" + Num(outer) + "," + Num(r0) + "H0V" + Num(r1) + "H" + Num(outer)
		}
		g.Add("path").SetAttr("class", "domain").SetAttr("stroke", "currentColor").SetAttr("d", d)
	}

	for _, t := range s.Ticks(a.count, a.values, a.format) {
		tick := g.Add("g").SetAttr("class", "tick").SetAttr("opacity", 1)
		line := New("line").SetAttr("stroke", "currentColor")
		text := New("text").SetAttr("fill", "currentColor").SetText(t.Label)
		if horizontal {
			tick.SetAttr("transform", Translate(t.Pos, 0))
			line.SetAttr("y2", k*a.sizeInner)
			text.SetAttr("y", k*spacing)
			if o == top {
				text.SetAttr("dy", "0em")
			} else {
				text.SetAttr("dy", "0.71em")
			}
		} else {
			tick.SetAttr("transform", Translate(0, t.Pos))
			line.SetAttr("x2", k*a.sizeInner)
			text.SetAttr("x", k*spacing).SetAttr("dy", "0.32em")
		}
		tick.Append(line, text)
	}
	return g
}
