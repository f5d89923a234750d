package colorbar

import (
	"math"

	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/scale"
)

// Defaults for the bar size and the space around it.
const (
	DefaultWidth  = 100.0
	DefaultHeight = 100.0
)

// DefaultMargin leaves room on the right for axis labels.
var DefaultMargin = svg.Margin{Top: 5, Right: 60, Bottom: 5, Left: 0}

// Origin is where the bar is anchored inside its container.
type Origin struct {
	X, Y float64
}

// Option configures a [Chart].
type Option func(*Chart)

// WithSize sets the bar height and width in pixels.
func WithSize(height, width float64) Option {
	return func(c *Chart) { c.height, c.width = height, width }
}

// WithOrigin anchors the bar.
func WithOrigin(o Origin) Option { return func(c *Chart) { c.origin = o } }

// WithMargin overrides [DefaultMargin].
func WithMargin(m svg.Margin) Option { return func(c *Chart) { c.margin = m } }

// WithStopTicks labels the axis at the colour scale's stops instead of
// evenly spaced round values.
func WithStopTicks() Option { return func(c *Chart) { c.stopTicks = true } }

// Chart draws a vertical gradient legend for a continuous colour scale. It
// holds only immutable configuration and may draw into any number of
// containers.
type Chart struct {
	color     scale.Color
	height    float64
	width     float64
	origin    Origin
	margin    svg.Margin
	stopTicks bool
}

// New returns a colour bar for color. The scale is copied.
func New(color scale.Color, opts ...Option) *Chart {
	c := &Chart{
		color:  color.Copy(),
		height: DefaultHeight,
		width:  DefaultWidth,
		margin: DefaultMargin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Positions returns the bar positions of the colour stops: 0, h/(K-1), ...
// below the height, then the height itself, in reverse so the first stop
// sits at the bottom.
func (c *Chart) Positions() []float64 {
	k := len(c.color.Domain())
	var out []float64
	if k > 1 {
		step := c.height / float64(k-1)
		n := int(math.Ceil(c.height / step))
		for i := 0; i < n; i++ {
			out = append(out, float64(i)*step)
		}
	}
	out = append(out, c.height)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Draw appends a colour bar to each container.
func (c *Chart) Draw(targets ...*svg.Container) {
	for _, t := range targets {
		t.Update(func(root *svg.Element) error {
			root.Append(c.Element())
			return nil
		})
	}
}

// Element builds one colour bar as a nested <svg> element.
func (c *Chart) Element() *svg.Element {
	m := c.margin
	bar := c.color.Positions(c.Positions())

	outer := svg.New("svg").
		SetAttr("class", "colorbar").
		SetAttr("x", c.origin.X-m.Right).
		SetAttr("y", c.origin.Y-m.Top).
		SetAttr("width", c.width+m.Left+m.Right).
		SetAttr("height", c.height+m.Top+m.Bottom)

	g := outer.Add("g").
		SetAttr("class", "colorbar").
		SetAttr("transform", svg.Translate(m.Left, m.Top))

	var opts []svg.AxisOption
	if c.stopTicks {
		opts = append(opts, svg.WithTickValues(c.color.Domain()))
	}
	axis := svg.AxisRight(svg.Linear(bar), opts...).
		SetAttr("transform", svg.Translate(c.width, 0))
	g.Append(axis)

	rects := g.Add("g").SetAttr("class", "bar")
	for y := 0; float64(y) < c.height; y++ {
		rects.Add("rect").
			SetAttr("width", c.width).
			SetAttr("height", 2).
			Style("fill", c.color.At(bar.Invert(float64(y)))).
			SetAttr("y", y)
	}
	return outer
}
