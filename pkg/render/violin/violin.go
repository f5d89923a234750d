package violin

import (
	"context"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/scale"
	"github.com/matzehuels/flowplot/pkg/stats"
)

// DefaultColor fills and strokes violins without a gate style.
const DefaultColor = "#0088AA55"

// Chart geometry.
const (
	Width     = 300.0
	RowHeight = 30.0
)

// DefaultMargin is the space around the plotting area.
var DefaultMargin = svg.Margin{Top: 40, Right: 20, Bottom: 40, Left: 60}

// Option configures a [Chart].
type Option func(*Chart)

// WithColor sets the colour used for groups without a stored style.
func WithColor(c string) Option { return func(v *Chart) { v.color = c } }

// WithMargin overrides [DefaultMargin].
func WithMargin(m svg.Margin) Option { return func(v *Chart) { v.margin = m } }

// WithStyles colours each group from the gate style sharing its ID.
func WithStyles(s gates.Store) Option { return func(v *Chart) { v.styles = s } }

// WithRecolorEndpoint sets the URL the embedded picker posts new colours
// to. "{id}" in the URL is replaced by the group ID.
func WithRecolorEndpoint(url string) Option { return func(v *Chart) { v.endpoint = url } }

// Chart draws one horizontal violin per density series.
type Chart struct {
	color    string
	margin   svg.Margin
	styles   gates.Store
	endpoint string
}

// New returns a violin chart with the given options.
func New(opts ...Option) *Chart {
	c := &Chart{color: DefaultColor, margin: DefaultMargin}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render draws data into target. Axes are drawn only into an empty
// container; the violin layer replaces any earlier one, so repeated calls
// leave one path per group. Malformed data is drawn as is.
func (c *Chart) Render(ctx context.Context, target *svg.Container, data dataset.ViolinData) error {
	colors, err := c.groupColors(ctx, data)
	if err != nil {
		return err
	}

	m := c.margin
	height := float64(len(data.Density)) * RowHeight

	groupName := scale.NewPoint(data.Names(), m.Top, height-m.Bottom)
	lo, hi := stats.Extent(data.BinCentres)
	binCentre := scale.NewLinear([]float64{lo, hi}, []float64{m.Left, Width - m.Right})
	density := scale.NewLinear([]float64{0, 1}, []float64{0, -groupName.Step() / 2})

	return target.Update(func(root *svg.Element) error {
		if len(root.Children) == 0 {
			root.Append(svg.AxisBottom(svg.Linear(binCentre), svg.WithTicks(int(Width/100))).
				SetAttr("transform", svg.Translate(0, 20+height-m.Bottom)))
			root.Append(svg.AxisLeft(svg.Point(groupName), svg.WithTickSize(0), svg.WithTickPadding(10), svg.WithoutDomain()).
				SetAttr("transform", svg.Translate(m.Left, 0)))
		}

		root.RemoveChildren(func(e *svg.Element) bool { return e.HasClass("violins") })
		layer := root.Add("g").SetAttr("class", "violins")

		xs := make([]float64, len(data.BinCentres))
		for i, b := range data.BinCentres {
			xs[i] = binCentre.Map(b)
		}
		for i, s := range data.Density {
			y0 := make([]float64, len(s.Values))
			y1 := make([]float64, len(s.Values))
			for j, v := range s.Values {
				y0[j] = -density.Map(v)
				y1[j] = density.Map(v)
			}
			layer.Add("g").
				SetAttr("transform", svg.Translate(0, groupName.Map(s.Name))).
				Add("path").
				SetAttr("class", "violin").
				SetAttr("fill", colors[i]).
				SetAttr("stroke", colors[i]).
				SetAttr("id", s.ID).
				SetAttr("data-name", s.Name).
				SetAttr("d", svg.BasisArea(xs, y0, y1)).
				Style("cursor", "pointer")
		}

		svg.Size(root, Width, height)
		if c.endpoint != "" {
			root.SetAttr("data-recolor", c.endpoint)
		}
		svg.Embed(root, "violin-picker", pickerCSS, pickerJS)
		return nil
	})
}

func (c *Chart) groupColors(ctx context.Context, data dataset.ViolinData) ([]string, error) {
	out := make([]string, len(data.Density))
	for i, s := range data.Density {
		out[i] = c.color
		if c.styles == nil {
			continue
		}
		st, err := c.styles.StyleFor(ctx, s.ID)
		switch {
		case errors.Is(err, errors.ErrCodeGateNotFound):
		case err != nil:
			return nil, err
		case st.Fill != "":
			out[i] = st.Fill
		}
	}
	return out, nil
}

// Recolor applies a picked colour to every element sharing id: the alpha
// suffix of the current fill is kept, the gate style in store is updated,
// then fill and stroke are rewritten. store may be nil. It returns the
// colour applied.
func Recolor(ctx context.Context, target *svg.Container, store gates.Store, id, picked string) (string, error) {
	if err := errors.ValidateColor(picked); err != nil {
		return "", err
	}
	var color string
	err := target.Update(func(root *svg.Element) error {
		shapes := root.ByID(id)
		if len(shapes) == 0 {
			return errors.New(errors.ErrCodeNotFound, "no chart element with id %q", id)
		}
		prev, _ := shapes[0].Attr("fill")
		color = gates.ComposeColor(prev, picked)
		if store != nil {
			if err := store.SetColor(ctx, id, color); err != nil {
				return err
			}
		}
		for _, s := range shapes {
			s.SetAttr("fill", color).SetAttr("stroke", color)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return color, nil
}
