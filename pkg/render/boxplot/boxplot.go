package boxplot

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/scale"
	"github.com/matzehuels/flowplot/pkg/stats"
)

// Chart geometry.
const (
	Width     = 256.0
	RowHeight = 256.0

	// DefaultPadding is the fraction of each condition band kept free of
	// points on either side, and the band scale's padding.
	DefaultPadding = 0.25

	// UngroupedColor marks samples when no batches are given.
	UngroupedColor = "#663F46"
)

// DefaultMargin is the space around each row.
var DefaultMargin = svg.Margin{Top: 10, Right: 50, Bottom: 30, Left: 50}

// Selection identifies a clicked box.
type Selection struct {
	Population string `json:"population"`
	Condition  string `json:"condition"`
}

// Option configures a [Chart].
type Option func(*Chart)

// WithMargin overrides [DefaultMargin].
func WithMargin(m svg.Margin) Option { return func(c *Chart) { c.margin = m } }

// WithPadding sets the band padding and the jitter exclusion fraction.
// Values are clamped to [0, 0.49].
func WithPadding(p float64) Option {
	return func(c *Chart) { c.padding = min(0.49, max(0, p)) }
}

// WithSeed makes point jitter reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Chart) { c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithSelectEndpoint sets the URL clicked boxes are posted to as a
// [Selection].
func WithSelectEndpoint(url string) Option { return func(c *Chart) { c.endpoint = url } }

// Chart draws box-and-whisker marks with jittered samples, one row per
// population and one band per condition.
type Chart struct {
	margin   svg.Margin
	padding  float64
	endpoint string

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a box plot chart. Without [WithSeed] jitter is seeded from
// the clock.
func New(opts ...Option) *Chart {
	c := &Chart{margin: DefaultMargin, padding: DefaultPadding}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return c
}

// serialQuantum bounds the rounding applied to coordinates when a chart is
// serialised (see [svg.Num]), with headroom for float error.
const serialQuantum = 0.006

// jitter returns u in the open interval (padding+inset, 1-padding-inset).
// When the inset leaves no room the band centre is used.
func (c *Chart) jitter(inset float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	lo, hi := c.padding+inset, 1-c.padding-inset
	if lo >= hi {
		return 0.5
	}
	for {
		u := lo + (hi-lo)*c.rng.Float64()
		if u > lo && u < hi {
			return u
		}
	}
}

// Render clears target and draws data. The frequency report it draws is
// returned for callers that also tabulate it.
func (c *Chart) Render(ctx context.Context, target *svg.Container, data dataset.BoxplotData) (stats.Report, error) {
	data.Normalize()
	report := stats.Compute(data)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	m := c.margin
	batched := len(data.Batches) > 0
	color := scale.NewOrdinal(map[string]string{stats.Ungrouped: UngroupedColor}, UngroupedColor)
	if batched {
		color = scale.NewOrdinal(data.MarkerColors, "")
	}

	height := float64(len(data.Populations)) * RowHeight
	populationName := scale.NewBand(data.Populations, m.Top, height)
	conditionName := scale.NewBand(data.Conditions, m.Left, Width).WithPadding(c.padding)
	step := populationName.Step()
	bw := conditionName.Bandwidth()

	rowOffset := func(population string) float64 {
		return step - m.Bottom + 1.1*populationName.Map(population)
	}
	frequency := make(map[string]scale.Linear, len(data.Populations))
	for _, p := range data.Populations {
		frequency[p] = scale.NewLinear(
			[]float64{0, stats.MaxFrequency(report.Frequencies, p)},
			[]float64{0, m.Bottom - step},
		)
	}

	err := target.Update(func(root *svg.Element) error {
		root.Clear()
		svg.Size(root, Width+m.Right+m.Left, 1.1*height+m.Bottom)

		rows := root.Add("g").SetAttr("class", "rows")
		for _, p := range data.Populations {
			row := rows.Add("g").
				SetAttr("class", "row").
				SetAttr("data-population", p).
				SetAttr("transform", svg.Translate(0, rowOffset(p)))

			row.Add("text").
				SetAttr("transform", svg.Rotate(-90)).
				SetAttr("y", 0).
				SetAttr("x", step/2+m.Top-m.Bottom).
				SetAttr("dy", "1em").
				Style("text-anchor", "middle").
				Style("font-family", "sans-serif").
				Style("font-size", "14px").
				SetText(p)

			axis := svg.AxisBottom(svg.Band(conditionName), svg.WithTickSizeOuter(0)).
				Style("text-anchor", "end")
			for _, label := range axis.ByTag("text") {
				label.SetAttr("y", 10).
					SetAttr("x", 0).
					SetAttr("dy", ".35em").
					SetAttr("transform", svg.Rotate(-45))
			}
			row.Append(axis)

			for i, b := range data.Batches {
				y := float64(i)*25 - 3*step/4 - m.Top + m.Bottom
				row.Add("circle").
					SetAttr("class", "legend").
					SetAttr("cx", Width+10).
					SetAttr("cy", y).
					SetAttr("r", 2).
					Style("fill", color.At(b)).
					SetAttr("stroke", "black").
					SetAttr("stroke-width", "0.25px")
				row.Add("text").
					SetAttr("class", "legend").
					SetAttr("x", Width+10).
					SetAttr("y", y).
					Style("fill", color.At(b)).
					SetText(b).
					SetAttr("dx", "0.5em").
					SetAttr("dy", "0.1em").
					Style("alignment-baseline", "middle").
					Style("font-family", "sans-serif").
					Style("font-size", "12px")
			}

			row.Append(svg.AxisLeft(svg.Linear(frequency[p]),
				svg.WithTickSizeOuter(0),
				svg.WithTicks(int(Width)/80),
				svg.WithTickFormat(scale.FormatPercent),
			).SetAttr("transform", svg.Translate(m.Left, 0)))
		}

		boxes := root.Add("g").SetAttr("class", "boxes")
		for _, s := range report.Summaries {
			f := frequency[s.Population]
			off := rowOffset(s.Population)
			x := conditionName.Map(s.Condition)
			fill := data.BarColors[s.Population]

			boxes.Add("rect").
				SetAttr("class", "box").
				SetAttr("data-population", s.Population).
				SetAttr("data-condition", s.Condition).
				SetAttr("x", x).
				SetAttr("y", f.Map(s.Upper)+off).
				SetAttr("height", f.Map(s.Lower)-f.Map(s.Upper)).
				SetAttr("width", bw).
				Style("fill", fill).
				Style("opacity", 0.5).
				Style("cursor", "pointer")

			boxes.Add("line").
				SetAttr("class", "whisker").
				SetAttr("stroke", fill).
				SetAttr("stroke-width", "3px").
				SetAttr("x1", x+bw/2).
				SetAttr("x2", x+bw/2).
				SetAttr("y1", f.Map(s.Max)+off).
				SetAttr("y2", f.Map(s.Min)+off)
		}

		// Points stay strictly inside the padded band after rounding.
		inset := 0.0
		if bw > 0 {
			inset = serialQuantum / bw
		}
		points := root.Add("g").SetAttr("class", "points")
		for _, fr := range report.Frequencies {
			points.Add("circle").
				SetAttr("class", "point").
				SetAttr("data-condition", fr.Condition).
				SetAttr("cx", conditionName.Map(fr.Condition)+bw*c.jitter(inset)).
				SetAttr("cy", frequency[fr.Population].Map(fr.Frequency)+rowOffset(fr.Population)).
				SetAttr("r", 2).
				Style("fill", color.At(fr.Group))
		}

		if c.endpoint != "" {
			root.SetAttr("data-select", c.endpoint)
		}
		svg.Embed(root, "boxplot-select", "", selectJS)
		return nil
	})
	return report, err
}

// selectJS logs the population and condition of a clicked box and posts
// them to the root's data-select endpoint when one is set.
const selectJS = `
    (function () {
      if (window.flowplotBoxSelect) return;
      window.flowplotBoxSelect = true;
      document.addEventListener("click", function (event) {
        var box = event.target && event.target.closest ? event.target.closest("rect.box") : null;
        if (!box) return;
        var selection = { population: box.dataset.population, condition: box.dataset.condition };
        console.log(selection.population, selection.condition);
        var svg = box.ownerSVGElement;
        var endpoint = svg ? svg.getAttribute("data-select") : null;
        if (endpoint) {
          fetch(endpoint, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify(selection)
          });
        }
      });
    })();`
