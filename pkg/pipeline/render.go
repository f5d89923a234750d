package pipeline

import (
	"bytes"
	"context"
	"os"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	flowio "github.com/matzehuels/flowplot/pkg/io"
	"github.com/matzehuels/flowplot/pkg/render/boxplot"
	"github.com/matzehuels/flowplot/pkg/render/colorbar"
	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/render/violin"
	"github.com/matzehuels/flowplot/pkg/scale"
	"github.com/matzehuels/flowplot/pkg/stats"
)

// input is a loaded dataset with the hash of its raw bytes.
type input struct {
	hash     string
	violins  dataset.ViolinData
	boxplots dataset.BoxplotData
	groups   int
}

// readInput returns the raw dataset bytes of opts.
func readInput(opts Options) ([]byte, error) {
	if len(opts.Data) > 0 {
		return opts.Data, nil
	}
	if opts.Input == "" {
		return nil, nil
	}
	data, err := os.ReadFile(opts.Input)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Input)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", opts.Input)
	}
	return data, nil
}

// load reads and validates the dataset named by opts.
func load(opts Options, hash func([]byte) string) (input, error) {
	raw, err := readInput(opts)
	if err != nil {
		return input{}, err
	}
	in := input{hash: hash(raw)}
	switch opts.Kind {
	case KindViolins:
		if in.violins, err = flowio.ReadViolins(bytes.NewReader(raw)); err != nil {
			return in, err
		}
		in.groups = len(in.violins.Density)
	case KindBoxplots:
		if in.boxplots, err = flowio.ReadBoxplots(bytes.NewReader(raw)); err != nil {
			return in, err
		}
		in.groups = len(in.boxplots.Populations)
	case KindColorbar:
		in.groups = len(opts.Stops)
	}
	return in, nil
}

// ColorScale builds the colour bar scale of opts.
func ColorScale(opts Options) (scale.Color, error) {
	lo, hi := opts.Stops[0], opts.Stops[len(opts.Stops)-1]
	if len(opts.Palette) == 0 {
		return scale.Viridis(lo, hi), nil
	}
	c, err := scale.NewColor(opts.Stops, opts.Palette)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidColor, err, "colour bar palette")
	}
	return c, nil
}

// draw renders the chart into its container on page and returns the
// serialised SVG. Box plot runs also return their frequency report.
func draw(ctx context.Context, page *svg.Page, in input, opts Options, store gates.Store) ([]byte, *stats.Report, error) {
	switch opts.Kind {
	case KindViolins:
		vopts := []violin.Option{violin.WithColor(opts.Color)}
		if store != nil {
			vopts = append(vopts, violin.WithStyles(store))
		}
		if opts.RecolorEndpoint != "" {
			vopts = append(vopts, violin.WithRecolorEndpoint(opts.RecolorEndpoint))
		}
		target := violinTarget(page, in.hash)
		if err := violin.New(vopts...).Render(ctx, target, in.violins); err != nil {
			return nil, nil, err
		}
		target.Update(func(root *svg.Element) error {
			root.SetAttr("data-input", in.hash)
			return nil
		})
		return target.Bytes(), nil, nil

	case KindBoxplots:
		bopts := []boxplot.Option{boxplot.WithSeed(opts.Seed)}
		if opts.SelectEndpoint != "" {
			bopts = append(bopts, boxplot.WithSelectEndpoint(opts.SelectEndpoint))
		}
		target := page.Container(svg.BoxplotsSelector)
		report, err := boxplot.New(bopts...).Render(ctx, target, in.boxplots)
		if err != nil {
			return nil, nil, err
		}
		return target.Bytes(), &report, nil

	case KindColorbar:
		color, err := ColorScale(opts)
		if err != nil {
			return nil, nil, err
		}
		m := colorbar.DefaultMargin
		copts := []colorbar.Option{colorbar.WithOrigin(colorbar.Origin{X: m.Right, Y: m.Top})}
		if opts.StopTicks {
			copts = append(copts, colorbar.WithStopTicks())
		}
		target := page.Reset(svg.ColorbarSelector)
		colorbar.New(color, copts...).Draw(target)
		target.Update(func(root *svg.Element) error {
			svg.Size(root, colorbar.DefaultWidth+m.Left+m.Right, colorbar.DefaultHeight+m.Top+m.Bottom)
			return nil
		})
		return target.Bytes(), nil, nil
	}
	return nil, nil, ValidateKind(opts.Kind)
}

// violinTarget returns the page's violin container. Violin axes are drawn
// once per container, so a container holding a different dataset is
// replaced.
func violinTarget(page *svg.Page, hash string) *svg.Container {
	target := page.Container(svg.ViolinsSelector)
	var drawn string
	target.View(func(root *svg.Element) { drawn, _ = root.Attr("data-input") })
	if drawn != "" && drawn != hash {
		return page.Reset(svg.ViolinsSelector)
	}
	return target
}
