package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplot/pkg/pipeline"
)

// renderOpts holds the command-line flags shared by the render subcommands.
type renderOpts struct {
	output  string // output file (single format) or base path
	formats string // comma-separated output formats
	noCache bool
	refresh bool
	scale   float64 // PNG scale factor
	schema  string  // Gating-ML file seeding gate colours (violins)

	color     string
	seed      uint64
	stops     string
	palette   string
	stopTicks bool
}

// renderCommand creates the render command with one subcommand per chart.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart to SVG, PNG or PDF",
		Long: `Render a chart from a dataset file.

Violin datasets are JSON objects with bin centres and one density series per
group. Box plot datasets hold tagged event counts plus the population,
condition and batch names to plot. The colour bar needs no dataset.`,
	}

	cmd.AddCommand(c.renderKindCommand(pipeline.KindViolins, "Render violin plots of per-group densities"))
	cmd.AddCommand(c.renderKindCommand(pipeline.KindBoxplots, "Render box/strip plots of population frequencies"))
	cmd.AddCommand(c.renderKindCommand(pipeline.KindColorbar, "Render a colour bar legend"))
	return cmd
}

func (c *CLI) renderKindCommand(kind, short string) *cobra.Command {
	var opts renderOpts

	use := kind + " [file]"
	args := cobra.ExactArgs(1)
	if kind == pipeline.KindColorbar {
		use = kind
		args = cobra.NoArgs
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), kind, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	switch kind {
	case pipeline.KindViolins:
		cmd.Flags().StringVar(&opts.color, "color", "", "fill for groups without a gate style (default from config)")
		cmd.Flags().StringVar(&opts.schema, "schema", "", "Gating-ML file whose gates seed the style store")
	case pipeline.KindBoxplots:
		cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "jitter seed (default from config)")
	case pipeline.KindColorbar:
		cmd.Flags().StringVar(&opts.stops, "stops", "", "ascending scale stops (default 0,1)")
		cmd.Flags().StringVar(&opts.palette, "palette", "", "one colour per stop (default viridis)")
		cmd.Flags().BoolVar(&opts.stopTicks, "stop-ticks", false, "label the axis at the stops")
	}
	return cmd
}

// buildOptions merges flags over config defaults.
func (c *CLI) buildOptions(kind, input string, opts renderOpts) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	stops, err := parseFloats(opts.stops)
	if err != nil {
		return pipeline.Options{}, err
	}

	p := pipeline.Options{
		Kind:      kind,
		Input:     input,
		Formats:   parseFormats(opts.formats),
		Scale:     opts.scale,
		Refresh:   opts.refresh,
		Color:     opts.color,
		Seed:      opts.seed,
		Stops:     stops,
		Palette:   splitList(opts.palette),
		StopTicks: opts.stopTicks,
		Logger:    c.Logger,
	}
	if p.Color == "" {
		p.Color = cfg.Chart.Color
	}
	if p.Seed == 0 {
		p.Seed = cfg.Chart.Seed
	}
	return p, p.ValidateAndSetDefaults()
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, kind, input string, opts renderOpts) error {
	popts, err := c.buildOptions(kind, input, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.schema != "" {
		cfg, _ := c.loadConfig()
		if _, err := seedStyles(ctx, runner.Styles, opts.schema, cfg.Chart.Palette); err != nil {
			return fmt.Errorf("load schema %s: %w", opts.schema, err)
		}
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", kind))
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Rendered " + kind)

	paths := outputPaths(opts.output, input, kind, popts.Formats)
	for _, f := range popts.Formats {
		if err := writeArtifact(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", kind)
	for _, f := range popts.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.Groups, groupUnit(kind), popts.Formats, result.CacheInfo.RenderHit)
	if kind == pipeline.KindBoxplots && input != "" {
		printNewline()
		printNextStep("Frequencies", appName+" stats "+input)
	}
	return nil
}

func groupUnit(kind string) string {
	switch kind {
	case pipeline.KindBoxplots:
		return "populations"
	case pipeline.KindColorbar:
		return "stops"
	}
	return "groups"
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputPaths maps each format to a file. A single format writes to output
// as given; otherwise output (or the input without its extension) is a base
// path and each format appends its extension.
func outputPaths(output, input, kind string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input, kind)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or derives the base
// from input, or falls back to the chart kind.
func basePath(output, input, kind string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return kind
}

// parseFloats parses a comma-separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range splitList(s) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}
