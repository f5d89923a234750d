package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/density"
	"github.com/matzehuels/flowplot/pkg/gates"
	fpio "github.com/matzehuels/flowplot/pkg/io"
)

type densityOpts struct {
	channel     string
	tagColumns  string
	groups      string
	schema      string
	cofactor    float64
	noTransform bool
	bins        int
	output      string
	normalise   bool
	subsample   int
	seed        uint64

	// box plot dataset derived from the same events
	boxplots   string
	conditions string
	batches    string
}

// densityCommand estimates per-group densities of one channel from an
// events table and writes a violin dataset.
func (c *CLI) densityCommand() *cobra.Command {
	var opts densityOpts

	cmd := &cobra.Command{
		Use:   "density [events.csv]",
		Short: "Estimate violin densities from an events table",
		Long: `Estimate per-group densities of one channel from an events CSV.

Channel columns are arcsinh transformed (cofactor 250 by default). Groups are
either named tags from --tag-columns or the population gates of a Gating-ML
file given with --schema; gate IDs then become violin IDs so stored gate
colours apply to the chart.

--subsample keeps a seeded random subset of the events. --normalise aligns
every channel across the batches named by --batches: each batch is cut at the
valley between its negative and positive populations and both sides are
scaled to a mean of ±1. Gates from --schema are applied before normalising.

With --boxplots the tagged event counts are also written as a box plot
dataset over the given conditions and batches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDensity(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.channel, "channel", "", "channel to estimate (required)")
	cmd.Flags().StringVar(&opts.tagColumns, "tag-columns", "", "columns holding categorical tags (comma-separated)")
	cmd.Flags().StringVar(&opts.groups, "groups", "", "tags to plot as groups (default: every tag or population)")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Gating-ML file labelling events with populations")
	cmd.Flags().Float64Var(&opts.cofactor, "cofactor", 0, "arcsinh cofactor (default from config)")
	cmd.Flags().BoolVar(&opts.noTransform, "no-transform", false, "keep raw channel values")
	cmd.Flags().IntVar(&opts.bins, "bins", 0, "number of bin centres (default from config, else 64)")
	cmd.Flags().BoolVar(&opts.normalise, "normalise", false, "normalise channels per batch of --batches")
	cmd.Flags().IntVar(&opts.subsample, "subsample", 0, "keep at most this many events (0 keeps all)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "subsample seed (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "violin dataset path (default <input>.violins.json)")
	cmd.Flags().StringVar(&opts.boxplots, "boxplots", "", "also write a box plot dataset to this path")
	cmd.Flags().StringVar(&opts.conditions, "conditions", "", "conditions of the box plot dataset (comma-separated)")
	cmd.Flags().StringVar(&opts.batches, "batches", "", "batches of the box plot dataset (comma-separated)")
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}

func (c *CLI) runDensity(ctx context.Context, input string, opts densityOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.cofactor == 0 {
		opts.cofactor = cfg.Chart.Cofactor
	}
	if opts.bins == 0 {
		opts.bins = cfg.Chart.Bins
	}
	if opts.seed == 0 {
		opts.seed = cfg.Chart.Seed
	}

	prog := newProgress(c.Logger)
	events, channels, err := readEvents(input, splitList(opts.tagColumns))
	if err != nil {
		return err
	}
	if !slices.Contains(channels, opts.channel) {
		return fmt.Errorf("channel %q not in %s (have %v)", opts.channel, input, channels)
	}
	if opts.subsample > 0 {
		events = events.Subsample(opts.subsample, opts.seed)
	}
	if !opts.noTransform {
		events.Arcsinh(opts.cofactor)
	}
	c.Logger.Debug("read events", "file", input, "events", len(events), "channels", len(channels))

	names := splitList(opts.groups)
	var ids []string
	if opts.schema != "" {
		schema, err := readSchema(opts.schema)
		if err != nil {
			return err
		}
		schema.Tag(events)
		if len(names) == 0 {
			for _, p := range schema.Populations() {
				names = append(names, p.Name)
				ids = append(ids, p.ID)
			}
		}
	}
	if opts.normalise {
		for _, cut := range density.BatchNormalise(events, splitList(opts.batches), channels) {
			c.Logger.Debug("normalised", "batch", cut.Batch, "channel", cut.Channel, "cutoff", cut.Value)
		}
	}
	if len(names) == 0 {
		names = events.CountRecords().Tags()
	}
	if len(names) == 0 {
		return fmt.Errorf("no groups: pass --tag-columns, --groups or --schema")
	}

	data, err := density.Violins(density.GroupEvents(events, opts.channel, names, ids), opts.bins)
	if err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = basePath("", input, "events") + ".violins.json"
	}
	if err := fpio.ExportJSON(data, output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Estimated %d groups", len(data.Density)))

	printSuccess("Estimated %s densities", opts.channel)
	printFile(output)

	if opts.boxplots != "" {
		box := dataset.BoxplotData{
			Records:     events.CountRecords(),
			Populations: names,
			Conditions:  splitList(opts.conditions),
			Batches:     splitList(opts.batches),
		}
		box.Normalize()
		if err := box.Validate(); err != nil {
			return err
		}
		if err := fpio.ExportJSON(box, opts.boxplots); err != nil {
			return err
		}
		printFile(opts.boxplots)
	}

	printStats(len(data.Density), "groups", nil, false)
	printNewline()
	printNextStep("Render", appName+" render violins "+output)
	return nil
}

func readEvents(path string, tagColumns []string) (dataset.Events, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open events %s: %w", path, err)
	}
	defer f.Close()
	return dataset.ReadEventsCSV(f, dataset.CSVOptions{TagColumns: tagColumns})
}

func readSchema(path string) (*gates.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema %s: %w", path, err)
	}
	defer f.Close()
	return gates.ParseGatingML(f)
}
