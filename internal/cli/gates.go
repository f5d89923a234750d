package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/observability"
	"github.com/matzehuels/flowplot/pkg/pipeline"
)

// gatesCommand manages gate styles in the configured store.
func (c *CLI) gatesCommand() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "gates",
		Short: "List, recolour and diagram gates",
		Long: `Manage gate styles in the configured style store.

With the memory store nothing outlives the command, so pass --schema to seed
styles from a Gating-ML file. Redis and MongoDB stores keep colours between
runs and share them with a running server.`,
	}
	cmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "Gating-ML file whose gates seed the store")

	cmd.AddCommand(c.gatesListCommand(&schemaPath))
	cmd.AddCommand(c.gatesRecolorCommand(&schemaPath))
	cmd.AddCommand(c.gatesShowCommand())
	return cmd
}

// openStore opens the configured store and seeds it from schemaPath.
func (c *CLI) openStore(ctx context.Context, schemaPath string) (gates.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	if schemaPath != "" {
		if _, err := seedStyles(ctx, store, schemaPath, cfg.Chart.Palette); err != nil {
			store.Close()
			return nil, fmt.Errorf("load schema %s: %w", schemaPath, err)
		}
	}
	return store, nil
}

func (c *CLI) gatesListCommand(schemaPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gate styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx, *schemaPath)
			if err != nil {
				return err
			}
			defer store.Close()

			styles, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(styles) == 0 {
				printInfo("No gates in the store")
				return nil
			}
			printGates(styles)
			return nil
		},
	}
}

func printGates(styles []gates.Style) {
	tw := table.NewWriter()
	tw.SetOutputMirror(stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Name", "Parent", "Fill", "Stroke", "Width"})
	for _, s := range styles {
		tw.AppendRow(table.Row{s.ID, s.Name, s.Parent, swatch(s.Fill) + " " + s.Fill, s.Stroke, s.Width})
	}
	tw.Render()
}

func (c *CLI) gatesRecolorCommand(schemaPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recolor [id] [color]",
		Short: "Change a gate's colour",
		Long: `Change the fill and stroke of a gate.

The picked #rrggbb colour keeps the alpha byte of the gate's current colour.
Without arguments an interactive picker selects the gate and then a colour
from the configured palette.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx, *schemaPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var id, picked string
			if len(args) > 0 {
				id = args[0]
			}
			if len(args) > 1 {
				picked = args[1]
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			id, color, err := recolor(ctx, store, id, picked, func(st []gates.Style) (*gates.Style, error) {
				return pickGate(st)
			}, func(g gates.Style) (string, error) {
				return pickColor(g, cfg.Chart.Palette)
			})
			if err != nil || color == "" {
				return err
			}
			printSuccess("Recoloured %s", id)
			printKeyValue("Colour", swatch(color)+" "+color)
			return nil
		},
	}
}

// recolor resolves a missing id or colour through the pickers, composes the
// colour with the gate's alpha and stores it. It returns the gate ID and
// the stored colour; an empty colour with a nil error means the user
// cancelled a picker.
func recolor(ctx context.Context, store gates.Store, id, picked string,
	pickGate func([]gates.Style) (*gates.Style, error),
	pickColor func(gates.Style) (string, error),
) (gateID, color string, err error) {
	defer func() {
		if color != "" || err != nil {
			observability.Style().OnRecolor(ctx, id, color, err)
		}
	}()

	var gate gates.Style
	if id == "" {
		styles, err := store.List(ctx)
		if err != nil {
			return id, "", err
		}
		if len(styles) == 0 {
			return id, "", errors.New(errors.ErrCodeGateNotFound, "no gates in the store")
		}
		sel, err := pickGate(styles)
		if err != nil || sel == nil {
			return id, "", err
		}
		gate, id = *sel, sel.ID
	} else {
		if gate, err = store.StyleFor(ctx, id); err != nil {
			return id, "", err
		}
	}

	if picked == "" {
		if picked, err = pickColor(gate); err != nil || picked == "" {
			return id, "", err
		}
	}
	if err := errors.ValidateColor(picked); err != nil {
		return id, "", err
	}

	color = gates.ComposeColor(gate.Fill, picked)
	if err := store.SetColor(ctx, id, color); err != nil {
		return id, "", err
	}
	return id, color, nil
}

func pickGate(styles []gates.Style) (*gates.Style, error) {
	final, err := tea.NewProgram(NewGateListModel(styles)).Run()
	if err != nil {
		return nil, err
	}
	return final.(GateListModel).Selected, nil
}

func pickColor(gate gates.Style, palette []string) (string, error) {
	if len(palette) == 0 {
		palette = gates.DefaultPalette
	}
	final, err := tea.NewProgram(NewColorListModel(gate, palette)).Run()
	if err != nil {
		return "", err
	}
	return final.(ColorListModel).Selected, nil
}

func (c *CLI) gatesShowCommand() *cobra.Command {
	var output, format string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "show [schema.xml]",
		Short: "Draw the gate hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			schema, err := readSchema(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			cfg, _ := c.loadConfig()
			if _, err := gates.Seed(ctx, runner.Styles, schema.Styles(cfg.Chart.Palette)); err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Drawing gate hierarchy...")
			spinner.Start()
			data, err := runner.Hierarchy(ctx, schema, format)
			if err != nil {
				spinner.StopWithError("Diagram failed")
				return err
			}
			spinner.Stop()

			if output == "" {
				output = strings.TrimSuffix(basePath("", args[0], "gates"), ".gating") + ".hierarchy." + format
			}
			if err := writeArtifact(output, data); err != nil {
				return err
			}
			printSuccess("Drew %d gates", schema.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <schema>.hierarchy.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, png, pdf")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
