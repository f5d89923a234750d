package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplot/pkg/config"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/observability"
	"github.com/matzehuels/flowplot/pkg/pipeline"
	"github.com/matzehuels/flowplot/pkg/server"
)

// serveCommand runs the chart server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, dataDir, violins, boxplots, schemaPath string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive charts and the gate API",
		Long: `Serve charts over HTTP.

Clicking a violin opens a colour picker; the picked colour is stored for the
gate and applied to every chart showing it. Clicking a box logs the selected
population and condition on the server.

Routes:
  GET  /                          page with the default charts
  GET  /charts/{kind}.{format}    violins, boxplots or colorbar as svg, png, pdf
  GET  /api/frequencies           box plot frequencies as JSON
  GET  /api/gates                 stored gate styles
  POST /api/gates/{id}/color      {"color": "#rrggbb"}
  GET  /api/gates/hierarchy.svg   gate hierarchy (needs --schema)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("data-dir") {
				dataDir = cfg.Server.DataDir
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := []server.Option{server.WithLogger(c.Logger), server.WithDataDir(dataDir)}
			if violins != "" {
				opts = append(opts, server.WithDefaultInput(pipeline.KindViolins, violins))
			}
			if boxplots != "" {
				opts = append(opts, server.WithDefaultInput(pipeline.KindBoxplots, boxplots))
			}
			var schema *gates.Schema
			if schemaPath != "" {
				if schema, err = seedStyles(ctx, runner.Styles, schemaPath, cfg.Chart.Palette); err != nil {
					return fmt.Errorf("load schema %s: %w", schemaPath, err)
				}
				opts = append(opts, server.WithSchema(schema))
			}

			observability.NewLogHooks(c.Logger).Register()
			defer observability.Reset()

			printSuccess("Serving charts")
			printKeyValue("Address", addr)
			printKeyValue("Data", dataDir)
			printKeyValue("Backends", cfg.String())
			if cfg.Store.Backend == config.StoreMemory {
				printWarning("Gate colours are kept in memory and lost on exit")
			}
			return server.New(runner, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "directory ?input= paths are resolved against")
	cmd.Flags().StringVar(&violins, "violins", "", "default violin dataset")
	cmd.Flags().StringVar(&boxplots, "boxplots", "", "default box plot dataset")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Gating-ML file seeding gate styles and the hierarchy diagram")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
