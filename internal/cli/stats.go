package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	fpio "github.com/matzehuels/flowplot/pkg/io"
	"github.com/matzehuels/flowplot/pkg/stats"
)

// Table output formats of the stats command.
const (
	tableText     = "table"
	tableMarkdown = "markdown"
	tableCSV      = "csv"
	tableJSON     = "json"
)

// statsCommand prints the frequency and quartile tables behind a box plot.
func (c *CLI) statsCommand() *cobra.Command {
	var format string
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Print population frequencies and box plot quartiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fpio.ImportBoxplots(args[0])
			if err != nil {
				return err
			}
			report := stats.Compute(data)
			c.Logger.Debug("computed frequencies", "samples", len(report.Frequencies), "pairs", len(report.Summaries))

			if format == tableJSON {
				return fpio.WriteJSON(report, stdout)
			}
			if !summaryOnly {
				if err := writeTable(stdout, "Frequencies", report.FrequencyTable(), format); err != nil {
					return err
				}
				fmt.Fprintln(stdout)
			}
			return writeTable(stdout, "Summaries", report.SummaryTable(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", tableText, "output format: table, markdown, csv, json")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the quartile summary")
	return cmd
}

// writeTable renders t with go-pretty in the requested format.
func writeTable(w io.Writer, title string, t stats.Table, format string) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		tw.AppendRow(row)
	}

	var configs []table.ColumnConfig
	for i := 2; i < len(t.Header); i++ {
		if t.Header[i] == "Group" {
			continue
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	switch format {
	case tableText:
		tw.SetTitle(title)
		tw.Render()
	case tableMarkdown:
		tw.RenderMarkdown()
	case tableCSV:
		tw.RenderCSV()
	default:
		return fmt.Errorf("invalid table format: %s (must be 'table', 'markdown', 'csv' or 'json')", format)
	}
	return nil
}
