package main

import (
	"github.com/spf13/cobra"

	"isd-hardness/report"
)

func newPlotCmd(ro *rootOptions) *cobra.Command {
	var in, out, title string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render JSONL sweep rows as an HTML chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := report.ReadJSONLFile(in)
			if err != nil {
				return err
			}
			ro.logger.Debug("rows loaded", "path", in, "rows", len(rows))
			if err := report.WriteChart(out, rows, title); err != nil {
				return err
			}
			ro.logger.Info("chart written", "path", out, "rows", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "results.jsonl", "JSONL rows written by run --jsonl")
	cmd.Flags().StringVar(&out, "out", "results.html", "output HTML file")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	return cmd
}
