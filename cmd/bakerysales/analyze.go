package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var exportDir, exportFormat string

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze one sales spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headerRow, err := c.headerRow(cmd)
			if err != nil {
				return err
			}

			report, err := c.service.AnalyzeFile(cmd.Context(), args[0], headerRow)
			if err != nil {
				return err
			}

			if exportDir != "" {
				paths, err := c.service.SaveReport(report, exportDir, exportFormat)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
				}
			}

			if c.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeReportTable(cmd.OutOrStdout(), report)
		},
	}

	addHeaderRowFlag(cmd)
	addExportFlags(cmd, &exportDir, &exportFormat)
	return cmd
}
