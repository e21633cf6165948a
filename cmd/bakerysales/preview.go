package main

import (
	"github.com/spf13/cobra"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
)

func newPreviewCmd(c *cli) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show the first rows of a spreadsheet to find the header row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := c.service.PreviewFile(cmd.Context(), args[0], rows)
			if err != nil {
				return err
			}

			if c.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), preview)
			}
			return writePreviewTable(cmd.OutOrStdout(), preview)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", config.DefaultPreviewRows, "Number of rows to show")
	return cmd
}
