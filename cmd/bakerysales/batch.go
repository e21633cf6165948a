package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/files"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
)

func newBatchCmd(c *cli) *cobra.Command {
	var exportDir, exportFormat string

	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Analyze every spreadsheet in a directory in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headerRow, err := c.headerRow(cmd)
			if err != nil {
				return err
			}

			found, err := files.NewDiscovery("", c.files.IsSpreadsheet).FindSpreadsheets(args[0])
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return fmt.Errorf("%w in %s", services.ErrNoFilesFound, args[0])
			}

			paths := make([]string, len(found))
			for i, f := range found {
				paths[i] = f.Path
			}
			c.logger.InfoContext(cmd.Context(), "Batch started",
				"files", len(paths),
				"bytes", files.TotalSize(found))

			results := c.service.AnalyzeBatch(cmd.Context(), paths, headerRow)

			failed := 0
			var exportErrs []error
			for _, r := range results {
				if r.Err != nil {
					failed++
					continue
				}
				if exportDir == "" {
					continue
				}
				written, err := c.service.SaveReport(r.Report, exportDir, exportFormat)
				for _, p := range written {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
				}
				if err != nil {
					exportErrs = append(exportErrs, fmt.Errorf("export %s: %w", filepath.Base(r.Path), err))
				}
			}

			if c.output == outputJSON {
				err = writeJSON(cmd.OutOrStdout(), batchJSON(results))
			} else {
				err = writeBatchTable(cmd.OutOrStdout(), results)
			}
			if err != nil {
				return err
			}

			if failed > 0 {
				exportErrs = append([]error{fmt.Errorf("%d of %d files failed", failed, len(results))}, exportErrs...)
			}
			return errors.Join(exportErrs...)
		},
	}

	addHeaderRowFlag(cmd)
	addExportFlags(cmd, &exportDir, &exportFormat)
	return cmd
}
