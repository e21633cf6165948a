package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/dataprocessing"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/infrastructure"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/validation"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts"
)

// Output modes
const (
	outputTable = "table"
	outputJSON  = "json"
)

// cli holds what every subcommand shares once flags are parsed
type cli struct {
	configFile string
	verbose    bool
	output     string

	cfg     *config.Config
	logger  *slog.Logger
	files   *validation.FileValidator
	service *services.AnalysisService
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bakerysales",
		Short: "Analyze daily bakery sales spreadsheets",
		Long: `Analyze daily bakery sales spreadsheets (.xlsx, .xlsm, .xls, .csv).

Each file yields five views: summary statistics of total sales, weekday
averages, monthly seasonality per product, a 30-record rolling trend and
the promotion effect.`,
		Version:           contracts.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML config file (defaults to config.yaml lookup)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log pipeline progress to stderr")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", outputTable, "Output format: table or json")

	root.AddCommand(
		newAnalyzeCmd(c),
		newPreviewCmd(c),
		newBatchCmd(c),
	)
	return root
}

// setup loads configuration and builds the analysis service
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.output != outputTable && c.output != outputJSON {
		return fmt.Errorf("invalid --output %q: must be %s or %s", c.output, outputTable, outputJSON)
	}

	var err error
	if c.configFile != "" {
		c.cfg, err = config.LoadFrom(c.configFile)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger = infrastructure.NewLoggerWithWriter(cmd.ErrOrStderr(), level)

	c.files = validation.NewFileValidator(c.cfg.Analysis.MaxUploadBytes, c.logger)
	c.service = services.NewAnalysisService(
		dataprocessing.NewPipeline(c.logger),
		c.files,
		c.cfg.Analysis,
		c.logger,
	)
	return nil
}

// headerRow is the --header-row flag when given, the configured default otherwise
func (c *cli) headerRow(cmd *cobra.Command) (int, error) {
	if !cmd.Flags().Changed("header-row") {
		return c.cfg.Analysis.HeaderRow, nil
	}
	row, err := cmd.Flags().GetInt("header-row")
	if err != nil {
		return 0, err
	}
	if row < 0 {
		return 0, fmt.Errorf("--header-row must not be negative, got %d", row)
	}
	return row, nil
}

func addHeaderRowFlag(cmd *cobra.Command) {
	cmd.Flags().Int("header-row", config.DefaultHeaderRow, "0-based row holding the column names")
}

func addExportFlags(cmd *cobra.Command, dir, format *string) {
	cmd.Flags().StringVar(dir, "export", "", "Also write the views to this directory")
	cmd.Flags().StringVar(format, "format", services.FormatCSV, "Export format: csv (one file per view) or xlsx")
}
