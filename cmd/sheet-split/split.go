package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sheet-split/internal/companion"
	"sheet-split/internal/config"
	"sheet-split/internal/exporter"
	"sheet-split/internal/logger"
	"sheet-split/internal/model"
	"sheet-split/internal/splitter"
	"sheet-split/internal/ui"

	"github.com/spf13/cobra"
)

// splitOptions holds the flags of the split command; set flags override the config file
type splitOptions struct {
	root *rootOptions

	strategy    string
	sheet       string
	formats     []string
	noSuffix    bool
	emailColumn string
}

func newSplitCmd(root *rootOptions) *cobra.Command {
	o := &splitOptions{root: root}

	cmd := &cobra.Command{
		Use:   "split <source-path> [partition-column-name] [destination-root]",
		Short: "Write one filtered workbook copy per partition key",
		Long: `Reads the partition column of the source worksheet and writes, for every
distinct non-empty value, <destination-root>/<key>/<source name> - <key>.<ext>
with all rows of other keys hidden.

The column name is matched exactly against the header row. When omitted, the
split.column configuration value is used. The destination root defaults to the
directory of the source workbook.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: o.run,
	}

	cmd.Flags().StringVar(&o.strategy, "strategy", "", "Row suppression strategy: hide_rows, filter_only or copy")
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "Worksheet to split (default: the active sheet)")
	cmd.Flags().StringSliceVar(&o.formats, "format", nil, "Comma-separated exporters (trigger,share,yaml,json,html)")
	cmd.Flags().BoolVar(&o.noSuffix, "no-suffix", false, "Keep the source file name instead of appending \" - <key>\"")
	cmd.Flags().StringVar(&o.emailColumn, "email-column", "", "Column holding each group's email address")

	return cmd
}

// apply overrides config values with the flags given on the command line
func (o *splitOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Split.Strategy = o.strategy
	}
	if flags.Changed("sheet") {
		cfg.Split.Sheet = o.sheet
	}
	if flags.Changed("format") {
		cfg.Output.Formats = o.formats
	}
	if o.noSuffix {
		cfg.Split.SuffixKey = false
	}
	if flags.Changed("email-column") {
		cfg.Split.EmailColumn = o.emailColumn
	}
}

func (o *splitOptions) run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printBanner(out)

	// 1. Initialize
	cfg, err := config.Load(o.root.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	o.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	source, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	if _, err := os.Stat(source); err != nil {
		return &splitter.PreconditionError{Path: source, Err: err}
	}

	column := cfg.Split.Column
	if len(args) > 1 {
		column = args[1]
	}
	if column == "" {
		return errors.New("partition column name is required (argument or split.column)")
	}

	destRoot := filepath.Dir(source)
	if len(args) > 2 {
		if destRoot, err = filepath.Abs(args[2]); err != nil {
			return fmt.Errorf("failed to resolve destination root: %w", err)
		}
	}

	if err := cfg.ResolveOutputDir(destRoot); err != nil {
		return err
	}
	if err := logger.Init(out, config.GetLogPath(cfg.Output.Dir), o.root.verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	if o.root.verbose {
		cfg.Print()
	}

	strategy, _ := cfg.Strategy()
	opts := splitter.Options{
		Source:       source,
		Column:       column,
		Sheet:        cfg.Split.Sheet,
		DestRoot:     destRoot,
		Strategy:     strategy,
		SuffixKey:    cfg.Split.SuffixKey,
		EmailColumn:  cfg.Split.EmailColumn,
		IgnoreValues: cfg.Split.IgnoreValues,
		ReclaimEvery: cfg.Run.ReclaimEvery,
	}

	var companions splitter.Companions
	if len(cfg.Companions.Patterns) > 0 {
		copier, err := companion.New(cfg, source)
		if err != nil {
			logger.Warn("Companion documents disabled: %v", err)
		} else {
			logger.Info("Copying %d companion document(s) into every folder", len(copier.Files()))
			companions = copier
		}
	}

	pipeline := ui.NewPipelineWithOutput(ui.SplitPhases, out)
	if o.root.verbose || !isTerminal(out) {
		pipeline.Disable()
	}

	// 2. Read and split
	logger.Info("Splitting %s by %q (%s)...", filepath.Base(source), column, strategy)
	pipeline.NextPhase(-1)
	reporter := ui.NewGroupReporter(pipeline)

	summary, err := splitter.New(opts, companions, reporter).Run(cmd.Context())
	if err != nil {
		pipeline.Finish()
		logger.Error("%v", err)
		return &exitError{code: ExitPrecondition, err: err}
	}
	reporter.Done()

	// 3. Reports
	exportErrors := export(pipeline, summary, cfg)
	pipeline.Finish()

	printSummary(summary)

	failed := summary.Failed()
	if cfg.Run.FailOnPartial && (failed > 0 || len(exportErrors) > 0) {
		return &exitError{
			code: ExitPartial,
			err:  fmt.Errorf("%d group(s) and %d export(s) failed", failed, len(exportErrors)),
		}
	}
	return nil
}

// export runs the configured exporters; a failing exporter does not stop the others
func export(pipeline *ui.Pipeline, summary *model.Summary, cfg *config.Config) []error {
	exporters := exporter.GetExporters(cfg.Output.Formats)
	bar := pipeline.NextPhase(len(exporters))

	var errs []error
	for _, exp := range exporters {
		if err := exp.Export(summary, cfg); err != nil {
			logger.Error("%s export failed: %v", exp.Name(), err)
			errs = append(errs, err)
		} else {
			logger.Debug("%s export written", exp.Name())
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return errs
}

func printSummary(summary *model.Summary) {
	if n := summary.UnassignedRows; n > 0 {
		logger.Warn("%d row(s) have an empty %q value and belong to no group", n, summary.Column)
	}

	if logger.IsVerbose() {
		for _, a := range summary.SucceededArtifacts() {
			logger.Debug("%s -> %s (%d visible, %d hidden)", a.Group.Key, a.Path, a.VisibleRows, a.HiddenRows)
		}
	}

	if summary.Failed() > 0 {
		logger.Info("Groups not written:")
		for _, a := range summary.Artifacts {
			if a.Status != model.StatusSucceeded {
				logger.Info("  - %s (%s): %v", a.Group.Key, a.Status, a.Err)
			}
		}
	}

	logger.Info("Output: %s", summary.DestinationRoot)
	logger.Info("Log:    %s", logger.GetLogFilePath())
	logger.Progress("Summary: %d/%d groups", summary.Succeeded(), summary.Total())
}
