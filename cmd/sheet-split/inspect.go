package main

import (
	"fmt"
	"io"
	"strings"

	"sheet-split/internal/analyzer"
	"sheet-split/internal/model"
	"sheet-split/internal/sample"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInspectCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "inspect <workbook>",
		Short: "Print the sheets, tables, filters and validations of a workbook",
		Long: `Reports the structure that decides how well a workbook survives a split:
sheet visibility, used ranges, tables, auto-filters, data validations and the
other sheets those validations pull their lists from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analyzer.AnalyzeWorkbook(args[0])
			if err != nil {
				return err
			}

			if asYAML {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the report as YAML")
	return cmd
}

func printReport(w io.Writer, r *model.WorkbookReport) {
	fmt.Fprintf(w, "Workbook: %s (%s)\n", r.Path, r.Format)
	fmt.Fprintf(w, "Sheets:   %d\n", len(r.Sheets))

	for _, s := range r.Sheets {
		visibility := "visible"
		if !s.Visible {
			visibility = "hidden"
		}
		fmt.Fprintf(w, "\n  %s [%s] %s, %d rows x %d columns\n", s.Name, visibility, s.Dimension, s.Rows, s.Columns)

		if len(s.Tables) > 0 {
			fmt.Fprintf(w, "    tables:      %s\n", strings.Join(s.Tables, ", "))
		}
		if s.HasAutoFilter {
			fmt.Fprintf(w, "    auto-filter: yes\n")
		}
		for _, v := range s.Validations {
			fmt.Fprintf(w, "    validation:  %s %s %s", v.Range, v.Type, v.Formula1)
			if len(v.ReferencedSheets) > 0 {
				fmt.Fprintf(w, " (uses %s)", strings.Join(v.ReferencedSheets, ", "))
			}
			fmt.Fprintln(w)
		}
	}

	if len(r.DefinedNames) > 0 {
		fmt.Fprintf(w, "\nDefined names: %s\n", strings.Join(r.DefinedNames, ", "))
	}
	if n := r.CrossSheetReferences(); n > 0 {
		fmt.Fprintf(w, "\n⚠️  %d validation(s) read from other sheets; keep those sheets in every copy\n", n)
	}
	if r.MainSheet != "" {
		fmt.Fprintf(w, "\nSuggested sheet: %s\n", r.MainSheet)
	}
}

func newSampleCmd() *cobra.Command {
	opts := sample.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "sample <path>",
		Short: "Write a sample reviewer access listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Rows < 1 {
				return fmt.Errorf("--rows must be at least 1")
			}
			if err := sample.Write(args[0], opts); err != nil {
				return fmt.Errorf("failed to write sample: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %d rows for %d reviewers to %s\n", opts.Rows, len(opts.Reviewers), args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "Number of data rows")
	cmd.Flags().StringSliceVar(&opts.Reviewers, "reviewers", opts.Reviewers, "Reviewer names assigned round-robin")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "Random seed for the generated values")
	return cmd
}
