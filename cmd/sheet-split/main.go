package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName    = "Sheet Split"
	appVersion = "1.0.0"
	appDesc    = "Splits one Excel worksheet into a filtered workbook per partition key"
)

// Exit codes
const (
	ExitSuccess      = 0 // precondition passed (individual groups may still have failed)
	ExitPrecondition = 1 // source, sheet or column unusable; configuration or usage error
	ExitPartial      = 2 // some groups or exports failed and run.fail_on_partial is set
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    bool
	pause      bool
}

// exitError carries an exit code for a failure that was already reported
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	root, opts := newRootCmd()
	root.SetArgs(args)

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
			code = ExitPrecondition
		}
		if opts.pause {
			waitForEnter()
		}
	}()

	// Ctrl+C lets the current group finish and skips the rest
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return exitCode(root.ExecuteContext(ctx), root.ErrOrStderr())
}

// exitCode maps a command error to the process exit code
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "❌ %v\n", err)
	return ExitPrecondition
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "sheet-split",
		Short: appDesc,
		Long: `sheet-split partitions the rows of one worksheet by the values of a key column
and writes, for every distinct key, a copy of the whole workbook into its own
folder with the rows of all other keys hidden.

Exit codes:
  0  Run completed (see the summary line for per-group results)
  1  Source, sheet, column or configuration could not be used
  2  Some groups or exports failed and run.fail_on_partial is set`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	root.PersistentFlags().BoolVar(&opts.pause, "pause", false, "Wait for Enter before exiting (for double-click launches)")

	root.AddCommand(newSplitCmd(opts))
	root.AddCommand(newInspectCmd())
	root.AddCommand(newSampleCmd())
	root.AddCommand(newVersionCmd())

	return root, opts
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n%s\n", appName, appVersion, appDesc)
		},
	}
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

// isTerminal reports whether w is an interactive console
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printBanner(w io.Writer) {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                     SHEET SPLIT v1.0.0                    ║
║          One filtered workbook per partition key          ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Fprintln(w, banner)
}
