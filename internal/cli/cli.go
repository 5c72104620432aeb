// Package cli implements the csrgraph command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/csrgraph/pkg/buildinfo"
	"github.com/matzehuels/csrgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "csrgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives command results; diagnostics go through Logger.
	out io.Writer

	// errOut is the logger's destination, shared with the spinner.
	errOut io.Writer

	// interactive enables the progress spinner.
	interactive bool
}

// New creates a new CLI instance writing results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(logw, level),
		out:         out,
		errOut:      logw,
		interactive: isTerminal(logw),
	}
}

// SetLogLevel updates the logger's level. Debug output and the spinner
// share stderr, so the spinner is disabled below info level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level < log.InfoLevel {
		c.interactive = false
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "csrgraph converts adjacency-list graphs to binary CSR",
		Long: `csrgraph converts directed graphs from a whitespace-separated adjacency-list
text format into the compact Compressed Sparse Row (CSR) binary layout loaded
by graph-processing engines, and inspects the resulting files.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.datasetsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
