// Package commands implements CLI command handlers for aliasguard.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	// ExitOK means no lint errors and warnings within the allowed maximum.
	ExitOK = 0
	// ExitLintFailed means lint errors were found or too many warnings.
	ExitLintFailed = 1
	// ExitFailure means a usage, configuration or runtime failure.
	ExitFailure = 2
)

// ErrLintFailed is returned by check when the run should exit with ExitLintFailed.
// The report has already been written, so it is not printed again.
var ErrLintFailed = errors.New("lint failed")

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
	logJSON    bool
	verbose    bool
	quiet      bool
}

// NewRootCommand creates the aliasguard command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "aliasguard",
		Short: "Enforce @/ path aliases instead of parent-relative imports",
		Long: `aliasguard lints JavaScript and TypeScript sources for imports that climb
out of the current directory ("../") and should use the @/ path alias.

Commands:
  check     Lint files and directories
  rules     List available rules
  lsp       Run the language server on stdio
  mcp       Run the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: .aliasguard.yaml in the working or home directory)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output; check reports errors only")

	rootCmd.AddCommand(
		newCheckCommand(opts),
		newRulesCommand(opts),
		newLSPCommand(opts),
		newMCPCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrLintFailed):
		return ExitLintFailed
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return ExitFailure
	}
}
