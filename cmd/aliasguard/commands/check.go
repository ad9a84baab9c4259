package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/aliasguard/pkg/gitlib"
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/observability"
	"github.com/Sumatoshi-tech/aliasguard/pkg/version"
	"github.com/Sumatoshi-tech/aliasguard/pkg/workspace"
)

const (
	defaultStdinFilename = "stdin.tsx"

	opCheck = "cli.check"
)

// checkOptions holds the flags of the check command.
type checkOptions struct {
	root *rootOptions

	format        string
	parsed        lint.Format
	output        string
	maxWarnings   int
	changedSince  string
	workers       int
	noColor       bool
	rules         []string
	stdin         bool
	stdinFilename string
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	co := &checkOptions{root: root}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Lint files and directories",
		Long: `Lint JavaScript and TypeScript files for parent-relative imports.

Directories are walked recursively, honouring the configured extensions and
ignore patterns. Files named explicitly are always linted.

Exit codes: 0 clean, 1 lint errors or too many warnings, 2 failure.`,
		RunE: co.run,
	}

	cmd.Flags().StringVarP(&co.format, "format", "f", string(lint.FormatText), "Output format: text, json, yaml, sarif, table")
	cmd.Flags().StringVarP(&co.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().IntVar(&co.maxWarnings, "max-warnings", -1, "Fail when warnings exceed this number (-1 = unlimited, default from config)")
	cmd.Flags().StringVar(&co.changedSince, "changed-since", "", "Only lint files changed since this git revision (e.g. 'origin/main', 'HEAD~3')")
	cmd.Flags().IntVar(&co.workers, "workers", 0, "Number of parallel workers (0 = use CPU count, default from config)")
	cmd.Flags().BoolVar(&co.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringArrayVar(&co.rules, "rule", nil, "Override a rule severity, e.g. no-relative-imports=warn (repeatable)")
	cmd.Flags().BoolVar(&co.stdin, "stdin", false, "Lint source read from stdin")
	cmd.Flags().StringVar(&co.stdinFilename, "stdin-filename", defaultStdinFilename, "File name used for stdin input")

	return cmd
}

func (co *checkOptions) run(cmd *cobra.Command, args []string) error {
	var err error

	co.parsed, err = lint.ParseFormat(co.format)
	if err != nil {
		return err
	}

	sess, err := co.root.open(cmd, observability.ModeCLI, co.rules)
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context())

	co.applyConfig(cmd, sess)

	ctx, span := sess.providers.Tracer.Start(cmd.Context(), opCheck)
	defer span.End()

	red, err := observability.NewREDMetrics(sess.providers.Meter)
	if err != nil {
		return err
	}

	start := time.Now()

	result, err := co.lint(ctx, cmd, sess, args)
	if err != nil {
		red.RecordRequest(ctx, opCheck, observability.StatusError, time.Since(start))

		return err
	}

	outcome := co.verdict(result)

	status := observability.StatusOK
	if outcome != nil {
		status = observability.StatusError
	}

	red.RecordRequest(ctx, opCheck, status, time.Since(start))

	err = co.report(cmd, sess, result)
	if err != nil {
		return err
	}

	if outcome != nil {
		co.explain(cmd, result)
	}

	return outcome
}

// applyConfig fills flags the user did not set from the configuration.
func (co *checkOptions) applyConfig(cmd *cobra.Command, sess *session) {
	if !cmd.Flags().Changed("max-warnings") {
		co.maxWarnings = sess.cfg.Lint.MaxWarnings
	}

	if !cmd.Flags().Changed("workers") {
		co.workers = sess.cfg.Lint.Workers
	}
}

func (co *checkOptions) lint(ctx context.Context, cmd *cobra.Command, sess *session, args []string) (*lint.Result, error) {
	if co.stdin {
		return co.lintStdin(ctx, cmd, sess)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	discovery, err := co.discover(ctx, sess, paths)
	if err != nil {
		return nil, err
	}

	lintMetrics, err := observability.NewLintMetrics(sess.providers.Meter)
	if err != nil {
		return nil, err
	}

	runner := &workspace.Runner{
		Linter:  sess.linter,
		Workers: co.workers,
		Tracer:  sess.providers.Tracer,
		Metrics: lintMetrics,
		Logger:  sess.providers.Logger,
	}

	result, err := runner.Lint(ctx, discovery.Files)
	if err != nil {
		return nil, err
	}

	result.Skipped = discovery.Skipped
	result.Sort()

	for _, skipped := range result.Skipped {
		sess.providers.Logger.Info("file skipped: larger than lint.max_file_size", "file", skipped)
	}

	return result, nil
}

func (co *checkOptions) discover(ctx context.Context, sess *session, paths []string) (*workspace.Discovery, error) {
	maxSize, err := sess.cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	opts := workspace.Options{
		Extensions:  sess.cfg.Extensions,
		Ignores:     sess.cfg.Ignores,
		MaxFileSize: maxSize,
	}

	if co.changedSince != "" {
		opts.Only, err = changedFiles(paths[0], co.changedSince)
		if err != nil {
			return nil, err
		}

		sess.providers.Logger.Debug("changed files", "since", co.changedSince, "count", len(opts.Only))
	}

	total := &workspace.Discovery{}

	for _, path := range paths {
		discovery, discoverErr := workspace.Discover(ctx, path, opts)
		if discoverErr != nil {
			return nil, discoverErr
		}

		total.Merge(discovery)
	}

	return total, nil
}

// changedFiles lists files changed since rev in the repository containing path.
// The result is never nil, so an empty change set lints nothing.
func changedFiles(path, rev string) ([]string, error) {
	dir := path

	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}

	repo, err := gitlib.OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	defer repo.Free()

	files, err := repo.ChangedFiles(rev)
	if err != nil {
		return nil, err
	}

	if files == nil {
		files = []string{}
	}

	return files, nil
}

func (co *checkOptions) lintStdin(ctx context.Context, cmd *cobra.Command, sess *session) (*lint.Result, error) {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	result := &lint.Result{}

	root, ignores, err := sess.scope()
	if err != nil {
		return nil, err
	}

	if ignores.MatchPath(root, co.stdinFilename) {
		sess.providers.Logger.Debug("stdin ignored by configuration", "file", co.stdinFilename)

		return result, nil
	}

	diagnostics, err := sess.linter.LintSource(ctx, co.stdinFilename, content)
	if err != nil {
		result.Errors = append(result.Errors, lint.FileError{File: co.stdinFilename, Err: err})

		return result, nil
	}

	result.Files = 1
	result.Diagnostics = diagnostics

	return result, nil
}

// verdict maps the result to the command outcome: nil, ErrLintFailed, or a
// failure for files that could not be linted.
func (co *checkOptions) verdict(result *lint.Result) error {
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s could not be linted", english.Plural(len(result.Errors), "file", ""))
	}

	if result.Count(lint.SeverityError) > 0 {
		return ErrLintFailed
	}

	if co.maxWarnings >= 0 && result.Count(lint.SeverityWarn) > co.maxWarnings {
		return ErrLintFailed
	}

	return nil
}

func (co *checkOptions) explain(cmd *cobra.Command, result *lint.Result) {
	warnings := result.Count(lint.SeverityWarn)

	if result.Count(lint.SeverityError) == 0 && co.maxWarnings >= 0 && warnings > co.maxWarnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "aliasguard found too many warnings (maximum: %d).\n", co.maxWarnings)
	}
}

func (co *checkOptions) report(cmd *cobra.Command, sess *session, result *lint.Result) error {
	opts := []lint.Option{
		lint.WithRules(sess.linter.Rules()),
		lint.WithToolVersion(version.Version),
	}

	if co.noColor || co.output != "" {
		opts = append(opts, lint.WithoutColor())
	}

	shown := result
	if co.root.quiet {
		shown = errorsOnly(result)
	}

	if co.output == "" {
		return lint.NewReporter(cmd.OutOrStdout(), co.parsed, opts...).Report(shown)
	}

	return writeReport(co.output, shown, co.parsed, opts)
}

// writeReport renders result into the file at path. A failed close is
// reported, since it can mean the report was not fully written.
func writeReport(path string, result *lint.Result, format lint.Format, opts []lint.Option) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	reportErr := lint.NewReporter(file, format, opts...).Report(result)

	closeErr := file.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close report: %w", closeErr)
	}

	return errors.Join(reportErr, closeErr)
}

// errorsOnly returns a copy of result without warnings.
func errorsOnly(result *lint.Result) *lint.Result {
	clone := *result
	clone.Diagnostics = nil

	for _, d := range result.Diagnostics {
		if d.Severity == lint.SeverityError {
			clone.Diagnostics = append(clone.Diagnostics, d)
		}
	}

	return &clone
}
