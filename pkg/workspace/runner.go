package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/observability"
)

const languageUnknown = "unknown"

// Runner lints files in parallel. Each file gets its own rule context, so
// no state is shared between workers.
type Runner struct {
	// Linter is the configured rule set.
	Linter *lint.Linter

	// Workers bounds concurrency. Zero or less means runtime.NumCPU.
	Workers int

	// Tracer receives a span per run and per file. Nil disables tracing.
	Tracer trace.Tracer

	// Metrics records per-file counters. Nil disables metrics.
	Metrics *observability.LintMetrics

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

type fileOutcome struct {
	diagnostics []lint.Diagnostic
	err         error
}

// Lint lints files and returns the merged, sorted result. Per-file failures
// are collected in the result; only cancellation aborts the run.
func (r *Runner) Lint(ctx context.Context, files []string) (*lint.Result, error) {
	ctx, span := r.tracer().Start(ctx, "aliasguard.lint",
		trace.WithAttributes(
			attribute.Int("lint.files", len(files)),
			attribute.Int("lint.workers", r.workers()),
		))
	defer span.End()

	outcomes := make([]fileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers())

	for i, file := range files {
		group.Go(func() error {
			err := groupCtx.Err()
			if err != nil {
				return err
			}

			outcomes[i] = r.lintFile(groupCtx, file)

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("lint: %w", err)
	}

	result := &lint.Result{}

	for i, outcome := range outcomes {
		if outcome.err != nil {
			result.Errors = append(result.Errors, lint.FileError{File: files[i], Err: outcome.err})

			continue
		}

		result.Files++
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostics...)
	}

	result.Sort()

	span.SetAttributes(
		attribute.Int("lint.diagnostics", len(result.Diagnostics)),
		attribute.Int("lint.file_errors", len(result.Errors)),
	)

	r.logger().DebugContext(ctx, "lint run finished",
		"files", result.Files, "diagnostics", len(result.Diagnostics), "errors", len(result.Errors))

	return result, nil
}

func (r *Runner) lintFile(ctx context.Context, path string) fileOutcome {
	ctx, span := r.tracer().Start(ctx, "aliasguard.lint_file",
		trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	start := time.Now()

	content, err := os.ReadFile(path)
	if err != nil {
		return r.failed(ctx, span, languageUnknown, err)
	}

	language := languageUnknown
	if lang, ok := jsast.DetectLanguage(path, content); ok {
		language = string(lang)
	}

	span.SetAttributes(attribute.String("file.language", language))

	diagnostics, err := r.Linter.LintSource(ctx, path, content)
	if err != nil {
		return r.failed(ctx, span, language, err)
	}

	r.Metrics.RecordFile(ctx, language, time.Since(start), false)

	for _, d := range diagnostics {
		r.Metrics.RecordDiagnostic(ctx, d.Rule, d.Severity.String())
	}

	span.SetAttributes(attribute.Int("lint.diagnostics", len(diagnostics)))

	return fileOutcome{diagnostics: diagnostics}
}

func (r *Runner) failed(ctx context.Context, span trace.Span, language string, err error) fileOutcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.Metrics.RecordFile(ctx, language, 0, true)
	r.logger().DebugContext(ctx, "file not linted", "error", err)

	return fileOutcome{err: err}
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}

	return runtime.NumCPU()
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}

	return nooptrace.NewTracerProvider().Tracer("")
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.New(slog.DiscardHandler)
}
