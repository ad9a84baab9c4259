package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal       = "aliasguard.lint.files.total"
	metricFileErrorsTotal  = "aliasguard.lint.file_errors.total"
	metricDiagnosticsTotal = "aliasguard.lint.diagnostics.total"
	metricFileDuration     = "aliasguard.lint.file.duration.seconds"

	attrLanguage = "language"
	attrRule     = "rule"
	attrSeverity = "severity"
)

// LintMetrics holds OTel instruments for lint runs.
type LintMetrics struct {
	filesTotal       metric.Int64Counter
	fileErrorsTotal  metric.Int64Counter
	diagnosticsTotal metric.Int64Counter
	fileDuration     metric.Float64Histogram
}

// NewLintMetrics creates lint metric instruments from the given meter.
func NewLintMetrics(mt metric.Meter) (*LintMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Total files linted"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	fileErrors, err := mt.Int64Counter(metricFileErrorsTotal,
		metric.WithDescription("Files that could not be read or parsed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileErrorsTotal, err)
	}

	diagnostics, err := mt.Int64Counter(metricDiagnosticsTotal,
		metric.WithDescription("Diagnostics reported by rule and severity"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDiagnosticsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file read, parse and rule duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &LintMetrics{
		filesTotal:       files,
		fileErrorsTotal:  fileErrors,
		diagnosticsTotal: diagnostics,
		fileDuration:     duration,
	}, nil
}

// RecordFile records one linted file. Failed files count as errors and are
// not added to the duration histogram.
// Safe to call on a nil receiver (no-op).
func (lm *LintMetrics) RecordFile(ctx context.Context, language string, duration time.Duration, failed bool) {
	if lm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrLanguage, language))

	if failed {
		lm.fileErrorsTotal.Add(ctx, 1, attrs)

		return
	}

	lm.filesTotal.Add(ctx, 1, attrs)
	lm.fileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDiagnostic counts one diagnostic.
// Safe to call on a nil receiver (no-op).
func (lm *LintMetrics) RecordDiagnostic(ctx context.Context, rule, severity string) {
	if lm == nil {
		return
	}

	lm.diagnosticsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRule, rule),
		attribute.String(attrSeverity, severity),
	))
}
