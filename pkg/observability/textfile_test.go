package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/aliasguard/pkg/observability"
)

func TestTextfile_WritesExpositionFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metrics.prom")

	textfile, err := observability.NewTextfile(path)
	require.NoError(t, err)
	assert.Equal(t, path, textfile.Path())

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(textfile.Reader()))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	metrics, err := observability.NewLintMetrics(mp.Meter("test"))
	require.NoError(t, err)

	metrics.RecordFile(context.Background(), "typescript", 0, false)

	require.NoError(t, textfile.Write())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// The OTel Prometheus exporter includes target_info with SDK metadata.
	assert.Contains(t, string(content), "target_info")
	assert.Contains(t, string(content), "aliasguard_lint_files")
	assert.Contains(t, string(content), `language="typescript"`)
}

func TestTextfile_UnwritableDirectory(t *testing.T) {
	t.Parallel()

	textfile, err := observability.NewTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"))
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(textfile.Reader()))

	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	require.Error(t, textfile.Write())
}
