package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile collects OTel metrics into a private Prometheus registry and
// writes them in the text exposition format, for the node_exporter textfile
// collector or CI artifacts. A lint run is too short-lived to be scraped.
type Textfile struct {
	path     string
	registry *prometheus.Registry
	exporter *promexporter.Exporter
}

// NewTextfile creates a Textfile that writes to path. Each call uses an
// independent registry to avoid collector conflicts.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{path: path, registry: registry, exporter: exporter}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
// Without it the exporter has no metrics source.
func (tf *Textfile) Reader() sdkmetric.Reader {
	return tf.exporter
}

// Path returns the destination file.
func (tf *Textfile) Path() string {
	return tf.path
}

// Write gathers the current metrics and atomically replaces the file.
func (tf *Textfile) Write() error {
	err := prometheus.WriteToTextfile(tf.path, tf.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
