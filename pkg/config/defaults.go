// Package config loads the aliasguard project configuration.
package config

import "github.com/Sumatoshi-tech/aliasguard/pkg/jsast"

// Lint defaults.
const (
	DefaultLintWorkers     = 0 // 0 means runtime.NumCPU.
	DefaultLintMaxFileSize = "1MB"
	DefaultLintMaxWarnings = -1 // -1 means unlimited.
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetryMetricsFile  = ""
)

// DefaultRules returns the rule severities used when no configuration names them.
func DefaultRules() map[string]string {
	return map[string]string{"no-relative-imports": "error"}
}

// DefaultIgnores returns the glob patterns excluded from linting by default.
// Generated output and the lint rules themselves are never checked.
func DefaultIgnores() []string {
	return []string{
		"node_modules/**",
		".next/**",
		"out/**",
		"build/**",
		"next-env.d.ts",
		"eslint-rules/**",
	}
}

// DefaultExtensions returns the file extensions linted by default.
func DefaultExtensions() []string {
	return jsast.DefaultExtensions()
}
