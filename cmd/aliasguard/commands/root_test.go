package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCommand()

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.ElementsMatch(t, []string{"check", "rules", "lsp", "mcp", "version"}, names)

	for _, flag := range []string{"config", "log-level", "log-json", "verbose", "quiet"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRules_Table(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "", "rules")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "no-relative-imports")
	assert.Contains(t, res.stdout, "Enforce using @/ path aliases instead of relative imports")
	assert.Contains(t, res.stdout, "error")
}

func TestRules_JSONWithOverride(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "", "rules", "--format", "json", "--rule", "no-relative-imports=warn")
	require.Equal(t, ExitOK, res.code, res.stderr)

	var rows []ruleRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, ruleRow{
		Name:        "no-relative-imports",
		Severity:    "warn",
		Type:        "suggestion",
		Description: "Enforce using @/ path aliases instead of relative imports",
	}, rows[0])
}

func TestRules_ByName(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "", "rules", "no-relative-imports", "--format", "json")
	require.Equal(t, ExitOK, res.code, res.stderr)

	var rows []ruleRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "error", rows[0].Severity)

	res = runCLI(t, "", "", "rules", "no-default-export")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, `unknown rule: "no-default-export" (available: no-relative-imports)`)
}

func TestRules_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "", "rules", "--format", "sarif")

	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "rules supports table, json")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	code := Execute(context.Background(), []string{"version"}, strings.NewReader(""), &stdout, &bytes.Buffer{})

	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "aliasguard "), stdout.String())
}

func TestExecute_UnknownCommand(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer

	code := Execute(context.Background(), []string{"lint-everything"}, strings.NewReader(""), &bytes.Buffer{}, &stderr)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestObservabilityConfig_LogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts rootOptions
		want string
	}{
		{name: "config default", opts: rootOptions{}, want: "INFO"},
		{name: "flag", opts: rootOptions{logLevel: "warn"}, want: "WARN"},
		{name: "verbose", opts: rootOptions{logLevel: "error", verbose: true}, want: "DEBUG"},
		{name: "quiet", opts: rootOptions{quiet: true}, want: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.configPath = filepath.Join(t.TempDir(), "empty.yaml")
			require.NoError(t, os.WriteFile(opts.configPath, nil, 0o600))

			cfg, _, err := opts.loadLinter(nil)
			require.NoError(t, err)

			obsCfg, err := opts.observabilityConfig(NewRootCommand(), cfg, "cli")
			require.NoError(t, err)
			assert.Equal(t, tt.want, obsCfg.LogLevel.String())
			assert.False(t, obsCfg.LogJSON)
		})
	}
}
