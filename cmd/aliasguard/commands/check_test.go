package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command tree with a config file private to the test.
func runCLI(t *testing.T, configYAML, stdin string, args ...string) cliResult {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), ".aliasguard.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o600))

	var stdout, stderr bytes.Buffer

	full := append([]string{args[0], "--config", configPath}, args[1:]...)
	code := Execute(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)

	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func sampleProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"app/page.tsx":     "import { Button } from \"../components/button\";\nimport { cn } from \"@/lib/cn\";\n",
		"lib/cn.ts":        "export const cn = (...c: string[]) => c.join(' ');\n",
		"build/legacy.js":  "require('../../outside');\n",
		"styles/site.css":  "body { margin: 0 }\n",
		"next.config.mjs":  "export default {};\n",
		"lib/loader.cjs":   "module.exports = () => import('./chunk');\n",
		"next-env.d.ts":    "/// <reference types=\"next\" />\n",
		"scripts/build.sh": "echo ../nothing\n",
	})

	return root
}

func TestCheck_ReportsRelativeImports(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	res := runCLI(t, "", "", "check", "--no-color", root)

	assert.Equal(t, ExitLintFailed, res.code, res.stderr)
	assert.Contains(t, res.stdout, filepath.Join(root, "app", "page.tsx"))
	assert.Contains(t, res.stdout, "1:24  error  Use '@/...' instead of relative import '../components/button'  no-relative-imports")
	assert.Contains(t, res.stdout, "1 problem (1 error, 0 warnings) in 4 files")
	assert.NotContains(t, res.stdout, "legacy.js")
	assert.Empty(t, res.stderr)
}

func TestCheck_Clean(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"index.js": "import a from './a';\nrequire('@/b');\n"})

	res := runCLI(t, "", "", "check", "--no-color", root)

	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)
}

func TestCheck_WarningsAndMaxWarnings(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	res := runCLI(t, "", "", "check", "--no-color", "--rule", "no-relative-imports=warn", root)
	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "warn ")

	res = runCLI(t, "", "", "check", "--no-color", "--rule", "no-relative-imports=warn", "--max-warnings", "0", root)
	assert.Equal(t, ExitLintFailed, res.code)
	assert.Contains(t, res.stderr, "too many warnings (maximum: 0)")

	// The limit can come from the config file too.
	res = runCLI(t, "rules:\n  no-relative-imports: warn\nlint:\n  max_warnings: 0\n", "", "check", "--no-color", root)
	assert.Equal(t, ExitLintFailed, res.code)
}

func TestCheck_QuietHidesWarnings(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	res := runCLI(t, "", "", "check", "-q", "--no-color", "--rule", "no-relative-imports=warn", root)

	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)
}

func TestCheck_RuleTurnedOffInConfig(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	res := runCLI(t, "rules:\n  no-relative-imports: \"off\"\n", "", "check", root)

	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)
}

func TestCheck_ConfiguredIgnores(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	// Replacing the default ignores brings build/ back and drops app/.
	res := runCLI(t, "ignores:\n  - \"app/**\"\n", "", "check", "--no-color", root)

	assert.Equal(t, ExitLintFailed, res.code, res.stderr)
	assert.Contains(t, res.stdout, "'../../outside'")
	assert.NotContains(t, res.stdout, "page.tsx")
}

func TestCheck_JSONToFile(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	out := filepath.Join(t.TempDir(), "report.json")

	res := runCLI(t, "", "", "check", "--format", "json", "-o", out, root)
	require.Equal(t, ExitLintFailed, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var report struct {
		Files       int `json:"files"`
		Diagnostics []struct {
			File     string            `json:"file"`
			Rule     string            `json:"rule"`
			Severity string            `json:"severity"`
			Data     map[string]string `json:"data"`
		} `json:"diagnostics"`
	}

	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 4, report.Files)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "no-relative-imports", report.Diagnostics[0].Rule)
	assert.Equal(t, "error", report.Diagnostics[0].Severity)
	assert.Equal(t, "../components/button", report.Diagnostics[0].Data["path"])
}

func TestCheck_SARIF(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "", "check", "--format", "sarif", sampleProject(t))

	require.Equal(t, ExitLintFailed, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"version": "2.1.0"`)
	assert.Contains(t, res.stdout, `"ruleId": "no-relative-imports"`)
}

func TestCheck_Stdin(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "const a = require('../a');\n", "check", "--no-color", "--stdin", "--stdin-filename", "src/a.js")

	assert.Equal(t, ExitLintFailed, res.code, res.stderr)
	assert.Contains(t, res.stdout, "src/a.js\n")
	assert.Contains(t, res.stdout, "1:19  error")

	res = runCLI(t, "", "import x from './x';", "check", "--stdin")
	assert.Equal(t, ExitOK, res.code, res.stderr)
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	result := &lint.Result{Files: 2}
	out := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, writeReport(out, result, lint.FormatJSON, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files": 2`)

	err = writeReport(t.TempDir(), result, lint.FormatJSON, nil)
	require.ErrorContains(t, err, "create report")
}

func TestWriteReport_FailedWriteIsReturned(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	err := writeReport("/dev/full", &lint.Result{Files: 1}, lint.FormatJSON, nil)
	require.ErrorIs(t, err, syscall.ENOSPC)
}

func TestCheck_StdinHonorsIgnores(t *testing.T) {
	t.Parallel()

	src := "const a = require('../a');\n"

	res := runCLI(t, "", src, "check", "--no-color", "--stdin", "--stdin-filename", "eslint-rules/no-relative-imports.js")
	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	res = runCLI(t, "ignores:\n  - \"**/*.{test,spec}.ts\"\n", src,
		"check", "--no-color", "--stdin", "--stdin-filename", "src/a.spec.ts")
	assert.Equal(t, ExitOK, res.code, res.stderr)

	res = runCLI(t, "ignores:\n  - \"**/*.{test,spec}.ts\"\n", src,
		"check", "--no-color", "--stdin", "--stdin-filename", "eslint-rules/rule.js")
	assert.Equal(t, ExitLintFailed, res.code, res.stderr)
}

func TestCheck_StdinUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "# title\n", "check", "--no-color", "--stdin", "--stdin-filename", "README.md")

	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stdout, "error: README.md:")
	assert.Contains(t, res.stderr, "1 file could not be linted")
}

func TestCheck_Failures(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown rule", args: []string{"check", "--rule", "nope=error", root}, want: "unknown rule"},
		{name: "malformed rule flag", args: []string{"check", "--rule", "nope", root}, want: "name=severity"},
		{name: "bad severity", args: []string{"check", "--rule", "no-relative-imports=loud", root}, want: "invalid severity"},
		{name: "unknown format", args: []string{"check", "--format", "xml", root}, want: "unknown output format"},
		{name: "missing path", args: []string{"check", filepath.Join(root, "missing")}, want: "no such file"},
		{name: "not a repository", args: []string{"check", "--changed-since", "HEAD", root}, want: "open repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, "", "", tt.args...)
			assert.Equal(t, ExitFailure, res.code)
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestCheck_InvalidConfig(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "lint:\n  workers: -3\n", "", "check", sampleProject(t))

	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "config")
}

func TestCheck_MetricsFile(t *testing.T) {
	t.Parallel()

	metricsFile := filepath.Join(t.TempDir(), "aliasguard.prom")

	res := runCLI(t, "telemetry:\n  metrics_file: "+metricsFile+"\n", "", "check", sampleProject(t))
	require.Equal(t, ExitLintFailed, res.code, res.stderr)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aliasguard_lint_files")
	assert.Contains(t, string(data), "aliasguard_lint_diagnostics")
	assert.Contains(t, string(data), "aliasguard_requests")
}

func TestCheck_ChangedSince(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	repo, err := git2go.InitRepository(root, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	writeFiles(t, root, map[string]string{
		"app/old.tsx":  "import a from '../old';\n",
		"app/edit.tsx": "import a from './edit';\n",
	})
	commitAll(t, repo)

	writeFiles(t, root, map[string]string{
		"app/edit.tsx": "import a from '../edited';\n",
		"app/new.ts":   "export * from './x';\nconst y = require('../new');\n",
	})

	res := runCLI(t, "", "", "check", "--no-color", "--changed-since", "HEAD", root)

	assert.Equal(t, ExitLintFailed, res.code, res.stderr)
	assert.Contains(t, res.stdout, "'../edited'")
	assert.Contains(t, res.stdout, "'../new'")
	assert.NotContains(t, res.stdout, "'../old'")
	assert.Contains(t, res.stdout, "in 2 files")
}

func commitAll(t *testing.T, repo *git2go.Repository) {
	t.Helper()

	index, err := repo.Index()
	require.NoError(t, err)

	defer index.Free()

	require.NoError(t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(t, err)

	tree, err := repo.LookupTree(treeID)
	require.NoError(t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

	_, err = repo.CreateCommit("HEAD", sig, sig, "initial", tree)
	require.NoError(t, err)
}
