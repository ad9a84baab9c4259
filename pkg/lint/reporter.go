package lint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an unrecognized output format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is a report output format.
type Format string

// Output formats.
const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatSARIF Format = "sarif"
	FormatTable Format = "table"
)

// Formats returns the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatSARIF, FormatTable}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats() {
		if string(format) == strings.ToLower(name) {
			return format, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Reporter writes lint results in one of the supported formats.
type Reporter struct {
	writer      io.Writer
	format      Format
	rules       []Rule
	toolVersion string

	path    *color.Color
	errored *color.Color
	warned  *color.Color
	dim     *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithRules supplies rule metadata for formats that embed it (SARIF).
func WithRules(rules []Rule) Option {
	return func(r *Reporter) {
		r.rules = rules
	}
}

// WithToolVersion sets the tool version embedded in SARIF output.
func WithToolVersion(version string) Option {
	return func(r *Reporter) {
		r.toolVersion = version
	}
}

// WithoutColor disables ANSI colors in text output.
func WithoutColor() Option {
	return func(r *Reporter) {
		for _, c := range []*color.Color{r.path, r.errored, r.warned, r.dim} {
			c.DisableColor()
		}
	}
}

// NewReporter creates a Reporter writing to writer.
func NewReporter(writer io.Writer, format Format, opts ...Option) *Reporter {
	reporter := &Reporter{
		writer:  writer,
		format:  format,
		path:    color.New(color.Underline),
		errored: color.New(color.FgRed),
		warned:  color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}

	for _, opt := range opts {
		opt(reporter)
	}

	return reporter
}

// Report writes the result. The result is expected to be sorted.
func (r *Reporter) Report(result *Result) error {
	switch r.format {
	case FormatText:
		return r.reportText(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	case FormatSARIF:
		return r.reportSARIF(result)
	case FormatTable:
		return r.reportTable(result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
}

// reportText groups diagnostics under their file, ESLint "stylish" style.
func (r *Reporter) reportText(result *Result) error {
	var sb strings.Builder

	files, grouped := result.ByFile()

	for _, file := range files {
		sb.WriteString(r.path.Sprint(file))
		sb.WriteByte('\n')

		for _, d := range grouped[file] {
			fmt.Fprintf(&sb, "  %s  %s  %s  %s\n",
				r.dim.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column),
				r.severityColor(d.Severity).Sprintf("%-5s", d.Severity),
				d.Message,
				r.dim.Sprint(d.Rule),
			)
		}

		sb.WriteByte('\n')
	}

	for _, fe := range result.Errors {
		fmt.Fprintf(&sb, "%s %s\n", r.errored.Sprint("error:"), fe.Error())
	}

	if total := len(result.Diagnostics); total > 0 {
		mark := r.warned
		if result.Count(SeverityError) > 0 {
			mark = r.errored
		}

		sb.WriteString(mark.Sprintf("✖ %s\n", Summary(result)))
	}

	_, err := io.WriteString(r.writer, sb.String())
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

func (r *Reporter) severityColor(severity Severity) *color.Color {
	if severity == SeverityError {
		return r.errored
	}

	return r.warned
}

func (r *Reporter) reportJSON(result *Result) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(nonNil(result))
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

func (r *Reporter) reportYAML(result *Result) error {
	encoder := yaml.NewEncoder(r.writer)
	encoder.SetIndent(2) //nolint:mnd // two-space YAML indentation.

	err := encoder.Encode(nonNil(result))
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	return nil
}

func (r *Reporter) reportTable(result *Result) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message"})

	for _, d := range result.Diagnostics {
		tbl.AppendRow(table.Row{
			d.File, d.Span.Start.Line, d.Span.Start.Column, d.Severity.String(), d.Rule, d.Message,
		})
	}

	tbl.AppendFooter(table.Row{"", "", "", "", "", Summary(result)})

	_, err := fmt.Fprintln(r.writer, tbl.Render())
	if err != nil {
		return fmt.Errorf("write table report: %w", err)
	}

	return nil
}

// Summary describes the totals of a result, e.g. "3 problems (2 errors, 1 warning) in 1,204 files".
func Summary(result *Result) string {
	errs := result.Count(SeverityError)
	warns := result.Count(SeverityWarn)

	return fmt.Sprintf("%s (%s, %s) in %s %s",
		english.Plural(errs+warns, "problem", ""),
		english.Plural(errs, "error", ""),
		english.Plural(warns, "warning", ""),
		humanize.Comma(int64(result.Files)),
		english.PluralWord(result.Files, "file", ""),
	)
}

// nonNil returns a copy of result whose diagnostics encode as [] rather than null.
func nonNil(result *Result) *Result {
	if result.Diagnostics != nil {
		return result
	}

	clone := *result
	clone.Diagnostics = []Diagnostic{}

	return &clone
}
