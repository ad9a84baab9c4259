package lint

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
)

// Diagnostic is a single finding reported by a rule.
type Diagnostic struct {
	File      string            `json:"file"                yaml:"file"`
	Rule      string            `json:"rule"                yaml:"rule"`
	MessageID string            `json:"message_id"          yaml:"message_id"`
	Severity  Severity          `json:"severity"            yaml:"severity"`
	Message   string            `json:"message"             yaml:"message"`
	Span      jsast.Span        `json:"span"                yaml:"span"`
	Data      map[string]string `json:"data,omitempty"      yaml:"data,omitempty"`
}

// String formats the diagnostic as file:line:column: severity message [rule].
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s [%s]",
		d.File, d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message, d.Rule)
}

// FileError records a file that could not be linted.
type FileError struct {
	File string
	Err  error
}

// Error implements error.
func (fe FileError) Error() string {
	return fmt.Sprintf("%s: %v", fe.File, fe.Err)
}

// Unwrap returns the underlying error.
func (fe FileError) Unwrap() error {
	return fe.Err
}

// MarshalJSON encodes the error as its message.
func (fe FileError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(struct {
		File  string `json:"file"`
		Error string `json:"error"`
	}{File: fe.File, Error: fe.Err.Error()})
	if err != nil {
		return nil, fmt.Errorf("marshal file error: %w", err)
	}

	return data, nil
}

// MarshalYAML encodes the error as its message.
func (fe FileError) MarshalYAML() (any, error) {
	return map[string]string{"file": fe.File, "error": fe.Err.Error()}, nil
}

// Result aggregates the outcome of linting one or more files.
type Result struct {
	Files       int          `json:"files"             yaml:"files"`
	Diagnostics []Diagnostic `json:"diagnostics"       yaml:"diagnostics"`
	Errors      []FileError  `json:"errors,omitempty"  yaml:"errors,omitempty"`
	Skipped     []string     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Merge appends other into r.
func (r *Result) Merge(other Result) {
	r.Files += other.Files
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// Sort orders diagnostics by file, line, column and rule, and errors by file.
func (r *Result) Sort() {
	slices.SortStableFunc(r.Diagnostics, compareDiagnostics)
	slices.SortStableFunc(r.Errors, func(a, b FileError) int {
		return cmp.Compare(a.File, b.File)
	})
	slices.Sort(r.Skipped)
}

// Count returns the number of diagnostics at the given severity.
func (r *Result) Count(severity Severity) int {
	count := 0

	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			count++
		}
	}

	return count
}

// ByFile groups diagnostics by file, preserving order.
func (r *Result) ByFile() ([]string, map[string][]Diagnostic) {
	var files []string

	grouped := make(map[string][]Diagnostic)

	for _, d := range r.Diagnostics {
		if _, seen := grouped[d.File]; !seen {
			files = append(files, d.File)
		}

		grouped[d.File] = append(grouped[d.File], d)
	}

	return files, grouped
}

func compareDiagnostics(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Span.Start.Line, b.Span.Start.Line),
		cmp.Compare(a.Span.Start.Column, b.Span.Start.Column),
		cmp.Compare(a.Rule, b.Rule),
	)
}
