package lint

import (
	"regexp"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
)

// RuleType classifies what a rule reports on.
type RuleType string

// Rule types.
const (
	RuleTypeProblem    RuleType = "problem"
	RuleTypeSuggestion RuleType = "suggestion"
	RuleTypeLayout     RuleType = "layout"
)

// Meta describes a rule.
type Meta struct {
	Type        RuleType
	Description string
	// Messages maps message ids to templates with {{name}} placeholders.
	Messages map[string]string
	// Default is the severity used when the rule is not configured.
	Default Severity
}

// Rule inspects import declarations and call expressions of a single file.
// Rules must not keep state between Visit calls; the host may run the same
// rule on several files concurrently.
type Rule interface {
	Name() string
	Meta() Meta
	Visit(ctx *Context, stmt jsast.Statement)
}

// Context is the per-file, per-rule reporting channel handed to Visit.
type Context struct {
	filename string
	rule     string
	meta     Meta
	severity Severity
	sink     *[]Diagnostic
}

func newContext(filename string, rule Rule, severity Severity, sink *[]Diagnostic) *Context {
	return &Context{
		filename: filename,
		rule:     rule.Name(),
		meta:     rule.Meta(),
		severity: severity,
		sink:     sink,
	}
}

// Filename returns the path of the file being linted.
func (c *Context) Filename() string {
	return c.filename
}

// Severity returns the configured severity of the current rule.
func (c *Context) Severity() Severity {
	return c.severity
}

// Report records a diagnostic at span. The message is the template
// registered under messageID with data substituted into it.
func (c *Context) Report(span jsast.Span, messageID string, data map[string]string) {
	template, ok := c.meta.Messages[messageID]
	if !ok {
		template = messageID
	}

	*c.sink = append(*c.sink, Diagnostic{
		File:      c.filename,
		Rule:      c.rule,
		MessageID: messageID,
		Severity:  c.severity,
		Message:   Interpolate(template, data),
		Span:      span,
		Data:      data,
	})
}

var placeholder = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Interpolate replaces {{name}} placeholders with values from data.
// Placeholders without a value are left as written.
func Interpolate(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}

	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if value, ok := data[name]; ok {
			return value
		}

		return match
	})
}
