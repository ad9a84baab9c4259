package lint

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
)

// ErrUnknownRule is returned when a severity is configured for a rule that is not registered.
var ErrUnknownRule = errors.New("unknown rule")

// Linter runs a fixed set of rules over source files.
// It is safe for concurrent use.
type Linter struct {
	parser *jsast.Parser
	rules  []enabledRule
	all    []Rule
	levels map[string]Severity
}

type enabledRule struct {
	rule     Rule
	severity Severity
}

// NewLinter creates a linter for rules. Severities override each rule's
// default; rules resolved to SeverityOff are not run.
func NewLinter(parser *jsast.Parser, rules []Rule, severities map[string]Severity) (*Linter, error) {
	known := make(map[string]bool, len(rules))
	for _, rule := range rules {
		known[rule.Name()] = true
	}

	for name := range severities {
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
	}

	linter := &Linter{
		parser: parser,
		all:    slices.Clone(rules),
		levels: make(map[string]Severity, len(rules)),
	}

	for _, rule := range rules {
		severity, ok := severities[rule.Name()]
		if !ok {
			severity = rule.Meta().Default
		}

		linter.levels[rule.Name()] = severity

		if severity != SeverityOff {
			linter.rules = append(linter.rules, enabledRule{rule: rule, severity: severity})
		}
	}

	return linter, nil
}

// Rules returns all registered rules, enabled or not.
func (l *Linter) Rules() []Rule {
	return slices.Clone(l.all)
}

// SeverityOf returns the effective severity of a rule.
func (l *Linter) SeverityOf(name string) Severity {
	return l.levels[name]
}

// Enabled reports whether any rule will run.
func (l *Linter) Enabled() bool {
	return len(l.rules) > 0
}

// LintSource parses content and returns the diagnostics of all enabled rules
// in source order.
func (l *Linter) LintSource(ctx context.Context, filename string, content []byte) ([]Diagnostic, error) {
	if !l.Enabled() {
		return nil, nil
	}

	tree, err := l.parser.Parse(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	return l.LintTree(filename, tree), nil
}

// LintTree runs the enabled rules over an already parsed tree.
func (l *Linter) LintTree(filename string, tree *jsast.Tree) []Diagnostic {
	var diagnostics []Diagnostic

	contexts := make([]*Context, len(l.rules))
	for i, enabled := range l.rules {
		contexts[i] = newContext(filename, enabled.rule, enabled.severity, &diagnostics)
	}

	tree.Statements(func(stmt jsast.Statement) {
		for i, enabled := range l.rules {
			enabled.rule.Visit(contexts[i], stmt)
		}
	})

	return diagnostics
}

// Apply runs a single rule at its default severity over pre-built statements.
// It is the entry point for exercising a rule without parsing.
func Apply(rule Rule, filename string, stmts ...jsast.Statement) []Diagnostic {
	var diagnostics []Diagnostic

	ctx := newContext(filename, rule, rule.Meta().Default, &diagnostics)

	for _, stmt := range stmts {
		rule.Visit(ctx, stmt)
	}

	return diagnostics
}
