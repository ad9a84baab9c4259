// Package norelative implements the no-relative-imports rule: import sources
// that climb to a parent directory ("../") must use the "@/" alias instead.
// Same-directory imports ("./") are allowed.
package norelative

import (
	"strings"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
)

const (
	// Name is the rule identifier used in configuration and reports.
	Name = "no-relative-imports"
	// MessageID identifies the single message this rule reports.
	MessageID = "useAlias"

	parentPrefix = "../"
	dataPath     = "path"
)

// Rule reports import sources that start with "../".
type Rule struct{}

// New returns the rule.
func New() *Rule {
	return &Rule{}
}

// Name returns the rule identifier.
func (r *Rule) Name() string {
	return Name
}

// Meta returns the rule metadata.
func (r *Rule) Meta() lint.Meta {
	return lint.Meta{
		Type:        lint.RuleTypeSuggestion,
		Description: "Enforce using @/ path aliases instead of relative imports",
		Messages: map[string]string{
			MessageID: "Use '@/...' instead of relative import '{{path}}'",
		},
		Default: lint.SeverityError,
	}
}

// Visit checks import declarations and require/import() calls.
func (r *Rule) Visit(ctx *lint.Context, stmt jsast.Statement) {
	switch stmt.Kind {
	case jsast.KindImportDeclaration:
		r.check(ctx, stmt.Source)
	case jsast.KindCallExpression:
		if stmt.Callee == jsast.CalleeImport || stmt.Callee == jsast.CalleeRequire {
			r.check(ctx, stmt.Source)
		}
	}
}

func (r *Rule) check(ctx *lint.Context, source *jsast.Literal) {
	if source == nil || !IsParentRelative(source.Value) {
		return
	}

	ctx.Report(source.Span, MessageID, map[string]string{dataPath: source.Value})
}

// IsParentRelative reports whether path starts with "../". A bare ".." does not.
func IsParentRelative(path string) bool {
	return strings.HasPrefix(path, parentPrefix)
}
