// Package rules is the registry of built-in lint rules.
package rules

import (
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/rules/norelative"
)

// All returns a fresh instance of every built-in rule.
func All() []lint.Rule {
	return []lint.Rule{
		norelative.New(),
	}
}

// Lookup returns the built-in rule with the given name.
func Lookup(name string) (lint.Rule, bool) { //nolint:ireturn // registry returns the rule contract.
	for _, rule := range All() {
		if rule.Name() == name {
			return rule, true
		}
	}

	return nil, false
}

// Names returns the names of all built-in rules.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))

	for _, rule := range all {
		names = append(names, rule.Name())
	}

	return names
}
