package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/rules"
)

// ErrUnknownRuleName is returned when the rules command is asked about a rule that does not exist.
var ErrUnknownRuleName = errors.New("unknown rule")

// ruleRow is one line of the rules listing.
type ruleRow struct {
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func newRulesCommand(root *rootOptions) *cobra.Command {
	var (
		format    string
		overrides []string
	)

	cmd := &cobra.Command{
		Use:   "rules [name...]",
		Short: "List available rules and their configured severities",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, linter, err := root.loadLinter(overrides)
			if err != nil {
				return err
			}

			selected, err := selectRules(linter, args)
			if err != nil {
				return err
			}

			rows := ruleRows(linter, selected)

			switch format {
			case string(lint.FormatJSON):
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				err = encoder.Encode(rows)
				if err != nil {
					return fmt.Errorf("encode rules: %w", err)
				}

				return nil
			case string(lint.FormatTable):
				tbl := table.NewWriter()
				tbl.SetStyle(table.StyleLight)
				tbl.AppendHeader(table.Row{"Rule", "Severity", "Type", "Description"})

				for _, row := range rows {
					tbl.AppendRow(table.Row{row.Name, row.Severity, row.Type, row.Description})
				}

				fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

				return nil
			default:
				return fmt.Errorf("%w: %q (rules supports table, json)", lint.ErrUnknownFormat, format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(lint.FormatTable), "Output format: table, json")
	cmd.Flags().StringArrayVar(&overrides, "rule", nil, "Override a rule severity, e.g. no-relative-imports=warn (repeatable)")

	return cmd
}

// selectRules resolves the named rules, or every rule when names is empty.
func selectRules(linter *lint.Linter, names []string) ([]lint.Rule, error) {
	if len(names) == 0 {
		return linter.Rules(), nil
	}

	selected := make([]lint.Rule, 0, len(names))

	for _, name := range names {
		rule, ok := rules.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownRuleName, name, strings.Join(rules.Names(), ", "))
		}

		selected = append(selected, rule)
	}

	return selected, nil
}

func ruleRows(linter *lint.Linter, selected []lint.Rule) []ruleRow {
	rows := make([]ruleRow, 0, len(selected))

	for _, rule := range selected {
		meta := rule.Meta()
		rows = append(rows, ruleRow{
			Name:        rule.Name(),
			Severity:    linter.SeverityOf(rule.Name()).String(),
			Type:        string(meta.Type),
			Description: meta.Description,
		})
	}

	return rows
}
