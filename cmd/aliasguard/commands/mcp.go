package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/aliasguard/pkg/mcp"
	"github.com/Sumatoshi-tech/aliasguard/pkg/observability"
	"github.com/Sumatoshi-tech/aliasguard/pkg/version"
)

func newMCPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes aliasguard as tools that AI agents can discover and invoke:
  - aliasguard_check: Check inline JavaScript/TypeScript for parent-relative imports
  - aliasguard_rules: List rules and their configured severities`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := root.open(cmd, observability.ModeMCP, nil)
			if err != nil {
				return err
			}
			defer sess.close(cmd.Context())

			red, err := observability.NewREDMetrics(sess.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Linter:  sess.linter,
				Version: version.Version,
				Logger:  sess.providers.Logger,
				Metrics: red,
				Tracer:  sess.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}
}
