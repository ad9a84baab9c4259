package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/aliasguard/pkg/lsp"
	"github.com/Sumatoshi-tech/aliasguard/pkg/observability"
	"github.com/Sumatoshi-tech/aliasguard/pkg/version"
)

func newLSPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Start a Language Server Protocol server on stdio.

Open JavaScript and TypeScript documents are linted on open, change and save,
and the findings are published as diagnostics. Files matched by the
configured ignores, relative to the client's workspace root, are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := root.open(cmd, observability.ModeLSP, nil)
			if err != nil {
				return err
			}
			defer sess.close(cmd.Context())

			root, ignores, err := sess.scope()
			if err != nil {
				return err
			}

			srv := lsp.NewServer(sess.linter,
				lsp.WithVersion(version.Version),
				lsp.WithIgnores(root, ignores),
				lsp.WithLogger(sess.providers.Logger),
				lsp.WithTracer(sess.providers.Tracer),
			)

			return srv.Run()
		},
	}
}
