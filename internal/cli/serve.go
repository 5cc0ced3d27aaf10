package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/shape-analyzer-mcp/internal/server"
)

func createServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP protocol over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
}

// serve runs the MCP server on the command's input and output. Logs go to
// stderr because stdout carries the protocol.
func (a *app) serve(cmd *cobra.Command) error {
	a.logger.Debugw("starting", "version", a.info.Version, "built", a.info.BuildTime, "commit", a.info.GitCommit)
	srv := server.New(a.logger, a.info.Version)
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
