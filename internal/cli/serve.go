package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/uvwrap/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the unwrap pipeline as an HTTP API",
		Long: `Serve the unwrap pipeline as an HTTP API.

Endpoints:
  POST /api/unwrap   unwrap a mesh posted as JSON
  POST /api/analyze  measure an existing UV layout
  GET  /healthz      liveness probe

The cache backend from the config file is shared across requests, so
replicas pointing at the same Redis or MongoDB instance deduplicate work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			runner, err := c.newRunner(cmd, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, c.Logger).ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	return cmd
}
