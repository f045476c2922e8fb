package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/api"
)

// serveCommand creates the HTTP API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Long: `Serve the JSON API. The server shuts down gracefully on SIGINT or SIGTERM.

Endpoints:
  GET    /api/todos             list tasks
  POST   /api/todos             create a task
  GET    /api/todos/{id}        get a task
  PATCH  /api/todos/{id}        replace its dependencies
  DELETE /api/todos/{id}        delete a task
  GET    /api/todos/analysis    start dates and critical path
  GET    /api/todos/graph       DOT or SVG export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			c.Logger.Debug("starting server", "storage", cfg.Storage.Driver, "cache", cfg.Cache.Backend)
			return api.New(svc, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
