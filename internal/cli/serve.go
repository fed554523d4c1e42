package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lfom/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the design API over HTTP",
		Long: `Serve the design API over HTTP.

Endpoints:
  POST /v1/designs          {"flow": "12 L/s", "headloss": "20 cm"}
  GET  /v1/catalog/pipes
  GET  /v1/catalog/drills?series=metric
  GET  /healthz

The server shares the design cache with the CLI and shuts down gracefully on
interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := api.New(runner, cfg, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
