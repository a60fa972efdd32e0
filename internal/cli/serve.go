package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/server"
)

type serveOpts struct {
	addr         string
	timeout      time.Duration
	maxBodyBytes int64
	noCache      bool
}

// serveCommand starts the HTTP placement API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		timeout:      server.DefaultRequestTimeout,
		maxBodyBytes: server.DefaultMaxBodyBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement API over HTTP",
		Long: `Serve starts an HTTP server with GET /healthz, POST /v1/place and
POST /v1/render. The listen address defaults to server.addr from the config
file. Results are cached with the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			addr := opts.addr
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			srv := server.New(runner, server.Options{
				MaxBodyBytes:   opts.maxBodyBytes,
				RequestTimeout: opts.timeout,
				Logger:         loggerFromContext(ctx),
			})
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")
	cmd.Flags().Int64Var(&opts.maxBodyBytes, "max-body", opts.maxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}
