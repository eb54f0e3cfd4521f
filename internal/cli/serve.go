package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gazestep/internal/server"
	"github.com/matzehuels/gazestep/pkg/config"
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gesture previews over HTTP",
		Long: `Serve gesture previews over HTTP.

Routes:
  GET  /healthz              liveness check
  GET  /v1/styles            available palettes
  POST /v1/layout            scene JSON for a gesture
  POST /v1/render?format=    svg, png, json, dot or diagram

Request bodies carry the gesture and optional per-request options:
  {"gesture": {...}, "options": {...}}

Flags set here become the defaults for every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Requests merge their own options over these, so only a copy
			// is validated up front.
			opts := flags.options(cmd.Flags(), c.Config)
			check := opts
			if err := check.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.ServeAddr()
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Listening on http://%s", addr)
			err = server.New(runner, loggerFromContext(ctx).WithPrefix("serve"), opts,
				server.WithRateLimit(c.Config.Serve.RateLimit, c.Config.Serve.Burst)).ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd.Flags())
	flags.bindRender(cmd.Flags())

	return cmd
}
