package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dottex/internal/metrics"
	"github.com/matzehuels/dottex/internal/server"
	"github.com/matzehuels/dottex/pkg/layout"
)

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags layoutFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sanitizing and layout over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			p, closeFn, err := c.newPositioner(ctx, flags, false)
			if err != nil {
				return err
			}
			defer closeFn()

			if !layout.Available(ctx, p) {
				c.Logger.Warn("layout engine unavailable, /healthz will report 503", "positioner", p.Name())
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			if err := metrics.Register(reg); err != nil {
				return err
			}

			c.Logger.Info("serving", "addr", addr, "positioner", p.Name())
			return server.New(p, c.Logger, reg).ListenAndServe(ctx, addr, cfg.Server.ShutdownTimeout)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
