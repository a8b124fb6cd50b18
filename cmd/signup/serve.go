package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/signup/pkg/server"
	"github.com/vango-dev/signup/pkg/signup"
)

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		Long: `Serve the signup form over HTTP and WebSocket.

The saved draft is restored on start and written back as the form
changes. A pending draft is flushed on shutdown.

Examples:
  signup serve
  signup serve --addr=:8080
  signup serve -c signup.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := openEnv(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			var (
				reg  *prometheus.Registry
				opts []signup.Option
			)
			if e.cfg.Server.Metrics {
				reg = prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				opts = append(opts, signup.WithMetrics(signup.NewMetrics(reg)))
			}

			f, err := e.newForm(ctx, opts...)
			if err != nil {
				return err
			}
			defer f.Close()

			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			s := server.New(f, &server.ServerConfig{Address: addr, Metrics: reg})
			s.SetLogger(e.logger)

			err = s.Run(ctx)
			if f.Flush() {
				e.logger.Info("draft flushed")
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}
