package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/server"
	"github.com/oakwood-commons/esqlc/pkg/logger"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve completions over HTTP",
		Long: `Serve the completion engine over HTTP:

  POST /v1/suggest            JSON request in, JSON suggestions out
  GET  /v1/catalog[/SECTION]  commands and functions
  GET  /metrics               Prometheus metrics
  GET  /healthz               liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			engine, err := root.newEngine(ctx, reg)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = root.cfg.Server.Addr
			}
			srv := server.New(server.Config{
				Engine:      engine,
				Gatherer:    reg,
				Log:         *logger.ForComponent(ctx, "server"),
				ReadTimeout: root.cfg.Server.ReadTimeout,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
