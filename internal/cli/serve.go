package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/config"
	"github.com/matzehuels/netweave/pkg/observability"
	"github.com/matzehuels/netweave/pkg/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Routes:
  GET  /healthz            liveness and build information
  GET  /v1/kinds           supported networks, layouts and formats
  POST /v1/scenes          run the pipeline for a JSON body of options
  POST /v1/scenes/sample   sample a scene from a YAML schema and run it
  GET  /metrics            Prometheus metrics

The [pipeline] section of the config file supplies defaults for request
fields, and [server] sets the listen address and timeouts.`,
		Example: `  netweave serve --addr :9090
  curl -X POST localhost:8080/v1/scenes -d '{"network":"watts_strogatz","nodes":80}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(commandContext(cmd), addr, noCache, noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics route")

	return cmd
}

// runServe wires metrics, the runner and the router, then blocks until ctx
// is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache, noMetrics bool) error {
	cfg := c.Config.Server
	if addr != "" {
		cfg.Addr = addr
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := server.Options{
		Runner:         runner,
		Defaults:       c.Config.Pipeline,
		Logger:         c.Logger,
		RequestTimeout: cfg.RequestTimeout.Duration,
		MaxNodes:       cfg.MaxNodes,
		MaxIterations:  cfg.MaxIterations,
	}

	if !noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		opts.Gatherer = reg
	}

	backend := c.Config.Cache.Backend
	if noCache {
		backend = config.BackendNone
	}
	metrics := "/metrics"
	if noMetrics {
		metrics = "off"
	}
	printInfo("Serving on %s", StyleHighlight.Render(cfg.Addr))
	printKeyValue("cache", backend)
	printKeyValue("metrics", metrics)
	printKeyValue("timeout", cfg.RequestTimeout.String())
	printKeyValue("limits", fmt.Sprintf("%d nodes, %d iterations", cfg.MaxNodes, cfg.MaxIterations))

	err = server.New(opts).ListenAndServe(ctx, cfg)
	if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
