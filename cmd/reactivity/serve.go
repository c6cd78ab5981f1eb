package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/internal/config"
	"github.com/vango-dev/reactivity/pkg/devtools"
	"github.com/vango-dev/reactivity/pkg/instrument"
	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/snapshot"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the devtools server",
		Long: `Start the devtools inspection server.

The server exposes Prometheus metrics, runtime statistics, dependency
graph snapshots and a WebSocket stream of track/trigger/run events.
When started with a config file, edits to the file are applied live:
the log level changes immediately without a restart.

Examples:
  reactivity serve
  reactivity serve --addr=0.0.0.0:7070
  reactivity serve --config=reactivity.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, flags, addr, serveEnv{
				stderr: cmd.ErrOrStderr(),
				level:  new(slog.LevelVar),
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

// serveEnv carries what runServe takes from its surroundings.
type serveEnv struct {
	stderr io.Writer

	// level is the live log level; config edits update it.
	level *slog.LevelVar

	// listener, when set, is served instead of listening on the configured
	// address.
	listener net.Listener
}

func runServe(ctx context.Context, flags *globalFlags, addr string, env serveEnv) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Devtools.Addr = addr
	}

	level := env.level
	level.Set(cfg.Log.SlogLevel())
	logger := newLogger(env.stderr, cfg.Log.Format, level)
	reactivity.SetLogger(logger.With("component", "reactivity"))
	defer reactivity.SetLogger(nil)

	if cfg.Path() != "" {
		live, err := config.Watch(ctx, cfg.Path(), logger)
		if err != nil {
			return err
		}
		watch := reactivity.CreateEffect(func() {
			next := live.Get().Log
			if flags.logLevel == "" {
				level.Set(next.SlogLevel())
			}
		}, reactivity.WithName("log level"))
		defer watch.Stop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	observers := []reactivity.Observer{instrument.NewEvents()}
	if cfg.Metrics.Enabled {
		observers = append(observers, instrument.NewMetrics(
			instrument.WithRegistry(registry),
			instrument.WithNamespace(cfg.Metrics.Namespace),
		))
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, instrument.NewTracer(
			instrument.WithTracerName(cfg.Tracing.TracerName),
		))
	}
	reactivity.SetObserver(instrument.Chain(observers...))
	defer reactivity.SetObserver(nil)

	var sink snapshot.Sink
	if s, err := sinkFromConfig(cfg.Snapshot); err == nil {
		sink = s
	}

	server := devtools.New(devtools.Config{
		Addr:     cfg.Devtools.Addr,
		Gatherer: registry,
		Sink:     sink,
		Logger:   logger,
	})
	devtools.Bridge(server.Hub())

	if env.listener == nil {
		fmt.Fprintf(env.stderr, "  devtools listening on http://%s\n", cfg.Devtools.Addr)
		return server.Run(ctx)
	}
	fmt.Fprintf(env.stderr, "  devtools listening on http://%s\n", env.listener.Addr())
	return server.Serve(ctx, env.listener)
}
