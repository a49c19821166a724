// Bazodiacd serves the bazodiac fusion API.
//
// By default it starts the HTTP server with Prometheus metrics on /metrics.
// The "mcp" subcommand serves the same operations as MCP tools on stdio.
//
// Configuration is loaded from ~/.config/bazodiac/config.yaml (or the file
// given with -config) and environment variables. See internal/config.
//
// Usage:
//
//	# Start the HTTP server with defaults
//	bazodiacd
//
//	# Serve MCP tools on stdio
//	bazodiacd mcp
//
//	# Configure via environment
//	SERVER_HTTP_PORT=9292 FUSION_MODE=soft_kernel bazodiacd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/bazodiac/internal/config"
	httpapi "github.com/fyrsmithlabs/bazodiac/internal/http"
	"github.com/fyrsmithlabs/bazodiac/internal/logging"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	"github.com/fyrsmithlabs/bazodiac/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/bazodiac/config.yaml)")
	flag.Parse()
	args := flag.Args()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case len(args) == 0:
		err = run(ctx, *configPath)
	case args[0] == "mcp":
		err = runStdio(ctx, *configPath)
	case args[0] == "version":
		printVersion()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		fmt.Fprintf(os.Stderr, "\nUsage:\n")
		fmt.Fprintf(os.Stderr, "  bazodiacd [-config FILE]        Start the HTTP server\n")
		fmt.Fprintf(os.Stderr, "  bazodiacd [-config FILE] mcp    Serve MCP tools on stdio\n")
		fmt.Fprintf(os.Stderr, "  bazodiacd version               Show version information\n")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("bazodiacd: %v", err)
	}
}

func printVersion() {
	fmt.Printf("bazodiacd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// daemon holds the components shared by the HTTP and stdio modes.
type daemon struct {
	cfg       *config.Config
	path      string
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	registry  *prometheus.Registry
	svc       *service.Service
}

// setup loads configuration and builds logging, telemetry and the service.
// stderrLogs routes logs away from stdout for protocols that own it.
func setup(ctx context.Context, configPath string, stderrLogs bool) (_ *daemon, err error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	tel, err := telemetry.New(ctx, telemetry.FromObservability(cfg.Observability, version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tel.Shutdown(context.Background())
		}
	}()

	logCfg, err := logging.FromObservability(cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	if stderrLogs {
		logCfg.Output.Stdout = false
		logCfg.Output.Stderr = true
	}
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	defaults, err := cfg.Fusion.ToFusion()
	if err != nil {
		return nil, fmt.Errorf("invalid fusion defaults: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := service.New(defaults, service.Options{
		CacheSize:        cfg.Cache.Size,
		BatchMaxItems:    cfg.Batch.MaxItems,
		BatchConcurrency: cfg.Batch.Concurrency,
		Logger:           logger,
		Telemetry:        tel,
		Metrics:          service.NewMetrics(registry),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}

	return &daemon{
		cfg:       cfg,
		path:      configPath,
		logger:    logger,
		telemetry: tel,
		registry:  registry,
		svc:       svc,
	}, nil
}

// watchConfig reloads fusion defaults when the config file changes. A
// missing file disables reloading.
func (rt *daemon) watchConfig(ctx context.Context) (stop func()) {
	if _, err := os.Stat(rt.path); err != nil {
		rt.logger.Debug(ctx, "config file not present, reload disabled", zap.String("path", rt.path))
		return func() {}
	}

	w, err := config.NewWatcher(rt.path, rt.logger.Underlying(), func(next *config.Config) {
		defaults, err := next.Fusion.ToFusion()
		if err == nil {
			err = rt.svc.SetDefaults(defaults)
		}
		if err != nil {
			rt.logger.Warn(ctx, "ignoring reloaded fusion defaults", zap.Error(err))
		}
	})
	if err != nil {
		rt.logger.Warn(ctx, "config reload disabled", zap.Error(err))
		return func() {}
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		rt.logger.Warn(ctx, "config reload disabled", zap.Error(err))
		return func() {}
	}
	return w.Stop
}

// close flushes telemetry and logs within the shutdown timeout.
func (rt *daemon) close() {
	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := rt.telemetry.Shutdown(ctx); err != nil {
		rt.logger.Warn(ctx, "telemetry shutdown", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

// run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func run(ctx context.Context, configPath string) error {
	rt, err := setup(ctx, configPath, false)
	if err != nil {
		return err
	}
	defer rt.close()

	stopWatch := rt.watchConfig(ctx)
	defer stopWatch()

	cfg := rt.cfg
	srv, err := httpapi.NewServer(rt.svc, rt.logger, &httpapi.Config{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		Version: version,
		RateLimit: httpapi.RateLimitConfig{
			Enabled:           cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
		Telemetry: rt.telemetry,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}
	srv.Mount("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))

	rt.logger.Info(ctx, "server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("metrics_endpoint", "/metrics"),
		logging.Fingerprint(rt.svc.DefaultFingerprint()),
		zap.Bool("telemetry", rt.telemetry.IsEnabled()),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil {
		return err
	}
	rt.logger.Info(shutdownCtx, "server shutdown complete", zap.Duration("timeout", cfg.Server.ShutdownTimeout.Duration()))
	return nil
}
