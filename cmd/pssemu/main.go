package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/pssemu/internal/app"
	"github.com/okian/pssemu/internal/config"
	"github.com/okian/pssemu/pkg/logger"
	"github.com/okian/pssemu/pkg/metrics"
)

// HTTP server timeout constants for the metrics listener.
const (
	readTimeout       = 5 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	var (
		host     = flag.String("host", "", "UDP target host (overrides config)")
		port     = flag.Int("port", 0, "UDP target port (overrides config)")
		mode     = flag.String("mode", "", "run mode: demo, random, scenario (overrides config)")
		scenName = flag.String("scenario", "", "scenario name for scenario mode (overrides config)")
		duration = flag.Int("duration", 0, "random mode duration in seconds (overrides config)")
		seed     = flag.Int64("seed", 0, "random seed; 0 derives one (overrides config)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Flags win over file/env configuration.
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *scenName != "" {
		cfg.Scenario = *scenName
	}
	if *duration != 0 {
		cfg.DurationSeconds = *duration
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Prometheus /metrics listener.
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			log.Info(ctx, "metrics listening", logger.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn(ctx, "metrics server failed", logger.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	svc := app.New(cfg)
	if err := svc.Run(ctx); err != nil {
		log.Error(ctx, "emulator run failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "emulator run completed")
}
