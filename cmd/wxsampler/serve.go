package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wxsampler/internal/blob"
	"wxsampler/internal/catalog"
	"wxsampler/internal/config"
	"wxsampler/internal/logging"
	"wxsampler/internal/netatmo"
	"wxsampler/internal/sampler"
	"wxsampler/internal/scheduler"
	"wxsampler/internal/server"
)

func serveCmd(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file (optional)")
	_ = flags.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("serve", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fatal("serve", err)
	}
	defer logger.Sync()

	creds, err := resolveCredentials(cfg.CredentialsFile)
	if err != nil {
		fatal("serve", err)
	}

	base := cfg.BaseURL
	if base == "" {
		base = netatmo.DefaultBaseURL
	}
	client, err := netatmo.Connect(context.Background(), base, creds)
	if err != nil {
		fatal("serve", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fatal("serve", err)
	}

	opts := sampler.Options{OutputDir: cfg.OutputDir, Logger: logger}

	var cat *catalog.Catalog
	if cfg.Catalog != "" {
		cat, err = catalog.Open(cfg.Catalog)
		if err != nil {
			fatal("serve", err)
		}
		defer cat.Close()
		opts.Catalog = cat
	}

	if cfg.S3.Endpoint != "" {
		mirror, err := blob.NewS3Store(blob.S3Options{
			Endpoint:      cfg.S3.Endpoint,
			Bucket:        cfg.S3.Bucket,
			Prefix:        cfg.S3.Prefix,
			AccessKeyFile: cfg.S3.AccessKeyFile,
			SecretKeyFile: cfg.S3.SecretKeyFile,
			Region:        cfg.S3.Region,
		})
		if err != nil {
			fatal("serve", err)
		}
		opts.Mirror = mirror
	}

	s := sampler.New(client, opts)

	sched := scheduler.New(s, cfg.Schedule, logger)
	if err := sched.Start(); err != nil {
		fatal("serve", err)
	}
	defer sched.Stop()

	registry := server.NewRegistry()
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "wxsampler_build_info",
		Help: "Build information",
	}, func() float64 { return 1 }))

	srv := server.New(cfg.Listen, registry, cat, logger)
	go func() {
		if err := srv.Listen(); err != nil {
			logger.Error("http server stopped", zap.Error(err))
		}
	}()

	logger.Info("daemon started",
		zap.String("listen", cfg.Listen),
		zap.String("schedule", cfg.Schedule),
		zap.String("output_dir", cfg.OutputDir))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
