package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"wxsampler/internal/catalog"
	"wxsampler/internal/netatmo"
	"wxsampler/internal/sampler"
)

func sampleCmd(args []string) {
	flags := flag.NewFlagSet("sample", flag.ExitOnError)
	dateStr := flags.String("date", "", "Day to sample as YYYY-MM-DD (default: yesterday)")
	outDir := flags.String("out", sampler.DefaultOutputDir, "Output directory for CSV files")
	authPath := flags.String("auth", netatmo.DefaultCredentialsFile, "Path to the credentials JSON file")
	catalogPath := flags.String("catalog", "", "Optional sqlite export catalog")
	_ = flags.Parse(args)

	if *dateStr != "" {
		if _, err := time.Parse("2006-01-02", *dateStr); err != nil {
			fatal("sample", fmt.Errorf("invalid date: %w", err))
		}
	}

	logger := newLogger()
	defer logger.Sync()

	s, cleanup := newSampler(*authPath, *outDir, *catalogPath, logger)
	defer cleanup()

	if err := s.SampleStations(context.Background(), *dateStr); err != nil {
		fatal("sample", err)
	}
}

// newSampler wires the shared batch pipeline: credentials, session, output
// directory, and the optional catalog.
func newSampler(authPath, outDir, catalogPath string, logger *zap.Logger) (*sampler.Sampler, func()) {
	creds, err := resolveCredentials(authPath)
	if err != nil {
		fatal("credentials", err)
	}

	client, err := netatmo.Connect(context.Background(), baseURL(), creds)
	if err != nil {
		fatal("connect", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fatal("output dir", err)
	}

	opts := sampler.Options{OutputDir: outDir, Logger: logger}
	cleanup := func() {}
	if catalogPath != "" {
		cat, err := catalog.Open(catalogPath)
		if err != nil {
			fatal("catalog", err)
		}
		opts.Catalog = cat
		cleanup = func() { cat.Close() }
	}
	return sampler.New(client, opts), cleanup
}
