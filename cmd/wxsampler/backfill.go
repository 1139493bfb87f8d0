package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"wxsampler/internal/netatmo"
	"wxsampler/internal/sampler"
)

func backfillCmd(args []string) {
	flags := flag.NewFlagSet("backfill", flag.ExitOnError)
	startStr := flags.String("start", "", "Earliest day to sample as YYYY-MM-DD")
	outDir := flags.String("out", sampler.DefaultOutputDir, "Output directory for CSV files")
	authPath := flags.String("auth", netatmo.DefaultCredentialsFile, "Path to the credentials JSON file")
	catalogPath := flags.String("catalog", "", "Optional sqlite export catalog")
	_ = flags.Parse(args)

	if *startStr == "" {
		fatal("backfill", fmt.Errorf("start date is required"))
	}
	if _, err := time.Parse("2006-01-02", *startStr); err != nil {
		fatal("backfill", fmt.Errorf("invalid start date: %w", err))
	}

	logger := newLogger()
	defer logger.Sync()

	s, cleanup := newSampler(*authPath, *outDir, *catalogPath, logger)
	defer cleanup()

	if err := s.SamplePeriod(context.Background(), *startStr); err != nil {
		fatal("backfill", err)
	}
}
