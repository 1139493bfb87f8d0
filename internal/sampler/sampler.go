// Package sampler walks weather stations and exports their measurements as
// per-device, per-metric, per-day CSV files.
package sampler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"wxsampler/internal/blob"
	"wxsampler/internal/catalog"
	"wxsampler/internal/netatmo"
)

const (
	// DefaultOutputDir receives CSV files when no directory is configured.
	DefaultOutputDir = "data"

	dayLayout   = "2006-01-02"
	stampLayout = "2006-01-02_15:04:05"
)

// API is the slice of the Netatmo client the sampler consumes.
type API interface {
	Stations(ctx context.Context) ([]netatmo.Station, error)
	Measure(ctx context.Context, stationID, moduleID, metric string, begin, end int64) ([]netatmo.Point, error)
}

// Options configures a Sampler. Zero values fall back to defaults; Catalog
// and Mirror stay disabled when nil.
type Options struct {
	OutputDir string
	Logger    *zap.Logger
	Catalog   *catalog.Catalog
	Mirror    blob.Store
}

// Sampler drives the export. It reuses one session for its whole lifetime
// and never retries: the first failure aborts the current walk, leaving
// already-written files in place.
type Sampler struct {
	api     API
	outDir  string
	log     *zap.Logger
	catalog *catalog.Catalog
	mirror  blob.Store

	now func() time.Time
}

func New(api API, opts Options) *Sampler {
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		api:     api,
		outDir:  outDir,
		log:     logger,
		catalog: opts.Catalog,
		mirror:  opts.Mirror,
		now:     time.Now,
	}
}

// SampleDevice fetches every metric type the device declares for one day and
// writes one CSV file per metric, named {day}_{device}_{metric}.csv. parentID
// is the owning station's id; it equals device.ID when the device is the
// station itself. The output directory must already exist.
func (s *Sampler) SampleDevice(ctx context.Context, parentID string, device netatmo.Device, day string) error {
	begin, end, err := dayWindow(day)
	if err != nil {
		return err
	}

	for _, metric := range device.DataTypes {
		points, err := s.api.Measure(ctx, parentID, device.ID, metric, begin, end)
		if err != nil {
			sampleFailures.Inc()
			return fmt.Errorf("measure %s %s: %w", device.Name, metric, err)
		}

		name := fmt.Sprintf("%s_%s_%s.csv", day, device.Name, metric)
		target := filepath.Join(s.outDir, name)
		data, err := encodeSeries(points)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			sampleFailures.Inc()
			return fmt.Errorf("write %s: %w", name, err)
		}
		filesWritten.Inc()
		samplesWritten.Add(float64(len(points)))
		s.log.Debug("wrote series",
			zap.String("file", name),
			zap.Int("rows", len(points)))

		if s.catalog != nil {
			entry := catalog.Entry{
				Day:       day,
				StationID: parentID,
				DeviceID:  device.ID,
				Device:    device.Name,
				Metric:    metric,
				File:      target,
				RowCount:  len(points),
				WrittenAt: s.now(),
			}
			if err := s.catalog.Record(entry); err != nil {
				return fmt.Errorf("catalog %s: %w", name, err)
			}
		}
		if s.mirror != nil {
			if err := s.mirror.Put(ctx, name, data); err != nil {
				return fmt.Errorf("mirror %s: %w", name, err)
			}
		}
	}
	return nil
}

// SampleStations samples every station and its modules for one day. An empty
// day selects yesterday. The station listing is fetched fresh on every call;
// each station is sampled before its modules, and the first failing device
// aborts the walk.
func (s *Sampler) SampleStations(ctx context.Context, day string) error {
	if day == "" {
		day = s.now().AddDate(0, 0, -1).Format(dayLayout)
	}

	stations, err := s.api.Stations(ctx)
	if err != nil {
		return fmt.Errorf("list stations: %w", err)
	}
	s.log.Info("sampling stations",
		zap.String("day", day),
		zap.Int("stations", len(stations)))

	for _, station := range stations {
		if err := s.SampleDevice(ctx, station.ID, station.Device, day); err != nil {
			return err
		}
		for _, module := range station.Modules {
			if err := s.SampleDevice(ctx, station.ID, module, day); err != nil {
				return err
			}
		}
	}

	daysSampled.Inc()
	lastSampleSuccess.Set(float64(s.now().Unix()))
	return nil
}

// SamplePeriod samples every day from startDate through yesterday inclusive,
// oldest first, on one shared session. A start of today or later samples
// nothing. There is no checkpointing: a failure aborts the remaining days
// while finished days stay on disk.
func (s *Sampler) SamplePeriod(ctx context.Context, startDate string) error {
	start, err := time.ParseInLocation(dayLayout, startDate, time.Local)
	if err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for day := start; day.Before(today); day = day.AddDate(0, 0, 1) {
		if err := s.SampleStations(ctx, day.Format(dayLayout)); err != nil {
			return err
		}
	}
	return nil
}

// dayWindow returns the sampling epochs for one calendar day: 00:00:01
// through 23:59:59 local time.
func dayWindow(day string) (int64, int64, error) {
	begin, err := time.ParseInLocation(stampLayout, day+"_00:00:01", time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("parse day: %w", err)
	}
	end, err := time.ParseInLocation(stampLayout, day+"_23:59:59", time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("parse day: %w", err)
	}
	return begin.Unix(), end.Unix(), nil
}

// formatStamp renders a wire epoch as the local display timestamp used in
// CSV rows.
func formatStamp(epoch int64) string {
	return time.Unix(epoch, 0).Format(stampLayout)
}
