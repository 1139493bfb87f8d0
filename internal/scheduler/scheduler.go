// Package scheduler runs the daily station walk.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"wxsampler/internal/sampler"
)

// jobTimeout bounds one scheduled walk; interactive runs are not limited.
const jobTimeout = 15 * time.Minute

// Scheduler triggers a station walk for the previous day at a fixed local
// time, once per day.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sampler   *sampler.Sampler
	at        string
	log       *zap.Logger
}

func New(s *sampler.Sampler, at string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		sampler:   s,
		at:        at,
		log:       log,
	}
}

// Start registers the daily job and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.log.Info("running scheduled sample", zap.String("at", s.at))
		if err := s.sampler.SampleStations(ctx, ""); err != nil {
			s.log.Error("scheduled sample failed", zap.Error(err))
			return
		}
		s.log.Info("scheduled sample complete")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
