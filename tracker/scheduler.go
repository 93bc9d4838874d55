package tracker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultRefreshSchedule is the cron schedule of the periodic price refresh.
const DefaultRefreshSchedule = "@every 30s"

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// NewScheduler returns a stopped scheduler. Each run of a job is bounded by timeout.
func NewScheduler(timeout time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log.With().Str("component", "scheduler").Logger(),
		timeout: timeout,
	}
}

// Add registers job under name. A run is skipped while the previous one is
// still going.
//
// Schedule examples:
//   - "@every 30s"
//   - "*/5 * * * *"
//   - "@hourly"
func (s *Scheduler) Add(schedule, name string, job func(context.Context) error) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.log.Debug().Str("job", name).Msg("Running job")
		if err := job(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("Job failed")
			return
		}
		s.log.Debug().Str("job", name).Msg("Job completed")
	}))
	if _, err := s.cron.AddJob(schedule, wrapped); err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Str("job", name).Msg("Job registered")
	return nil
}

// Start starts running the jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// ScheduleRefresh registers the periodic refresh of every stored portfolio.
func (t *Tracker) ScheduleRefresh(s *Scheduler, schedule string) error {
	return s.Add(schedule, "refresh_prices", t.RefreshAll)
}
