package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-features/internal/features"
)

// Scheduler periodically rebuilds the population rollups so that resolver
// calls hit a warm cache instead of paying the full aggregation cost.
type Scheduler struct {
	cron            *cron.Cron
	sires           *features.SireFeatures
	jockeys         *features.JockeyFeatures
	sinceYear       int
	minRaces        int
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new rollup refresh scheduler
func NewScheduler(sires *features.SireFeatures, jockeys *features.JockeyFeatures, sinceYear, minRaces int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		sires:           sires,
		jockeys:         jockeys,
		sinceYear:       sinceYear,
		minRaces:        minRaces,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRollupRefresh schedules periodic recomputation of every rollup
func (s *Scheduler) ScheduleRollupRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		s.logger.Info("Starting scheduled rollup refresh")
		start := time.Now()
		s.WarmRollups(ctx)
		s.logger.WithField("elapsed", time.Since(start).String()).Info("Scheduled rollup refresh completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled rollup refresh job")

	return nil
}

// WarmRollups recomputes every population rollup once. Individual failures
// are logged inside the generators; a cold cache simply stays cold until the
// next refresh.
func (s *Scheduler) WarmRollups(ctx context.Context) {
	if s.sires != nil {
		s.sires.SurfaceGoingROI(ctx, s.sinceYear, s.minRaces)
	}
	if s.jockeys != nil {
		s.jockeys.SurfaceGoingROI(ctx, s.sinceYear, s.minRaces)
		s.jockeys.CourseROI(ctx, s.sinceYear, s.minRaces)
		s.jockeys.PopularityROI(ctx, s.sinceYear, s.minRaces)
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out, jobs may still be running")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if next.IsZero() || (!entry.Next.IsZero() && entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
