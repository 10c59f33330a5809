// Package scheduler runs the background jobs of the API server.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/metrics"
)

// HealthChecker is anything that can report its health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron         *cron.Cron
	logger       *logrus.Entry
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
	probeTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		logger:       logger.Component(log, "scheduler"),
		jobIDs:       make([]cron.EntryID, 0),
		probeTimeout: 5 * time.Second,
	}
}

// ScheduleProviderProbe checks the provider on cronExpression and reports every
// result to onResult. The provider_up gauge follows the latest result.
func (s *Scheduler) ScheduleProviderProbe(cronExpression string, checker HealthChecker, onResult func(healthy bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		s.Probe(context.Background(), checker, onResult)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled provider probe")
	return nil
}

// Probe runs one provider health check
func (s *Scheduler) Probe(ctx context.Context, checker HealthChecker, onResult func(healthy bool)) bool {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	err := checker.HealthCheck(ctx)
	healthy := err == nil
	if !healthy {
		s.logger.WithError(err).Warn("Provider probe failed")
	}

	metrics.SetProviderUp(healthy)
	if onResult != nil {
		onResult(healthy)
	}
	return healthy
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
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
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

	if !s.isRunning {
		return time.Time{}
	}

	var nextRun time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
