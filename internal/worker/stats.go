// Package worker runs periodic housekeeping next to the API server.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/metrics"
)

// Sweeper drops expired in-memory state and returns how many entries went
type Sweeper func() int

// StatsRefresher keeps the user and pending-prediction gauges current and
// sweeps expired rate limit entries on a cron schedule.
type StatsRefresher struct {
	users       user.Repository
	predictions prediction.Repository
	sweepers    map[string]Sweeper
	logger      *logger.Logger
	timeout     time.Duration

	mu        sync.Mutex
	scheduler *cron.Cron
	initial   sync.WaitGroup
}

func NewStatsRefresher(users user.Repository, predictions prediction.Repository, log *logger.Logger) *StatsRefresher {
	return &StatsRefresher{
		users:       users,
		predictions: predictions,
		sweepers:    make(map[string]Sweeper),
		logger:      log,
		timeout:     10 * time.Second,
	}
}

// AddSweeper registers a cleanup step run on every tick. Call before Start.
func (s *StatsRefresher) AddSweeper(name string, fn Sweeper) {
	s.sweepers[name] = fn
}

// Start schedules the refresh using a standard five field spec or a
// descriptor such as "@every 1m", and runs it once immediately.
func (s *StatsRefresher) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("stats refresher is already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, s.tick); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", schedule, err)
	}
	c.Start()
	s.scheduler = c

	s.logger.WithFields(map[string]interface{}{
		"schedule": schedule,
	}).Info("Stats refresher started")

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.tick()
	}()
	return nil
}

// Stop halts the scheduler and waits for a running tick to finish
func (s *StatsRefresher) Stop() {
	s.mu.Lock()
	c := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.initial.Wait()
	s.logger.Info("Stats refresher stopped")
}

func (s *StatsRefresher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		s.logger.ErrorWithErr(err, "Failed to refresh stats")
	}
}

// Refresh updates the gauges and runs every sweeper once
func (s *StatsRefresher) Refresh(ctx context.Context) error {
	users, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	metrics.SetRegisteredUsers(float64(users))

	pending, err := s.predictions.CountByStatus(ctx, prediction.StatusPendingML)
	if err != nil {
		return fmt.Errorf("count pending predictions: %w", err)
	}
	metrics.SetPendingPredictions(float64(pending))

	fields := map[string]interface{}{
		"users":   users,
		"pending": pending,
	}
	for name, sweep := range s.sweepers {
		fields["swept_"+name] = sweep()
	}
	s.logger.WithFields(fields).Debug("Stats refreshed")
	return nil
}
