package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/notifier"
	"github.com/aleister1102/autoaudit/internal/rslimiter"

	"github.com/rs/zerolog"
)

// Scheduler manages periodic rescan cycles in automated mode. Each cycle
// lists the monitored URLs, selects the overdue ones, and pushes them
// through the rescan coordinator one at a time.
type Scheduler struct {
	globalConfig       *config.GlobalConfig
	db                 *DB
	executor           *CycleExecutor
	limiter            *rslimiter.ResourceLimiter
	notificationHelper *notifier.NotificationHelper
	logger             zerolog.Logger
	stopChan           chan struct{}
	wg                 sync.WaitGroup
	isRunning          bool
	mu                 sync.Mutex
}

// NewScheduler creates a new Scheduler instance.
func NewScheduler(
	cfg *config.GlobalConfig,
	executor *CycleExecutor,
	limiter *rslimiter.ResourceLimiter,
	notificationHelper *notifier.NotificationHelper,
	logger zerolog.Logger,
) (*Scheduler, error) {
	schedulerLogger := logger.With().Str("module", "Scheduler").Logger()

	if cfg.SchedulerConfig.SQLiteDBPath == "" {
		return nil, fmt.Errorf("sqlite_db_path is required for scheduler")
	}

	db, err := NewDB(cfg.SchedulerConfig.SQLiteDBPath, schedulerLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler database: %w", err)
	}
	executor.db = db

	return &Scheduler{
		globalConfig:       cfg,
		db:                 db,
		executor:           executor,
		limiter:            limiter,
		notificationHelper: notificationHelper,
		logger:             schedulerLogger,
		stopChan:           make(chan struct{}),
	}, nil
}

// Start begins the scheduler's main loop and blocks until the context is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.logger.Info().
		Int("cycle_minutes", s.globalConfig.SchedulerConfig.CycleMinutes).
		Int("max_rescans_per_cycle", s.globalConfig.SchedulerConfig.MaxRescansPerCycle).
		Msg("Starting automated rescan scheduler")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("Context cancelled, exiting scheduler loop")
				return
			case <-s.stopChan:
				s.logger.Info().Msg("Stop signal received, exiting scheduler loop")
				return
			default:
			}

			nextCycleTime := s.calculateNextCycleTime()
			s.logger.Info().Time("next_cycle_time", nextCycleTime).Msg("Next rescan cycle scheduled")

			timer := time.NewTimer(time.Until(nextCycleTime))
			select {
			case <-timer.C:
				s.runGuardedCycle(ctx)
			case <-s.stopChan:
				timer.Stop()
				s.logger.Info().Msg("Stop signal received while waiting, exiting scheduler loop")
				return
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info().Msg("Context cancelled while waiting, exiting scheduler loop")
				return
			}
		}
	}()

	select {
	case <-s.stopChan:
	case <-ctx.Done():
		s.Stop()
	}

	s.wg.Wait()
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing scheduler database")
		}
	}
	s.logger.Info().Msg("Scheduler fully stopped")
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.isRunning = false

	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
}

// runGuardedCycle consults the resource limiter before delegating to the
// executor. A skipped cycle is re-attempted at the next scheduled time.
func (s *Scheduler) runGuardedCycle(ctx context.Context) {
	if s.limiter != nil {
		if ok, reason := s.limiter.Allow(); !ok {
			s.logger.Warn().Str("reason", reason).Msg("Skipping rescan cycle, resource guard refused")
			return
		}
	}

	summary, err := s.executor.RunCycle(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Info().Err(err).Msg("Rescan cycle interrupted by shutdown")
			return
		}
		s.logger.Error().Err(err).Msg("Rescan cycle failed")
		return
	}

	usage := rslimiter.GetResourceUsage()
	s.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int("goroutines", usage.Goroutines).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Msg("Resource usage after cycle")

	if s.notificationHelper != nil {
		s.notificationHelper.NotifyCycleSummary(ctx, summary)
	}
}

// calculateNextCycleTime determines when the next cycle should run based on
// the most recent finished cycle, regardless of how it ended. With no
// history the cycle runs now.
func (s *Scheduler) calculateNextCycleTime() time.Time {
	lastCycleTime, err := s.db.GetLastCycleTime()
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error().Err(err).Msg("Failed to read last cycle time, scheduling cycle now")
		}
		return time.Now()
	}

	interval := time.Duration(s.globalConfig.SchedulerConfig.CycleMinutes) * time.Minute
	nextCycleTime := lastCycleTime.Add(interval)
	if nextCycleTime.Before(time.Now()) {
		return time.Now()
	}
	return nextCycleTime
}
