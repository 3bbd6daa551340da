package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/autoaudit/internal/backend"
	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/models"
	"github.com/aleister1102/autoaudit/internal/notifier"
	"github.com/aleister1102/autoaudit/internal/rescanner"

	"github.com/rs/zerolog"
)

// URLLister is the slice of the backend client the executor needs.
type URLLister interface {
	ListURLs(ctx context.Context, opts backend.ListURLsOptions) ([]models.MonitoredURL, error)
}

// CheckArchiver persists settled rescan results locally.
type CheckArchiver interface {
	ArchiveRescan(url models.MonitoredURL, result models.RescanResult) error
}

// CycleExecutor runs one rescan cycle: list active URLs, select the overdue
// ones, rescan them sequentially through the coordinator.
type CycleExecutor struct {
	cfg                *config.GlobalConfig
	lister             URLLister
	coordinator        *rescanner.Coordinator
	notificationHelper *notifier.NotificationHelper
	archive            CheckArchiver
	db                 *DB
	logger             zerolog.Logger
}

// NewCycleExecutor creates a cycle executor. archive may be nil to disable
// local archiving.
func NewCycleExecutor(
	cfg *config.GlobalConfig,
	lister URLLister,
	coordinator *rescanner.Coordinator,
	notificationHelper *notifier.NotificationHelper,
	archive CheckArchiver,
	logger zerolog.Logger,
) *CycleExecutor {
	return &CycleExecutor{
		cfg:                cfg,
		lister:             lister,
		coordinator:        coordinator,
		notificationHelper: notificationHelper,
		archive:            archive,
		logger:             logger.With().Str("module", "CycleExecutor").Logger(),
	}
}

// RunCycle executes a complete rescan cycle and returns its summary.
func (ce *CycleExecutor) RunCycle(ctx context.Context) (notifier.CycleSummary, error) {
	startTime := time.Now()
	summary := notifier.CycleSummary{StartTime: startTime}

	opts := backend.ListURLsOptions{ActiveOnly: true}
	if ce.cfg.SchedulerConfig.ProjectID != 0 {
		projectID := ce.cfg.SchedulerConfig.ProjectID
		opts.ProjectID = &projectID
	}

	urls, err := ce.lister.ListURLs(ctx, opts)
	if err != nil {
		summary.EndTime = time.Now()
		ce.recordFailedCycle(summary, fmt.Sprintf("failed to list URLs: %v", err))
		return summary, fmt.Errorf("failed to list monitored URLs: %w", err)
	}

	due := ce.selectDueURLs(urls, startTime)
	summary.URLsConsidered = len(urls)

	cycleID, err := ce.recordStart(startTime, len(urls))
	if err != nil {
		// History is bookkeeping, the cycle still runs.
		ce.logger.Error().Err(err).Msg("Failed to record cycle start")
	}
	summary.CycleID = cycleID

	ce.logger.Info().
		Int("active_urls", len(urls)).
		Int("due_urls", len(due)).
		Msg("Starting rescan cycle")

	var failures []string
	for _, url := range due {
		select {
		case <-ctx.Done():
			summary.EndTime = time.Now()
			summary.Failures = len(failures)
			ce.recordCompletion(cycleID, summary, "INTERRUPTED", failures)
			return summary, ctx.Err()
		default:
		}

		outcome := ce.coordinator.Rescan(ctx, url)
		if !outcome.Started {
			continue
		}
		summary.URLsRescanned++

		if ce.notificationHelper != nil {
			ce.notificationHelper.Notify(ctx, url, outcome.Notifications)
		}

		if outcome.Err != nil {
			failures = append(failures, fmt.Sprintf("url %d: %v", url.ID, outcome.Err))
			continue
		}

		if ce.archive != nil && outcome.Result != nil && outcome.Result.Type == models.ScanTypeImmediate {
			if err := ce.archive.ArchiveRescan(url, *outcome.Result); err != nil {
				ce.logger.Error().Err(err).Int64("url_id", url.ID).Msg("Failed to archive rescan result")
			}
		}
	}

	summary.EndTime = time.Now()
	summary.Failures = len(failures)

	status := "COMPLETED"
	if len(failures) > 0 && summary.URLsRescanned == len(failures) {
		status = "FAILED"
	} else if len(failures) > 0 {
		status = "PARTIAL_COMPLETE"
	}
	ce.recordCompletion(cycleID, summary, status, failures)

	ce.logger.Info().
		Int("rescanned", summary.URLsRescanned).
		Int("failures", summary.Failures).
		Dur("duration", summary.Duration()).
		Msg("Rescan cycle finished")
	return summary, nil
}

// selectDueURLs filters the listing down to overdue URLs, capped at the
// configured per-cycle maximum.
func (ce *CycleExecutor) selectDueURLs(urls []models.MonitoredURL, now time.Time) []models.MonitoredURL {
	var due []models.MonitoredURL
	for _, url := range urls {
		if !url.IsOverdue(now) {
			continue
		}
		due = append(due, url)
		if max := ce.cfg.SchedulerConfig.MaxRescansPerCycle; max > 0 && len(due) >= max {
			ce.logger.Debug().Int("cap", max).Msg("Per-cycle rescan cap reached")
			break
		}
	}
	return due
}

func (ce *CycleExecutor) recordStart(startTime time.Time, urlsConsidered int) (int64, error) {
	if ce.db == nil {
		return 0, nil
	}
	return ce.db.RecordCycleStart(startTime, urlsConsidered)
}

func (ce *CycleExecutor) recordCompletion(cycleID int64, summary notifier.CycleSummary, status string, failures []string) {
	if ce.db == nil || cycleID == 0 {
		return
	}
	logSummary := strings.Join(failures, "; ")
	if err := ce.db.UpdateCycleCompletion(cycleID, summary.EndTime, status, summary.URLsRescanned, summary.Failures, logSummary); err != nil {
		ce.logger.Error().Err(err).Int64("cycle_id", cycleID).Msg("Failed to record cycle completion")
	}
}

func (ce *CycleExecutor) recordFailedCycle(summary notifier.CycleSummary, reason string) {
	if ce.db == nil {
		return
	}
	cycleID, err := ce.db.RecordCycleStart(summary.StartTime, 0)
	if err != nil {
		return
	}
	_ = ce.db.UpdateCycleCompletion(cycleID, summary.EndTime, "FAILED", 0, 0, reason)
}
