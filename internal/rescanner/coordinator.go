package rescanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleister1102/autoaudit/internal/backend"
	"github.com/aleister1102/autoaudit/internal/models"

	"github.com/rs/zerolog"
)

// GenericRescanFailureMessage is shown when the backend supplies no
// structured error detail for a failed rescan.
const GenericRescanFailureMessage = "Rescan failed. Please try again."

// RescanBackend is the slice of the backend client the coordinator needs.
type RescanBackend interface {
	ForceRescan(ctx context.Context, urlID int64) (models.RescanResult, error)
}

// ReadModelInvalidator marks cached reads stale after a rescan settles.
// *readmodel.Store satisfies this.
type ReadModelInvalidator interface {
	InvalidateURLList()
	InvalidateLatestCheck(urlID int64)
}

// Outcome is the result of one trigger invocation. Notifications are
// command values: the coordinator never renders anything itself, the caller
// passes them to whatever renderer is wired (console, Discord, both).
type Outcome struct {
	URLID         int64
	Started       bool // false when a rescan was already in flight for the URL
	Result        *models.RescanResult
	Err           error
	Notifications []models.Notification
}

// Succeeded reports whether the rescan call settled successfully.
func (o *Outcome) Succeeded() bool {
	return o.Started && o.Err == nil
}

// Coordinator owns the rescan-and-refresh flow: it is the only path allowed
// to start a scan for a URL. It classifies the URL, runs the backend call,
// converts the response into notifications, invalidates the read model, and
// unconditionally returns the URL to Idle.
type Coordinator struct {
	backend     RescanBackend
	jobs        *JobTracker
	invalidator ReadModelInvalidator
	logger      zerolog.Logger
}

// NewCoordinator creates a rescan coordinator.
func NewCoordinator(rescanBackend RescanBackend, jobs *JobTracker, invalidator ReadModelInvalidator, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		backend:     rescanBackend,
		jobs:        jobs,
		invalidator: invalidator,
		logger:      logger.With().Str("module", "RescanCoordinator").Logger(),
	}
}

// Jobs exposes the tracker so views can disable controls for scanning URLs.
func (c *Coordinator) Jobs() *JobTracker {
	return c.jobs
}

// Rescan triggers an on-demand scan for the given URL and blocks until the
// backend call settles. Re-invocation while a rescan is already in flight
// for the same URL is a no-op (Started=false). The Scanning state is
// cleared on every exit path, including failures.
func (c *Coordinator) Rescan(ctx context.Context, url models.MonitoredURL) Outcome {
	outcome := Outcome{URLID: url.ID}

	if !c.jobs.SetScanning(url.ID) {
		c.logger.Debug().Int64("url_id", url.ID).Msg("Rescan already in flight, ignoring trigger")
		return outcome
	}
	defer c.jobs.ClearScanning(url.ID)
	outcome.Started = true

	// Pre-flight feedback: immediate scans take 30-60s, the user must not
	// be left without any signal during the wait.
	if url.IsInventory() {
		outcome.Notifications = append(outcome.Notifications,
			models.NewInfoNotification(fmt.Sprintf("Scheduling batch rescan for %s...", url.URL)))
	} else {
		outcome.Notifications = append(outcome.Notifications,
			models.NewInfoNotification(fmt.Sprintf("Rescanning %s. Immediate scans can take up to a minute...", url.URL)))
	}

	result, err := c.backend.ForceRescan(ctx, url.ID)
	if err != nil {
		outcome.Err = err
		outcome.Notifications = append(outcome.Notifications,
			models.NewErrorNotification(failureMessage(err)))
		// last_checked/check_count may have moved server-side even on a
		// partial failure, so the listing is refetched either way. No check
		// result is fabricated: the latest-check entry stays untouched.
		c.invalidate(func() { c.invalidator.InvalidateURLList() }, "url_list", url.ID)
		return outcome
	}

	outcome.Result = &result
	c.invalidate(func() { c.invalidator.InvalidateURLList() }, "url_list", url.ID)

	switch result.Type {
	case models.ScanTypeBatch:
		outcome.Notifications = append(outcome.Notifications,
			models.NewSuccessNotification("Rescan scheduled. Results will be available once the batch completes."))
	case models.ScanTypeImmediate:
		c.invalidate(func() { c.invalidator.InvalidateLatestCheck(url.ID) }, "latest_check", url.ID)
		outcome.Notifications = append(outcome.Notifications,
			models.NewSuccessNotification(fmt.Sprintf(
				"Rescan complete: %s (score %d, %d violations, check #%d)",
				result.Tier(), result.OverallScore, result.ViolationsCount, result.CheckID)))
	default:
		// The scan may well have run server-side; warn instead of inventing
		// an outcome the backend did not report.
		c.logger.Warn().
			Int64("url_id", url.ID).
			Str("scan_type", result.RawScanType).
			Msg("Rescan response carried an unrecognized scan_type, no notification emitted")
	}

	return outcome
}

// failureMessage surfaces the backend's structured detail verbatim when
// present, otherwise the generic retry message.
func failureMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.HasDetail() {
		return apiErr.Detail
	}
	return GenericRescanFailureMessage
}

// invalidate runs an invalidation signal, swallowing any panic: a failed
// signal must never surface as a failure of the scan itself, which already
// succeeded or failed on its own terms.
func (c *Coordinator) invalidate(fn func(), what string, urlID int64) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Int64("url_id", urlID).
				Str("target", what).
				Interface("panic", r).
				Msg("Read-model invalidation failed")
		}
	}()
	if c.invalidator == nil {
		return
	}
	fn()
}
