package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aleister1102/autoaudit/internal/backend"
	"github.com/aleister1102/autoaudit/internal/common"
	"github.com/aleister1102/autoaudit/internal/models"
	"github.com/aleister1102/autoaudit/internal/scheduler"
)

// runOneshot dispatches a single action against the backend and exits.
func runOneshot(ctx context.Context, app *app, flags AppFlags) error {
	action := "list-urls"
	args := flags.Args
	if len(args) > 0 {
		action = args[0]
		args = args[1:]
	}

	switch action {
	case "list-urls":
		return listURLs(ctx, app)
	case "add-url":
		return addURL(ctx, app, flags)
	case "update":
		id, err := parseIDArg(args, "update")
		if err != nil {
			return err
		}
		return updateURL(ctx, app, flags, id)
	case "rescan":
		id, err := parseIDArg(args, "rescan")
		if err != nil {
			return err
		}
		return rescanURL(ctx, app, id)
	case "deactivate":
		id, err := parseIDArg(args, "deactivate")
		if err != nil {
			return err
		}
		return deactivateURL(ctx, app, id)
	case "latest-check":
		id, err := parseIDArg(args, "latest-check")
		if err != nil {
			return err
		}
		return showLatestCheck(ctx, app, id)
	case "checks":
		id, err := parseIDArg(args, "checks")
		if err != nil {
			return err
		}
		return showChecks(ctx, app, id)
	case "history":
		id, err := parseIDArg(args, "history")
		if err != nil {
			return err
		}
		return showArchivedHistory(app, id)
	case "project":
		id, err := parseIDArg(args, "project")
		if err != nil {
			return err
		}
		return showProject(ctx, app, id)
	case "cycles":
		return showCycles(app)
	default:
		return common.NewError("unknown action: %s", action)
	}
}

func parseIDArg(args []string, action string) (int64, error) {
	if len(args) == 0 {
		return 0, common.NewError("%s requires a URL id argument", action)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, common.WrapErrorf(err, "invalid URL id %q", args[0])
	}
	return id, nil
}

func listURLs(ctx context.Context, app *app) error {
	urls, err := app.store.URLList(ctx, func(ctx context.Context) ([]models.MonitoredURL, error) {
		return app.backendClient.ListURLs(ctx, backend.ListURLsOptions{ActiveOnly: false})
	})
	if err != nil {
		return err
	}

	if len(urls) == 0 {
		fmt.Println("No monitored URLs registered.")
		return nil
	}
	fmt.Printf("%-6s %-10s %-12s %-8s %-20s %s\n", "ID", "TYPE", "PLATFORM", "ACTIVE", "LAST CHECKED", "URL")
	for _, u := range urls {
		platform := "-"
		if u.Platform != nil && *u.Platform != "" {
			platform = *u.Platform
		}
		lastChecked := "never"
		if u.LastChecked != nil && !u.LastChecked.IsZero() {
			lastChecked = u.LastChecked.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-6d %-10s %-12s %-8t %-20s %s\n", u.ID, u.URLType, platform, u.Active, lastChecked, u.URL)
	}
	return nil
}

func addURL(ctx context.Context, app *app, flags AppFlags) error {
	if flags.URL == "" {
		return common.NewError("add-url requires the -url flag")
	}

	req := backend.CreateURLRequest{
		URL:                 flags.URL,
		URLType:             flags.URLType,
		CheckFrequencyHours: flags.CheckFrequencyHours,
	}
	if flags.ProjectID != 0 {
		projectID := flags.ProjectID
		req.ProjectID = &projectID
	}
	if flags.Platform != "" {
		platform := flags.Platform
		req.Platform = &platform
	}

	created, err := app.backendClient.CreateURL(ctx, req)
	if err != nil {
		return err
	}
	app.store.InvalidateURLList()

	fmt.Printf("Registered URL %d: %s (%s)\n", created.ID, created.URL, created.URLType)
	return nil
}

func updateURL(ctx context.Context, app *app, flags AppFlags, urlID int64) error {
	var req backend.UpdateURLRequest
	if flags.CheckFrequencyHours > 0 {
		frequency := flags.CheckFrequencyHours
		req.CheckFrequencyHours = &frequency
	}
	if flags.Active != "" {
		active, err := strconv.ParseBool(flags.Active)
		if err != nil {
			return common.WrapErrorf(err, "invalid -active value %q", flags.Active)
		}
		req.Active = &active
	}
	if req.CheckFrequencyHours == nil && req.Active == nil {
		return common.NewError("update requires -frequency or -active")
	}

	updated, err := app.backendClient.UpdateURL(ctx, urlID, req)
	if err != nil {
		return err
	}
	app.store.InvalidateURLList()

	fmt.Printf("Updated URL %d: active=%t, frequency=%dh\n", updated.ID, updated.Active, updated.CheckFrequencyHours)
	return nil
}

func rescanURL(ctx context.Context, app *app, urlID int64) error {
	url, err := app.backendClient.GetURL(ctx, urlID)
	if err != nil {
		return err
	}

	outcome := app.coordinator.Rescan(ctx, url)
	app.notificationHelper.Notify(ctx, url, outcome.Notifications)

	if !outcome.Started {
		fmt.Printf("A rescan for URL %d is already in flight.\n", urlID)
		return nil
	}
	if outcome.Err != nil {
		return outcome.Err
	}

	if app.archive != nil && outcome.Result != nil && outcome.Result.Type == models.ScanTypeImmediate {
		if err := app.archive.ArchiveRescan(url, *outcome.Result); err != nil {
			app.logger.Error().Err(err).Int64("url_id", urlID).Msg("Failed to archive rescan result")
		}
	}
	return nil
}

func deactivateURL(ctx context.Context, app *app, urlID int64) error {
	if err := app.backendClient.DeactivateURL(ctx, urlID); err != nil {
		return err
	}
	app.store.InvalidateURLList()
	fmt.Printf("URL %d deactivated.\n", urlID)
	return nil
}

func showLatestCheck(ctx context.Context, app *app, urlID int64) error {
	url, err := app.backendClient.GetURL(ctx, urlID)
	if err != nil {
		return err
	}

	check, err := app.store.LatestCheck(ctx, urlID, func(ctx context.Context) (models.Check, error) {
		return app.backendClient.LatestCheckForURL(ctx, url.URL)
	})
	if err != nil {
		return err
	}

	printCheck(check)
	return nil
}

func showChecks(ctx context.Context, app *app, urlID int64) error {
	checks, err := app.backendClient.ListChecks(ctx, &urlID, 20)
	if err != nil {
		return err
	}
	if len(checks) == 0 {
		fmt.Printf("No checks recorded for URL %d.\n", urlID)
		return nil
	}
	for _, check := range checks {
		printCheck(check)
		fmt.Println()
	}
	return nil
}

func showArchivedHistory(app *app, urlID int64) error {
	if app.archive == nil {
		return common.NewError("local check archive is not available")
	}

	records, err := app.archive.ReadByURLID(urlID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No archived checks for URL %d.\n", urlID)
		return nil
	}

	fmt.Printf("%-20s %-18s %-6s %-11s %s\n", "CHECKED AT", "TIER", "SCORE", "VIOLATIONS", "SCAN TYPE")
	for _, r := range records {
		fmt.Printf("%-20s %-18s %-6d %-11d %s\n",
			r.CheckedAtTime().Format("2006-01-02 15:04:05"),
			r.ComplianceTier, r.OverallScore, r.ViolationsCount, r.ScanType)
	}
	return nil
}

func showProject(ctx context.Context, app *app, projectID int64) error {
	project, err := app.backendClient.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	fmt.Printf("Project %d: %s (state %s)\n", project.ID, project.Name, project.StateCode)
	if project.Description != nil && *project.Description != "" {
		fmt.Printf("  %s\n", *project.Description)
	}
	return nil
}

func showCycles(app *app) error {
	db, err := scheduler.NewDB(app.cfg.SchedulerConfig.SQLiteDBPath, app.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	cycles, err := db.RecentCycles(10)
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		fmt.Println("No rescan cycles recorded yet.")
		return nil
	}

	fmt.Printf("%-6s %-20s %-18s %-11s %-10s %s\n", "ID", "STARTED", "STATUS", "CONSIDERED", "RESCANNED", "FAILURES")
	for _, c := range cycles {
		fmt.Printf("%-6d %-20s %-18s %-11d %-10d %d\n",
			c.ID, c.CycleStartTime.Format("2006-01-02 15:04:05"), c.Status,
			c.URLsConsidered, c.URLsRescanned, c.Failures)
	}
	return nil
}

func printCheck(check models.Check) {
	fmt.Printf("Check #%d for %s\n", check.ID, check.URL)
	fmt.Printf("  Tier:    %s (score %d, status %s)\n", check.Tier(), check.OverallScore, check.ComplianceStatus)
	if !check.CheckedAt.IsZero() {
		fmt.Printf("  Checked: %s\n", check.CheckedAt.Format(time.RFC3339))
	}
	if check.Summary != "" {
		fmt.Printf("  Summary: %s\n", check.Summary)
	}
	if len(check.Violations) > 0 {
		fmt.Printf("  Violations (%d):\n", len(check.Violations))
		for _, v := range check.Violations {
			fmt.Printf("    [%s] %s: %s\n", v.Severity, v.Category, v.RuleViolated)
		}
	}
}
