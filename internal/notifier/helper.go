package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/models"

	"github.com/rs/zerolog"
)

// NotificationHelper routes coordinator notifications to the configured
// sinks: always the console renderer, and Discord webhooks when configured.
type NotificationHelper struct {
	discord  *DiscordNotifier
	renderer Renderer
	cfg      config.NotificationConfig
	logger   zerolog.Logger
}

// NewNotificationHelper creates a helper. discord may be nil when no webhook
// delivery is wanted; renderer may be nil to suppress console output.
func NewNotificationHelper(discord *DiscordNotifier, renderer Renderer, cfg config.NotificationConfig, logger zerolog.Logger) *NotificationHelper {
	return &NotificationHelper{
		discord:  discord,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger.With().Str("module", "NotificationHelper").Logger(),
	}
}

// Notify dispatches a batch of notifications produced by one rescan. Info
// notifications go to the console only; success and error notifications also
// go to the rescan Discord webhook, gated by NotifyOnSuccess/NotifyOnFailure.
func (nh *NotificationHelper) Notify(ctx context.Context, url models.MonitoredURL, notifications []models.Notification) {
	for _, n := range notifications {
		if nh.renderer != nil {
			nh.renderer.Render(n)
		}

		switch n.Level {
		case models.NotificationSuccess:
			if nh.cfg.NotifyOnSuccess {
				nh.sendRescanEmbed(ctx, url, n, ColorSuccess, "Rescan Completed")
			}
		case models.NotificationError:
			if nh.cfg.NotifyOnFailure {
				nh.sendRescanEmbed(ctx, url, n, ColorError, "Rescan Failed")
			}
		}
	}
}

// NotifyCycleSummary sends the end-of-cycle summary to the cycle webhook.
func (nh *NotificationHelper) NotifyCycleSummary(ctx context.Context, summary CycleSummary) {
	if nh.renderer != nil {
		nh.renderer.Render(models.NewInfoNotification(summary.String()))
	}
	if !nh.cfg.NotifyOnCycleCompletion || nh.cfg.CycleSummaryDiscordWebhook == "" || nh.discord == nil {
		return
	}

	color := ColorSuccess
	if summary.Failures > 0 {
		color = ColorError
	}

	embed := NewDiscordEmbedBuilder().
		WithTitle("Rescan Cycle Completed").
		WithColor(color).
		WithTimestamp(time.Now()).
		AddField("Cycle ID", fmt.Sprintf("%d", summary.CycleID), true).
		AddField("Duration", summary.Duration().Truncate(time.Second).String(), true).
		AddField("URLs Considered", fmt.Sprintf("%d", summary.URLsConsidered), true).
		AddField("URLs Rescanned", fmt.Sprintf("%d", summary.URLsRescanned), true).
		AddField("Failures", fmt.Sprintf("%d", summary.Failures), true).
		WithFooter("AutoAudit Agent").
		Build()

	payload := DiscordMessagePayload{
		Username:        "AutoAudit Agent",
		Content:         nh.mentionContent(),
		AllowedMentions: nh.allowedMentions(),
		Embeds:          []DiscordEmbed{embed},
	}
	if err := nh.discord.SendNotification(ctx, nh.cfg.CycleSummaryDiscordWebhook, payload); err != nil {
		nh.logger.Error().Err(err).Msg("Failed to send cycle summary notification")
	}
}

func (nh *NotificationHelper) sendRescanEmbed(ctx context.Context, url models.MonitoredURL, n models.Notification, color int, title string) {
	if nh.cfg.RescanServiceDiscordWebhook == "" || nh.discord == nil {
		return
	}

	builder := NewDiscordEmbedBuilder().
		WithTitle(title).
		WithURL(url.URL).
		WithDescription(n.Message).
		WithColor(color).
		WithTimestamp(time.Now()).
		AddField("URL", url.URL, false).
		AddField("Type", url.URLType, true).
		WithFooter("AutoAudit Agent")
	if url.Platform != nil && *url.Platform != "" {
		builder.AddField("Platform", *url.Platform, true)
	}

	payload := DiscordMessagePayload{
		Username: "AutoAudit Agent",
		Embeds:   []DiscordEmbed{builder.Build()},
	}
	if n.Level == models.NotificationError {
		payload.Content = nh.mentionContent()
		payload.AllowedMentions = nh.allowedMentions()
	}
	if err := nh.discord.SendNotification(ctx, nh.cfg.RescanServiceDiscordWebhook, payload); err != nil {
		nh.logger.Error().Err(err).Int64("url_id", url.ID).Msg("Failed to send rescan notification")
	}
}

// mentionContent renders configured role mentions, empty when none are set.
func (nh *NotificationHelper) mentionContent() string {
	if len(nh.cfg.MentionRoleIDs) == 0 {
		return ""
	}
	mentions := make([]string, 0, len(nh.cfg.MentionRoleIDs))
	for _, id := range nh.cfg.MentionRoleIDs {
		if id == "" {
			continue
		}
		mentions = append(mentions, fmt.Sprintf("<@&%s>", id))
	}
	return strings.Join(mentions, " ")
}

// allowedMentions whitelists the configured roles so Discord actually pings
// them. Mentions in content are suppressed by default for webhook messages
// without this.
func (nh *NotificationHelper) allowedMentions() *AllowedMentions {
	if len(nh.cfg.MentionRoleIDs) == 0 {
		return nil
	}
	return &AllowedMentions{Roles: nh.cfg.MentionRoleIDs}
}

// CycleSummary aggregates one scheduler cycle for notification purposes.
type CycleSummary struct {
	CycleID        int64
	StartTime      time.Time
	EndTime        time.Time
	URLsConsidered int
	URLsRescanned  int
	Failures       int
}

// Duration returns the cycle wall time.
func (cs CycleSummary) Duration() time.Duration {
	return cs.EndTime.Sub(cs.StartTime)
}

func (cs CycleSummary) String() string {
	return fmt.Sprintf("Cycle %d finished: %d/%d URLs rescanned, %d failures in %s",
		cs.CycleID, cs.URLsRescanned, cs.URLsConsidered, cs.Failures, cs.Duration().Truncate(time.Second))
}
