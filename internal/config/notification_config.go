package config

// NotificationConfig defines configuration for notifications
type NotificationConfig struct {
	MentionRoleIDs               []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
	NotifyOnFailure              bool     `json:"notify_on_failure" yaml:"notify_on_failure"`
	NotifyOnSuccess              bool     `json:"notify_on_success" yaml:"notify_on_success"`
	RescanServiceDiscordWebhook  string   `json:"rescan_service_discord_webhook_url,omitempty" yaml:"rescan_service_discord_webhook_url,omitempty" validate:"omitempty,url"`
	CycleSummaryDiscordWebhook   string   `json:"cycle_summary_discord_webhook_url,omitempty" yaml:"cycle_summary_discord_webhook_url,omitempty" validate:"omitempty,url"`
	NotifyOnCycleCompletion      bool     `json:"notify_on_cycle_completion" yaml:"notify_on_cycle_completion"`
	DiscordWebhookTimeoutSeconds int      `json:"discord_webhook_timeout_seconds,omitempty" yaml:"discord_webhook_timeout_seconds,omitempty"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		MentionRoleIDs:               []string{},
		NotifyOnFailure:              true,
		NotifyOnSuccess:              true,
		NotifyOnCycleCompletion:      true,
		DiscordWebhookTimeoutSeconds: 20,
	}
}
