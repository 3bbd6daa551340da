package models

import (
	"strings"
	"time"
)

// URL type classifications known to the backend.
const (
	URLTypeVDP       = "vdp"
	URLTypeHomepage  = "homepage"
	URLTypeInventory = "inventory"
)

// MonitoredURL represents a URL registered for recurring compliance scanning.
type MonitoredURL struct {
	ID                  int64      `json:"id"`
	ProjectID           *int64     `json:"project_id,omitempty"`
	URL                 string     `json:"url"`
	URLType             string     `json:"url_type"`
	TemplateID          *string    `json:"template_id,omitempty"`
	Platform            *string    `json:"platform,omitempty"`
	Active              bool       `json:"active"`
	CheckFrequencyHours int        `json:"check_frequency_hours"`
	LastChecked         *Timestamp `json:"last_checked,omitempty"`
	CreatedAt           Timestamp  `json:"created_at"`
	CheckCount          int        `json:"check_count"`
}

// IsInventory reports whether this URL uses the inventory classification.
// Inventory URLs are always batch-scheduled by the backend; everything else
// is scanned immediately on a forced rescan.
func (mu *MonitoredURL) IsInventory() bool {
	return strings.EqualFold(mu.URLType, URLTypeInventory)
}

// IsOverdue reports whether the URL is due for a scheduled rescan at the
// given instant. Never-checked URLs are always overdue. Inactive URLs are
// excluded from scheduled scanning (manual rescans remain allowed).
func (mu *MonitoredURL) IsOverdue(now time.Time) bool {
	if !mu.Active {
		return false
	}
	if mu.LastChecked == nil || mu.LastChecked.IsZero() {
		return true
	}
	due := mu.LastChecked.Add(time.Duration(mu.CheckFrequencyHours) * time.Hour)
	return !now.Before(due)
}
