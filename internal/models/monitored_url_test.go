package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsInventory(t *testing.T) {
	tests := []struct {
		urlType string
		want    bool
	}{
		{"inventory", true},
		{"Inventory", true},
		{"INVENTORY", true},
		{"vdp", false},
		{"homepage", false},
		{"", false},
	}

	for _, tt := range tests {
		mu := MonitoredURL{URLType: tt.urlType}
		assert.Equal(t, tt.want, mu.IsInventory(), "url_type=%q", tt.urlType)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	ts := func(t time.Time) *Timestamp { return &Timestamp{Time: t} }

	tests := []struct {
		name string
		url  MonitoredURL
		want bool
	}{
		{
			name: "never checked is always overdue",
			url:  MonitoredURL{Active: true, CheckFrequencyHours: 24},
			want: true,
		},
		{
			name: "inactive is never overdue",
			url:  MonitoredURL{Active: false, CheckFrequencyHours: 24},
			want: false,
		},
		{
			name: "recently checked is not overdue",
			url:  MonitoredURL{Active: true, CheckFrequencyHours: 24, LastChecked: ts(now.Add(-1 * time.Hour))},
			want: false,
		},
		{
			name: "checked beyond frequency is overdue",
			url:  MonitoredURL{Active: true, CheckFrequencyHours: 24, LastChecked: ts(now.Add(-25 * time.Hour))},
			want: true,
		},
		{
			name: "exactly at the boundary is overdue",
			url:  MonitoredURL{Active: true, CheckFrequencyHours: 24, LastChecked: ts(now.Add(-24 * time.Hour))},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.url.IsOverdue(now))
		})
	}
}
