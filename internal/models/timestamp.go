package models

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp wraps time.Time to tolerate the timestamp layouts the backend
// emits: RFC3339, ISO without zone, and SQLite's "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON parses a backend timestamp string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp format: %q", s)
}

// MarshalJSON renders the timestamp as RFC3339, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
