package models

// Project groups monitored URLs under one dealership/site and carries the
// state code that drives which compliance rules apply.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StateCode   string    `json:"state_code"`
	Description *string   `json:"description,omitempty"`
	BaseURL     *string   `json:"base_url,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}
