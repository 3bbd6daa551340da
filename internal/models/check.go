package models

// Compliance status values reported by the backend.
const (
	ComplianceStatusCompliant = "COMPLIANT"
)

// Check represents one completed compliance scan result for a MonitoredURL.
// Checks are produced exclusively by the scanning backend; the agent never
// constructs one itself.
type Check struct {
	ID               int64       `json:"id"`
	URLID            int64       `json:"url_id"`
	URL              string      `json:"url"`
	StateCode        string      `json:"state_code"`
	TemplateID       *string     `json:"template_id,omitempty"`
	OverallScore     int         `json:"overall_score"`
	ComplianceStatus string      `json:"compliance_status"`
	Summary          string      `json:"summary"`
	ReportPath       *string     `json:"report_path,omitempty"`
	CheckedAt        Timestamp   `json:"checked_at"`
	Violations       []Violation `json:"violations,omitempty"`
}

// Violation represents a single rule violation found by a check.
type Violation struct {
	ID           int64     `json:"id"`
	CheckID      int64     `json:"check_id"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	RuleViolated string    `json:"rule_violated"`
	RuleKey      *string   `json:"rule_key,omitempty"`
	Confidence   *float64  `json:"confidence,omitempty"`
	Explanation  *string   `json:"explanation,omitempty"`
	Evidence     *string   `json:"evidence,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
}

// Tier derives the qualitative compliance tier for this check.
func (c *Check) Tier() ComplianceTier {
	return DeriveComplianceTier(c.ComplianceStatus, c.OverallScore)
}
