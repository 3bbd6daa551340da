package models

// ComplianceTier is the four-tier qualitative status derived from a check's
// numeric score and compliance flag. It is a presentation convenience: the
// backend's COMPLIANT flag wins outright, and any score below 60 (including
// values outside [0,100]) falls through to Non-Compliant.
type ComplianceTier int

const (
	TierNonCompliant ComplianceTier = iota
	TierNeedsReview
	TierMostlyCompliant
	TierCompliant
)

// String returns the user-facing tier label.
func (t ComplianceTier) String() string {
	switch t {
	case TierCompliant:
		return "Compliant"
	case TierMostlyCompliant:
		return "Mostly Compliant"
	case TierNeedsReview:
		return "Needs Review"
	default:
		return "Non-Compliant"
	}
}

// DeriveComplianceTier maps a compliance status flag and numeric score to a
// qualitative tier. The explicit COMPLIANT status takes precedence over the
// score; otherwise score >= 80 is Mostly Compliant, score >= 60 Needs Review,
// anything below Non-Compliant.
func DeriveComplianceTier(complianceStatus string, overallScore int) ComplianceTier {
	if complianceStatus == ComplianceStatusCompliant {
		return TierCompliant
	}
	switch {
	case overallScore >= 80:
		return TierMostlyCompliant
	case overallScore >= 60:
		return TierNeedsReview
	default:
		return TierNonCompliant
	}
}
