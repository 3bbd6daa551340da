package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveComplianceTier(t *testing.T) {
	tests := []struct {
		name   string
		status string
		score  int
		want   ComplianceTier
	}{
		{"compliant flag wins regardless of score", ComplianceStatusCompliant, 0, TierCompliant},
		{"score 100", "NON_COMPLIANT", 100, TierMostlyCompliant},
		{"score 80 boundary", "NON_COMPLIANT", 80, TierMostlyCompliant},
		{"score 79 boundary", "NON_COMPLIANT", 79, TierNeedsReview},
		{"score 60 boundary", "NON_COMPLIANT", 60, TierNeedsReview},
		{"score 59 boundary", "NON_COMPLIANT", 59, TierNonCompliant},
		{"score 0", "NON_COMPLIANT", 0, TierNonCompliant},
		{"empty status falls through to score", "", 85, TierMostlyCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveComplianceTier(tt.status, tt.score))
		})
	}
}

func TestComplianceTierString(t *testing.T) {
	assert.Equal(t, "Compliant", TierCompliant.String())
	assert.Equal(t, "Mostly Compliant", TierMostlyCompliant.String())
	assert.Equal(t, "Needs Review", TierNeedsReview.String())
	assert.Equal(t, "Non-Compliant", TierNonCompliant.String())
}

func TestCheckTier(t *testing.T) {
	check := Check{ComplianceStatus: "NON_COMPLIANT", OverallScore: 65}
	assert.Equal(t, TierNeedsReview, check.Tier())
}
