package models

import "strings"

// ScanType is the tagged classification of a force-rescan response.
// Responses carrying a scan_type the agent does not recognize map to
// ScanTypeUnrecognized rather than being silently dropped.
type ScanType int

const (
	ScanTypeUnrecognized ScanType = iota
	ScanTypeBatch
	ScanTypeImmediate
)

// String returns the wire name of the scan type.
func (st ScanType) String() string {
	switch st {
	case ScanTypeBatch:
		return "batch"
	case ScanTypeImmediate:
		return "immediate"
	default:
		return "unrecognized"
	}
}

// ParseScanType maps a wire scan_type value to its tagged variant.
func ParseScanType(raw string) ScanType {
	switch strings.ToLower(raw) {
	case "batch":
		return ScanTypeBatch
	case "immediate":
		return ScanTypeImmediate
	default:
		return ScanTypeUnrecognized
	}
}

// RescanResult is the decoded response of a force-rescan call.
// For batch scans only BatchID (when provided) is meaningful; check fields
// are populated only for immediate scans.
type RescanResult struct {
	Type             ScanType
	RawScanType      string
	CheckID          int64
	URLID            int64
	ComplianceStatus string
	OverallScore     int
	ViolationsCount  int
	BatchID          string
}

// Tier derives the qualitative tier for an immediate rescan result.
func (rr *RescanResult) Tier() ComplianceTier {
	return DeriveComplianceTier(rr.ComplianceStatus, rr.OverallScore)
}
