package datastore

import (
	"time"

	"github.com/aleister1102/autoaudit/internal/models"
)

// ParquetCheckRecord defines the schema for archiving settled rescan results
// in Parquet format. Timestamps are stored as int64 Unix milliseconds.
// Optional fields use pointers and the ',optional' tag.
type ParquetCheckRecord struct {
	URLID            int64   `parquet:"url_id"`
	URL              string  `parquet:"url"`
	URLType          *string `parquet:"url_type,optional"`
	Platform         *string `parquet:"platform,optional"`
	CheckID          *int64  `parquet:"check_id,optional"`
	ScanType         string  `parquet:"scan_type"`
	ComplianceStatus *string `parquet:"compliance_status,optional"`
	ComplianceTier   string  `parquet:"compliance_tier"`
	OverallScore     int32   `parquet:"overall_score"`
	ViolationsCount  int32   `parquet:"violations_count"`
	CheckedAt        int64   `parquet:"checked_at"`
}

// TransformRescan converts a settled rescan into an archive record.
func TransformRescan(url models.MonitoredURL, result models.RescanResult, checkedAt time.Time) ParquetCheckRecord {
	return ParquetCheckRecord{
		URLID:            url.ID,
		URL:              url.URL,
		URLType:          StringPtrOrNil(url.URLType),
		Platform:         url.Platform,
		CheckID:          Int64PtrOrNilZero(result.CheckID),
		ScanType:         result.RawScanType,
		ComplianceStatus: StringPtrOrNil(result.ComplianceStatus),
		ComplianceTier:   result.Tier().String(),
		OverallScore:     int32(result.OverallScore),
		ViolationsCount:  int32(result.ViolationsCount),
		CheckedAt:        checkedAt.UnixMilli(),
	}
}

// CheckedAtTime returns the record timestamp as time.Time.
func (r ParquetCheckRecord) CheckedAtTime() time.Time {
	return time.UnixMilli(r.CheckedAt)
}

// StringPtrOrNil converts string to pointer, or nil if string is empty.
func StringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64PtrOrNilZero converts int64 to pointer, or nil if value is 0.
func Int64PtrOrNilZero(i int64) *int64 {
	if i == 0 {
		return nil
	}
	return &i
}
