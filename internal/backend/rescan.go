package backend

import (
	"context"
	"net/http"

	"github.com/aleister1102/autoaudit/internal/models"
)

// rescanResponse mirrors the wire shape of POST /api/urls/{id}/rescan.
type rescanResponse struct {
	ScanType         string `json:"scan_type"`
	CheckID          int64  `json:"check_id,omitempty"`
	URLID            int64  `json:"url_id,omitempty"`
	ComplianceStatus string `json:"compliance_status,omitempty"`
	OverallScore     int    `json:"overall_score,omitempty"`
	ViolationsCount  int    `json:"violations_count,omitempty"`
	BatchID          string `json:"batch_id,omitempty"`
}

// ForceRescan triggers an on-demand scan of a monitored URL. Inventory URLs
// are batch-scheduled by the backend; all other types are scanned in this
// call, which is why it runs on the dedicated long-timeout client.
func (c *Client) ForceRescan(ctx context.Context, urlID int64) (models.RescanResult, error) {
	var resp rescanResponse
	if err := c.doJSON(ctx, c.rescanClient, http.MethodPost, idPath("/api/urls/%d/rescan", urlID), nil, nil, &resp); err != nil {
		return models.RescanResult{}, err
	}

	result := models.RescanResult{
		Type:             models.ParseScanType(resp.ScanType),
		RawScanType:      resp.ScanType,
		CheckID:          resp.CheckID,
		URLID:            resp.URLID,
		ComplianceStatus: resp.ComplianceStatus,
		OverallScore:     resp.OverallScore,
		ViolationsCount:  resp.ViolationsCount,
		BatchID:          resp.BatchID,
	}
	if result.URLID == 0 {
		result.URLID = urlID
	}
	return result, nil
}
