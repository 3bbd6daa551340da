package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewDefaultBackendConfig()
	cfg.BaseURL = server.URL
	cfg.APIToken = "test-token"

	client, err := NewClientBuilder(zerolog.Nop()).
		WithConfig(cfg).
		WithHTTPClient(server.Client()).
		WithRescanClient(server.Client()).
		Build()
	require.NoError(t, err)
	return client
}

func TestListURLsSendsActiveOnlyExplicitly(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/api/urls/", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "url": "https://dealer.example", "url_type": "vdp", "active": true}]`))
	}))

	urls, err := client.ListURLs(context.Background(), ListURLsOptions{ActiveOnly: false})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, int64(1), urls[0].ID)

	// The backend defaults active_only to true; the agent must always say
	// what it wants.
	assert.Contains(t, gotQuery, "active_only=false")
}

func TestListURLsWithProjectFilter(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))

	projectID := int64(12)
	_, err := client.ListURLs(context.Background(), ListURLsOptions{ProjectID: &projectID, ActiveOnly: true})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "project_id=12")
	assert.Contains(t, gotQuery, "active_only=true")
}

func TestForceRescanImmediate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/urls/7/rescan", r.URL.Path)
		_, _ = w.Write([]byte(`{"scan_type": "immediate", "check_id": 99, "compliance_status": "NON_COMPLIANT", "overall_score": 72, "violations_count": 3}`))
	}))

	result, err := client.ForceRescan(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.ScanTypeImmediate, result.Type)
	assert.Equal(t, int64(99), result.CheckID)
	assert.Equal(t, 72, result.OverallScore)
	assert.Equal(t, 3, result.ViolationsCount)
	assert.Equal(t, int64(7), result.URLID, "missing url_id defaults to the requested id")
}

func TestForceRescanBatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scan_type": "batch", "batch_id": "batch-7"}`))
	}))

	result, err := client.ForceRescan(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.ScanTypeBatch, result.Type)
	assert.Equal(t, "batch-7", result.BatchID)
}

func TestForceRescanUnrecognizedScanType(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scan_type": "deferred"}`))
	}))

	result, err := client.ForceRescan(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.ScanTypeUnrecognized, result.Type)
	assert.Equal(t, "deferred", result.RawScanType)
}

func TestAPIErrorDetailDecoding(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "Scanning engine unavailable"}`))
	}))

	_, err := client.ForceRescan(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Scanning engine unavailable", apiErr.Detail)
	assert.True(t, apiErr.HasDetail())
	assert.Equal(t, "Scanning engine unavailable", apiErr.Error())
}

func TestAPIErrorWithoutDetailBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))

	_, err := client.ForceRescan(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.HasDetail())
}

func TestUpdateURLSendsPartialPatch(t *testing.T) {
	var gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/urls/5", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"id": 5, "url": "https://dealer.example", "url_type": "vdp", "active": false, "check_frequency_hours": 48}`))
	}))

	active := false
	updated, err := client.UpdateURL(context.Background(), 5, UpdateURLRequest{Active: &active})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, 48, updated.CheckFrequencyHours)

	// Unset fields must be absent so the backend leaves them untouched.
	assert.JSONEq(t, `{"active": false}`, gotBody)
}

func TestDeactivateURLAcceptsNoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/urls/4", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeactivateURL(context.Background(), 4))
}

func TestLatestCheckForURLEscapesPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"id": 5, "url": "https://dealer.example/vdp?vin=123", "overall_score": 88, "compliance_status": "COMPLIANT", "checked_at": "2026-08-29T10:00:00Z"}`))
	}))

	check, err := client.LatestCheckForURL(context.Background(), "https://dealer.example/vdp?vin=123")
	require.NoError(t, err)
	assert.Equal(t, int64(5), check.ID)
	assert.Equal(t, models.TierCompliant, check.Tier())
	assert.Contains(t, gotPath, "vdp%3Fvin=123", "the page URL must travel as one escaped path segment")
}

func TestClientBuilderRejectsInvalidBaseURL(t *testing.T) {
	cfg := config.NewDefaultBackendConfig()
	cfg.BaseURL = ""
	_, err := NewClientBuilder(zerolog.Nop()).WithConfig(cfg).Build()
	assert.Error(t, err)
}
