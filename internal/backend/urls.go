package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aleister1102/autoaudit/internal/models"
)

// ListURLsOptions filters a URL listing.
type ListURLsOptions struct {
	ProjectID *int64
	// ActiveOnly filters out deactivated URLs. The backend defaults this to
	// true when omitted, so the agent always sends it explicitly: list views
	// must keep deactivated URLs visible.
	ActiveOnly bool
}

// CreateURLRequest is the payload for registering a new monitored URL.
type CreateURLRequest struct {
	URL                 string  `json:"url"`
	ProjectID           *int64  `json:"project_id,omitempty"`
	URLType             string  `json:"url_type,omitempty"`
	TemplateID          *string `json:"template_id,omitempty"`
	Platform            *string `json:"platform,omitempty"`
	CheckFrequencyHours int     `json:"check_frequency_hours,omitempty"`
}

// UpdateURLRequest is the payload for a partial URL update. Nil fields are
// left untouched server-side.
type UpdateURLRequest struct {
	Active              *bool   `json:"active,omitempty"`
	CheckFrequencyHours *int    `json:"check_frequency_hours,omitempty"`
	TemplateID          *string `json:"template_id,omitempty"`
}

// ListURLs lists monitored URLs, optionally scoped to a project.
func (c *Client) ListURLs(ctx context.Context, opts ListURLsOptions) ([]models.MonitoredURL, error) {
	query := url.Values{}
	query.Set("active_only", strconv.FormatBool(opts.ActiveOnly))
	if opts.ProjectID != nil {
		query.Set("project_id", strconv.FormatInt(*opts.ProjectID, 10))
	}

	var urls []models.MonitoredURL
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/urls/", query, nil, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// GetURL fetches a single monitored URL by id.
func (c *Client) GetURL(ctx context.Context, urlID int64) (models.MonitoredURL, error) {
	var result models.MonitoredURL
	err := c.doJSON(ctx, c.httpClient, http.MethodGet, idPath("/api/urls/%d", urlID), nil, nil, &result)
	return result, err
}

// CreateURL registers a new URL for compliance monitoring.
func (c *Client) CreateURL(ctx context.Context, req CreateURLRequest) (models.MonitoredURL, error) {
	var result models.MonitoredURL
	err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/api/urls/", nil, req, &result)
	return result, err
}

// UpdateURL applies a partial update to a monitored URL.
func (c *Client) UpdateURL(ctx context.Context, urlID int64, req UpdateURLRequest) (models.MonitoredURL, error) {
	var result models.MonitoredURL
	err := c.doJSON(ctx, c.httpClient, http.MethodPatch, idPath("/api/urls/%d", urlID), nil, req, &result)
	return result, err
}

// DeactivateURL logically deletes a monitored URL. The backend marks it
// inactive rather than removing it, preserving historical checks.
func (c *Client) DeactivateURL(ctx context.Context, urlID int64) error {
	return c.doJSON(ctx, c.httpClient, http.MethodDelete, idPath("/api/urls/%d", urlID), nil, nil, nil)
}
