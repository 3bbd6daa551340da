package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aleister1102/autoaudit/internal/models"
)

// LatestCheckForURL fetches the most recent check for the given page URL.
// The checks collaborator keys this endpoint by the raw URL string.
func (c *Client) LatestCheckForURL(ctx context.Context, pageURL string) (models.Check, error) {
	var result models.Check
	err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/checks/url/"+url.PathEscape(pageURL), nil, nil, &result)
	return result, err
}

// ListChecks lists checks, optionally filtered by URL id.
func (c *Client) ListChecks(ctx context.Context, urlID *int64, limit int) ([]models.Check, error) {
	query := url.Values{}
	if urlID != nil {
		query.Set("url_id", strconv.FormatInt(*urlID, 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var checks []models.Check
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/checks/", query, nil, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// GetProject fetches a project by id.
func (c *Client) GetProject(ctx context.Context, projectID int64) (models.Project, error) {
	var result models.Project
	err := c.doJSON(ctx, c.httpClient, http.MethodGet, idPath("/api/projects/%d", projectID), nil, nil, &result)
	return result, err
}
