package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aleister1102/autoaudit/internal/common"
	"github.com/aleister1102/autoaudit/internal/config"

	"github.com/rs/zerolog"
)

// Client is the HTTP client for the AutoAudit compliance backend.
// All calls share the default client except force-rescan, which goes through
// a dedicated long-timeout client (immediate scans take 30-60 seconds).
type Client struct {
	baseURL      string
	apiToken     string
	httpClient   *http.Client
	rescanClient *http.Client
	logger       zerolog.Logger
}

// ClientBuilder provides a fluent interface for building backend clients
type ClientBuilder struct {
	cfg          config.BackendConfig
	httpClient   *http.Client
	rescanClient *http.Client
	logger       zerolog.Logger
}

// NewClientBuilder creates a new backend client builder
func NewClientBuilder(logger zerolog.Logger) *ClientBuilder {
	return &ClientBuilder{
		cfg:    config.NewDefaultBackendConfig(),
		logger: logger.With().Str("module", "BackendClient").Logger(),
	}
}

// WithConfig sets the backend configuration
func (b *ClientBuilder) WithConfig(cfg config.BackendConfig) *ClientBuilder {
	b.cfg = cfg
	return b
}

// WithHTTPClient sets the client used for general backend calls
func (b *ClientBuilder) WithHTTPClient(client *http.Client) *ClientBuilder {
	b.httpClient = client
	return b
}

// WithRescanClient sets the client used for force-rescan calls
func (b *ClientBuilder) WithRescanClient(client *http.Client) *ClientBuilder {
	b.rescanClient = client
	return b
}

// Build creates the backend client
func (b *ClientBuilder) Build() (*Client, error) {
	if b.cfg.BaseURL == "" {
		return nil, common.NewValidationError("base_url", b.cfg.BaseURL, "backend base URL is required")
	}
	if _, err := url.ParseRequestURI(b.cfg.BaseURL); err != nil {
		return nil, common.WrapError(err, "invalid backend base URL")
	}

	factory := common.NewHTTPClientFactory(b.logger)

	httpClient := b.httpClient
	if httpClient == nil {
		var err error
		httpClient, err = factory.CreateBackendClient(time.Duration(b.cfg.TimeoutSeconds) * time.Second)
		if err != nil {
			return nil, common.WrapError(err, "failed to create backend HTTP client")
		}
	}

	rescanClient := b.rescanClient
	if rescanClient == nil {
		var err error
		rescanClient, err = factory.CreateRescanClient(time.Duration(b.cfg.RescanTimeoutSeconds) * time.Second)
		if err != nil {
			return nil, common.WrapError(err, "failed to create rescan HTTP client")
		}
	}

	return &Client{
		baseURL:      strings.TrimRight(b.cfg.BaseURL, "/"),
		apiToken:     b.cfg.APIToken,
		httpClient:   httpClient,
		rescanClient: rescanClient,
		logger:       b.logger,
	}, nil
}

// NewClient creates a backend client from configuration.
func NewClient(cfg config.BackendConfig, logger zerolog.Logger) (*Client, error) {
	return NewClientBuilder(logger).WithConfig(cfg).Build()
}

// doJSON executes a request against the backend and decodes the JSON
// response into out (skipped when out is nil or the response is 204).
func (c *Client) doJSON(ctx context.Context, client *http.Client, method, path string, query url.Values, body interface{}, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return common.WrapError(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return common.WrapError(err, "failed to create backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", fullURL).Dur("duration", duration).Msg("Backend request failed")
		return common.NewNetworkError(fullURL, "backend request failed", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int("status_code", resp.StatusCode).
		Str("method", method).
		Str("url", fullURL).
		Dur("duration", duration).
		Msg("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeAPIError(resp, fullURL)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.WrapErrorf(err, "failed to decode backend response from '%s'", fullURL)
	}
	return nil
}

// decodeAPIError converts a non-2xx response into an *APIError, capturing
// the backend's structured detail when present.
func (c *Client) decodeAPIError(resp *http.Response, fullURL string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, URL: fullURL}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if readErr == nil && len(respBody) > 0 {
		var detail struct {
			Detail string `json:"detail"`
		}
		if jsonErr := json.Unmarshal(respBody, &detail); jsonErr == nil {
			apiErr.Detail = detail.Detail
		}
	}

	c.logger.Warn().
		Int("status_code", resp.StatusCode).
		Str("url", fullURL).
		Str("detail", apiErr.Detail).
		Msg("Backend returned error response")

	return apiErr
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
