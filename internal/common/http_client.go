package common

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout             time.Duration     // Request timeout
	InsecureSkipVerify  bool              // Skip TLS verification
	FollowRedirects     bool              // Whether to follow redirects
	MaxRedirects        int               // Maximum number of redirects to follow
	CustomHeaders       map[string]string // Custom headers to add to all requests
	UserAgent           string            // User-Agent header
	MaxIdleConns        int               // Maximum idle connections
	MaxIdleConnsPerHost int               // Maximum idle connections per host
	IdleConnTimeout     time.Duration     // Idle connection timeout
	TLSHandshakeTimeout time.Duration     // TLS handshake timeout
	DialTimeout         time.Duration     // Connection dial timeout
	KeepAlive           time.Duration     // Keep-alive duration
}

// DefaultHTTPClientConfig returns a default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             30 * time.Second,
		InsecureSkipVerify:  false,
		FollowRedirects:     true,
		MaxRedirects:        10,
		CustomHeaders:       make(map[string]string),
		UserAgent:           "AutoAudit Agent/1.0",
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         30 * time.Second,
		KeepAlive:           30 * time.Second,
	}
}

// headerTransport applies the configured default headers to every outgoing
// request. Headers already set on the request win.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	for key, value := range t.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*http.Client, error) {
	if err := ValidateHTTPClientConfig(config); err != nil {
		return nil, WrapError(err, "invalid HTTP client configuration")
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
	if config.UserAgent != "" || len(config.CustomHeaders) > 0 {
		client.Transport = &headerTransport{
			base:      transport,
			userAgent: config.UserAgent,
			headers:   config.CustomHeaders,
		}
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_redirects", config.MaxRedirects).
		Msg("HTTP client created")

	return client, nil
}

// HTTPClientBuilder provides a fluent interface for building HTTP clients
type HTTPClientBuilder struct {
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClientBuilder creates a new HTTP client builder
func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

// WithTimeout sets the request timeout
func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithInsecureSkipVerify sets whether to skip TLS verification
func (b *HTTPClientBuilder) WithInsecureSkipVerify(skip bool) *HTTPClientBuilder {
	b.config.InsecureSkipVerify = skip
	return b
}

// WithFollowRedirects sets whether to follow redirects
func (b *HTTPClientBuilder) WithFollowRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

// WithMaxRedirects sets the maximum number of redirects
func (b *HTTPClientBuilder) WithMaxRedirects(max int) *HTTPClientBuilder {
	b.config.MaxRedirects = max
	return b
}

// WithUserAgent sets the User-Agent header
func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithCustomHeader adds a custom header
func (b *HTTPClientBuilder) WithCustomHeader(key, value string) *HTTPClientBuilder {
	if b.config.CustomHeaders == nil {
		b.config.CustomHeaders = make(map[string]string)
	}
	b.config.CustomHeaders[key] = value
	return b
}

// WithConnectionPooling configures connection pooling settings
func (b *HTTPClientBuilder) WithConnectionPooling(maxIdle, maxIdlePerHost int) *HTTPClientBuilder {
	b.config.MaxIdleConns = maxIdle
	b.config.MaxIdleConnsPerHost = maxIdlePerHost
	return b
}

// Build creates the HTTP client with the configured settings
func (b *HTTPClientBuilder) Build() (*http.Client, error) {
	return NewHTTPClient(b.config, b.logger)
}

// HTTPClientFactory provides methods to create common HTTP client configurations
type HTTPClientFactory struct {
	logger zerolog.Logger
}

// NewHTTPClientFactory creates a new HTTP client factory
func NewHTTPClientFactory(logger zerolog.Logger) *HTTPClientFactory {
	return &HTTPClientFactory{logger: logger}
}

// CreateBackendClient creates an HTTP client for general AutoAudit backend calls
func (f *HTTPClientFactory) CreateBackendClient(timeout time.Duration) (*http.Client, error) {
	return NewHTTPClientBuilder(f.logger).
		WithTimeout(timeout).
		WithUserAgent("AutoAudit Agent/1.0").
		WithFollowRedirects(true).
		WithMaxRedirects(5).
		WithConnectionPooling(50, 10).
		Build()
}

// CreateRescanClient creates an HTTP client for force-rescan calls.
// Immediate compliance scans are known to take 30-60 seconds, so the timeout
// is floored at 120 seconds regardless of the shorter defaults used elsewhere.
func (f *HTTPClientFactory) CreateRescanClient(timeout time.Duration) (*http.Client, error) {
	if timeout < 120*time.Second {
		timeout = 120 * time.Second
	}
	return NewHTTPClientBuilder(f.logger).
		WithTimeout(timeout).
		WithUserAgent("AutoAudit Agent/1.0").
		WithFollowRedirects(true).
		WithMaxRedirects(3).
		Build()
}

// CreateDiscordClient creates an HTTP client optimized for Discord webhook calls
func (f *HTTPClientFactory) CreateDiscordClient(timeout time.Duration) (*http.Client, error) {
	return NewHTTPClientBuilder(f.logger).
		WithTimeout(timeout).
		WithUserAgent("AutoAudit Notifier/1.0").
		WithFollowRedirects(true).
		WithMaxRedirects(3).
		Build()
}

// ValidateHTTPClientConfig validates an HTTP client configuration
func ValidateHTTPClientConfig(config HTTPClientConfig) error {
	var collector ErrorCollector

	if config.Timeout <= 0 {
		collector.Add(NewValidationError("timeout", config.Timeout, "must be positive"))
	}

	if config.MaxRedirects < 0 {
		collector.Add(NewValidationError("max_redirects", config.MaxRedirects, "must be non-negative"))
	}

	if config.MaxIdleConns < 0 {
		collector.Add(NewValidationError("max_idle_conns", config.MaxIdleConns, "must be non-negative"))
	}

	if config.MaxIdleConnsPerHost < 0 {
		collector.Add(NewValidationError("max_idle_conns_per_host", config.MaxIdleConnsPerHost, "must be non-negative"))
	}

	return collector.Error()
}
