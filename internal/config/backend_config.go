package config

// BackendConfig defines how to reach the AutoAudit compliance backend.
type BackendConfig struct {
	BaseURL            string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required,url"`
	APIToken           string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`

	// RescanTimeoutSeconds applies only to the force-rescan call path.
	// Immediate compliance scans take 30-60s, so this must stay >= 120.
	RescanTimeoutSeconds int `json:"rescan_timeout_seconds,omitempty" yaml:"rescan_timeout_seconds,omitempty" validate:"min=120"`
}

// NewDefaultBackendConfig creates default backend configuration
func NewDefaultBackendConfig() BackendConfig {
	return BackendConfig{
		BaseURL:              DefaultBackendBaseURL,
		TimeoutSeconds:       DefaultBackendTimeoutSecs,
		RescanTimeoutSeconds: DefaultRescanTimeoutSecs,
		InsecureSkipVerify:   DefaultBackendInsecureVerify,
	}
}
