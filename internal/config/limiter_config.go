package config

// LimiterConfig defines thresholds for the resource guard consulted by the
// scheduler before each cycle.
type LimiterConfig struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	MaxGoroutines      int     `json:"max_goroutines,omitempty" yaml:"max_goroutines,omitempty" validate:"min=0"`
}

// NewDefaultLimiterConfig creates default limiter configuration
func NewDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Enabled:            true,
		SystemMemThreshold: DefaultLimiterSystemMemThreshold,
		MaxGoroutines:      DefaultLimiterMaxGoroutines,
	}
}
