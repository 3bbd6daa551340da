package rslimiter

import (
	"fmt"
	"runtime"

	"github.com/aleister1102/autoaudit/internal/config"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceLimiter is the guard the scheduler consults before starting a
// cycle. A cycle that would run while the host is memory-starved or the
// process is leaking goroutines is skipped rather than made worse.
type ResourceLimiter struct {
	config config.LimiterConfig
	logger zerolog.Logger
}

// NewResourceLimiter creates a resource limiter from configuration.
func NewResourceLimiter(cfg config.LimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	if cfg.SystemMemThreshold == 0 {
		cfg.SystemMemThreshold = config.DefaultLimiterSystemMemThreshold
	}
	if cfg.MaxGoroutines == 0 {
		cfg.MaxGoroutines = config.DefaultLimiterMaxGoroutines
	}
	return &ResourceLimiter{
		config: cfg,
		logger: logger.With().Str("module", "ResourceLimiter").Logger(),
	}
}

// Allow reports whether a new cycle may start. When it returns false the
// reason names the exhausted resource.
func (rl *ResourceLimiter) Allow() (bool, string) {
	if !rl.config.Enabled {
		return true, ""
	}

	if exceeded, err := rl.checkSystemMemory(); err != nil {
		rl.logger.Error().Err(err).Msg("Failed to check system memory, allowing cycle")
	} else if exceeded {
		return false, "system memory threshold exceeded"
	}

	if err := rl.checkGoroutines(); err != nil {
		return false, err.Error()
	}

	return true, ""
}

// checkSystemMemory compares host memory usage against the threshold.
func (rl *ResourceLimiter) checkSystemMemory() (bool, error) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return false, fmt.Errorf("failed to get system memory stats: %w", err)
	}

	usedPercent := vmStat.UsedPercent / 100.0

	if usedPercent > rl.config.SystemMemThreshold {
		rl.logger.Warn().
			Float64("used_percent", usedPercent*100).
			Float64("threshold_percent", rl.config.SystemMemThreshold*100).
			Uint64("used_mb", vmStat.Used/1024/1024).
			Uint64("total_mb", vmStat.Total/1024/1024).
			Msg("System memory usage exceeded threshold")
		return true, nil
	}

	return false, nil
}

// checkGoroutines compares the process goroutine count against the limit.
func (rl *ResourceLimiter) checkGoroutines() error {
	current := runtime.NumGoroutine()
	if current > rl.config.MaxGoroutines {
		return fmt.Errorf("goroutine limit exceeded: current %d > limit %d", current, rl.config.MaxGoroutines)
	}
	return nil
}
