package rslimiter

import (
	"testing"

	"github.com/aleister1102/autoaudit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAllowWhenDisabled(t *testing.T) {
	rl := NewResourceLimiter(config.LimiterConfig{Enabled: false}, zerolog.Nop())
	ok, reason := rl.Allow()
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestAllowWithGenerousLimits(t *testing.T) {
	cfg := config.LimiterConfig{
		Enabled:            true,
		SystemMemThreshold: 0.999,
		MaxGoroutines:      1_000_000,
	}
	ok, reason := NewResourceLimiter(cfg, zerolog.Nop()).Allow()
	assert.True(t, ok, "reason: %s", reason)
}

func TestAllowRefusesOnGoroutineLimit(t *testing.T) {
	cfg := config.LimiterConfig{
		Enabled:            true,
		SystemMemThreshold: 0.999,
		MaxGoroutines:      1, // the test runner alone exceeds this
	}
	ok, reason := NewResourceLimiter(cfg, zerolog.Nop()).Allow()
	assert.False(t, ok)
	assert.Contains(t, reason, "goroutine limit exceeded")
}

func TestGetResourceUsage(t *testing.T) {
	usage := GetResourceUsage()
	assert.Greater(t, usage.Goroutines, 0)
	assert.GreaterOrEqual(t, usage.AllocMB, int64(0))
}
