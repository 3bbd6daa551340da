package rescanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobTrackerSetAndClear(t *testing.T) {
	jt := NewJobTracker()

	assert.False(t, jt.IsScanning(1))
	assert.True(t, jt.SetScanning(1))
	assert.True(t, jt.IsScanning(1))

	// Second set for the same id is refused.
	assert.False(t, jt.SetScanning(1))

	jt.ClearScanning(1)
	assert.False(t, jt.IsScanning(1))

	// Clearing an idle id is a no-op.
	jt.ClearScanning(1)
	assert.False(t, jt.IsScanning(1))
}

func TestJobTrackerIndependentEntries(t *testing.T) {
	jt := NewJobTracker()

	assert.True(t, jt.SetScanning(1))
	assert.True(t, jt.SetScanning(2))
	assert.Equal(t, 2, jt.ScanningCount())

	jt.ClearScanning(1)
	assert.False(t, jt.IsScanning(1))
	assert.True(t, jt.IsScanning(2), "clearing one URL must not affect another")
	assert.Equal(t, 1, jt.ScanningCount())
}
