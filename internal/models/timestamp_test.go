package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshalLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339", `"2026-08-29T10:30:00Z"`},
		{"iso without zone", `"2026-08-29T10:30:00.123456"`},
		{"iso without fraction", `"2026-08-29T10:30:00"`},
		{"sqlite style", `"2026-08-29 10:30:00"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.Equal(t, 2026, ts.Year())
			assert.Equal(t, 30, ts.Minute())
		})
	}
}

func TestTimestampUnmarshalNull(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestampUnmarshalUnknownFormat(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"29/08/2026"`), &ts))
}

func TestTimestampMarshal(t *testing.T) {
	var zero Timestamp
	data, err := json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestParseScanType(t *testing.T) {
	assert.Equal(t, ScanTypeBatch, ParseScanType("batch"))
	assert.Equal(t, ScanTypeBatch, ParseScanType("Batch"))
	assert.Equal(t, ScanTypeImmediate, ParseScanType("immediate"))
	assert.Equal(t, ScanTypeUnrecognized, ParseScanType("deferred"))
	assert.Equal(t, ScanTypeUnrecognized, ParseScanType(""))
}
