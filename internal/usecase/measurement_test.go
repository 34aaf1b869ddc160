package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAbsent(t *testing.T) {
	assert.True(t, IsAbsent(nil))
	assert.True(t, IsAbsent(json.RawMessage("null")))
	assert.True(t, IsAbsent(json.RawMessage("  null ")))
	assert.False(t, IsAbsent(json.RawMessage(`""`)))
	assert.False(t, IsAbsent(json.RawMessage("0")))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "integer", raw: `70`, want: 70},
		{name: "float", raw: `70.5`, want: 70.5},
		{name: "negative", raw: `-1.5`, want: -1.5},
		{name: "exponent", raw: `1e2`, want: 100},
		{name: "numeric string", raw: `"71.25"`, want: 71.25},
		{name: "padded string", raw: `" 8 "`, want: 8},
		{name: "empty string", raw: `""`, wantErr: true},
		{name: "word", raw: `"heavy"`, wantErr: true},
		{name: "nan string", raw: `"NaN"`, wantErr: true},
		{name: "inf string", raw: `"inf"`, wantErr: true},
		{name: "hex float string", raw: `"0x1p4"`, wantErr: true},
		{name: "signed hex string", raw: `"-0X10"`, wantErr: true},
		{name: "padded hex string", raw: `" 0x46 "`, wantErr: true},
		{name: "digit separator string", raw: `"7_0"`, wantErr: true},
		{name: "signed string", raw: `"+70"`, want: 70},
		{name: "boolean", raw: `true`, wantErr: true},
		{name: "object", raw: `{"kg":70}`, wantErr: true},
		{name: "array", raw: `[70]`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate(json.RawMessage(`"2024-01-15"`))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", date.Format("2006-01-02"))

	for _, raw := range []string{`"2024-13-40"`, `"not-a-date"`, `"2024-1-5"`, `"2024-01-15T00:00:00Z"`, `20240115`, `true`, `""`} {
		_, err := ParseDate(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}
