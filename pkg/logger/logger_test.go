package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "logger output should be valid JSON")
	return out
}

func TestNew_StructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Out: &buf})

	log.Info().Str("tx_id", "T-1").Msg("credited")

	out := decodeLine(t, &buf)
	assert.Equal(t, "credited", out["message"])
	assert.Equal(t, "T-1", out["tx_id"])
	assert.Equal(t, "info", out["level"])
	assert.Equal(t, ServiceName, out["service"])
	assert.Contains(t, out, "time")
	assert.NotContains(t, out, "caller")
}

func TestNew_Caller(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Out: &buf, Caller: true})

	log.Info().Msg("x")

	assert.Contains(t, decodeLine(t, &buf), "caller")
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
		{"  WARN ", false, false},
		{"nonsense", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Options{Level: tt.level, Out: &buf})

			log.Debug().Msg("d")
			assert.Equal(t, tt.debugSeen, buf.Len() > 0)

			buf.Reset()
			log.Info().Msg("i")
			assert.Equal(t, tt.infoSeen, buf.Len() > 0)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("Warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNew_PrettyWritesConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Pretty: true, Out: &buf})

	log.Info().Msg("pretty mode")

	assert.Contains(t, buf.String(), "pretty mode")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Options{Out: &buf}), "postback")

	log.Info().Msg("credited")

	assert.Equal(t, "postback", decodeLine(t, &buf)["component"])
}
