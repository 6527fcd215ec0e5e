package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("row decoded")

	assert.Contains(t, buf.String(), "row decoded")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestNewWithOptions(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{name: "debug", level: "debug", wantLevel: zerolog.DebugLevel},
		{name: "case insensitive", level: " WARN ", wantLevel: zerolog.WarnLevel},
		{name: "unknown falls back to info", level: "chatty", wantLevel: zerolog.InfoLevel},
		{name: "empty falls back to info", level: "", wantLevel: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewWithOptions(&bytes.Buffer{}, tt.level, false)
			assert.Equal(t, tt.wantLevel, log.GetLevel())
		})
	}
}

func TestNewWithOptions_FiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithOptions(buf, "warn", false)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"user":  "amit",
		"count": 3,
	})

	log.Info().Msg("loaded")

	assert.Contains(t, buf.String(), `"user":"amit"`)
	assert.Contains(t, buf.String(), `"count":3`)
}
