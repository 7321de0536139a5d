package logging_test

import (
	"bytes"
	"testing"

	"github.com/plus3/grabfocus/internal/config"
	"github.com/plus3/grabfocus/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter(config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "resolver").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"resolver"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter(config.Config{LogLevel: "debug", LogFormat: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("tick")
	assert.Contains(t, buf.String(), "tick")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNewBadLevel(t *testing.T) {
	_, err := logging.NewWithWriter(config.Config{LogLevel: "loud", LogFormat: "json"}, &bytes.Buffer{})
	assert.Error(t, err)
}
