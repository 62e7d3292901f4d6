package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/handypro/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestLoggerConfigProduction(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{Level: "error"}, config.AppConfig{Name: "handypro", Env: "production", Version: "1.2.0"})

	assert.Equal(t, "json", cfg.Encoding)
	assert.False(t, cfg.Development)
	assert.NotNil(t, cfg.Sampling)
	assert.Equal(t, zapcore.ErrorLevel, cfg.Level.Level())
	assert.Equal(t, "handypro", cfg.InitialFields["service"])
	assert.Equal(t, "1.2.0", cfg.InitialFields["version"])
}

func TestLoggerConfigDevelopment(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{}, config.AppConfig{Name: "handypro", Env: "development"})

	assert.Equal(t, "console", cfg.Encoding)
	assert.True(t, cfg.Development)
	assert.Nil(t, cfg.Sampling)
	assert.NotContains(t, cfg.InitialFields, "version")

	forced := loggerConfig(config.LoggerConfig{Format: "JSON"}, config.AppConfig{Env: "development"})
	assert.Equal(t, "json", forced.Encoding)
}

func TestNewLoggerBuilds(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"}, config.AppConfig{Name: "handypro", Env: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
