package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/handypro/internal/config"
)

// NewLogger builds the process logger. Production runs sample repeated
// entries and emit JSON; development logs every entry to the console.
func NewLogger(cfg config.LoggerConfig, app config.AppConfig) (*zap.Logger, error) {
	return loggerConfig(cfg, app).Build()
}

// ParseLevel maps a LOG_LEVEL value to a zap level. Unknown values fall back
// to info.
func ParseLevel(value string) zapcore.Level {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(strings.TrimSpace(value))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func loggerConfig(cfg config.LoggerConfig, app config.AppConfig) zap.Config {
	development := app.Env == "development"

	var zapCfg zap.Config
	if development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	switch strings.ToLower(cfg.Format) {
	case "json":
		zapCfg.Encoding = "json"
	case "console":
		zapCfg.Encoding = "console"
	}
	zapCfg.EncoderConfig.MessageKey = "message"
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if zapCfg.Encoding == "console" {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.InitialFields = map[string]interface{}{
		"service": app.Name,
		"env":     app.Env,
	}
	if app.Version != "" {
		zapCfg.InitialFields["version"] = app.Version
	}
	return zapCfg
}
