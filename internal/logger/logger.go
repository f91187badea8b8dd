// Package logger builds the zap loggers used by the server and the CLI.
package logger

import (
	"fmt"
	"net/http"

	"github.com/coursedesk/enrollment-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the server logger. Production, or logging.format "json",
// selects the JSON encoder. An unknown logging.level falls back to info.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := baseConfig(cfg.Format == "json" || appCfg.Environment == "production", level)
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// NewCLILogger builds a console logger on stderr for command line tools.
// It logs warnings only, or everything from debug up when verbose.
func NewCLILogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := baseConfig(false, level)
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true
	return zapCfg.Build()
}

func baseConfig(jsonOutput bool, level zapcore.Level) zap.Config {
	var zapCfg zap.Config
	if jsonOutput {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg
}

// WithRequest tags log with the request line, client address and request id
func WithRequest(log *zap.Logger, r *http.Request, requestID string) *zap.Logger {
	return log.With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("request_id", requestID),
	)
}
