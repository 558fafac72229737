// Package logging provides a unified logging configuration and initialization
// for the staybae API.
//
// A single *zap.Logger is built at startup from Config and handed to every
// component. The same level also selects the gin framework mode.
package logging

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains logging configuration.
// config.LoggingConfig has the same shape and converts directly to it.
type Config struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string `yaml:"level"`
	// Format is the output format: json or text
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
	}
}

// NewLogger creates a new zap logger based on the configuration.
// The json format uses zap's production encoder; any other format uses the
// human-readable development encoder with stack traces on warnings.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	return zapCfg.Build()
}

// ParseLevel converts a string level to zapcore.Level.
// Unknown levels fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// GinMode maps the log level onto the gin framework mode.
// Gin's own route debug output is only useful when debugging.
func GinMode(level string) string {
	if level == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
