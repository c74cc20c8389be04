// Package logging builds the service-wide zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variable name for switching to the development encoder.
const devModeEnv = "DEV_MODE"

// New constructs the process logger. Production config by default; DEV_MODE
// switches to the console encoder with colored levels.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if os.Getenv(devModeEnv) == "true" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	return cfg.Build()
}
