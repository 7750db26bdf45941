// Package logging constructs the structured logger used across empsync.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger, switching to debug level when verbose
// is set. Mirrors the CLI entrypoint's logger construction: production
// config, atomic debug level under --verbose.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Stage returns a child logger tagged with the given pipeline stage name,
// so every log line written through it is attributable to that stage.
func Stage(logger *zap.Logger, name string) *zap.Logger {
	return logger.With(zap.String("stage", name))
}
