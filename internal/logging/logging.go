// Package logging builds the zap logger used by treewalk and exposes it as a
// logr.Logger.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLevel enables logr verbosity up to V(2), which zapr maps to zap
// level -2.
const DebugLevel = zapcore.Level(-2)

// New returns a logger writing to stderr, and a function flushing it.
//
// debug enables per-directory and per-file logs. jsonFormat switches from the
// console encoder to JSON, for runs whose stdout is machine-readable.
func New(debug, jsonFormat bool) (logr.Logger, func(), error) {
	cfg := zap.NewDevelopmentConfig()
	if jsonFormat {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	if debug {
		cfg.Level = zap.NewAtomicLevelAt(DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("building logger: %w", err)
	}

	return zapr.NewLogger(zapLog), func() { _ = zapLog.Sync() }, nil
}

// FromZap wraps an existing zap logger, e.g. one built by zaptest.
func FromZap(zapLog *zap.Logger) logr.Logger {
	return zapr.NewLogger(zapLog)
}
