// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package worldlog builds the zap.Logger threaded through every pipeline
// stage, following the same construction style as mk48's server logging
// (a console encoder for interactive runs, JSON for non-interactive ones).
package worldlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger. verbose enables debug-level output; json
// switches from the human-readable console encoder (the default, suited
// to a CLI run attached to a terminal) to structured JSON (suited to
// piping logs into a file or collector).
func New(verbose, json bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	if json {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// Nop returns a logger that discards everything, used in tests and by
// components that received no logger (*zap.Logger being nil is valid
// everywhere it's threaded through, per each package's own nil-safety).
func Nop() *zap.Logger {
	return zap.NewNop()
}
