// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package worldlog

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewVerboseEnablesDebugLevel(t *testing.T) {
	logger, err := New(true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled when verbose is true")
	}
}

func TestNewNonVerboseDisablesDebugLevel(t *testing.T) {
	logger, err := New(false, false)
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be disabled when verbose is false")
	}
}

func TestNopDiscardsWithoutPanicking(t *testing.T) {
	logger := Nop()
	logger.Info("should be discarded")
}
