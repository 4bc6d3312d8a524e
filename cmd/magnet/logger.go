// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/hypomodel/magnet/config"
)

// LevelTrace is below Debug: each param set by the parameter sets is logged
const LevelTrace = slog.LevelDebug - 4

var levelNames = map[string]slog.Level{
	"info":  slog.LevelInfo,
	"debug": slog.LevelDebug,
	"trace": LevelTrace,
}

// ParseLevel returns the level for a logging.level value, info if unknown
func ParseLevel(s string) slog.Level {
	if lvl, ok := levelNames[strings.ToLower(s)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// traceLabel names LevelTrace in the output, which slog would print as DEBUG-4
func traceLabel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

// NewLogger returns the command logger for the logging configuration,
// writing text lines to w
func NewLogger(lc config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(lc.Level), ReplaceAttr: traceLabel}
	return slog.New(slog.NewTextHandler(w, opts))
}
