// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
)

// newLogger builds the process logger. Format "auto" picks the text
// handler when output is a terminal and the JSON handler otherwise.
func newLogger(output io.Writer, isTerminal bool, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	options := &slog.HandlerOptions{Level: slogLevel}

	useText := false
	switch format {
	case "text":
		useText = true
	case "json":
	case "auto", "":
		useText = isTerminal
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	if useText {
		return slog.New(slog.NewTextHandler(output, options)), nil
	}
	return slog.New(slog.NewJSONHandler(output, options)), nil
}
