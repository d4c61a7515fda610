// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the hsbot configuration file.
//
// Configuration comes from exactly one file, named by either the
// HSBOT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no discovery and no search path. The
// format follows the file extension: .json and .jsonc are decoded as
// JSON with comments and trailing commas allowed, anything else as
// YAML. Unknown keys are rejected in both formats.
//
// Variable expansion (${VAR} and ${VAR:-default}) is applied to
// homeserver.password_file only. No environment variable overrides a
// config value.
//
// [Config.Validate] reports every problem at once so a broken file can
// be fixed in one pass.
package config
