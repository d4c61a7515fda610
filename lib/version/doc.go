// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the hsbot binary.
//
// [Version], [GitCommit], [GitDirty] and [BuildTime] are injected with
// -ldflags -X at release build time. When they are not injected (a
// plain go build or go install), [Info] falls back to the VCS stamp
// the Go toolchain embeds in the binary.
//
// [Info] is the --version output. [UserAgent] is the User-Agent header
// both HTTP clients send, so homeserver and federation tester operators
// can identify the bot in their access logs.
package version
