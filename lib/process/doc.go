// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint error handler. It
// covers the one raw stderr write that happens before the structured
// logger exists: reporting the error returned by run() and exiting.
package process
