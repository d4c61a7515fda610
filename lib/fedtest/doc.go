// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fedtest asks a Matrix federation tester which homeserver
// software version a server runs.
//
// [Client.Query] is total: every call returns exactly one of a real
// version string, [VersionTimeout], [VersionOffline] or [VersionError].
// Failures are logged at warn level and folded into those markers so a
// single unreachable server never aborts a report. There are no retries
// and no caching; each call makes one GET request.
//
// The query URL is the configured base URL with the server name
// appended verbatim. Server names are validated by lib/ref before they
// reach this package, which keeps that concatenation well-formed.
package fedtest
