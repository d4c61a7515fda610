// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable Matrix identifiers for
// hsbot: user IDs, room IDs, and server names.
//
// All constructors validate their inputs and return errors for invalid
// values. Once constructed, a ref is immutable and its String method
// returns the canonical Matrix form:
//   - [UserID]: @localpart:server
//   - [RoomID]: !opaque:server
//   - [ServerName]: server (optionally with :port)
//
// [MemberServer] is the lenient entry point used on room membership
// listings: identifiers that are not user IDs yield no server instead
// of an error, so a single odd membership key never aborts a report.
//
// JSON and YAML marshaling use the canonical form via
// encoding.TextMarshaler and encoding.TextUnmarshaler.
package ref
