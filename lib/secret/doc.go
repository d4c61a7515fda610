// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds the bot's password and access token in memory
// that is locked against swap, excluded from core dumps, and zeroed on
// close.
//
// [Buffer] allocates outside the Go heap via mmap(MAP_ANONYMOUS), so
// the garbage collector never copies the secret. Constructors:
//
//   - [New] -- zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeros the source
//   - [NewFromString] -- convenience for tests and config values
//   - [ReadFromPath] -- password files, stdin, or an interactive prompt
//
// [Buffer.String] makes a short-lived heap copy for JSON request bodies
// and HTTP headers. After Close, any access panics. Close is idempotent.
package secret
