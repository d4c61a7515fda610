// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package versiontable renders homeserver version reports.
//
// [Render] produces the Markdown-style pipe table posted to Matrix.
// Each version cell is a link to the federation tester report for that
// host, and every column is padded to the widest visible cell so the
// table lines up in a monospace <pre> block. [Preview] renders the same
// records as a styled terminal table for dry runs.
package versiontable
