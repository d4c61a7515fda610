// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds channel helpers for tests that drive
// goroutines with a fake clock.
//
// [RequireReceive] and [RequireClosed] bound a channel wait with a real
// wall-clock timeout so a broken test fails instead of hanging. They
// are the only place tests read the real clock.
package testutil
