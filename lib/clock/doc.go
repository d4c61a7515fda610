// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction.
//
// The Matrix session derives transaction IDs from the clock, and the
// scheduler in cmd/hsbot sleeps until the next cron occurrence with
// Clock.After. In production, Real() provides the standard library
// behavior. In tests, Fake() provides a clock that advances only when
// Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go scheduler.run(ctx) // calls c.After(...)
//	c.WaitForTimers(1)    // wait for the goroutine to register
//	c.Advance(time.Hour)  // fire deterministically
//
// WaitForTimers removes the race between a goroutine registering a
// timer and the test advancing time.
package clock
