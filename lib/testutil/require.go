// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// T is the subset of testing.TB the helpers need.
type T interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, or fails the test if
// none arrives within timeout or ch is closed.
//
//	when := testutil.RequireReceive(t, runs, 5*time.Second, "report for %s", slot)
func RequireReceive[V any](t T, ch <-chan V, timeout time.Duration, format string, args ...any) V {
	t.Helper()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed while waiting for %s", fmt.Sprintf(format, args...))
		}
		return value
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for %s", timeout, fmt.Sprintf(format, args...))
	}
	panic("unreachable")
}

// RequireClosed waits until ch is closed or yields a value.
func RequireClosed[V any](t T, ch <-chan V, timeout time.Duration, format string, args ...any) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for %s", timeout, fmt.Sprintf(format, args...))
	}
}
