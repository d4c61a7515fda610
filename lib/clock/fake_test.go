// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfter(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		advance   time.Duration
		wantFired bool
	}{
		{"zero fires immediately", 0, 0, true},
		{"negative fires immediately", -time.Second, 0, true},
		{"before deadline", 5 * time.Second, 3 * time.Second, false},
		{"exact deadline", 5 * time.Second, 5 * time.Second, true},
		{"past deadline", 5 * time.Second, time.Hour, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clock := Fake(epoch)
			channel := clock.After(test.duration)
			clock.Advance(test.advance)

			fired := false
			select {
			case <-channel:
				fired = true
			default:
			}
			if fired != test.wantFired {
				t.Errorf("fired = %v, want %v", fired, test.wantFired)
			}
		})
	}
}

func TestFakeClockAfterReceivesAdvancedTime(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(time.Minute)
	clock.Advance(2 * time.Minute)

	want := epoch.Add(2 * time.Minute)
	if got := <-channel; !got.Equal(want) {
		t.Errorf("received %v, want %v", got, want)
	}
}

func TestFakeClockPendingCount(t *testing.T) {
	clock := Fake(epoch)
	clock.After(time.Second)
	clock.After(time.Minute)
	if got := clock.PendingCount(); got != 2 {
		t.Fatalf("PendingCount() = %d, want 2", got)
	}

	clock.Advance(time.Second)
	if got := clock.PendingCount(); got != 1 {
		t.Fatalf("PendingCount() after first deadline = %d, want 1", got)
	}

	clock.Advance(time.Minute)
	if got := clock.PendingCount(); got != 0 {
		t.Fatalf("PendingCount() after all deadlines = %d, want 0", got)
	}
}

func TestFakeClockSleepWithWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	var waitGroup sync.WaitGroup
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		clock.Sleep(10 * time.Second)
	}()

	clock.WaitForTimers(1)
	clock.Advance(10 * time.Second)
	waitGroup.Wait()
}

func TestFakeClockSleepNonPositiveReturns(t *testing.T) {
	clock := Fake(epoch)
	clock.Sleep(0)
	clock.Sleep(-time.Second)
	if got := clock.PendingCount(); got != 0 {
		t.Errorf("PendingCount() = %d, want 0", got)
	}
}

func TestRealClockAfterZero(t *testing.T) {
	select {
	case <-Real().After(0):
	case <-time.After(5 * time.Second):
		t.Fatal("Real().After(0) did not fire")
	}
}
