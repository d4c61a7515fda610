// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/hsbot/lib/clock"
	"github.com/bureau-foundation/hsbot/lib/cron"
)

// runScheduled calls report at every occurrence of schedule until ctx
// is cancelled. A failed report is logged and the loop waits for the
// next occurrence. Returns nil on cancellation, or an error if the
// schedule has no future occurrence.
func runScheduled(ctx context.Context, schedule cron.Schedule, clk clock.Clock, logger *slog.Logger, report func(context.Context) error) error {
	logger.Info("scheduled mode", "schedule", schedule.String())
	for {
		now := clk.Now()
		next, err := schedule.Next(now)
		if err != nil {
			return err
		}
		logger.Info("waiting for next report", "next_run", next)

		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return nil
		case <-clk.After(next.Sub(now)):
		}

		if err := report(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info("scheduler stopped during report")
				return nil
			}
			logger.Error("report run failed", "error", err)
			continue
		}
		logger.Info("report run complete", "scheduled_for", next)
	}
}
