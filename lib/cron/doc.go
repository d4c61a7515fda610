// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses cron expressions for the report scheduler and
// computes the next occurrence after a given time.
//
//	┌───────────── minute (0-59)
//	│ ┌───────────── hour (0-23)
//	│ │ ┌───────────── day of month (1-31)
//	│ │ │ ┌───────────── month (1-12)
//	│ │ │ │ ┌───────────── day of week (0-7, 0 and 7 are Sunday)
//	│ │ │ │ │
//	* * * * *
//
// Fields accept single values, ranges (1-5), lists (1,3,5), steps
// (*/15, 1-30/5) and the wildcard. The descriptors @hourly, @daily,
// @midnight, @weekly, @monthly, @yearly and @annually are shorthand for
// their 5-field forms.
//
// When both day-of-month and day-of-week are restricted, a day matches
// if either field matches, as in Vixie cron.
//
// All times are UTC. There is no seconds field and no named days or
// months.
package cron
