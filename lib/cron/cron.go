// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule is a parsed cron expression. The zero value matches nothing;
// use Parse to create one.
type Schedule struct {
	expression  string
	minutes     bitset64
	hours       bitset64
	daysOfMonth bitset64
	months      bitset64
	daysOfWeek  bitset64

	// restrictedDays is true when both day fields are non-wildcard, in
	// which case a day matches if either field matches.
	restrictedDays bool
}

type bitset64 uint64

func (b bitset64) has(value int) bool { return b&(1<<uint(value)) != 0 }
func (b *bitset64) set(value int)     { *b |= 1 << uint(value) }

// descriptors maps the @-shortcuts to their 5-field equivalents.
var descriptors = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@midnight": "0 0 * * *",
	"@hourly":   "0 * * * *",
}

// Parse parses a 5-field cron expression ("minute hour day-of-month
// month day-of-week") or one of the descriptors @yearly, @annually,
// @monthly, @weekly, @daily, @midnight, @hourly. Day-of-week accepts
// 0-7 with both 0 and 7 meaning Sunday.
func Parse(expression string) (Schedule, error) {
	trimmed := strings.TrimSpace(expression)
	source := trimmed
	if strings.HasPrefix(trimmed, "@") {
		expanded, ok := descriptors[strings.ToLower(trimmed)]
		if !ok {
			return Schedule{}, fmt.Errorf("cron: unknown descriptor %q", trimmed)
		}
		source = expanded
	}

	fields := strings.Fields(source)
	if len(fields) != 5 {
		return Schedule{}, fmt.Errorf("cron: expected 5 fields, got %d", len(fields))
	}

	schedule := Schedule{expression: trimmed}
	specs := []struct {
		name     string
		target   *bitset64
		min, max int
	}{
		{"minute", &schedule.minutes, 0, 59},
		{"hour", &schedule.hours, 0, 23},
		{"day-of-month", &schedule.daysOfMonth, 1, 31},
		{"month", &schedule.months, 1, 12},
		{"day-of-week", &schedule.daysOfWeek, 0, 7},
	}
	for i, spec := range specs {
		bits, err := parseField(fields[i], spec.min, spec.max)
		if err != nil {
			return Schedule{}, fmt.Errorf("cron: %s field: %w", spec.name, err)
		}
		*spec.target = bits
	}

	if schedule.daysOfWeek.has(7) {
		schedule.daysOfWeek.set(0)
	}
	schedule.restrictedDays = !isWildcard(fields[2]) && !isWildcard(fields[4])
	return schedule, nil
}

// String returns the expression the schedule was parsed from.
func (s Schedule) String() string { return s.expression }

// Next returns the earliest time strictly after t that matches the
// schedule, truncated to the minute. All computation is in UTC.
//
// Returns an error if nothing matches within four years of t, which
// happens only for impossible dates like February 30.
func (s Schedule) Next(t time.Time) (time.Time, error) {
	t = t.UTC().Truncate(time.Minute).Add(time.Minute)
	limit := t.AddDate(4, 0, 0)

	for t.Before(limit) {
		if !s.months.has(int(t.Month())) {
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
			continue
		}
		if !s.dayMatches(t) {
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
			continue
		}
		if !s.hours.has(t.Hour()) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, time.UTC)
			continue
		}
		if !s.minutes.has(t.Minute()) {
			t = t.Add(time.Minute)
			continue
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("cron: %q has no matching time within 4 years of %s",
		s.expression, t.Format(time.RFC3339))
}

func (s Schedule) dayMatches(t time.Time) bool {
	dayOfMonth := s.daysOfMonth.has(t.Day())
	dayOfWeek := s.daysOfWeek.has(int(t.Weekday()))
	if s.restrictedDays {
		return dayOfMonth || dayOfWeek
	}
	return dayOfMonth && dayOfWeek
}

func isWildcard(field string) bool {
	return field == "*" || strings.HasPrefix(field, "*/")
}

// parseField parses comma-separated terms into a bitset.
func parseField(field string, minimum, maximum int) (bitset64, error) {
	var result bitset64
	for _, term := range strings.Split(field, ",") {
		bits, err := parseTerm(term, minimum, maximum)
		if err != nil {
			return 0, err
		}
		result |= bits
	}
	if result == 0 {
		return 0, fmt.Errorf("field %q produces empty set", field)
	}
	return result, nil
}

// parseTerm parses *, */N, V, V-V, or V-V/N.
func parseTerm(term string, minimum, maximum int) (bitset64, error) {
	rangeExpression, stepExpression, hasStep := strings.Cut(term, "/")
	step := 1
	if hasStep {
		parsed, err := strconv.Atoi(stepExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid step %q: %w", stepExpression, err)
		}
		if parsed <= 0 {
			return 0, fmt.Errorf("step must be positive, got %d", parsed)
		}
		step = parsed
	}

	var start, end int
	switch {
	case rangeExpression == "*":
		start, end = minimum, maximum
	case strings.Contains(rangeExpression, "-"):
		startText, endText, _ := strings.Cut(rangeExpression, "-")
		var err error
		if start, err = strconv.Atoi(startText); err != nil {
			return 0, fmt.Errorf("invalid range start %q: %w", startText, err)
		}
		if end, err = strconv.Atoi(endText); err != nil {
			return 0, fmt.Errorf("invalid range end %q: %w", endText, err)
		}
		if start > end {
			return 0, fmt.Errorf("range start %d > end %d", start, end)
		}
	default:
		value, err := strconv.Atoi(rangeExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q: %w", rangeExpression, err)
		}
		start, end = value, value
	}

	if start < minimum || end > maximum {
		return 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d", minimum, maximum, start, end)
	}

	var result bitset64
	for value := start; value <= end; value += step {
		result.set(value)
	}
	return result, nil
}
