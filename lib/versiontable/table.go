// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package versiontable

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/bureau-foundation/hsbot/lib/ref"
)

const (
	hostHeader    = "Homeserver"
	versionHeader = "Version"
)

// Record is one report row.
type Record struct {
	Host    ref.ServerName
	Version string
}

// Sort orders records by host, ascending.
func Sort(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return a.Host.Compare(b.Host)
	})
}

// Render returns the report table for records, in the order given:
//
//	| Homeserver  | Version |
//	| ----------- | ------- |
//	| example.org | <a href="PREFIXexample.org">1.98.0</a>  |
//
// Column width is the display width of the widest cell, counting only
// the visible version text, never the link markup. Every row, the last
// included, ends with a newline. An empty slice renders the header and
// separator rows only.
func Render(records []Record, linkPrefix string) string {
	hostWidth := runewidth.StringWidth(hostHeader)
	versionWidth := runewidth.StringWidth(versionHeader)
	for _, record := range records {
		hostWidth = max(hostWidth, runewidth.StringWidth(record.Host.String()))
		versionWidth = max(versionWidth, runewidth.StringWidth(record.Version))
	}

	var builder strings.Builder
	writeRow(&builder, pad(hostHeader, hostWidth), pad(versionHeader, versionWidth))
	writeRow(&builder, strings.Repeat("-", hostWidth), strings.Repeat("-", versionWidth))
	for _, record := range records {
		host := record.Host.String()
		link := `<a href="` + linkPrefix + host + `">` + record.Version + `</a>`
		writeRow(&builder, pad(host, hostWidth), link+padding(record.Version, versionWidth))
	}
	return builder.String()
}

func writeRow(builder *strings.Builder, host, version string) {
	builder.WriteString("| ")
	builder.WriteString(host)
	builder.WriteString(" | ")
	builder.WriteString(version)
	builder.WriteString(" |\n")
}

func pad(text string, width int) string {
	return text + padding(text, width)
}

func padding(text string, width int) string {
	return strings.Repeat(" ", max(0, width-runewidth.StringWidth(text)))
}
