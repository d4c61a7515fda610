// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package versiontable

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const versionColumn = 1

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	markerStyle = cellStyle.Foreground(lipgloss.Color("#FF5555"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
)

// Preview renders records as a bordered terminal table. Failure markers
// such as [TIMEOUT] are highlighted. Colors are dropped automatically
// when the output is not a terminal.
func Preview(records []Record) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{record.Host.String(), record.Version})
	}

	styled := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(hostHeader, versionHeader).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == versionColumn && row >= 0 && row < len(rows) && isMarker(rows[row][col]) {
				return markerStyle
			}
			return cellStyle
		})
	return styled.Render()
}

// isMarker reports whether version is a bracketed failure marker
// rather than a real version string.
func isMarker(version string) bool {
	return strings.HasPrefix(version, "[") && strings.HasSuffix(version, "]")
}
