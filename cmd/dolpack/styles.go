// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Terminal palette. Each color has a light and a dark variant; lipgloss picks
// one from the detected background and drops color entirely under NO_COLOR.
var (
	accent = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	muted  = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	green  = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	red    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	amber  = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	blue   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle    = lipgloss.NewStyle().Foreground(green)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
	warnStyle  = lipgloss.NewStyle().Foreground(amber)
	// keyStyle marks field names and archive paths.
	keyStyle = lipgloss.NewStyle().Foreground(blue)

	tableHeaderStyle = titleStyle.Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)
