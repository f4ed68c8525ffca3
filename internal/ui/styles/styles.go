// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions and styling so tables,
// result symbols and progress output look the same everywhere.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme. Init replaces them.
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = DefaultTheme.Primary

	// Accent is the highlight color (pink)
	Accent color.Color = DefaultTheme.Accent

	// Success is used for checkmarks and positive outcomes (green)
	Success color.Color = DefaultTheme.Success

	// Error is used for failures (red)
	Error color.Color = DefaultTheme.Error

	// Muted is used for skipped/inactive text (gray)
	Muted color.Color = DefaultTheme.Muted

	// Normal is the standard text color (light gray)
	Normal color.Color = DefaultTheme.Normal

	// Warning is used for warnings (orange)
	Warning color.Color = DefaultTheme.Warning
)

// Common styles
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// PrimaryStyle applies the primary color
	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	// SuccessStyle applies the success color
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	// ErrorStyle applies the error color
	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	// MutedStyle applies the muted color
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	// NormalStyle applies the normal text color
	NormalStyle = lipgloss.NewStyle().Foreground(Normal)

	// WarningStyle applies the warning color
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
)
