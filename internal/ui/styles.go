// FILENAME: internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xkilldash9x/spingate/internal/config"
)

var (
	// -- Components --

	titleStyle = lipgloss.NewStyle().
			Foreground(config.ColorFocus).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(config.ColorSub).
			Padding(0, 1)

	// Status Bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("234")).
			Background(config.ColorSub)

	statusText = lipgloss.NewStyle().
			Inherit(statusBarStyle).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	okStyle   = lipgloss.NewStyle().Foreground(config.ColorOk).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(config.ColorErr).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(config.ColorWarn)
	subStyle  = lipgloss.NewStyle().Foreground(config.ColorSub)
)

// verdictStyle picks a style for a run's status cell.
func verdictStyle(fenceFailures uint64, aborted bool) lipgloss.Style {
	switch {
	case fenceFailures > 0:
		return errStyle
	case aborted:
		return warnStyle
	default:
		return okStyle
	}
}
