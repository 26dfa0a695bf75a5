package console

import (
	"charm.land/lipgloss/v2"
)

// Styles used by the console view.
type Styles struct {
	Prompt    lipgloss.Style
	Echo      lipgloss.Style
	Result    lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Candidate lipgloss.Style
	Current   lipgloss.Style
}

// DefaultStyles returns the colored palette, or plain styles when noColor is
// set.
func DefaultStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{plain, plain, plain, plain, plain, plain, plain.Underline(true)}
	}
	return Styles{
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		Echo:      lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Result:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		Candidate: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Current:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("60")),
	}
}
