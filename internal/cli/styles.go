package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Underline(true)

	PositiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	NegativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	AchievementStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")).
				Bold(true)
)

// Bar renders fraction (clamped to 0..1) as a fixed-width text progress bar.
func Bar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return PositiveStyle.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", width-filled))
}
