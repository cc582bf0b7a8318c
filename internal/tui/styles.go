package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

var (
	Cream      = lipgloss.Color("#FFF8E7")
	Chocolate  = lipgloss.Color("#5D3A1A")
	Strawberry = lipgloss.Color("#E75480")
	Mint       = lipgloss.Color("#3EB489")
	Muted      = lipgloss.Color("#8A8A8A")
	Danger     = lipgloss.Color("#E53935")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cream).
			Background(Chocolate).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Chocolate).
			MarginTop(1)

	activeSectionStyle = sectionStyle.
				Foreground(Strawberry).
				Underline(true)

	cursorStyle   = lipgloss.NewStyle().Foreground(Strawberry).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(Mint)
	priceStyle    = lipgloss.NewStyle().Foreground(Muted)
	mutedStyle    = lipgloss.NewStyle().Foreground(Muted)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Chocolate).
			Padding(0, 1).
			MarginLeft(2)

	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(Chocolate)
)

func noticeStyle(level customizer.Level) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch level {
	case customizer.LevelSuccess:
		return base.Foreground(Cream).Background(Mint)
	case customizer.LevelError:
		return base.Foreground(Cream).Background(Danger)
	default:
		return base.Foreground(Chocolate).Background(Cream)
	}
}
