package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPurple = lipgloss.Color("#A855F7")
	ColorPink   = lipgloss.Color("#EC4899")
	ColorMuted  = lipgloss.Color("#94A3B8")
	ColorRed    = lipgloss.Color("#E06C75")
	ColorGreen  = lipgloss.Color("#98C379")
	ColorBorder = lipgloss.Color("#3F4451")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	GreetingStyle = lipgloss.NewStyle().
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	BreakPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPink).
			Padding(1, 2).
			Align(lipgloss.Center)

	CountdownStyle = lipgloss.NewStyle().
			Foreground(ColorPink).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)
)
