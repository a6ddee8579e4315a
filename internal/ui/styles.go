package ui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7D56F4")
	accent  = lipgloss.Color("#04B575")
	errCol  = lipgloss.Color("#FF5F87")
	muted   = lipgloss.Color("#888888")
	text    = lipgloss.Color("#FFFFFF")

	navStyle = lipgloss.NewStyle().
			Foreground(text).
			Background(primary).
			Padding(0, 2).
			Bold(true)

	navNameStyle = lipgloss.NewStyle().
			Foreground(text).
			Background(primary).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(muted).
			MarginLeft(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(text)

	linkStyle = lipgloss.NewStyle().
			Foreground(accent).
			Underline(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(muted).
			Faint(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(text).
			Background(errCol).
			Padding(1, 3).
			Bold(true).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errCol).
			Bold(true).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1).
			Faint(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)
)
