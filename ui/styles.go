package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette
var (
	DraculaForeground = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "13", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "6", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	DraculaOrange     = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}

	// Header
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true).
				Padding(0, 1)
	ButtonStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DraculaPurple).
			Padding(0, 1)

	// Panel sections
	TitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)
	SectionStyle = lipgloss.NewStyle().
			Foreground(DraculaPurple).
			Bold(true).
			MarginTop(1)
	FocusedSectionStyle = SectionStyle.
				Foreground(DraculaPink).
				Underline(true)
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Bold(true)

	// Rows
	RowStyle = lipgloss.NewStyle().
			Foreground(DraculaForeground)
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	PriceStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen)
	PendingStyle = lipgloss.NewStyle().
			Foreground(DraculaOrange).
			Italic(true)
	ActionStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed)

	// Sign-in screen
	NoticeStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Padding(1, 2)
)
