// Package theme holds the terminal palette and shared lipgloss styles.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary = lipgloss.Color("#6366F1") // indigo
	Accent  = lipgloss.Color("#F59E0B") // amber
	Success = lipgloss.Color("#10B981") // emerald
	Error   = lipgloss.Color("#EF4444") // red
	Text    = lipgloss.Color("#F1F5F9")
	TextDim = lipgloss.Color("#94A3B8")
	Border  = lipgloss.Color("#475569")
)

// Text styles.
var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Label   = lipgloss.NewStyle().Foreground(TextDim)
	Body    = lipgloss.NewStyle().Foreground(Text)
	Hint    = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Warning = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// Card frames a summary block.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Answer options. Correct and Incorrect also mark outcome status.
var (
	Option    = lipgloss.NewStyle().Foreground(Text)
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Bars.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Primary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)
