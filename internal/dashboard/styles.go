package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wakeboard/wakeboard/internal/system"
)

// Dashboard color palette
const (
	ColorOK      = lipgloss.Color("#39FF14") // Neon green
	ColorFailed  = lipgloss.Color("#FF0055") // Hot red-pink
	ColorUnknown = lipgloss.Color("#00AAFF") // Electric blue
	ColorBorder  = lipgloss.Color("#2A2A4A")
	ColorAccent  = lipgloss.Color("#FF2E97") // Neon pink
	ColorMuted   = lipgloss.Color("#6B6B8D")
	ColorText    = lipgloss.Color("#FFFFFF")
	ColorSubtext = lipgloss.Color("#B4B4D0")
	ColorWarning = lipgloss.Color("#FFAA00")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	SystemNameStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(ColorSubtext)

	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ActionKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ActionNameStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	NoticePositiveStyle = lipgloss.NewStyle().
				Foreground(ColorOK)

	NoticeWarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)
)

// State indicator characters
const (
	GlyphOK      = "◉"
	GlyphFailed  = "◌"
	GlyphUnknown = "◐"
)

// StateStyle returns the foreground style for a system state.
func StateStyle(s system.State) lipgloss.Style {
	switch s {
	case system.StateOK:
		return lipgloss.NewStyle().Foreground(ColorOK)
	case system.StateFailed:
		return lipgloss.NewStyle().Foreground(ColorFailed)
	default:
		return lipgloss.NewStyle().Foreground(ColorUnknown)
	}
}

// StateGlyph returns the indicator character for a system state.
func StateGlyph(s system.State) string {
	switch s {
	case system.StateOK:
		return GlyphOK
	case system.StateFailed:
		return GlyphFailed
	default:
		return GlyphUnknown
	}
}
