package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wakeboard/wakeboard/internal/system"
)

// render assembles the full dashboard frame.
func (m Model) render() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("wakeboard"))
	b.WriteString("\n\n")

	systems := m.sched.Systems()
	for i, sys := range systems {
		b.WriteString(m.renderCard(sys, i == m.selected))
		b.WriteString("\n")
	}

	if notices := m.renderNotices(); notices != "" {
		b.WriteString(notices)
		b.WriteString("\n")
	}

	b.WriteString(FooterStyle.Render("j/k select · 1-9 run action · r refresh · x dismiss · q quit"))

	return b.String()
}

// renderCard draws one system: state line, verbose line, and, when
// selected, its numbered action list.
func (m Model) renderCard(sys *system.System, selected bool) string {
	snap := sys.Snapshot()

	var lines []string

	header := StateStyle(snap.State).Render(StateGlyph(snap.State)) + " " +
		SystemNameStyle.Render(snap.Name) + " " +
		StateStyle(snap.State).Render(snap.State.String())
	if snap.Description != "" {
		header += "  " + DescriptionStyle.Render(snap.Description)
	}
	lines = append(lines, header)

	if snap.StateVerbose != "" {
		lines = append(lines, VerboseStyle.Render(snap.StateVerbose))
	}
	if !snap.LastUpdate.IsZero() {
		lines = append(lines, VerboseStyle.Render("updated "+snap.LastUpdate.Format("15:04:05")))
	}

	if selected {
		if actions := sys.Actions(); len(actions) > 0 {
			lines = append(lines, m.renderActions(actions))
		}
	}

	card := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if selected {
		return CardSelectedStyle.Render(card)
	}
	return CardStyle.Render(card)
}

// renderActions lists the numbered actions for the selected system.
func (m Model) renderActions(actions []system.Action) string {
	parts := make([]string, 0, len(actions))
	for i, a := range actions {
		parts = append(parts,
			ActionKeyStyle.Render(fmt.Sprintf("[%d]", i+1))+" "+ActionNameStyle.Render(a.Name))
	}
	return strings.Join(parts, "  ")
}

// renderNotices draws the feed: warnings first, then transient notices.
func (m Model) renderNotices() string {
	notices := m.feed.Active()
	if len(notices) == 0 {
		return ""
	}

	var lines []string
	for _, n := range notices {
		switch {
		case n.Persistent:
			lines = append(lines, NoticeWarnStyle.Render("! "+n.Text))
		case n.Positive:
			lines = append(lines, NoticePositiveStyle.Render("✓ "+n.Text))
		default:
			lines = append(lines, NoticeStyle.Render("· "+n.Text))
		}
	}
	return strings.Join(lines, "\n")
}
