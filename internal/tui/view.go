package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/blossom/internal/insight"
)

const maxPanelWidth = 72

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.viewHeader(), "", m.clock.View(), ""}
	if panel := m.viewInsight(); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, "", m.help.View(m.keys))

	return m.petals.Frame(lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (m Model) viewHeader() string {
	title := headerStyle.Render("✿  " + m.target.Label() + "  ✿")
	subtitle := ""
	if !m.clock.Remaining().IsComplete {
		subtitle = subtitleStyle.Render("距離 DSE ICT，還剩餘")
	}
	return lipgloss.JoinVertical(lipgloss.Center, title, subtitle)
}

func (m Model) panelWidth() int {
	width := maxPanelWidth
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	if width < 20 {
		width = 20
	}
	return width
}

func (m Model) viewInsight() string {
	width := m.panelWidth()
	inner := width - panelStyle.GetHorizontalFrameSize()

	if m.Loading() {
		return panelStyle.Width(width).Render(
			fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Gathering today's insight...")),
		)
	}
	if m.insight == nil {
		return ""
	}

	record := m.insight.Record
	body := lipgloss.JoinVertical(lipgloss.Left,
		quoteStyle.Width(inner).Render("“"+record.Quote+"”"),
		"",
		authorStyle.Render("— "+record.Author),
		mutedStyle.Render(strings.Repeat("─", inner)),
		factHeadingStyle.Render("春之絮語"),
		factStyle.Width(inner).Render(record.Fact),
		"",
		sourceStyle.Render(sourceLabel(m.insight.Source)),
	)
	return panelStyle.Width(width).Render(body)
}

func sourceLabel(source insight.Source) string {
	switch source {
	case insight.SourceCache:
		return "cached today · r to regenerate"
	case insight.SourceNetwork:
		return "fresh from Gemini · r to regenerate"
	default:
		return "offline fallback · r to retry"
	}
}
