package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/tui/components/clock"
	"github.com/julianstephens/blossom/internal/tui/components/petals"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clock.SetWidth(msg.Width)
		m.petals.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.fetcher.Cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.pending++
			return m, m.fetchInsight(true)
		case key.Matches(msg, m.keys.Petals):
			m.petals, cmd = m.petals.Toggle()
			return m, cmd
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case clock.TickMsg:
		m.clock, cmd = m.clock.Update(msg)
		return m, cmd

	case petals.TickMsg:
		m.petals, cmd = m.petals.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case insightMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.result.Superseded {
			logger.Debug("Dropping superseded insight", "request_id", msg.result.RequestID)
			return m, nil
		}
		result := msg.result
		m.insight = &result
	}

	return m, nil
}
