package clock

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/countdown"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Width(10).
			Padding(1, 0).
			Align(lipgloss.Center)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("104")).
			Faint(true).
			Width(12).
			Align(lipgloss.Center)

	progressLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("61"))

	progressValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("147")).
				Bold(true)
)

const maxBarWidth = 60

// TickMsg advances the countdown once per second
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model renders the four countdown cards and the progress bar
type Model struct {
	target    countdown.Target
	at        time.Time
	remaining countdown.Remaining
	bar       progress.Model
	width     int
}

// New resolves the target instant once; it stays fixed for the life of the model
func New(target countdown.Target, now time.Time) Model {
	m := Model{
		target: target,
		at:     countdown.ComputeTarget(target, now),
		bar: progress.New(
			progress.WithGradient("#6366F1", "#EC4899"),
			progress.WithoutPercentage(),
		),
	}
	m.bar.Width = maxBarWidth
	m.SetTime(now)
	return m
}

// SetTime recomputes the remaining time as of now against the fixed target
func (m *Model) SetTime(now time.Time) {
	m.remaining = countdown.ComputeRemaining(m.at, now)
}

func (m *Model) SetWidth(width int) {
	m.width = width
	barWidth := width - 8
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.bar.Width = barWidth
}

// Remaining returns the time left as of the last tick
func (m Model) Remaining() countdown.Remaining {
	return m.remaining
}

// TargetTime returns the resolved target instant
func (m Model) TargetTime() time.Time {
	return m.at
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.SetTime(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	sections := []string{m.viewCards()}
	if !m.remaining.IsComplete {
		sections = append(sections, "", m.viewProgress())
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) viewCards() string {
	units := []struct {
		value int
		label string
	}{
		{m.remaining.Days, "Days"},
		{m.remaining.Hours, "Hours"},
		{m.remaining.Minutes, "Mins"},
		{m.remaining.Seconds, "Secs"},
	}

	cards := make([]string, 0, len(units))
	for _, u := range units {
		cards = append(cards, lipgloss.JoinVertical(lipgloss.Center,
			cardStyle.Render(countdown.Pad(u.value)),
			cardLabelStyle.Render(u.label),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) viewProgress() string {
	pct := countdown.Progress(m.remaining)
	third := m.bar.Width / 3

	labels := lipgloss.JoinHorizontal(lipgloss.Top,
		progressLabelStyle.Width(third).Align(lipgloss.Left).Render("Origin"),
		progressValueStyle.Width(m.bar.Width-2*third).Align(lipgloss.Center).Render(fmt.Sprintf("%.1f%% Completed", pct)),
		progressLabelStyle.Width(third).Align(lipgloss.Right).Render("Arrival"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, m.bar.ViewAs(pct/100), labels)
}
