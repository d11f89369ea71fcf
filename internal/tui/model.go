package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/insight"
	"github.com/julianstephens/blossom/internal/tui/components/clock"
	"github.com/julianstephens/blossom/internal/tui/components/petals"
)

// InsightFetcher is the part of insight.Fetcher the TUI drives
type InsightFetcher interface {
	Fetch(ctx context.Context, force bool, daysLeft int) insight.Result
	Cancel()
}

type Options struct {
	Target     countdown.Target
	ShowPetals bool
	// Now defaults to time.Now
	Now func() time.Time
	// Seed fixes the petal layout; zero picks a random one
	Seed uint64
}

// insightMsg carries a finished fetch back into the update loop
type insightMsg struct {
	result insight.Result
}

type Model struct {
	ctx      context.Context
	fetcher  InsightFetcher
	target   countdown.Target
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	clock    clock.Model
	petals   petals.Model
	insight  *insight.Result
	pending  int // fetches dispatched but not yet answered
	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, fetcher InsightFetcher, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	return Model{
		ctx:     ctx,
		fetcher: fetcher,
		target:  opts.Target,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		clock:   clock.New(opts.Target, now()),
		petals:  petals.New(constants.PetalCount, opts.Seed, opts.ShowPetals),
		// Init dispatches the mount fetch
		pending: 1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.clock.Init(),
		m.petals.Init(),
		m.spinner.Tick,
		m.fetchInsight(false),
	)
}

// fetchInsight runs one fetch off the update loop
func (m Model) fetchInsight(force bool) tea.Cmd {
	ctx := m.ctx
	fetcher := m.fetcher
	daysLeft := m.clock.Remaining().Days
	return func() tea.Msg {
		return insightMsg{result: fetcher.Fetch(ctx, force, daysLeft)}
	}
}

// Loading reports whether a fetch is outstanding
func (m Model) Loading() bool {
	return m.pending > 0
}

// Insight returns the displayed result, if any
func (m Model) Insight() (insight.Result, bool) {
	if m.insight == nil {
		return insight.Result{}, false
	}
	return *m.insight, true
}
