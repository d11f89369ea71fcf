package petals

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/blossom/internal/constants"
)

// Glyphs from smallest to largest petal
var glyphs = []string{"·", "•", "✿", "❀"}

var petalStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("218")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("175")),
}

// TickMsg advances the animation by one frame
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(constants.PetalInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Petal is one falling glyph. Column is a fraction of the width so petals
// keep their spread across resizes.
type Petal struct {
	Column float64
	Row    float64
	Speed  float64 // rows per frame
	Drift  float64 // horizontal sway amplitude in cells
	Phase  float64
	Delay  int // frames before the petal starts falling
	Size   int // index into glyphs
	Style  int
}

type Model struct {
	Petals  []Petal
	Enabled bool
	rng     *rand.Rand
	frame   int
	width   int
	height  int
	ticking bool
}

// New scatters count petals using a deterministic source when seed is non-zero
func New(count int, seed uint64, enabled bool) Model {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	m := Model{
		Enabled: enabled,
		ticking: enabled,
		rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	m.Petals = make([]Petal, count)
	for i := range m.Petals {
		m.Petals[i] = m.spawn()
		m.Petals[i].Row = -1
	}
	return m
}

// spawn returns a fresh petal above the top edge. Fall times land between
// roughly 10 and 20 seconds on a 40-row terminal at the default frame rate.
func (m *Model) spawn() Petal {
	return Petal{
		Column: m.rng.Float64(),
		Row:    -1,
		Speed:  0.3 + m.rng.Float64()*0.3,
		Drift:  1 + m.rng.Float64()*2,
		Phase:  m.rng.Float64() * 2 * math.Pi,
		Delay:  m.rng.IntN(34), // up to ~5s
		Size:   m.rng.IntN(len(glyphs)),
		Style:  m.rng.IntN(len(petalStyles)),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	if !m.Enabled {
		return nil
	}
	return tick()
}

// Toggle switches the animation on or off, restarting the tick when needed
func (m Model) Toggle() (Model, tea.Cmd) {
	m.Enabled = !m.Enabled
	if m.Enabled && !m.ticking {
		m.ticking = true
		return m, tick()
	}
	return m, nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg.(type) {
	case TickMsg:
		if !m.Enabled {
			m.ticking = false
			return m, nil
		}
		m.ticking = true
		m.Step()
		return m, tick()
	}
	return m, nil
}

// Step advances every petal by one frame, respawning those past the bottom
func (m *Model) Step() {
	m.frame++
	for i := range m.Petals {
		p := &m.Petals[i]
		if p.Delay > 0 {
			p.Delay--
			continue
		}
		p.Row += p.Speed
		if m.height > 0 && p.Row >= float64(m.height) {
			next := m.spawn()
			next.Delay = 0
			*p = next
		}
	}
}

// cell returns the screen position of p for the current frame
func (m Model) cell(p Petal) (int, int, bool) {
	if p.Delay > 0 || p.Row < 0 || m.width <= 0 {
		return 0, 0, false
	}
	sway := p.Drift * math.Sin(p.Phase+float64(m.frame)/8)
	col := int(math.Round(p.Column*float64(m.width-1) + sway))
	row := int(p.Row)
	if col < 0 || col >= m.width || row >= m.height {
		return 0, 0, false
	}
	return col, row, true
}

// Frame centers content on a width x height canvas and draws petals in
// the space around it. Petals never overwrite content.
func (m Model) Frame(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	blockWidth := lipgloss.Width(content)
	blockHeight := len(lines)
	top := max(0, (m.height-blockHeight)/2)
	left := max(0, (m.width-blockWidth)/2)

	grid := make(map[[2]int]string)
	if m.Enabled {
		for _, p := range m.Petals {
			if col, row, ok := m.cell(p); ok {
				grid[[2]int{row, col}] = petalStyles[p.Style].Render(glyphs[p.Size])
			}
		}
	}

	span := func(row, from, to int) string {
		var b strings.Builder
		for col := from; col < to; col++ {
			if g, ok := grid[[2]int{row, col}]; ok {
				b.WriteString(g)
			} else {
				b.WriteByte(' ')
			}
		}
		return b.String()
	}

	out := make([]string, 0, max(m.height, blockHeight))
	for row := 0; row < max(m.height, blockHeight); row++ {
		i := row - top
		if i < 0 || i >= blockHeight {
			out = append(out, span(row, 0, m.width))
			continue
		}
		line := lines[i]
		pad := blockWidth - lipgloss.Width(line)
		right := left + blockWidth
		out = append(out, span(row, 0, left)+line+strings.Repeat(" ", pad)+span(row, right, m.width))
	}
	return strings.Join(out, "\n")
}
