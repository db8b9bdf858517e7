// ABOUTME: Terminal agenda view using bubbletea framework
// ABOUTME: Renders the unified timeline grouped by day with periodic background refresh
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
)

// refreshInterval is how often the agenda re-fetches in the background.
const refreshInterval = 5 * time.Minute

// AgendaProvider is the slice of the sync coordinator the agenda needs.
type AgendaProvider interface {
	Snapshot(ctx context.Context, userID string) (*sync.Snapshot, error)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(7)

	ownerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	// colorKeyStyles maps the normalized event color keys to terminal colors.
	colorKeyStyles = map[string]lipgloss.Style{
		"violet": lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		"blue":   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"amber":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"green":  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"rose":   lipgloss.NewStyle().Foreground(lipgloss.Color("211")),
		"slate":  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func kindStyle(colorKey string) lipgloss.Style {
	if s, ok := colorKeyStyles[colorKey]; ok {
		return s
	}
	return colorKeyStyles["slate"]
}

// refreshMsg carries the result of a background snapshot.
type refreshMsg struct {
	snapshot *sync.Snapshot
	err      error
}

// tickMsg fires the periodic refresh.
type tickMsg time.Time

// Model is the agenda bubbletea model.
type Model struct {
	coord  AgendaProvider
	userID string

	events  []models.NormalizedEvent
	stale   bool
	warning string
	err     error
	loading bool
	spin    spinner.Model

	width  int
	height int
}

// NewModel creates the agenda model.
func NewModel(coord AgendaProvider, userID string) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	return Model{
		coord:   coord,
		userID:  userID,
		loading: true,
		spin:    spin,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd(), m.spin.Tick)
}

func (m Model) refreshCmd() tea.Cmd {
	coord, userID := m.coord, m.userID
	return func() tea.Msg {
		snap, err := coord.Snapshot(context.Background(), userID)
		return refreshMsg{snapshot: snap, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Quitting tears the program down, which cancels the pending tick
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, tea.Batch(m.refreshCmd(), m.spin.Tick)
		}

	case refreshMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.events = msg.snapshot.Events
		m.stale = msg.snapshot.Stale
		m.warning = ""
		if msg.snapshot.Warning != nil {
			m.warning = msg.snapshot.Warning.String()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Label Agenda"))
	s.WriteString("\n")

	switch {
	case m.loading && len(m.events) == 0:
		s.WriteString(m.spin.View() + " Loading agenda...\n")
	case m.err != nil:
		s.WriteString(warningStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	case len(m.events) == 0:
		s.WriteString("Nothing scheduled.\n")
	default:
		s.WriteString(m.renderTimeline())
	}

	if m.stale {
		s.WriteString("\n")
		s.WriteString(staleStyle.Render("⚠ Showing cached remote events; Google Calendar is unreachable"))
		s.WriteString("\n")
	} else if m.warning != "" {
		s.WriteString("\n")
		s.WriteString(warningStyle.Render("⚠ " + m.warning))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("r: refresh • q: quit"))
	return s.String()
}

// renderTimeline groups the (already date-sorted) events under day headers.
func (m Model) renderTimeline() string {
	var s strings.Builder

	currentDay := ""
	for _, ev := range m.events {
		if ev.Date != currentDay {
			if currentDay != "" {
				s.WriteString("\n")
			}
			currentDay = ev.Date
			s.WriteString(dayHeaderStyle.Render(formatDay(ev.Date)))
			s.WriteString("\n")
		}
		s.WriteString(renderEvent(ev))
		s.WriteString("\n")
	}

	return s.String()
}

func renderEvent(ev models.NormalizedEvent) string {
	var row strings.Builder

	clock := ev.Time
	if clock == "" {
		clock = "all-day"
	}
	row.WriteString(timeStyle.Render(clock))
	row.WriteString(" ")
	row.WriteString(kindStyle(ev.ColorKey).Render("● " + ev.Title))
	if ev.OwnerLabel != "" {
		row.WriteString(ownerStyle.Render("  " + ev.OwnerLabel))
	}

	return row.String()
}

func formatDay(date string) string {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Format("Monday, Jan 2")
	}
	return date
}
