package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/parser"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be refreshed.
type refreshMsg struct{}

// AgendaLoader loads the agenda of one day.
type AgendaLoader func(ctx context.Context, day parser.DayRange) (*model.Agenda, error)

// AgendaModel is the bubbletea model for the agenda dashboard.
type AgendaModel struct {
	// Data
	agenda *model.Agenda
	day    parser.DayRange
	load   AgendaLoader
	now    func() time.Time

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Load            AgendaLoader
	Day             parser.DayRange
	RefreshInterval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewAgendaModel creates a new agenda model.
func NewAgendaModel(config DashboardConfig) *AgendaModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	clock := config.Now
	config.Now = func() time.Time { return model.WallClock(clock()) }
	if config.Day.Start.IsZero() {
		config.Day, _ = parser.ParseDay("", config.Now())
	}

	return &AgendaModel{
		load:            config.Load,
		day:             config.Day,
		now:             config.Now,
		refreshInterval: config.RefreshInterval,
	}
}

// Init initializes the model.
func (m *AgendaModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.refreshCmd(),
	)
}

// Update handles messages and updates the model.
func (m *AgendaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && m.now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *AgendaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.loadData()
		m.setMessage("Refreshed", time.Second)
		return m, nil

	case "left", "h":
		m.shiftDay(-1)
		return m, nil

	case "right", "l":
		m.shiftDay(1)
		return m, nil

	case "t":
		m.day, _ = parser.ParseDay("", m.now())
		m.loadData()
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m *AgendaModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	if m.agenda != nil {
		now := m.now()
		sections = append(sections, NewNextComponent(m.agenda, now, m.width).View())
		sections = append(sections, NewAgendaComponent(m.agenda, now, m.width).View())
	}

	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *AgendaModel) renderHeader() string {
	title := StyleTitle.Render("Medication Dashboard")
	timeStr := StyleSubtitle.Render(m.now().Format("Mon Jan 2, 15:04:05"))

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", timeStr) + "\n"
}

// loadData loads the agenda of the selected day.
func (m *AgendaModel) loadData() {
	ctx := logging.NewRequestContext(context.Background())
	agenda, err := m.load(ctx, m.day)
	if err != nil {
		logging.FromContext(ctx).Warnw("agenda load failed", logging.KeyError, err)
		m.err = err
		return
	}
	m.agenda = agenda
	m.err = nil
}

// shiftDay moves the selected day by n days and reloads.
func (m *AgendaModel) shiftDay(n int) {
	next, err := parser.ParseDay(m.day.Start.AddDate(0, 0, n).Format(model.DayLayout), m.now())
	if err != nil {
		m.err = err
		return
	}
	m.day = next
	m.loadData()
}

// setMessage sets a temporary message.
func (m *AgendaModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *AgendaModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh message.
func (m *AgendaModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	m := NewAgendaModel(config)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
