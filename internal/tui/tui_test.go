package tui

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/model"
	"github.com/manav03panchal/medtrack/internal/parser"
)

var christmas = time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return christmas }

func sampleAgenda(day time.Time) *model.Agenda {
	return &model.Agenda{Day: day, Items: []model.AgendaItem{
		{Time: day.Add(9 * time.Hour), Kind: model.AgendaReminder, ID: 1, Who: "Alice",
			What: "Aspirin 100mg", Message: "take pill"},
		{Time: day.Add(21 * time.Hour), Kind: model.AgendaDose, ID: 2, Who: "Alice"},
	}}
}

type stubLoader struct {
	days []parser.DayRange
	err  error
}

func (l *stubLoader) load(_ context.Context, day parser.DayRange) (*model.Agenda, error) {
	l.days = append(l.days, day)
	if l.err != nil {
		return nil, l.err
	}
	return sampleAgenda(day.Start), nil
}

func newTestModel(l *stubLoader) *AgendaModel {
	m := NewAgendaModel(DashboardConfig{Load: l.load, Now: fixedNow})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(refreshMsg{})
	return m
}

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		width      int
	}{
		{"zero", 0, 10},
		{"half", 50, 10},
		{"full", 100, 10},
		{"over", 150, 10},
		{"negative", -10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.percentage, tt.width)
			assert.Equal(t, tt.width, strings.Count(bar, "█")+strings.Count(bar, "░"))
		})
	}
}

func TestFormatUntil(t *testing.T) {
	assert.Equal(t, "less than a minute", FormatUntil(30*time.Second))
	assert.Equal(t, "45m", FormatUntil(45*time.Minute))
	assert.Equal(t, "2h", FormatUntil(2*time.Hour))
	assert.Equal(t, "11h 5m", FormatUntil(11*time.Hour+5*time.Minute))
}

// =============================================================================
// Component Tests
// =============================================================================

func TestNextComponent(t *testing.T) {
	day := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	t.Run("next_item", func(t *testing.T) {
		view := NewNextComponent(sampleAgenda(day), christmas, 80).View()
		assert.Contains(t, view, "NEXT")
		assert.Contains(t, view, "21:00")
		assert.Contains(t, view, "in 11h")
	})

	t.Run("nothing_left", func(t *testing.T) {
		late := day.Add(22 * time.Hour)
		view := NewNextComponent(sampleAgenda(day), late, 80).View()
		assert.Contains(t, view, "Nothing else due today")
	})
}

func TestAgendaComponent(t *testing.T) {
	day := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	view := NewAgendaComponent(sampleAgenda(day), christmas, 80).View()
	assert.Contains(t, view, "Agenda for 2024-12-25")
	assert.Contains(t, view, "Aspirin 100mg")
	assert.Contains(t, view, `"take pill"`)
	assert.Contains(t, view, "1/2 done")

	empty := NewAgendaComponent(&model.Agenda{Day: day}, christmas, 80).View()
	assert.Contains(t, empty, "Nothing scheduled")
}

// =============================================================================
// AgendaModel Tests
// =============================================================================

func TestAgendaModelLoading(t *testing.T) {
	m := NewAgendaModel(DashboardConfig{Load: (&stubLoader{}).load, Now: fixedNow})
	assert.Equal(t, "Loading...", m.View())
	assert.NotNil(t, m.Init())
}

func TestAgendaModelView(t *testing.T) {
	l := &stubLoader{}
	m := newTestModel(l)

	view := m.View()
	assert.Contains(t, view, "Medication Dashboard")
	assert.Contains(t, view, "Agenda for 2024-12-25")
	assert.Contains(t, view, "quit")
	require.Len(t, l.days, 1)
	assert.Equal(t, "2024-12-25", l.days[0].Label())
}

func TestAgendaModelDayNavigation(t *testing.T) {
	l := &stubLoader{}
	m := newTestModel(l)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "2024-12-26", m.day.Label())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "2024-12-24", m.day.Label())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.Equal(t, "2024-12-25", m.day.Label())
	assert.Len(t, l.days, 5)
}

func TestAgendaModelRefresh(t *testing.T) {
	l := &stubLoader{}
	m := newTestModel(l)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Len(t, l.days, 2)
	assert.Contains(t, m.View(), "Refreshed")
}

func TestAgendaModelLoadError(t *testing.T) {
	l := &stubLoader{err: stderrors.New("database is locked")}
	m := newTestModel(l)

	assert.Contains(t, m.View(), "Error: database is locked")
}

func TestAgendaModelQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m := newTestModel(&stubLoader{})
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}
