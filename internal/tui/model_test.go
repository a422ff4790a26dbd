package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/model"
	"github.com/sells-group/robot-exposure/internal/resolver"
)

func testResolver() *resolver.Resolver {
	return resolver.New(&dataset.Reference{
		Professions: []model.ProfessionRecord{
			model.NewProfessionRecord("Saldatore", true, false, model.Some(114), model.None[int]()),
			model.NewProfessionRecord("Insegnante", false, false, model.None[int](), model.None[int]()),
			model.NewProfessionRecord("Tecnico della robotica", false, true, model.Some(190), model.None[int]()),
		},
		Classifications: []model.IFRClassification{
			{Class: 114, ApplicationArea: "Saldatura"},
			{Class: 111, ApplicationArea: "Manipolazione per fusione"},
		},
		Installations: []model.InstallationRecord{
			{Year: 2019, Class: 114, Count: model.Some(1200.0)},
			{Year: 2020, Class: 114, Count: model.Some(900.0)},
		},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_InitialState(t *testing.T) {
	m := New(testResolver())

	assert.Equal(t, []string{"Saldatore", "Insegnante", "Tecnico della robotica"}, m.items)
	assert.False(t, m.selected.Valid())
	assert.Equal(t, model.Some("Manipolazione per fusione"), m.Selection().Application)
	assert.Contains(t, m.View(), "Seleziona una professione.")
}

func TestUpdate_SelectProfession(t *testing.T) {
	m := New(testResolver())

	m = update(t, m, key("down"))
	m = update(t, m, key("down"))
	m = update(t, m, key("up"))
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, key("up"))
	m = update(t, m, key("enter"))
	assert.Equal(t, model.Some("Saldatore"), m.selected)

	view := m.View()
	assert.Contains(t, view, "Professione selezionata: Saldatore")
	assert.Contains(t, view, "La professione è esposta ai robot: Sì")

	m = update(t, m, key("c"))
	assert.False(t, m.selected.Valid())
}

func TestUpdate_CursorStaysInBounds(t *testing.T) {
	m := New(testResolver())

	m = update(t, m, key("up"))
	assert.Equal(t, 0, m.cursor)
	for range 5 {
		m = update(t, m, key("j"))
	}
	assert.Equal(t, 2, m.cursor)
}

func TestUpdate_TabCyclesApplication(t *testing.T) {
	m := New(testResolver())
	require.Equal(t, 0, m.appIdx)

	m = update(t, m, key("tab"))
	assert.Equal(t, model.Some("Saldatura"), m.Selection().Application)
	assert.Contains(t, m.View(), "Saldatura (114)")

	series, ok := m.chart.SeriesFor(114)
	require.True(t, ok)
	assert.InDelta(t, 1.0, series.Opacity, 0.0001)

	m = update(t, m, key("tab"))
	assert.Equal(t, 0, m.appIdx, "wraps around")

	m = update(t, m, key("shift+tab"))
	assert.Equal(t, 1, m.appIdx)
}

func TestUpdate_HighlightWithoutDataShowsPlaceholder(t *testing.T) {
	m := New(testResolver())
	assert.Contains(t, m.View(), "Nessun dato di installazione.")
}

func TestUpdate_Filter(t *testing.T) {
	m := New(testResolver())

	m = update(t, m, key("/"))
	assert.True(t, m.filterFocused)

	m = update(t, m, key("tec"))
	assert.Equal(t, []string{"Tecnico della robotica"}, m.items)

	// Keys typed into the filter do not quit or move.
	m = update(t, m, key("q"))
	assert.Empty(t, m.items)
	assert.True(t, m.filterFocused)
	assert.Contains(t, m.View(), "Nessuna professione.")

	m = update(t, m, key("esc"))
	assert.False(t, m.filterFocused)
	assert.Len(t, m.items, 3)
}

func TestUpdate_FilterEnterKeepsResults(t *testing.T) {
	m := New(testResolver())

	m = update(t, m, key("/"))
	m = update(t, m, key("sald"))
	m = update(t, m, key("enter"))
	assert.False(t, m.filterFocused)
	assert.Equal(t, []string{"Saldatore"}, m.items)

	m = update(t, m, key("enter"))
	assert.Equal(t, model.Some("Saldatore"), m.selected)
}

func TestUpdate_Quit(t *testing.T) {
	m := New(testResolver())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := New(testResolver())
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 34, m.visibleRows())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
