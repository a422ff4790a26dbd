// Package tui is the interactive terminal dashboard: a filterable
// profession list beside the statements of the selection and the
// installation series of the highlighted application category.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/robot-exposure/internal/model"
	"github.com/sells-group/robot-exposure/internal/present"
	"github.com/sells-group/robot-exposure/internal/resolver"
)

const (
	listWidth     = 42
	defaultHeight = 24
	barWidth      = 30
)

// Model is the bubbletea model of the dashboard.
type Model struct {
	res    *resolver.Resolver
	styles present.Styles

	width  int
	height int

	filter        textinput.Model
	filterFocused bool
	items         []string
	cursor        int
	offset        int

	selected model.Optional[string]
	apps     []model.IFRClassification
	appIdx   int
	chart    *present.ChartConfig
}

// New creates the dashboard over res with nothing selected and the first
// application category highlighted.
func New(res *resolver.Resolver) Model {
	fi := textinput.New()
	fi.Placeholder = "Filtra professioni..."
	fi.CharLimit = 64
	fi.Width = listWidth - 4

	m := Model{
		res:    res,
		styles: present.DefaultStyles(),
		height: defaultHeight,
		filter: fi,
		items:  res.Professions(),
		apps:   res.Applications(),
	}
	m.chart = present.BuildChart(res.Reference().Installations, res.Labels(), m.highlight())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if m.filterFocused {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.filterFocused = true
			return m, m.filter.Focus()
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			if len(m.items) > 0 {
				m.selected = model.Some(m.items[m.cursor])
			}
		case "esc", "c":
			m.selected = model.None[string]()
		case "tab":
			m.cycleApplication(1)
		case "shift+tab":
			m.cycleApplication(-1)
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterFocused = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.filterFocused = false
		m.filter.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter narrows the list to the professions matching the filter.
func (m *Model) applyFilter() {
	m.items = m.res.Search(m.filter.Value(), 0)
	m.cursor = 0
	m.offset = 0
}

func (m *Model) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.items)-1, m.cursor+delta))
	m.clampOffset()
}

func (m *Model) visibleRows() int {
	return max(3, m.height-6)
}

func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *Model) cycleApplication(delta int) {
	if len(m.apps) == 0 {
		return
	}
	m.appIdx = (m.appIdx + delta + len(m.apps)) % len(m.apps)
	m.chart = present.BuildChart(m.res.Reference().Installations, m.res.Labels(), m.highlight())
}

func (m Model) highlight() model.Optional[int] {
	if len(m.apps) == 0 {
		return model.None[int]()
	}
	return model.Some(m.apps[m.appIdx].Class)
}

// Selection returns the current dashboard input.
func (m Model) Selection() resolver.Selection {
	sel := resolver.Selection{Profession: m.selected}
	if len(m.apps) > 0 {
		sel.Application = model.Some(m.apps[m.appIdx].ApplicationArea)
	}
	return sel
}

// View implements tea.Model.
func (m Model) View() string {
	left := m.viewList()

	res, err := m.res.Resolve(m.Selection())
	var right string
	if err != nil {
		right = m.styles.Muted.Render(err.Error())
	} else {
		right = m.viewDetail(res)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	help := m.styles.Muted.Render("↑/↓ scorri • invio seleziona • / filtra • tab applicazione • c azzera • q esci")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(m.styles.Muted.Render("Nessuna professione."))
		return lipgloss.NewStyle().Width(listWidth).Render(b.String())
	}

	end := min(len(m.items), m.offset+m.visibleRows())
	current, _ := m.selected.Get()
	for i := m.offset; i < end; i++ {
		item := m.items[i]
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		line := truncate(prefix+item, listWidth)
		switch {
		case item == current:
			line = m.styles.Yes.Render(line)
		case i == m.cursor:
			line = m.styles.Title.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.items))))
	return lipgloss.NewStyle().Width(listWidth).Render(b.String())
}

func (m Model) viewDetail(res resolver.Resolution) string {
	stmts := m.styles.RenderStatements(present.Statements(res))

	class, ok := res.ChartClass.Get()
	if !ok {
		return stmts
	}
	series, found := m.chart.SeriesFor(class)
	if !found {
		label, _ := res.ChartApplication.Get()
		series = present.ChartSeries{Class: class, Label: label, Color: present.ColorFor(class)}
	}
	return lipgloss.JoinVertical(lipgloss.Left, stmts, "", m.styles.RenderSeries(series, barWidth))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// Run starts the dashboard on the terminal.
func Run(res *resolver.Resolver) error {
	_, err := tea.NewProgram(New(res), tea.WithAltScreen()).Run()
	return err
}
