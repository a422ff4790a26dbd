package present

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/robot-exposure/internal/resolver"
)

// Styles holds the lipgloss styles of terminal output.
type Styles struct {
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Yes    lipgloss.Style
	Accent lipgloss.Style
	Box    lipgloss.Style
}

// DefaultStyles returns the terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F46E5")),
		Body:   lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true),
		Yes:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Box:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// RenderStatements lays out statements as a styled block.
func (s Styles) RenderStatements(stmts []Statement) string {
	lines := make([]string, 0, len(stmts))
	for _, st := range stmts {
		switch st.Kind {
		case KindPrompt:
			lines = append(lines, s.Muted.Render(st.Text))
		case KindProfession:
			lines = append(lines, s.Title.Render(st.Text))
		case KindComplementary:
			lines = append(lines, s.Yes.Render(st.Text))
		case KindApplication:
			lines = append(lines, s.Accent.Render(st.Text))
		default:
			lines = append(lines, s.Body.Render(st.Text))
		}
	}
	return s.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderSeries draws one chart series as horizontal bars scaled to width.
// Counts at or below zero draw an empty bar.
func (s Styles) RenderSeries(series ChartSeries, width int) string {
	if len(series.Points) == 0 {
		return s.Muted.Render("Nessun dato di installazione.")
	}
	if width < 10 {
		width = 10
	}

	peak := 0.0
	for _, p := range series.Points {
		peak = math.Max(peak, p.Count)
	}

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(series.Color))
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%s (%d)", series.Label, series.Class)))
	for _, p := range series.Points {
		n := 0
		if peak > 0 {
			n = max(0, int(math.Round(p.Count/peak*float64(width))))
		}
		fmt.Fprintf(&b, "\n%d %s %s", p.Year, bar.Render(strings.Repeat("█", n)), s.Muted.Render(formatCount(p.Count)))
	}
	return b.String()
}

// RenderTerminal writes the statement block of res to w.
func RenderTerminal(w io.Writer, res resolver.Resolution) error {
	_, err := fmt.Fprintln(w, DefaultStyles().RenderStatements(Statements(res)))
	return err
}

func formatCount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
