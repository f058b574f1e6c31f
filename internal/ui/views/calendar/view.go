package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "journal/internal/modules/journal/dto"
	"journal/internal/ui/theme"
)

type Port interface {
	Calendar(ctx context.Context) (journaldto.CalendarOutput, error)
}

type LoadedMsg struct {
	Calendar journaldto.CalendarOutput
	Err      error
}

const (
	mark  = "✅"
	blank = "❌"
)

// Model shows the completion calendar as a table, newest day first.
type Model struct {
	port   Port
	table  table.Model
	cal    journaldto.CalendarOutput
	err    error
	width  int
	height int
}

func New(port Port) Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)
	return Model{port: port, table: t}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		cal, err := m.port.Calendar(context.Background())
		return LoadedMsg{Calendar: cal, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(m.height-4, 3))
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.cal = msg.Calendar
			m.table.SetRows(Rows(msg.Calendar))
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.header() + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Error.Render(m.err.Error()))
		return sb.String()
	}
	sb.WriteString(m.table.View())
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(sb.String())
}

func (m Model) header() string {
	h := theme.Title.Render("Calendar")
	if m.cal.Start != "" {
		h += theme.Muted.Render(fmt.Sprintf("  %s → %s", m.cal.Start, m.cal.End))
	}
	h += "  " + theme.Streak.Render(fmt.Sprintf("streak %d", m.cal.CurrentStreak)) +
		theme.Muted.Render(fmt.Sprintf("  best %d", m.cal.LongestStreak))
	for _, w := range m.cal.Warnings {
		h += "\n" + theme.Warning.Render(w)
	}
	return h
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Day", Width: 10},
		{Title: "Notes", Width: 6},
		{Title: "Note", Width: 5},
		{Title: "Resource", Width: 9},
	}
}

// Rows converts calendar days into table rows.
func Rows(cal journaldto.CalendarOutput) []table.Row {
	rows := make([]table.Row, 0, len(cal.Days))
	for _, d := range cal.Days {
		rows = append(rows, table.Row{d.Day, d.Weekday, strconv.Itoa(d.NotesCount), flag(d.HasNote), flag(d.HasResource)})
	}
	return rows
}

func flag(ok bool) string {
	if ok {
		return mark
	}
	return blank
}
