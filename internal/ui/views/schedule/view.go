package schedule

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scheduledto "journal/internal/modules/schedule/dto"
	"journal/internal/ui/theme"
)

type Port interface {
	Schedule(ctx context.Context) (scheduledto.ScheduleOutput, error)
	Today(ctx context.Context) (scheduledto.DueOutput, error)
}

type LoadedMsg struct {
	Schedule scheduledto.ScheduleOutput
	Due      scheduledto.DueOutput
	Err      error
}

// Model renders the three standing tables and what is due today.
type Model struct {
	port     Port
	viewport viewport.Model
	loaded   LoadedMsg
	width    int
	height   int
}

func New(port Port) Model {
	return Model{port: port, viewport: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		s, err := m.port.Schedule(context.Background())
		if err != nil {
			return LoadedMsg{Err: err}
		}
		due, err := m.port.Today(context.Background())
		return LoadedMsg{Schedule: s, Due: due, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 2
		m.viewport.Height = m.height
		m.viewport.SetContent(m.render())
	case LoadedMsg:
		m.loaded = msg
		m.viewport.SetContent(m.render())
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().Padding(0, 1).Render(m.viewport.View())
}

func (m Model) render() string {
	if m.loaded.Err != nil {
		return theme.Error.Render(m.loaded.Err.Error())
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Due today") + theme.Muted.Render("  "+m.loaded.Due.Weekday+" "+m.loaded.Due.Day) + "\n")
	for _, e := range m.loaded.Due.Entries {
		sb.WriteString("  • " + e.Standard + theme.Muted.Render("  "+e.When) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(section("Daily Schedule", "Time", m.loaded.Schedule.Daily))
	sb.WriteString(section("Weekly Schedule", "Date", m.loaded.Schedule.Weekly))
	sb.WriteString(section("Monthly Schedule", "Date", m.loaded.Schedule.Monthly))
	return sb.String()
}

func section(title, whenLabel string, entries []scheduledto.EntryOutput) string {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.When, e.Standard, e.Notes})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: whenLabel, Width: 22},
			{Title: "Standard", Width: 26},
			{Title: "Notes", Width: 70},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return theme.Title.Render(title) + "\n" + t.View() + "\n\n"
}
