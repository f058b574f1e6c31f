package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	journaldto "journal/internal/modules/journal/dto"
	"journal/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListNotes(ctx context.Context, section string) (journaldto.NotesViewOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	View journaldto.NotesViewOutput
	Err  error
}

// ─── list item ───────────────────────────────────────────────────────────────

type noteItem struct {
	note    journaldto.NoteOutput
	day     string
	editing bool
}

func (i noteItem) Title() string {
	title := firstLine(i.note.Body)
	if title == "" {
		title = "(empty note)"
	}
	if i.editing {
		title = "✎ " + title
	}
	return title
}

func (i noteItem) Description() string { return i.day + " · " + i.note.Section }
func (i noteItem) FilterValue() string { return i.note.Section + " " + i.note.Body }

// ─── model ───────────────────────────────────────────────────────────────────

// Model lists notes grouped by day, newest day first, with a rendered
// markdown preview of the selection.
type Model struct {
	port     Port
	list     list.Model
	preview  viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	section  string
	editing  string
	view     journaldto.NotesViewOutput
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Notes"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		list:     l,
		preview:  vp,
		spinner:  sp,
		renderer: r,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the notes view again with the current section filter.
func (m Model) Reload() tea.Cmd {
	section := m.section
	return func() tea.Msg {
		view, err := m.port.ListNotes(context.Background(), section)
		return LoadedMsg{View: view, Err: err}
	}
}

func (m *Model) SetSection(section string) { m.section = section }

// SetEditing marks the note currently open in the editor.
func (m *Model) SetEditing(id string) {
	m.editing = id
	m.setItems()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Notes · " + msg.Err.Error()
			return m, nil
		}
		m.view = msg.View
		m.list.Title = m.title()
		cmds = append(cmds, m.setItems())
		m.preview.SetContent(m.renderPreview())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderPreview())
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading notes…")
	}

	listW := m.width * 4 / 10
	previewW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	previewPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(previewW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

// Selected returns the highlighted note, if any.
func (m Model) Selected() (journaldto.NoteOutput, bool) {
	if item, ok := m.list.SelectedItem().(noteItem); ok {
		return item.note, true
	}
	return journaldto.NoteOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Warnings returns storage warnings attached to the last load.
func (m Model) Warnings() []string { return m.view.Warnings }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) setItems() tea.Cmd {
	var items []list.Item
	for _, group := range m.view.Groups {
		for _, note := range group.Notes {
			items = append(items, noteItem{note: note, day: group.Day, editing: note.ID == m.editing})
		}
	}
	return m.list.SetItems(items)
}

func (m Model) title() string {
	title := fmt.Sprintf("Notes · %d", m.view.Total)
	if m.section != "" {
		title += " · " + m.section
	}
	return title
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	previewW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = previewW - 4
	m.preview.Height = m.height - 4
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(previewW-8, 20)),
	); err == nil {
		m.renderer = r
	}
	m.preview.SetContent(m.renderPreview())
}

func (m Model) renderPreview() string {
	note, ok := m.Selected()
	if !ok {
		if len(m.view.Warnings) > 0 {
			return theme.Warning.Render(strings.Join(m.view.Warnings, "\n"))
		}
		return theme.Muted.Render("No notes yet. Press a to add one.")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(note.Section) + "\n")
	sb.WriteString(theme.Muted.Render(note.Date+"  "+note.ID) + "\n\n")
	body := note.Body
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = rendered
		}
	}
	sb.WriteString(body)
	sb.WriteString("\n" + theme.Muted.Render("a: add  e: edit  d: delete"))
	return sb.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimLeft(s, "#*- "))
}
