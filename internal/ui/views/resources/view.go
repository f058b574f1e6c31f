package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "journal/internal/modules/journal/dto"
	"journal/internal/ui/theme"
)

type Port interface {
	ListResources(ctx context.Context, section string) (journaldto.ResourcesViewOutput, error)
}

type LoadedMsg struct {
	View journaldto.ResourcesViewOutput
	Err  error
}

type resourceItem struct {
	resource journaldto.ResourceOutput
	editing  bool
}

func (i resourceItem) Title() string {
	title := i.resource.URL
	if title == "" {
		title = "(no url)"
	}
	if i.editing {
		title = "✎ " + title
	}
	return title
}

func (i resourceItem) Description() string {
	return i.resource.Date + " · " + i.resource.Section
}

func (i resourceItem) FilterValue() string {
	return i.resource.URL + " " + i.resource.Desc + " " + i.resource.Section
}

// Model lists resources in reverse insertion order.
type Model struct {
	port    Port
	list    list.Model
	detail  viewport.Model
	section string
	editing string
	view    journaldto.ResourcesViewOutput
	loaded  bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Resources"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, list: l, detail: vp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	section := m.section
	return func() tea.Msg {
		view, err := m.port.ListResources(context.Background(), section)
		return LoadedMsg{View: view, Err: err}
	}
}

func (m *Model) SetSection(section string) { m.section = section }

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
		listW := m.width / 2
		m.list.SetSize(listW, m.height)
		m.detail.Width = m.width - listW - 4
		m.detail.Height = m.height - 4

	case LoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.list.Title = "Resources · " + msg.Err.Error()
			return m, nil
		}
		m.view = msg.View
		m.list.Title = fmt.Sprintf("Resources · %d", len(m.view.Resources))
		if m.section != "" {
			m.list.Title += " · " + m.section
		}
		cmds = append(cmds, m.setItems())
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	m.detail.SetContent(m.renderDetail())

	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width / 2
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(m.width - listW - 2).
		Height(m.height - 2).
		Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) Selected() (journaldto.ResourceOutput, bool) {
	if item, ok := m.list.SelectedItem().(resourceItem); ok {
		return item.resource, true
	}
	return journaldto.ResourceOutput{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Warnings() []string { return m.view.Warnings }

func (m *Model) setItems() tea.Cmd {
	items := make([]list.Item, 0, len(m.view.Resources))
	for _, r := range m.view.Resources {
		items = append(items, resourceItem{resource: r, editing: r.ID == m.editing})
	}
	return m.list.SetItems(items)
}

func (m Model) renderDetail() string {
	if !m.loaded {
		return theme.Muted.Render("Loading resources…")
	}
	r, ok := m.Selected()
	if !ok {
		if len(m.view.Warnings) > 0 {
			return theme.Warning.Render(strings.Join(m.view.Warnings, "\n"))
		}
		return theme.Muted.Render("No resources yet. Press a to add one.")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(r.Section) + "\n\n")
	sb.WriteString(theme.Muted.Render("url:  ") + r.URL + "\n")
	sb.WriteString(theme.Muted.Render("date: ") + r.Date + "\n")
	sb.WriteString(theme.Muted.Render("id:   ") + r.ID + "\n\n")
	sb.WriteString(r.Desc + "\n")
	sb.WriteString("\n" + theme.Muted.Render("a: add  e: edit  d: delete"))
	return sb.String()
}
