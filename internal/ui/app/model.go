package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"journal/internal/modules/journal/domain"
	journaldto "journal/internal/modules/journal/dto"
	"journal/internal/ui/components"
	"journal/internal/ui/theme"
	calendarview "journal/internal/ui/views/calendar"
	notesview "journal/internal/ui/views/notes"
	resourcesview "journal/internal/ui/views/resources"
	scheduleview "journal/internal/ui/views/schedule"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// JournalPort is the surface this orchestration layer needs; sub-views get
// narrower slices of it through the bridges at the bottom of this file.

type JournalPort interface {
	Sections() []string
	AddNote(ctx context.Context, date, section, body string) (journaldto.NoteChangeOutput, error)
	EditNote(ctx context.Context, id, body string) (journaldto.NoteChangeOutput, error)
	DeleteNote(ctx context.Context, id string) (journaldto.NoteChangeOutput, error)
	ListNotes(ctx context.Context, section string) (journaldto.NotesViewOutput, error)
	AddResource(ctx context.Context, section, url, desc string) (journaldto.ResourceChangeOutput, error)
	EditResource(ctx context.Context, id, desc string) (journaldto.ResourceChangeOutput, error)
	DeleteResource(ctx context.Context, id string) (journaldto.ResourceChangeOutput, error)
	ListResources(ctx context.Context, section string) (journaldto.ResourcesViewOutput, error)
	Calendar(ctx context.Context) (journaldto.CalendarOutput, error)
	Reindex(ctx context.Context) (journaldto.ReindexOutput, error)
	Export(ctx context.Context, outDir string) (journaldto.ExportOutput, error)
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabNotes tabID = iota
	tabResources
	tabCalendar
	tabSchedule
	tabCount
)

var tabLabels = [tabCount]string{
	"Notes", "Resources", "Calendar", "Schedule",
}

// ─── form purposes ───────────────────────────────────────────────────────────

const (
	formAddNote      = "note:add"
	formEditNote     = "note:edit"
	formAddResource  = "resource:add"
	formEditResource = "resource:edit"

	fieldDate = "Date (YYYY-MM-DD, blank for today)"
	fieldURL  = "URL"
)

// ─── async messages ──────────────────────────────────────────────────────────

type watchStartedMsg struct {
	changes <-chan struct{}
	err     error
}

type filesChangedMsg struct{}

type mutatedMsg struct {
	kind    domain.Kind
	status  string
	warning string
	err     error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit selected")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete selected")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Add, k.Edit, k.Delete},
		{k.Reload, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the edit state,
// the modal form, the help overlay and the command palette. Rendering is
// delegated to sub-views; every mutation goes through JournalPort.
type Model struct {
	ctx     context.Context
	journal JournalPort
	changes <-chan struct{}

	notesView     notesview.Model
	resourcesView resourcesview.Model
	calendarView  calendarview.Model
	scheduleView  scheduleview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	form      components.Form
	edit      domain.EditState
	section   string
	status    string
	width     int
	height    int
}

// NewModel builds the root model. ctx bounds the file watcher.
func NewModel(ctx context.Context, journal JournalPort, schedule scheduleview.Port) Model {
	return Model{
		ctx:           ctx,
		journal:       journal,
		notesView:     notesview.New(notesPortBridge{p: journal}),
		resourcesView: resourcesview.New(resourcesPortBridge{p: journal}),
		calendarView:  calendarview.New(calendarPortBridge{p: journal}),
		scheduleView:  scheduleview.New(schedule),
		activeTab:     tabNotes,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		form:          components.NewForm(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.notesView.Init(),
		m.resourcesView.Init(),
		m.calendarView.Init(),
		m.scheduleView.Init(),
		m.startWatchCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Overlays intercept all input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		if m.palette.Visible() {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
		if m.form.Visible() {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.form.SetWidth(min(m.width-4, 96))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case watchStartedMsg:
		if msg.err != nil {
			m.status = "live reload off: " + msg.err.Error()
			return m, nil
		}
		m.changes = msg.changes
		return m, waitForChange(m.changes)

	case filesChangedMsg:
		return m, tea.Batch(m.reloadJournal(), waitForChange(m.changes))

	case mutatedMsg:
		switch {
		case msg.err != nil:
			m.status = "error: " + msg.err.Error()
		case msg.warning != "":
			m.status = msg.status + " · " + msg.warning
		default:
			m.status = msg.status
		}
		return m, m.reloadKind(msg.kind)

	case components.FormSubmitMsg:
		return m, m.submitForm(msg)

	case components.FormCancelMsg:
		m.closeEdit(msg.Purpose)
		m.status = "cancelled"
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case notesview.LoadedMsg:
		if len(msg.View.Warnings) > 0 {
			m.status = "warning: " + strings.Join(msg.View.Warnings, "; ")
		}
		m.notesView, _ = m.notesView.Update(msg)
		return m, nil

	case resourcesview.LoadedMsg:
		if len(msg.View.Warnings) > 0 {
			m.status = "warning: " + strings.Join(msg.View.Warnings, "; ")
		}
		m.resourcesView, _ = m.resourcesView.Update(msg)
		return m, nil

	case calendarview.LoadedMsg:
		m.calendarView, _ = m.calendarView.Update(msg)
		return m, nil

	case scheduleview.LoadedMsg:
		m.scheduleView, _ = m.scheduleView.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			return m, m.reloadAll()
		case "a":
			if cmd := m.openAddForm(); cmd != nil {
				return m, cmd
			}
		case "e":
			if cmd := m.openEditForm(); cmd != nil {
				return m, cmd
			}
		case "d":
			if cmd := m.deleteSelected(); cmd != nil {
				return m, cmd
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabNotes:
		m.notesView, tabCmd = m.notesView.Update(msg)
	case tabResources:
		m.resourcesView, tabCmd = m.resourcesView.Update(msg)
	case tabCalendar:
		m.calendarView, tabCmd = m.calendarView.Update(msg)
	case tabSchedule:
		m.scheduleView, tabCmd = m.scheduleView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.form.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		content = m.activeView()
	}

	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar))
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabNotes:
		return m.notesView.View()
	case tabResources:
		return m.resourcesView.View()
	case tabCalendar:
		return m.calendarView.View()
	case tabSchedule:
		return m.scheduleView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.TabActive.Render(label)
		} else {
			parts[i] = theme.Tab.Render(label)
		}
	}
	bar := theme.Title.Render("journal") + "  " + strings.Join(parts, "")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.section != "" {
		left = theme.Hot.Render("● "+m.section) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  a/e/d:add/edit/delete  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "note:add":
		m.activeTab = tabNotes
		return m, m.openAddForm()
	case "note:edit":
		m.activeTab = tabNotes
		return m, m.openEditForm()
	case "note:delete":
		m.activeTab = tabNotes
		return m, m.deleteSelected()
	case "resource:add":
		m.activeTab = tabResources
		return m, m.openAddForm()
	case "resource:edit":
		m.activeTab = tabResources
		return m, m.openEditForm()
	case "resource:delete":
		m.activeTab = tabResources
		return m, m.deleteSelected()

	case "filter":
		if arg == "" || strings.EqualFold(arg, "all") {
			m.section = ""
		} else {
			m.section = arg
		}
		m.notesView.SetSection(m.section)
		m.resourcesView.SetSection(m.section)
		m.status = "filter: " + orAll(m.section)
		return m, tea.Batch(m.notesView.Reload(), m.resourcesView.Reload())

	case "reload":
		return m, m.reloadAll()

	case "reindex":
		return m, func() tea.Msg {
			out, err := m.journal.Reindex(m.ctx)
			return mutatedMsg{status: fmt.Sprintf("reindexed %d notes, %d resources", out.Notes, out.Resources), err: err}
		}

	case "export":
		if arg == "" {
			m.status = "usage: export <dir>"
			return m, nil
		}
		return m, func() tea.Msg {
			out, err := m.journal.Export(m.ctx, arg)
			return mutatedMsg{status: fmt.Sprintf("exported %d days to %s", len(out.Files), arg), err: err}
		}

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── forms ───────────────────────────────────────────────────────────────────

func (m *Model) openAddForm() tea.Cmd {
	switch m.activeTab {
	case tabNotes:
		return m.form.Open(components.FormSpec{
			Purpose:   formAddNote,
			Title:     "Add note",
			Sections:  m.journal.Sections(),
			Inputs:    []components.FormInput{{Label: fieldDate, Placeholder: "YYYY-MM-DD"}},
			BodyLabel: "Note (markdown)",
		})
	case tabResources:
		return m.form.Open(components.FormSpec{
			Purpose:   formAddResource,
			Title:     "Add resource",
			Sections:  m.journal.Sections(),
			Inputs:    []components.FormInput{{Label: fieldURL, Placeholder: "https://…"}},
			BodyLabel: "Description",
		})
	}
	return nil
}

// openEditForm enters edit mode for the selection. Opening a different
// record of the same kind replaces the previous target.
func (m *Model) openEditForm() tea.Cmd {
	switch m.activeTab {
	case tabNotes:
		note, ok := m.notesView.Selected()
		if !ok {
			m.status = "no note selected"
			return nil
		}
		m.edit.Open(domain.KindNote, note.ID)
		m.notesView.SetEditing(note.ID)
		return m.form.Open(components.FormSpec{
			Purpose:   formEditNote,
			Title:     "Edit note · " + note.Date + " · " + note.Section,
			BodyLabel: "Note (markdown)",
			Body:      note.Body,
		})
	case tabResources:
		resource, ok := m.resourcesView.Selected()
		if !ok {
			m.status = "no resource selected"
			return nil
		}
		m.edit.Open(domain.KindResource, resource.ID)
		m.resourcesView.SetEditing(resource.ID)
		return m.form.Open(components.FormSpec{
			Purpose:   formEditResource,
			Title:     "Edit resource · " + resource.URL,
			BodyLabel: "Description",
			Body:      resource.Desc,
		})
	}
	return nil
}

func (m *Model) closeEdit(purpose string) {
	switch purpose {
	case formEditNote:
		m.edit.Close(domain.KindNote)
		m.notesView.SetEditing("")
	case formEditResource:
		m.edit.Close(domain.KindResource)
		m.resourcesView.SetEditing("")
	}
}

func (m *Model) submitForm(msg components.FormSubmitMsg) tea.Cmd {
	ctx, journal := m.ctx, m.journal
	switch msg.Purpose {
	case formAddNote:
		date := msg.Fields[fieldDate]
		return func() tea.Msg {
			out, err := journal.AddNote(ctx, date, msg.Section, msg.Body)
			return mutatedMsg{kind: domain.KindNote, status: "note saved", warning: out.Warning, err: err}
		}
	case formAddResource:
		url := msg.Fields[fieldURL]
		return func() tea.Msg {
			out, err := journal.AddResource(ctx, msg.Section, url, msg.Body)
			return mutatedMsg{kind: domain.KindResource, status: "resource saved", warning: out.Warning, err: err}
		}
	case formEditNote:
		id, ok := m.edit.Target(domain.KindNote)
		m.closeEdit(msg.Purpose)
		if !ok {
			return nil
		}
		return func() tea.Msg {
			out, err := journal.EditNote(ctx, id, msg.Body)
			return mutatedMsg{kind: domain.KindNote, status: appliedStatus(out.Applied, "note updated", "note no longer exists"), warning: out.Warning, err: err}
		}
	case formEditResource:
		id, ok := m.edit.Target(domain.KindResource)
		m.closeEdit(msg.Purpose)
		if !ok {
			return nil
		}
		return func() tea.Msg {
			out, err := journal.EditResource(ctx, id, msg.Body)
			return mutatedMsg{kind: domain.KindResource, status: appliedStatus(out.Applied, "resource updated", "resource no longer exists"), warning: out.Warning, err: err}
		}
	}
	return nil
}

func (m *Model) deleteSelected() tea.Cmd {
	ctx, journal := m.ctx, m.journal
	switch m.activeTab {
	case tabNotes:
		note, ok := m.notesView.Selected()
		if !ok {
			return nil
		}
		if m.edit.IsEditing(domain.KindNote, note.ID) {
			m.closeEdit(formEditNote)
		}
		return func() tea.Msg {
			out, err := journal.DeleteNote(ctx, note.ID)
			return mutatedMsg{kind: domain.KindNote, status: appliedStatus(out.Applied, "note deleted", "note already gone"), warning: out.Warning, err: err}
		}
	case tabResources:
		resource, ok := m.resourcesView.Selected()
		if !ok {
			return nil
		}
		if m.edit.IsEditing(domain.KindResource, resource.ID) {
			m.closeEdit(formEditResource)
		}
		return func() tea.Msg {
			out, err := journal.DeleteResource(ctx, resource.ID)
			return mutatedMsg{kind: domain.KindResource, status: appliedStatus(out.Applied, "resource deleted", "resource already gone"), warning: out.Warning, err: err}
		}
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabNotes:
		return m.notesView.Filtering()
	case tabResources:
		return m.resourcesView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.notesView, _ = m.notesView.Update(sz)
	m.resourcesView, _ = m.resourcesView.Update(sz)
	m.calendarView, _ = m.calendarView.Update(sz)
	m.scheduleView, _ = m.scheduleView.Update(sz)
}

func (m Model) reloadJournal() tea.Cmd {
	return tea.Batch(m.notesView.Reload(), m.resourcesView.Reload(), m.calendarView.Reload())
}

func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(m.reloadJournal(), m.scheduleView.Reload())
}

func (m Model) reloadKind(kind domain.Kind) tea.Cmd {
	switch kind {
	case domain.KindNote:
		return tea.Batch(m.notesView.Reload(), m.calendarView.Reload())
	case domain.KindResource:
		return tea.Batch(m.resourcesView.Reload(), m.calendarView.Reload())
	}
	return nil
}

func appliedStatus(applied bool, yes, no string) string {
	if applied {
		return yes
	}
	return no
}

func orAll(section string) string {
	if section == "" {
		return "all sections"
	}
	return section
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) startWatchCmd() tea.Cmd {
	return func() tea.Msg {
		changes, err := m.journal.Changes(m.ctx)
		return watchStartedMsg{changes: changes, err: err}
	}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return filesChangedMsg{}
	}
}

// ─── port bridges ────────────────────────────────────────────────────────────

type notesPortBridge struct{ p JournalPort }

func (b notesPortBridge) ListNotes(ctx context.Context, section string) (journaldto.NotesViewOutput, error) {
	return b.p.ListNotes(ctx, section)
}

type resourcesPortBridge struct{ p JournalPort }

func (b resourcesPortBridge) ListResources(ctx context.Context, section string) (journaldto.ResourcesViewOutput, error) {
	return b.p.ListResources(ctx, section)
}

type calendarPortBridge struct{ p JournalPort }

func (b calendarPortBridge) Calendar(ctx context.Context) (journaldto.CalendarOutput, error) {
	return b.p.Calendar(ctx)
}
