package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal/internal/modules/journal/domain"
	journaldto "journal/internal/modules/journal/dto"
	scheduledto "journal/internal/modules/schedule/dto"
	"journal/internal/ui/components"
	notesview "journal/internal/ui/views/notes"
)

type fakeJournal struct {
	notes   journaldto.NotesViewOutput
	edited  map[string]string
	deleted []string
	added   []journaldto.AddNoteInput
	changes chan struct{}
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{
		edited:  map[string]string{},
		changes: make(chan struct{}, 1),
		notes: journaldto.NotesViewOutput{Total: 2, Groups: []journaldto.DayGroupOutput{
			{Day: "2024-01-02", Notes: []journaldto.NoteOutput{{ID: "n2", Date: "2024-01-02", Section: "Learning Skill", Body: "generics"}}},
			{Day: "2024-01-01", Notes: []journaldto.NoteOutput{{ID: "n1", Date: "2024-01-01", Section: "Daily Exercise", Body: "ran"}}},
		}},
	}
}

func (f *fakeJournal) Sections() []string { return []string{"Daily Exercise", "Learning Skill"} }

func (f *fakeJournal) AddNote(_ context.Context, date, section, body string) (journaldto.NoteChangeOutput, error) {
	f.added = append(f.added, journaldto.AddNoteInput{Date: date, Section: section, Body: body})
	return journaldto.NoteChangeOutput{Applied: true}, nil
}

func (f *fakeJournal) EditNote(_ context.Context, id, body string) (journaldto.NoteChangeOutput, error) {
	f.edited[id] = body
	return journaldto.NoteChangeOutput{Applied: true}, nil
}

func (f *fakeJournal) DeleteNote(_ context.Context, id string) (journaldto.NoteChangeOutput, error) {
	f.deleted = append(f.deleted, id)
	return journaldto.NoteChangeOutput{Applied: true}, nil
}

func (f *fakeJournal) ListNotes(context.Context, string) (journaldto.NotesViewOutput, error) {
	return f.notes, nil
}

func (f *fakeJournal) AddResource(context.Context, string, string, string) (journaldto.ResourceChangeOutput, error) {
	return journaldto.ResourceChangeOutput{Applied: true}, nil
}

func (f *fakeJournal) EditResource(context.Context, string, string) (journaldto.ResourceChangeOutput, error) {
	return journaldto.ResourceChangeOutput{}, nil
}

func (f *fakeJournal) DeleteResource(context.Context, string) (journaldto.ResourceChangeOutput, error) {
	return journaldto.ResourceChangeOutput{}, nil
}

func (f *fakeJournal) ListResources(context.Context, string) (journaldto.ResourcesViewOutput, error) {
	return journaldto.ResourcesViewOutput{}, nil
}

func (f *fakeJournal) Calendar(context.Context) (journaldto.CalendarOutput, error) {
	return journaldto.CalendarOutput{}, nil
}

func (f *fakeJournal) Reindex(context.Context) (journaldto.ReindexOutput, error) {
	return journaldto.ReindexOutput{Notes: 2}, nil
}

func (f *fakeJournal) Export(context.Context, string) (journaldto.ExportOutput, error) {
	return journaldto.ExportOutput{}, nil
}

func (f *fakeJournal) Changes(context.Context) (<-chan struct{}, error) {
	return f.changes, nil
}

type fakeSchedule struct{}

func (fakeSchedule) Schedule(context.Context) (scheduledto.ScheduleOutput, error) {
	return scheduledto.ScheduleOutput{}, nil
}

func (fakeSchedule) Today(context.Context) (scheduledto.DueOutput, error) {
	return scheduledto.DueOutput{}, nil
}

func loadedModel(t *testing.T, journal *fakeJournal) Model {
	t.Helper()
	m := NewModel(context.Background(), journal, fakeSchedule{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	view, err := journal.ListNotes(context.Background(), "")
	require.NoError(t, err)
	next, _ = m.Update(notesview.LoadedMsg{View: view})
	return next.(Model)
}

func press(m Model, keys string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch keys {
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain runs cmd and feeds every produced message back into the model.
func drain(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	next, follow := m.Update(msg)
	m = next.(Model)
	if _, isMutation := msg.(mutatedMsg); isMutation {
		return m
	}
	return drain(m, follow)
}

func TestTabCycles(t *testing.T) {
	t.Parallel()
	m := loadedModel(t, newFakeJournal())
	for _, want := range []tabID{tabResources, tabCalendar, tabSchedule, tabNotes} {
		m, _ = press(m, "tab")
		assert.Equal(t, want, m.activeTab)
	}
}

func TestEditSelectedNote(t *testing.T) {
	t.Parallel()
	journal := newFakeJournal()
	m := loadedModel(t, journal)

	m, _ = press(m, "e")
	require.True(t, m.form.Visible())
	target, ok := m.edit.Target(domain.KindNote)
	require.True(t, ok)
	assert.Equal(t, "n2", target, "newest day is listed first")

	m, _ = press(m, "!")
	m, cmd := press(m, "ctrl+s")
	assert.False(t, m.form.Visible())
	m = drain(m, cmd)

	assert.Equal(t, "generics!", journal.edited["n2"])
	_, still := m.edit.Target(domain.KindNote)
	assert.False(t, still, "saving leaves edit mode")
	assert.Equal(t, "note updated", m.status)
}

func TestCancelledEditLeavesRecordAlone(t *testing.T) {
	t.Parallel()
	journal := newFakeJournal()
	m := loadedModel(t, journal)

	m, _ = press(m, "e")
	m, cmd := press(m, "esc")
	m = drain(m, cmd)
	assert.Empty(t, journal.edited)
	_, editing := m.edit.Target(domain.KindNote)
	assert.False(t, editing)
}

func TestDeleteSelectedNote(t *testing.T) {
	t.Parallel()
	journal := newFakeJournal()
	m := loadedModel(t, journal)

	m, cmd := press(m, "d")
	m = drain(m, cmd)
	assert.Equal(t, []string{"n2"}, journal.deleted)
	assert.Equal(t, "note deleted", m.status)
}

func TestAddNoteThroughForm(t *testing.T) {
	t.Parallel()
	journal := newFakeJournal()
	m := loadedModel(t, journal)

	next, cmd := m.Update(components.FormSubmitMsg{
		Purpose: formAddNote,
		Section: "Learning Skill",
		Fields:  map[string]string{fieldDate: ""},
		Body:    "channels",
	})
	m = drain(next.(Model), cmd)
	require.Len(t, journal.added, 1)
	assert.Equal(t, "channels", journal.added[0].Body)
	assert.Equal(t, "note saved", m.status)
}

func TestPaletteFilterAndUnknownCommand(t *testing.T) {
	t.Parallel()
	m := loadedModel(t, newFakeJournal())

	next, _ := m.executePalette("filter Learning Skill")
	m = next.(Model)
	assert.Equal(t, "Learning Skill", m.section)
	assert.True(t, strings.Contains(m.renderStatusBar(), "Learning Skill"))

	next, _ = m.executePalette("filter all")
	assert.Empty(t, next.(Model).section)

	next, _ = m.executePalette("launch rockets")
	assert.Equal(t, "unknown command: launch", next.(Model).status)
}

func TestFileChangeTriggersReload(t *testing.T) {
	t.Parallel()
	journal := newFakeJournal()
	m := loadedModel(t, journal)

	next, cmd := m.Update(m.startWatchCmd()())
	m = next.(Model)
	require.NotNil(t, cmd)
	journal.changes <- struct{}{}
	assert.IsType(t, filesChangedMsg{}, cmd())

	close(journal.changes)
	assert.Nil(t, waitForChange(m.changes)())
}
