package web_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	journaldto "journal/internal/modules/journal/dto"
	scheduledto "journal/internal/modules/schedule/dto"
	apperrors "journal/internal/platform/errors"
	"journal/internal/web"
)

type fakeJournal struct {
	notes     []journaldto.NoteOutput
	resources []journaldto.ResourceOutput
	edits     map[string]string
	deleted   []string
}

func (f *fakeJournal) Sections() []string { return []string{"Daily Exercise", "Learning Skill"} }

func (f *fakeJournal) AddNote(_ context.Context, date, section, body string) (journaldto.NoteChangeOutput, error) {
	if section == "Cooking" {
		return journaldto.NoteChangeOutput{}, fmt.Errorf("%w: unsupported section", apperrors.ErrInvalidInput)
	}
	n := journaldto.NoteOutput{ID: fmt.Sprintf("n%d", len(f.notes)+1), Date: date, Section: section, Body: body}
	f.notes = append(f.notes, n)
	return journaldto.NoteChangeOutput{Note: n, Applied: true}, nil
}

func (f *fakeJournal) EditNote(_ context.Context, id, body string) (journaldto.NoteChangeOutput, error) {
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Body = body
			return journaldto.NoteChangeOutput{Note: f.notes[i], Applied: true}, nil
		}
	}
	return journaldto.NoteChangeOutput{}, nil
}

func (f *fakeJournal) DeleteNote(_ context.Context, id string) (journaldto.NoteChangeOutput, error) {
	f.deleted = append(f.deleted, id)
	return journaldto.NoteChangeOutput{Applied: true}, nil
}

func (f *fakeJournal) ListNotes(context.Context, string) (journaldto.NotesViewOutput, error) {
	if len(f.notes) == 0 {
		return journaldto.NotesViewOutput{Warnings: []string{"notes file is corrupted"}}, nil
	}
	return journaldto.NotesViewOutput{
		Total:  len(f.notes),
		Groups: []journaldto.DayGroupOutput{{Day: f.notes[0].Date, Notes: f.notes}},
	}, nil
}

func (f *fakeJournal) AddResource(_ context.Context, section, u, desc string) (journaldto.ResourceChangeOutput, error) {
	r := journaldto.ResourceOutput{ID: "r1", Date: "2024-01-03", Section: section, URL: u, Desc: desc}
	f.resources = append(f.resources, r)
	return journaldto.ResourceChangeOutput{Resource: r, Applied: true}, nil
}

func (f *fakeJournal) EditResource(context.Context, string, string) (journaldto.ResourceChangeOutput, error) {
	return journaldto.ResourceChangeOutput{}, nil
}

func (f *fakeJournal) DeleteResource(context.Context, string) (journaldto.ResourceChangeOutput, error) {
	return journaldto.ResourceChangeOutput{Applied: true}, nil
}

func (f *fakeJournal) ListResources(context.Context, string) (journaldto.ResourcesViewOutput, error) {
	return journaldto.ResourcesViewOutput{Resources: f.resources}, nil
}

func (f *fakeJournal) Calendar(context.Context) (journaldto.CalendarOutput, error) {
	return journaldto.CalendarOutput{
		Start: "2024-01-02", End: "2024-01-03", CurrentStreak: 1, LongestStreak: 1,
		Days: []journaldto.CalendarDayOutput{
			{Day: "2024-01-03", Weekday: "Wednesday"},
			{Day: "2024-01-02", Weekday: "Tuesday", NotesCount: 1, HasNote: true},
		},
	}, nil
}

type fakeSchedule struct{}

func (fakeSchedule) Schedule(context.Context) (scheduledto.ScheduleOutput, error) {
	return scheduledto.ScheduleOutput{Daily: []scheduledto.EntryOutput{{When: "07:00 AM", Standard: "Health Standard"}}}, nil
}

func (fakeSchedule) Today(context.Context) (scheduledto.DueOutput, error) {
	return scheduledto.DueOutput{Day: "2024-01-03", Weekday: "Wednesday"}, nil
}

func newServer(t *testing.T, journal *fakeJournal) http.Handler {
	t.Helper()
	srv, err := web.NewServer(journal, fakeSchedule{}, nil, web.Options{
		CORSOrigins: []string{"http://localhost:3000"},
		Today:       func() string { return "2024-01-03" },
	})
	require.NoError(t, err)
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func post(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddNoteRedirectsWithFlash(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{}
	h := newServer(t, journal)

	rec := post(t, h, "/notes", url.Values{"date": {"2024-01-02"}, "section": {"Learning Skill"}, "note": {"<b>bold</b>"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/notes/new?flash=Note+saved%21", rec.Header().Get("Location"))
	require.Len(t, journal.notes, 1)

	page := get(t, h, "/notes")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "2024-01-02")
	assert.Contains(t, page.Body.String(), "&lt;b&gt;bold&lt;/b&gt;")
}

func TestInvalidSectionIsBadRequest(t *testing.T) {
	t.Parallel()
	rec := post(t, newServer(t, &fakeJournal{}), "/notes", url.Values{"section": {"Cooking"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditModeComesFromQuery(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{notes: []journaldto.NoteOutput{
		{ID: "n1", Date: "2024-01-02", Section: "Learning Skill", Body: "first"},
		{ID: "n2", Date: "2024-01-02", Section: "Learning Skill", Body: "second"},
	}}
	h := newServer(t, journal)

	body := get(t, h, "/notes?edit=n2").Body.String()
	assert.Contains(t, body, `action="/notes/n2"`)
	assert.NotContains(t, body, `action="/notes/n1"`)
	assert.Contains(t, body, `action="/notes/n1/delete"`)

	rec := post(t, h, "/notes/n2", url.Values{"note": {"second, revised"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "second, revised", journal.notes[1].Body)

	rec = post(t, h, "/notes/missing", url.Values{"note": {"x"}})
	assert.Contains(t, rec.Header().Get("Location"), url.QueryEscape("That note no longer exists."))
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{}
	rec := post(t, newServer(t, journal), "/notes/n9/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"n9"}, journal.deleted)
}

func TestWarningsAreShown(t *testing.T) {
	t.Parallel()
	body := get(t, newServer(t, &fakeJournal{}), "/notes").Body.String()
	assert.Contains(t, body, "notes file is corrupted")
}

func TestResourcesCalendarAndSchedulePages(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{}
	h := newServer(t, journal)

	rec := post(t, h, "/resources", url.Values{"section": {"Daily Exercise"}, "url": {"javascript:alert(1)"}, "desc": {"sneaky"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	resources := get(t, h, "/resources").Body.String()
	assert.Contains(t, resources, "sneaky")
	assert.NotContains(t, resources, `href="javascript:`)

	cal := get(t, h, "/calendar").Body.String()
	assert.Contains(t, cal, "Wednesday")
	assert.Contains(t, cal, "current streak 1")

	sched := get(t, h, "/schedule").Body.String()
	assert.Contains(t, sched, "Health Standard")

	add := get(t, h, "/notes/new").Body.String()
	assert.Contains(t, add, `value="2024-01-03"`)
}

func TestCORSAndHealth(t *testing.T) {
	t.Parallel()
	h := newServer(t, &fakeJournal{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	root := get(t, h, "/")
	assert.Equal(t, http.StatusFound, root.Code)
}
