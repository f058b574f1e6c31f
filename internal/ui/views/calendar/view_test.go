package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"

	journaldto "journal/internal/modules/journal/dto"
)

type fakePort struct {
	cal journaldto.CalendarOutput
	err error
}

func (f fakePort) Calendar(context.Context) (journaldto.CalendarOutput, error) {
	return f.cal, f.err
}

func TestRowsMarkActivity(t *testing.T) {
	t.Parallel()
	rows := Rows(journaldto.CalendarOutput{Days: []journaldto.CalendarDayOutput{
		{Day: "2024-01-02", Weekday: "Tuesday", NotesCount: 2, HasNote: true},
		{Day: "2024-01-01", Weekday: "Monday", HasResource: true},
	}})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "2" || rows[0][3] != mark || rows[0][4] != blank {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1][3] != blank || rows[1][4] != mark {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
}

func TestReloadRendersStreaksAndErrors(t *testing.T) {
	t.Parallel()
	m := New(fakePort{cal: journaldto.CalendarOutput{Start: "2024-01-01", End: "2024-01-02", CurrentStreak: 2, LongestStreak: 3}})
	m, _ = m.Update(m.Reload()())
	if view := m.View(); !strings.Contains(view, "streak 2") || !strings.Contains(view, "best 3") {
		t.Fatalf("streaks missing from view:\n%s", view)
	}

	failing := New(fakePort{err: errors.New("disk gone")})
	failing, _ = failing.Update(failing.Reload()())
	if !strings.Contains(failing.View(), "disk gone") {
		t.Fatalf("error not rendered")
	}
}
