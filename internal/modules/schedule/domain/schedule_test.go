package domain

import (
	"testing"
	"time"
)

func TestDefaultScheduleTables(t *testing.T) {
	t.Parallel()
	s, err := Default()
	if err != nil {
		t.Fatalf("default schedule: %v", err)
	}
	if len(s.Daily) != 4 || len(s.Weekly) != 1 || len(s.Monthly) != 1 {
		t.Fatalf("unexpected table sizes: %d/%d/%d", len(s.Daily), len(s.Weekly), len(s.Monthly))
	}
	if s.Daily[0].When != "07:00 AM" || s.Daily[0].Standard != "Health Standard" {
		t.Fatalf("unexpected first daily entry: %+v", s.Daily[0])
	}
	if s.Table(CadenceMonthly)[0].DayOfMonth != 28 {
		t.Fatalf("monthly entry should fall on the 28th")
	}
	if s.Table(Cadence("yearly")) != nil {
		t.Fatalf("unknown cadence should have no table")
	}
}

func TestDue(t *testing.T) {
	t.Parallel()
	s, err := Default()
	if err != nil {
		t.Fatalf("default schedule: %v", err)
	}
	cases := []struct {
		name string
		day  time.Time
		want int
	}{
		{name: "plain weekday", day: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), want: 4},
		{name: "saturday", day: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), want: 5},
		{name: "finance day", day: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), want: 5},
		{name: "saturday the 28th", day: time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC), want: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(s.Due(tc.day)); got != tc.want {
				t.Fatalf("due entries = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDueClampsToShortMonths(t *testing.T) {
	t.Parallel()
	s := Schedule{Monthly: []Entry{{Standard: "Rent", DayOfMonth: 31}}}
	if got := s.Due(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)); len(got) != 1 {
		t.Fatalf("expected clamped monthly entry, got %+v", got)
	}
	if got := s.Due(time.Date(2023, 3, 30, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("expected nothing on the 30th of a 31-day month, got %+v", got)
	}
}

func TestParseRejectsBadEntries(t *testing.T) {
	t.Parallel()
	if _, err := Parse([]byte("weekly:\n  - standard: x\n    weekday: Someday\n")); err == nil {
		t.Fatalf("expected weekday error")
	}
	if _, err := Parse([]byte("monthly:\n  - standard: x\n    day_of_month: 40\n")); err == nil {
		t.Fatalf("expected day_of_month error")
	}
	if _, err := Parse([]byte("daily: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
