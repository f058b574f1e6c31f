package domain

import (
	"sort"
	"strings"
	"time"
)

// UndatedLabel names the group that collects notes whose date cannot be
// parsed. It always sorts after every dated group.
const UndatedLabel = "undated"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// Years outside this range are treated as unparseable, so a stray legacy
// date cannot stretch the calendar over centuries.
const (
	MinYear = 1678
	MaxYear = 2261
)

// ParseDate reads a stored date string as a calendar day at UTC midnight.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if t.Year() < MinYear || t.Year() > MaxYear {
				return time.Time{}, false
			}
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

type DayGroup struct {
	Day     string
	Date    time.Time
	Undated bool
	Notes   []Note
}

// GroupNotesByDay buckets notes by calendar day, newest day first. Notes
// inside a day keep their stored order.
func GroupNotesByDay(notes []Note) []DayGroup {
	index := map[string]int{}
	groups := make([]DayGroup, 0)
	var undated *DayGroup

	for _, note := range notes {
		day, ok := ParseDate(note.Date)
		if !ok {
			if undated == nil {
				undated = &DayGroup{Day: UndatedLabel, Undated: true}
			}
			undated.Notes = append(undated.Notes, note)
			continue
		}
		key := day.Format(DateLayout)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Day: key, Date: day})
		}
		groups[i].Notes = append(groups[i].Notes, note)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date.After(groups[b].Date)
	})
	if undated != nil {
		groups = append(groups, *undated)
	}
	return groups
}

// ResourcesNewestFirst reverses append order; record dates play no part.
func ResourcesNewestFirst(resources []Resource) []Resource {
	out := make([]Resource, len(resources))
	for i, r := range resources {
		out[len(resources)-1-i] = r
	}
	return out
}

func FilterNotes(notes []Note, section Section) []Note {
	if section == "" {
		return notes
	}
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.Section == section {
			out = append(out, n)
		}
	}
	return out
}

func FilterResources(resources []Resource, section Section) []Resource {
	if section == "" {
		return resources
	}
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if r.Section == section {
			out = append(out, r)
		}
	}
	return out
}

type CalendarDay struct {
	Date        time.Time
	NotesCount  int
	HasNote     bool
	HasResource bool
}

func (d CalendarDay) Day() string {
	return d.Date.Format(DateLayout)
}

type Calendar struct {
	Start         time.Time
	End           time.Time
	Days          []CalendarDay
	CurrentStreak int
	LongestStreak int
}

// BuildCalendar produces one row per day from the earliest record date to
// today, newest first. Days without activity are still listed. Records
// dated after today fall outside the range; when every record does, the
// range collapses to today alone.
func BuildCalendar(notes []Note, resources []Resource, today time.Time) Calendar {
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start := end

	noteCounts := map[string]int{}
	resourceDays := map[string]bool{}
	for _, n := range notes {
		day, ok := ParseDate(n.Date)
		if !ok {
			continue
		}
		noteCounts[day.Format(DateLayout)]++
		if day.Before(start) {
			start = day
		}
	}
	for _, r := range resources {
		day, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		resourceDays[day.Format(DateLayout)] = true
		if day.Before(start) {
			start = day
		}
	}

	span := int(end.Sub(start).Hours()/24) + 1
	days := make([]CalendarDay, 0, span)
	for d := end; !d.Before(start); d = d.AddDate(0, 0, -1) {
		key := d.Format(DateLayout)
		count := noteCounts[key]
		days = append(days, CalendarDay{
			Date:        d,
			NotesCount:  count,
			HasNote:     count > 0,
			HasResource: resourceDays[key],
		})
	}

	current, longest := streaks(days)
	return Calendar{Start: start, End: end, Days: days, CurrentStreak: current, LongestStreak: longest}
}

// streaks expects days newest first. The current streak may start
// yesterday, so a day without notes yet does not reset it.
func streaks(days []CalendarDay) (current, longest int) {
	run := 0
	for _, d := range days {
		if d.HasNote {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	i := 0
	if len(days) > 0 && !days[0].HasNote {
		i = 1
	}
	for ; i < len(days) && days[i].HasNote; i++ {
		current++
	}
	return current, longest
}
