package domain

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed schedule.yaml
var defaultSchedule []byte

type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// Entry is one standing habit. Weekday and DayOfMonth only apply to the
// weekly and monthly tables respectively.
type Entry struct {
	When       string `yaml:"when"`
	Weekday    string `yaml:"weekday,omitempty"`
	DayOfMonth int    `yaml:"day_of_month,omitempty"`
	Standard   string `yaml:"standard"`
	Notes      string `yaml:"notes"`
}

type Schedule struct {
	Daily   []Entry `yaml:"daily"`
	Weekly  []Entry `yaml:"weekly"`
	Monthly []Entry `yaml:"monthly"`
}

func Default() (Schedule, error) {
	return Parse(defaultSchedule)
}

func Parse(raw []byte) (Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Schedule{}, fmt.Errorf("parse schedule: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func (s Schedule) Validate() error {
	for _, e := range s.Weekly {
		if _, err := parseWeekday(e.Weekday); err != nil {
			return fmt.Errorf("weekly %q: %w", e.Standard, err)
		}
	}
	for _, e := range s.Monthly {
		if e.DayOfMonth < 1 || e.DayOfMonth > 31 {
			return fmt.Errorf("monthly %q: day_of_month %d out of range", e.Standard, e.DayOfMonth)
		}
	}
	return nil
}

func (s Schedule) Table(c Cadence) []Entry {
	switch c {
	case CadenceDaily:
		return s.Daily
	case CadenceWeekly:
		return s.Weekly
	case CadenceMonthly:
		return s.Monthly
	default:
		return nil
	}
}

// Due lists the entries that apply on day, daily ones first. A monthly
// entry past the end of a short month falls on its last day.
func (s Schedule) Due(day time.Time) []Entry {
	due := append([]Entry(nil), s.Daily...)
	for _, e := range s.Weekly {
		if wd, err := parseWeekday(e.Weekday); err == nil && wd == day.Weekday() {
			due = append(due, e)
		}
	}
	last := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	for _, e := range s.Monthly {
		if min(e.DayOfMonth, last) == day.Day() {
			due = append(due, e)
		}
	}
	return due
}

func parseWeekday(raw string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(strings.TrimSpace(raw), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}
