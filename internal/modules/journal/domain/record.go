package domain

import (
	"fmt"
	"strings"

	"journal/internal/platform/slug"
)

const (
	DateLayout    = "2006-01-02"
	SchemaVersion = 1
)

// Section is the life area a record belongs to, stored as its label.
type Section string

const (
	SectionDailyExercise Section = "Daily Exercise"
	SectionLearningSkill Section = "Learning Skill"
	SectionYouTubeWork   Section = "YouTube Work"
	SectionLinkedInWork  Section = "LinkedIn Work"
	SectionTradingWork   Section = "Trading Learning/Work"
	SectionGeneral       Section = "General"
)

// Sections is the selector domain offered when creating records. General is
// only ever produced by backfill.
var Sections = []Section{
	SectionDailyExercise,
	SectionLearningSkill,
	SectionYouTubeWork,
	SectionLinkedInWork,
	SectionTradingWork,
}

// Tag is the section as a lowercase hyphenated token, e.g. "trading-learning-work".
func (s Section) Tag() string {
	return slug.Make(string(s), "general")
}

// Validate accepts only the selectable sections; General is rejected.
func (s Section) Validate() error {
	for _, known := range Sections {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported section %q", string(s))
}

// ParseSection accepts the exact label, a case-insensitive label or its tag.
func ParseSection(raw string) (Section, error) {
	raw = strings.TrimSpace(raw)
	for _, known := range Sections {
		if raw == string(known) || strings.EqualFold(raw, string(known)) || raw == known.Tag() {
			return known, nil
		}
	}
	return "", fmt.Errorf("unsupported section %q", raw)
}

// Kind tells notes and resources apart where both share one surface, such
// as the edit state and the search index.
type Kind string

const (
	KindNote     Kind = "note"
	KindResource Kind = "resource"
)

// Note is a dated piece of markdown text. The JSON tags are the on-disk
// layout of notes.json.
type Note struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Section Section `json:"section"`
	Body    string  `json:"note"`
}

// Resource is a link with a description, dated when it was added.
type Resource struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Section Section `json:"section"`
	URL     string  `json:"url"`
	Desc    string  `json:"desc"`
}

// NoteChange is the result of a note mutation. Applied is false for edits
// and deletes that targeted an unknown id. Warning carries a recovered
// storage problem, such as a quarantined corrupt file.
type NoteChange struct {
	Note    Note
	Applied bool
	Warning string
}

// ResourceChange is the resource counterpart of NoteChange.
type ResourceChange struct {
	Resource Resource
	Applied  bool
	Warning  string
}

// SearchHit is one index match. Text is the note body or resource
// description.
type SearchHit struct {
	Kind    Kind
	ID      string
	Date    string
	Section Section
	Text    string
	URL     string
}
