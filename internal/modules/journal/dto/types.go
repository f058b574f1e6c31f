package dto

type AddNoteInput struct {
	Date    string
	Section string
	Body    string
}

type AddResourceInput struct {
	Section string
	URL     string
	Desc    string
}

type UpdateInput struct {
	ID   string
	Text string
}

type DeleteInput struct {
	ID string
}

type ListInput struct {
	Section string
}

type NoteOutput struct {
	ID      string
	Date    string
	Section string
	Body    string
}

type ResourceOutput struct {
	ID      string
	Date    string
	Section string
	URL     string
	Desc    string
}

type NoteChangeOutput struct {
	Note    NoteOutput
	Applied bool
	Warning string
}

type ResourceChangeOutput struct {
	Resource ResourceOutput
	Applied  bool
	Warning  string
}

type DayGroupOutput struct {
	Day     string
	Undated bool
	Notes   []NoteOutput
}

type NotesViewOutput struct {
	Groups   []DayGroupOutput
	Total    int
	Warnings []string
}

type ResourcesViewOutput struct {
	Resources []ResourceOutput
	Warnings  []string
}

type CalendarDayOutput struct {
	Day         string
	Weekday     string
	NotesCount  int
	HasNote     bool
	HasResource bool
}

type CalendarOutput struct {
	Start         string
	End           string
	Days          []CalendarDayOutput
	CurrentStreak int
	LongestStreak int
	Warnings      []string
}

type SearchInput struct {
	Query string
	Limit int
}

type SearchHitOutput struct {
	Kind    string
	ID      string
	Date    string
	Section string
	Text    string
	URL     string
}

type ReindexOutput struct {
	Notes     int
	Resources int
}

type ExportInput struct {
	OutDir string
}

type ExportOutput struct {
	Files   []string
	Skipped int
}
