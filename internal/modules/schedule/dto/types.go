package dto

type EntryOutput struct {
	When     string
	Standard string
	Notes    string
}

type ScheduleOutput struct {
	Daily   []EntryOutput
	Weekly  []EntryOutput
	Monthly []EntryOutput
}

type DueOutput struct {
	Day     string
	Weekday string
	Entries []EntryOutput
}
