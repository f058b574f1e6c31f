package usecase

import (
	"context"
	"fmt"
	"strings"

	"journal/internal/modules/journal/domain"
	"journal/internal/modules/journal/dto"
	journalin "journal/internal/modules/journal/port/in"
	"journal/internal/modules/journal/service"
	apperrors "journal/internal/platform/errors"
)

type Interactor struct {
	svc *service.JournalService
}

func NewInteractor(svc *service.JournalService) journalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Sections() []string {
	out := make([]string, 0, len(domain.Sections))
	for _, s := range domain.Sections {
		out = append(out, string(s))
	}
	return out
}

func (i *Interactor) AddNote(ctx context.Context, input dto.AddNoteInput) (dto.NoteChangeOutput, error) {
	section, err := parseSection(input.Section)
	if err != nil {
		return dto.NoteChangeOutput{}, err
	}
	date := strings.TrimSpace(input.Date)
	if date != "" {
		day, ok := domain.ParseDate(date)
		if !ok {
			return dto.NoteChangeOutput{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", apperrors.ErrInvalidInput, input.Date)
		}
		date = day.Format(domain.DateLayout)
	}
	change, err := i.svc.AddNote(ctx, date, section, input.Body)
	if err != nil {
		return dto.NoteChangeOutput{}, err
	}
	return toNoteChange(change), nil
}

func (i *Interactor) UpdateNote(ctx context.Context, input dto.UpdateInput) (dto.NoteChangeOutput, error) {
	change, err := i.svc.UpdateNote(ctx, input.ID, input.Text)
	if err != nil {
		return dto.NoteChangeOutput{}, err
	}
	return toNoteChange(change), nil
}

func (i *Interactor) DeleteNote(ctx context.Context, input dto.DeleteInput) (dto.NoteChangeOutput, error) {
	change, err := i.svc.DeleteNote(ctx, input.ID)
	if err != nil {
		return dto.NoteChangeOutput{}, err
	}
	return toNoteChange(change), nil
}

func (i *Interactor) ListNotes(ctx context.Context, input dto.ListInput) (dto.NotesViewOutput, error) {
	section, err := parseFilter(input.Section)
	if err != nil {
		return dto.NotesViewOutput{}, err
	}
	groups, total, warnings, err := i.svc.NotesByDay(ctx, section)
	if err != nil {
		return dto.NotesViewOutput{}, err
	}
	out := dto.NotesViewOutput{Groups: make([]dto.DayGroupOutput, 0, len(groups)), Total: total, Warnings: warnings}
	for _, group := range groups {
		g := dto.DayGroupOutput{Day: group.Day, Undated: group.Undated, Notes: make([]dto.NoteOutput, 0, len(group.Notes))}
		for _, note := range group.Notes {
			g.Notes = append(g.Notes, toNote(note))
		}
		out.Groups = append(out.Groups, g)
	}
	return out, nil
}

func (i *Interactor) AddResource(ctx context.Context, input dto.AddResourceInput) (dto.ResourceChangeOutput, error) {
	section, err := parseSection(input.Section)
	if err != nil {
		return dto.ResourceChangeOutput{}, err
	}
	change, err := i.svc.AddResource(ctx, section, input.URL, input.Desc)
	if err != nil {
		return dto.ResourceChangeOutput{}, err
	}
	return toResourceChange(change), nil
}

func (i *Interactor) UpdateResource(ctx context.Context, input dto.UpdateInput) (dto.ResourceChangeOutput, error) {
	change, err := i.svc.UpdateResource(ctx, input.ID, input.Text)
	if err != nil {
		return dto.ResourceChangeOutput{}, err
	}
	return toResourceChange(change), nil
}

func (i *Interactor) DeleteResource(ctx context.Context, input dto.DeleteInput) (dto.ResourceChangeOutput, error) {
	change, err := i.svc.DeleteResource(ctx, input.ID)
	if err != nil {
		return dto.ResourceChangeOutput{}, err
	}
	return toResourceChange(change), nil
}

func (i *Interactor) ListResources(ctx context.Context, input dto.ListInput) (dto.ResourcesViewOutput, error) {
	section, err := parseFilter(input.Section)
	if err != nil {
		return dto.ResourcesViewOutput{}, err
	}
	resources, warnings, err := i.svc.ResourcesNewestFirst(ctx, section)
	if err != nil {
		return dto.ResourcesViewOutput{}, err
	}
	out := dto.ResourcesViewOutput{Resources: make([]dto.ResourceOutput, 0, len(resources)), Warnings: warnings}
	for _, r := range resources {
		out.Resources = append(out.Resources, toResource(r))
	}
	return out, nil
}

func (i *Interactor) Calendar(ctx context.Context) (dto.CalendarOutput, error) {
	cal, warnings, err := i.svc.Calendar(ctx)
	if err != nil {
		return dto.CalendarOutput{}, err
	}
	out := dto.CalendarOutput{
		Start:         cal.Start.Format(domain.DateLayout),
		End:           cal.End.Format(domain.DateLayout),
		Days:          make([]dto.CalendarDayOutput, 0, len(cal.Days)),
		CurrentStreak: cal.CurrentStreak,
		LongestStreak: cal.LongestStreak,
		Warnings:      warnings,
	}
	for _, d := range cal.Days {
		out.Days = append(out.Days, dto.CalendarDayOutput{
			Day:         d.Day(),
			Weekday:     d.Date.Weekday().String(),
			NotesCount:  d.NotesCount,
			HasNote:     d.HasNote,
			HasResource: d.HasResource,
		})
	}
	return out, nil
}

func (i *Interactor) Search(ctx context.Context, input dto.SearchInput) ([]dto.SearchHitOutput, error) {
	hits, err := i.svc.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SearchHitOutput, 0, len(hits))
	for _, h := range hits {
		out = append(out, dto.SearchHitOutput{
			Kind:    string(h.Kind),
			ID:      h.ID,
			Date:    h.Date,
			Section: string(h.Section),
			Text:    h.Text,
			URL:     h.URL,
		})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	notes, resources, err := i.svc.Reindex(ctx)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	return dto.ReindexOutput{Notes: notes, Resources: resources}, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	files, skipped, err := i.svc.Export(ctx, input.OutDir)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Files: files, Skipped: skipped}, nil
}

func (i *Interactor) Changes(ctx context.Context) (<-chan struct{}, error) {
	return i.svc.Changes(ctx)
}

func parseSection(raw string) (domain.Section, error) {
	section, err := domain.ParseSection(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	return section, nil
}

// parseFilter also admits General, which only exists on backfilled records.
func parseFilter(raw string) (domain.Section, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if strings.EqualFold(raw, string(domain.SectionGeneral)) {
		return domain.SectionGeneral, nil
	}
	return parseSection(raw)
}

func toNote(n domain.Note) dto.NoteOutput {
	return dto.NoteOutput{ID: n.ID, Date: n.Date, Section: string(n.Section), Body: n.Body}
}

func toResource(r domain.Resource) dto.ResourceOutput {
	return dto.ResourceOutput{ID: r.ID, Date: r.Date, Section: string(r.Section), URL: r.URL, Desc: r.Desc}
}

func toNoteChange(c domain.NoteChange) dto.NoteChangeOutput {
	return dto.NoteChangeOutput{Note: toNote(c.Note), Applied: c.Applied, Warning: c.Warning}
}

func toResourceChange(c domain.ResourceChange) dto.ResourceChangeOutput {
	return dto.ResourceChangeOutput{Resource: toResource(c.Resource), Applied: c.Applied, Warning: c.Warning}
}
