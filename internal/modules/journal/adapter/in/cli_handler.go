package in

import (
	"context"

	"journal/internal/modules/journal/dto"
	journalin "journal/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sections() []string {
	return h.usecase.Sections()
}

func (h CLIHandler) AddNote(ctx context.Context, date, section, body string) (dto.NoteChangeOutput, error) {
	return h.usecase.AddNote(ctx, dto.AddNoteInput{Date: date, Section: section, Body: body})
}

func (h CLIHandler) EditNote(ctx context.Context, id, body string) (dto.NoteChangeOutput, error) {
	return h.usecase.UpdateNote(ctx, dto.UpdateInput{ID: id, Text: body})
}

func (h CLIHandler) DeleteNote(ctx context.Context, id string) (dto.NoteChangeOutput, error) {
	return h.usecase.DeleteNote(ctx, dto.DeleteInput{ID: id})
}

func (h CLIHandler) ListNotes(ctx context.Context, section string) (dto.NotesViewOutput, error) {
	return h.usecase.ListNotes(ctx, dto.ListInput{Section: section})
}

func (h CLIHandler) AddResource(ctx context.Context, section, url, desc string) (dto.ResourceChangeOutput, error) {
	return h.usecase.AddResource(ctx, dto.AddResourceInput{Section: section, URL: url, Desc: desc})
}

func (h CLIHandler) EditResource(ctx context.Context, id, desc string) (dto.ResourceChangeOutput, error) {
	return h.usecase.UpdateResource(ctx, dto.UpdateInput{ID: id, Text: desc})
}

func (h CLIHandler) DeleteResource(ctx context.Context, id string) (dto.ResourceChangeOutput, error) {
	return h.usecase.DeleteResource(ctx, dto.DeleteInput{ID: id})
}

func (h CLIHandler) ListResources(ctx context.Context, section string) (dto.ResourcesViewOutput, error) {
	return h.usecase.ListResources(ctx, dto.ListInput{Section: section})
}

func (h CLIHandler) Calendar(ctx context.Context) (dto.CalendarOutput, error) {
	return h.usecase.Calendar(ctx)
}

func (h CLIHandler) Search(ctx context.Context, query string, limit int) ([]dto.SearchHitOutput, error) {
	return h.usecase.Search(ctx, dto.SearchInput{Query: query, Limit: limit})
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Export(ctx context.Context, outDir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{OutDir: outDir})
}

func (h CLIHandler) Changes(ctx context.Context) (<-chan struct{}, error) {
	return h.usecase.Changes(ctx)
}
