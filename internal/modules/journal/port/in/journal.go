package in

import (
	"context"

	"journal/internal/modules/journal/dto"
)

type Usecase interface {
	Sections() []string

	AddNote(ctx context.Context, input dto.AddNoteInput) (dto.NoteChangeOutput, error)
	UpdateNote(ctx context.Context, input dto.UpdateInput) (dto.NoteChangeOutput, error)
	DeleteNote(ctx context.Context, input dto.DeleteInput) (dto.NoteChangeOutput, error)
	ListNotes(ctx context.Context, input dto.ListInput) (dto.NotesViewOutput, error)

	AddResource(ctx context.Context, input dto.AddResourceInput) (dto.ResourceChangeOutput, error)
	UpdateResource(ctx context.Context, input dto.UpdateInput) (dto.ResourceChangeOutput, error)
	DeleteResource(ctx context.Context, input dto.DeleteInput) (dto.ResourceChangeOutput, error)
	ListResources(ctx context.Context, input dto.ListInput) (dto.ResourcesViewOutput, error)

	Calendar(ctx context.Context) (dto.CalendarOutput, error)
	Search(ctx context.Context, input dto.SearchInput) ([]dto.SearchHitOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Changes(ctx context.Context) (<-chan struct{}, error)
}
