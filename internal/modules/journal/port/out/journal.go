package out

import (
	"context"

	"journal/internal/modules/journal/domain"
)

// NoteStore owns the notes collection file. Load returns an empty
// collection for a missing or blank file; for undecodable content it also
// returns an error matching apperrors.ErrCorruptedStore.
type NoteStore interface {
	Load(ctx context.Context) ([]domain.Note, error)
	Save(ctx context.Context, notes []domain.Note) error
	Quarantine(ctx context.Context) (string, error)
}

type ResourceStore interface {
	Load(ctx context.Context) ([]domain.Resource, error)
	Save(ctx context.Context, resources []domain.Resource) error
	Quarantine(ctx context.Context) (string, error)
}

// SearchIndex is a rebuildable projection of both collections.
type SearchIndex interface {
	Reset(ctx context.Context) error
	UpsertNote(ctx context.Context, note domain.Note) error
	UpsertResource(ctx context.Context, resource domain.Resource) error
	Delete(ctx context.Context, kind domain.Kind, id string) error
	// Clear drops every entry of one kind.
	Clear(ctx context.Context, kind domain.Kind) error
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)
}

type DayExporter interface {
	ExportDay(ctx context.Context, outDir string, group domain.DayGroup) (string, error)
}

type ChangeWatcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
