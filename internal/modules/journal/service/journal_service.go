package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"journal/internal/modules/journal/domain"
	journalout "journal/internal/modules/journal/port/out"
	"journal/internal/platform/clock"
	apperrors "journal/internal/platform/errors"
	"journal/internal/platform/id"
	"journal/internal/platform/logging"
	"journal/internal/platform/tx"
)

type JournalService struct {
	clock     clock.Clock
	idGen     id.Generator
	notes     journalout.NoteStore
	resources journalout.ResourceStore
	index     journalout.SearchIndex
	exporter  journalout.DayExporter
	watcher   journalout.ChangeWatcher
	tx        tx.Manager
	logger    *zap.Logger
}

type Deps struct {
	Clock     clock.Clock
	IDs       id.Generator
	Notes     journalout.NoteStore
	Resources journalout.ResourceStore
	Index     journalout.SearchIndex
	Exporter  journalout.DayExporter
	Watcher   journalout.ChangeWatcher
	Tx        tx.Manager
	Logger    *zap.Logger
}

// NewJournalService wires the collection stores. Index, Exporter and Watcher
// are optional; Tx defaults to running mutations unguarded.
func NewJournalService(deps Deps) *JournalService {
	txm := deps.Tx
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &JournalService{
		clock:     deps.Clock,
		idGen:     deps.IDs,
		notes:     deps.Notes,
		resources: deps.Resources,
		index:     deps.Index,
		exporter:  deps.Exporter,
		watcher:   deps.Watcher,
		tx:        txm,
		logger:    logging.OrNop(deps.Logger),
	}
}

func (s *JournalService) Today() string {
	return clock.Today(s.clock).Format(domain.DateLayout)
}

// ─── notes ───────────────────────────────────────────────────────────────────

func (s *JournalService) AddNote(ctx context.Context, date string, section domain.Section, body string) (domain.NoteChange, error) {
	if err := section.Validate(); err != nil {
		return domain.NoteChange{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.Today()
	}
	day, ok := domain.ParseDate(date)
	if !ok {
		return domain.NoteChange{}, fmt.Errorf("%w: date %q is not a calendar day", apperrors.ErrInvalidInput, date)
	}
	date = day.Format(domain.DateLayout)
	change := domain.NoteChange{Applied: true}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		notes, warning, err := s.loadNotesForWrite(ctx)
		if err != nil {
			return err
		}
		change.Warning = warning
		change.Note = domain.Note{ID: s.idGen.New(), Date: date, Section: section, Body: body}
		return s.notes.Save(ctx, append(notes, change.Note))
	})
	if err != nil {
		return domain.NoteChange{}, err
	}
	s.logger.Info("note added", zap.String("id", change.Note.ID), zap.String("date", date), zap.String("section", string(section)))
	s.project(ctx, func(ctx context.Context) error { return s.index.UpsertNote(ctx, change.Note) })
	return change, nil
}

// UpdateNote replaces only the body. An unknown id leaves the collection
// untouched and reports Applied=false.
func (s *JournalService) UpdateNote(ctx context.Context, noteID, body string) (domain.NoteChange, error) {
	change := domain.NoteChange{}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		notes, warning, err := s.loadNotesForWrite(ctx)
		if err != nil {
			return err
		}
		change.Warning = warning
		for i := range notes {
			if notes[i].ID == noteID {
				notes[i].Body = body
				change.Note = notes[i]
				change.Applied = true
			}
		}
		if !change.Applied {
			return nil
		}
		return s.notes.Save(ctx, notes)
	})
	if err != nil {
		return domain.NoteChange{}, err
	}
	if change.Applied {
		s.logger.Info("note updated", zap.String("id", noteID))
		s.project(ctx, func(ctx context.Context) error { return s.index.UpsertNote(ctx, change.Note) })
	} else {
		s.logger.Debug("note update ignored: unknown id", zap.String("id", noteID))
	}
	return change, nil
}

// DeleteNote is idempotent; deleting an unknown id still rewrites nothing
// and reports Applied=false.
func (s *JournalService) DeleteNote(ctx context.Context, noteID string) (domain.NoteChange, error) {
	change := domain.NoteChange{}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		notes, warning, err := s.loadNotesForWrite(ctx)
		if err != nil {
			return err
		}
		change.Warning = warning
		kept := make([]domain.Note, 0, len(notes))
		for _, n := range notes {
			if n.ID == noteID {
				change.Note = n
				change.Applied = true
				continue
			}
			kept = append(kept, n)
		}
		if !change.Applied {
			return nil
		}
		return s.notes.Save(ctx, kept)
	})
	if err != nil {
		return domain.NoteChange{}, err
	}
	if change.Applied {
		s.logger.Info("note deleted", zap.String("id", noteID))
		s.project(ctx, func(ctx context.Context) error { return s.index.Delete(ctx, domain.KindNote, noteID) })
	}
	return change, nil
}

func (s *JournalService) Notes(ctx context.Context) ([]domain.Note, []string, error) {
	notes, err := s.notes.Load(ctx)
	warnings, err := s.readWarning(err)
	return notes, warnings, err
}

// ─── resources ───────────────────────────────────────────────────────────────

// AddResource stamps the resource with today's date. The url is stored as
// typed, without validation.
func (s *JournalService) AddResource(ctx context.Context, section domain.Section, url, desc string) (domain.ResourceChange, error) {
	if err := section.Validate(); err != nil {
		return domain.ResourceChange{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	change := domain.ResourceChange{Applied: true}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		resources, warning, err := s.loadResourcesForWrite(ctx)
		if err != nil {
			return err
		}
		change.Warning = warning
		change.Resource = domain.Resource{ID: s.idGen.New(), Date: s.Today(), Section: section, URL: url, Desc: desc}
		return s.resources.Save(ctx, append(resources, change.Resource))
	})
	if err != nil {
		return domain.ResourceChange{}, err
	}
	s.logger.Info("resource added", zap.String("id", change.Resource.ID), zap.String("section", string(section)))
	s.project(ctx, func(ctx context.Context) error { return s.index.UpsertResource(ctx, change.Resource) })
	return change, nil
}

func (s *JournalService) UpdateResource(ctx context.Context, resourceID, desc string) (domain.ResourceChange, error) {
	change := domain.ResourceChange{}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		resources, warning, err := s.loadResourcesForWrite(ctx)
		if err != nil {
			return err
		}
		change.Warning = warning
		for i := range resources {
			if resources[i].ID == resourceID {
				resources[i].Desc = desc
				change.Resource = resources[i]
				change.Applied = true
			}
		}
		if !change.Applied {
			return nil
		}
		return s.resources.Save(ctx, resources)
	})
	if err != nil {
		return domain.ResourceChange{}, err
	}
	if change.Applied {
		s.logger.Info("resource updated", zap.String("id", resourceID))
		s.project(ctx, func(ctx context.Context) error { return s.index.UpsertResource(ctx, change.Resource) })
	}
	return change, nil
}

func (s *JournalService) DeleteResource(ctx context.Context, resourceID string) (domain.ResourceChange, error) {
	change := domain.ResourceChange{}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		resources, warning, err := s.loadResourcesForWrite(ctx)
		if err != nil {
			return err
		}
		change.Warning = warning
		kept := make([]domain.Resource, 0, len(resources))
		for _, r := range resources {
			if r.ID == resourceID {
				change.Resource = r
				change.Applied = true
				continue
			}
			kept = append(kept, r)
		}
		if !change.Applied {
			return nil
		}
		return s.resources.Save(ctx, kept)
	})
	if err != nil {
		return domain.ResourceChange{}, err
	}
	if change.Applied {
		s.logger.Info("resource deleted", zap.String("id", resourceID))
		s.project(ctx, func(ctx context.Context) error { return s.index.Delete(ctx, domain.KindResource, resourceID) })
	}
	return change, nil
}

func (s *JournalService) Resources(ctx context.Context) ([]domain.Resource, []string, error) {
	resources, err := s.resources.Load(ctx)
	warnings, err := s.readWarning(err)
	return resources, warnings, err
}

// ─── views ───────────────────────────────────────────────────────────────────

func (s *JournalService) NotesByDay(ctx context.Context, section domain.Section) ([]domain.DayGroup, int, []string, error) {
	notes, warnings, err := s.Notes(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	notes = domain.FilterNotes(notes, section)
	return domain.GroupNotesByDay(notes), len(notes), warnings, nil
}

func (s *JournalService) ResourcesNewestFirst(ctx context.Context, section domain.Section) ([]domain.Resource, []string, error) {
	resources, warnings, err := s.Resources(ctx)
	if err != nil {
		return nil, nil, err
	}
	return domain.ResourcesNewestFirst(domain.FilterResources(resources, section)), warnings, nil
}

func (s *JournalService) Calendar(ctx context.Context) (domain.Calendar, []string, error) {
	snap, err := s.loadBoth(ctx)
	if err != nil {
		return domain.Calendar{}, nil, err
	}
	return domain.BuildCalendar(snap.notes, snap.resources, clock.Today(s.clock)), snap.warnings(), nil
}

type snapshot struct {
	notes            []domain.Note
	resources        []domain.Resource
	noteWarnings     []string
	resourceWarnings []string
}

func (s snapshot) warnings() []string {
	return append(append([]string(nil), s.noteWarnings...), s.resourceWarnings...)
}

// loadBoth reads the two collections concurrently.
func (s *JournalService) loadBoth(ctx context.Context) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.notes, snap.noteWarnings, err = s.Notes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.resources, snap.resourceWarnings, err = s.Resources(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// ─── projections ─────────────────────────────────────────────────────────────

func (s *JournalService) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if s.index == nil {
		return nil, fmt.Errorf("search index is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrInvalidInput)
	}
	return s.index.Search(ctx, query, limit)
}

func (s *JournalService) Reindex(ctx context.Context) (int, int, error) {
	if s.index == nil {
		return 0, 0, fmt.Errorf("search index is not configured")
	}
	snap, err := s.loadBoth(ctx)
	if err != nil {
		return 0, 0, err
	}
	notes, resources := snap.notes, snap.resources
	if err := s.index.Reset(ctx); err != nil {
		return 0, 0, err
	}
	for _, n := range notes {
		if err := s.index.UpsertNote(ctx, n); err != nil {
			return 0, 0, err
		}
	}
	for _, r := range resources {
		if err := s.index.UpsertResource(ctx, r); err != nil {
			return 0, 0, err
		}
	}
	s.logger.Info("search index rebuilt", zap.Int("notes", len(notes)), zap.Int("resources", len(resources)))
	return len(notes), len(resources), nil
}

// Export writes one markdown file per dated day. Undated notes are counted
// as skipped.
func (s *JournalService) Export(ctx context.Context, outDir string) ([]string, int, error) {
	if s.exporter == nil {
		return nil, 0, fmt.Errorf("exporter is not configured")
	}
	if strings.TrimSpace(outDir) == "" {
		return nil, 0, fmt.Errorf("%w: output directory is required", apperrors.ErrInvalidInput)
	}
	notes, _, err := s.Notes(ctx)
	if err != nil {
		return nil, 0, err
	}
	var files []string
	skipped := 0
	for _, group := range domain.GroupNotesByDay(notes) {
		if group.Undated {
			skipped += len(group.Notes)
			continue
		}
		path, err := s.exporter.ExportDay(ctx, outDir, group)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, path)
	}
	s.logger.Info("journal exported", zap.String("dir", outDir), zap.Int("files", len(files)), zap.Int("skipped", skipped))
	return files, skipped, nil
}

func (s *JournalService) Changes(ctx context.Context) (<-chan struct{}, error) {
	if s.watcher == nil {
		return nil, fmt.Errorf("change watcher is not configured")
	}
	return s.watcher.Watch(ctx)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// readWarning turns a corrupted collection into a warning; reads render it
// as empty and leave the file alone.
func (s *JournalService) readWarning(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, apperrors.ErrCorruptedStore) {
		s.logger.Warn("collection unreadable, showing it as empty", zap.Error(err))
		return []string{err.Error()}, nil
	}
	return nil, err
}

// loadNotesForWrite moves a corrupted notes file aside before the caller
// overwrites it, so the original bytes are never lost. Index entries of the
// moved collection are dropped with it.
func (s *JournalService) loadNotesForWrite(ctx context.Context) ([]domain.Note, string, error) {
	notes, err := s.notes.Load(ctx)
	if err == nil {
		return notes, "", nil
	}
	if !errors.Is(err, apperrors.ErrCorruptedStore) {
		return nil, "", err
	}
	moved, qErr := s.notes.Quarantine(ctx)
	if qErr != nil {
		return nil, "", qErr
	}
	s.logger.Warn("quarantined corrupted notes file", zap.String("moved_to", moved), zap.Error(err))
	s.project(ctx, func(ctx context.Context) error { return s.index.Clear(ctx, domain.KindNote) })
	return []domain.Note{}, "notes file was unreadable and has been moved to " + moved, nil
}

func (s *JournalService) loadResourcesForWrite(ctx context.Context) ([]domain.Resource, string, error) {
	resources, err := s.resources.Load(ctx)
	if err == nil {
		return resources, "", nil
	}
	if !errors.Is(err, apperrors.ErrCorruptedStore) {
		return nil, "", err
	}
	moved, qErr := s.resources.Quarantine(ctx)
	if qErr != nil {
		return nil, "", qErr
	}
	s.logger.Warn("quarantined corrupted resources file", zap.String("moved_to", moved), zap.Error(err))
	s.project(ctx, func(ctx context.Context) error { return s.index.Clear(ctx, domain.KindResource) })
	return []domain.Resource{}, "resources file was unreadable and has been moved to " + moved, nil
}

// project applies a search index update after the JSON write succeeded. The
// index is rebuildable, so failures are logged rather than returned.
func (s *JournalService) project(ctx context.Context, fn func(context.Context) error) {
	if s.index == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("search index update failed; run reindex", zap.Error(err))
	}
}
