package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"journal/internal/modules/journal/domain"
	journalout "journal/internal/modules/journal/port/out"
	apperrors "journal/internal/platform/errors"
	"journal/internal/platform/clock"
	"journal/internal/platform/fsutil"
	"journal/internal/platform/id"
)

// jsonFile is one collection persisted as a top-level JSON array.
type jsonFile struct {
	path  string
	clock clock.Clock
}

// read returns nil content for a missing or blank file.
func (f jsonFile) read() ([]byte, error) {
	payload, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, nil
	}
	return payload, nil
}

func (f jsonFile) decode(payload []byte, into any) error {
	if err := json.Unmarshal(payload, into); err != nil {
		return &apperrors.CorruptedStoreError{Path: f.path, Err: err}
	}
	return nil
}

func (f jsonFile) write(records any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshal %s: %w", f.path, err)
	}
	if err := fsutil.WriteFileAtomic(f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

func (f jsonFile) quarantine() (string, error) {
	target := f.path + ".corrupt-" + f.clock.Now().Format("20060102T150405")
	if err := os.Rename(f.path, target); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("quarantine %s: %w", f.path, err)
	}
	return target, nil
}

func (f jsonFile) today() string {
	return clock.Today(f.clock).Format(domain.DateLayout)
}

// Pointer fields tell a missing key apart from an empty value so that
// backfill only touches what is absent.
type noteRecord struct {
	ID      *string `json:"id"`
	Date    *string `json:"date"`
	Section *string `json:"section"`
	Note    *string `json:"note"`
}

type resourceRecord struct {
	ID      *string `json:"id"`
	Date    *string `json:"date"`
	Section *string `json:"section"`
	URL     *string `json:"url"`
	Desc    *string `json:"desc"`
}

func orDefault(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// field renders an optional raw value for id derivation; absent and empty
// stay distinguishable.
func field(v *string) string {
	if v == nil {
		return "\x00"
	}
	return *v
}

// recordID keeps a stored id. A record without one gets an id derived from
// its position and raw fields, so every Load of the same file yields the
// same id and the record stays addressable until the next save persists it.
func recordID(v *string, index int, raw ...*string) string {
	if v != nil && *v != "" {
		return *v
	}
	parts := make([]string, 0, len(raw)+1)
	parts = append(parts, strconv.Itoa(index))
	for _, r := range raw {
		parts = append(parts, field(r))
	}
	return id.Derived(parts...)
}

type JSONNoteStore struct {
	file jsonFile
}

func NewJSONNoteStore(path string, clk clock.Clock) journalout.NoteStore {
	return &JSONNoteStore{file: jsonFile{path: path, clock: clk}}
}

func (s *JSONNoteStore) Load(_ context.Context) ([]domain.Note, error) {
	payload, err := s.file.read()
	if err != nil || payload == nil {
		return []domain.Note{}, err
	}
	var records []noteRecord
	if err := s.file.decode(payload, &records); err != nil {
		return []domain.Note{}, err
	}
	today := s.file.today()
	notes := make([]domain.Note, 0, len(records))
	for i, r := range records {
		notes = append(notes, domain.Note{
			ID:      recordID(r.ID, i, r.Date, r.Section, r.Note),
			Date:    orDefault(r.Date, today),
			Section: domain.Section(orDefault(r.Section, string(domain.SectionGeneral))),
			Body:    orDefault(r.Note, ""),
		})
	}
	return notes, nil
}

func (s *JSONNoteStore) Save(_ context.Context, notes []domain.Note) error {
	if notes == nil {
		notes = []domain.Note{}
	}
	return s.file.write(notes)
}

func (s *JSONNoteStore) Quarantine(_ context.Context) (string, error) {
	return s.file.quarantine()
}

type JSONResourceStore struct {
	file jsonFile
}

func NewJSONResourceStore(path string, clk clock.Clock) journalout.ResourceStore {
	return &JSONResourceStore{file: jsonFile{path: path, clock: clk}}
}

func (s *JSONResourceStore) Load(_ context.Context) ([]domain.Resource, error) {
	payload, err := s.file.read()
	if err != nil || payload == nil {
		return []domain.Resource{}, err
	}
	var records []resourceRecord
	if err := s.file.decode(payload, &records); err != nil {
		return []domain.Resource{}, err
	}
	today := s.file.today()
	resources := make([]domain.Resource, 0, len(records))
	for i, r := range records {
		resources = append(resources, domain.Resource{
			ID:      recordID(r.ID, i, r.Date, r.Section, r.URL, r.Desc),
			Date:    orDefault(r.Date, today),
			Section: domain.Section(orDefault(r.Section, string(domain.SectionGeneral))),
			URL:     orDefault(r.URL, ""),
			Desc:    orDefault(r.Desc, ""),
		})
	}
	return resources, nil
}

func (s *JSONResourceStore) Save(_ context.Context, resources []domain.Resource) error {
	if resources == nil {
		resources = []domain.Resource{}
	}
	return s.file.write(resources)
}

func (s *JSONResourceStore) Quarantine(_ context.Context) (string, error) {
	return s.file.quarantine()
}
