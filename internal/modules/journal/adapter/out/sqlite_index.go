package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"journal/internal/modules/journal/domain"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sql.DB
}

func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	index := &SQLiteIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
  kind TEXT NOT NULL,
  id TEXT NOT NULL,
  date TEXT NOT NULL,
  section TEXT NOT NULL,
  text TEXT NOT NULL,
  url TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS entries_date ON entries(date);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("reset entries: %w", err)
	}
	return nil
}

const upsertEntry = `
INSERT INTO entries (kind, id, date, section, text, url)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(kind, id) DO UPDATE SET
  date=excluded.date,
  section=excluded.section,
  text=excluded.text,
  url=excluded.url;
`

func (s *SQLiteIndex) UpsertNote(ctx context.Context, note domain.Note) error {
	_, err := s.db.ExecContext(ctx, upsertEntry,
		string(domain.KindNote), note.ID, note.Date, string(note.Section), note.Body, "")
	if err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) UpsertResource(ctx context.Context, resource domain.Resource) error {
	_, err := s.db.ExecContext(ctx, upsertEntry,
		string(domain.KindResource), resource.ID, resource.Date, string(resource.Section), resource.Desc, resource.URL)
	if err != nil {
		return fmt.Errorf("upsert resource: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Delete(ctx context.Context, kind domain.Kind, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE kind = ? AND id = ?`, string(kind), id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteIndex) Clear(ctx context.Context, kind domain.Kind) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE kind = ?`, string(kind)); err != nil {
		return fmt.Errorf("clear %s entries: %w", kind, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query as a case-insensitive substring of the text, url or
// section, newest date first.
func (s *SQLiteIndex) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
SELECT kind, id, date, section, text, url FROM entries
WHERE text LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\' OR section LIKE ? ESCAPE '\'
ORDER BY date DESC, kind, id
LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var hit domain.SearchHit
		var kind, section string
		if err := rows.Scan(&kind, &hit.ID, &hit.Date, &section, &hit.Text, &hit.URL); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		hit.Kind = domain.Kind(kind)
		hit.Section = domain.Section(section)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return hits, nil
}
