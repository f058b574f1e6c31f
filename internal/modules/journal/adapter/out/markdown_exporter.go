package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"journal/internal/modules/journal/domain"
	journalout "journal/internal/modules/journal/port/out"
	"journal/internal/platform/fsutil"
	"journal/internal/platform/markdown"
)

var managedNotes = markdown.Block{
	Start: "<!-- journal:notes:start -->",
	End:   "<!-- journal:notes:end -->",
}

// MarkdownExporter writes one vault-style markdown file per journal day.
// Text outside the managed block and unknown frontmatter keys survive a
// re-export.
type MarkdownExporter struct{}

func NewMarkdownExporter() journalout.DayExporter {
	return MarkdownExporter{}
}

func (MarkdownExporter) ExportDay(_ context.Context, outDir string, group domain.DayGroup) (string, error) {
	if group.Undated {
		return "", fmt.Errorf("cannot export undated notes")
	}
	date := group.Date
	path := filepath.Join(outDir, date.Format("2006"), date.Format("01"), group.Day+".md")

	doc := markdown.Document{Meta: map[string]any{}, Body: "# " + date.Format("Monday, 2 January 2006") + "\n"}
	if existing, err := os.ReadFile(path); err == nil {
		parsed, parseErr := markdown.Parse(string(existing))
		if parseErr != nil {
			return "", fmt.Errorf("parse %s: %w", path, parseErr)
		}
		doc = parsed
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	sections, rendered := renderDay(group.Notes)
	tags := []string{"journal"}
	for _, s := range sections {
		tags = append(tags, s.Tag())
	}
	doc.Meta["schema_version"] = domain.SchemaVersion
	doc.Meta["date"] = group.Day
	doc.Meta["note_count"] = len(group.Notes)
	doc.Meta["tags"] = tags
	doc.Body = managedNotes.Replace(doc.Body, rendered)

	content, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := fsutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// renderDay lists notes under one heading per section, sections in order of
// first appearance.
func renderDay(notes []domain.Note) ([]domain.Section, string) {
	var order []domain.Section
	bySection := map[domain.Section][]string{}
	for _, n := range notes {
		if _, ok := bySection[n.Section]; !ok {
			order = append(order, n.Section)
		}
		body := strings.ReplaceAll(strings.TrimSpace(n.Body), "\n", "\n  ")
		bySection[n.Section] = append(bySection[n.Section], "- "+body)
	}
	var sb strings.Builder
	for i, s := range order {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## " + string(s) + "\n\n")
		sb.WriteString(strings.Join(bySection[s], "\n"))
	}
	return order, sb.String()
}
