package markdown_test

import (
	"strings"
	"testing"

	"journal/internal/platform/markdown"
)

func TestRenderThenParseKeepsMetaAndBody(t *testing.T) {
	t.Parallel()
	doc := markdown.Document{Meta: map[string]any{"date": "2024-01-02", "notes": 2}, Body: "# Day\n"}
	rendered, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\n") || !strings.Contains(rendered, "date: \"2024-01-02\"") {
		t.Fatalf("unexpected rendering:\n%s", rendered)
	}
	parsed, err := markdown.Parse(rendered)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Meta["date"] != "2024-01-02" || parsed.Meta["notes"] != 2 {
		t.Fatalf("meta lost: %#v", parsed.Meta)
	}
	if strings.TrimSpace(parsed.Body) != "# Day" {
		t.Fatalf("body lost: %q", parsed.Body)
	}
}

func TestParseWithoutFrontmatterAndUnclosedFence(t *testing.T) {
	t.Parallel()
	doc, err := markdown.Parse("plain text")
	if err != nil || doc.Body != "plain text" || len(doc.Meta) != 0 {
		t.Fatalf("plain content should be body only: %+v %v", doc, err)
	}
	if _, err := markdown.Parse("---\ndate: x\nbody"); err == nil {
		t.Fatalf("unclosed frontmatter must fail")
	}
}

func TestBlockReplacePreservesSurroundingText(t *testing.T) {
	t.Parallel()
	b := markdown.Block{Start: "<!-- s -->", End: "<!-- e -->"}

	first := b.Replace("", "one")
	if first != "<!-- s -->\none\n<!-- e -->\n" {
		t.Fatalf("unexpected empty-body block: %q", first)
	}

	body := "intro\n" + first + "outro\n"
	second := b.Replace(body, "two")
	if !strings.HasPrefix(second, "intro\n") || !strings.HasSuffix(second, "outro\n") {
		t.Fatalf("user text lost: %q", second)
	}
	if strings.Contains(second, "one") || !strings.Contains(second, "two") {
		t.Fatalf("block not replaced: %q", second)
	}

	appended := b.Replace("notes", "x")
	if appended != "notes\n\n<!-- s -->\nx\n<!-- e -->\n" {
		t.Fatalf("unexpected append: %q", appended)
	}
}
