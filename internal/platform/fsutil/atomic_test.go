package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"journal/internal/platform/fsutil"
)

func TestWriteFileAtomicCreatesDirAndReplacesContent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "notes.json")
	if err := fsutil.WriteFileAtomic(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := fsutil.WriteFileAtomic(path, []byte("[1]"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "[1]" {
		t.Fatalf("expected replaced content, got %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if fsutil.IsTemp(e.Name()) {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestIsTemp(t *testing.T) {
	t.Parallel()
	if !fsutil.IsTemp(".journal-tmp-123") || fsutil.IsTemp("notes.json") || fsutil.IsTemp(".j") {
		t.Fatalf("IsTemp misclassified names")
	}
}
