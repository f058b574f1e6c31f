package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	journalout "journal/internal/modules/journal/adapter/out"
)

func TestFSWatcherSignalsOnCollectionWritesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.json")
	watcher := journalout.NewFSWatcher(nil, notes, filepath.Join(dir, "resources.json"))

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := watcher.Watch(ctx)
	if err != nil {
		cancel()
		t.Fatalf("watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}
	if err := os.WriteFile(notes, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatalf("expected a change signal after writing notes.json")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("changes channel not closed after cancel")
		}
	}
}
