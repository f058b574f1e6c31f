package tx

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	apperrors "journal/internal/platform/errors"
)

// Manager wraps the load-mutate-save cycle of a single mutation.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

const (
	defaultStaleAfter = 30 * time.Second
	maxBackoff        = 100 * time.Millisecond
)

// FileLock serializes writers across goroutines and processes. Inside the
// process a mutex orders callers; across processes an exclusive lock file
// created with O_EXCL does. A lock file older than StaleAfter is assumed to
// belong to a crashed writer and is removed.
type FileLock struct {
	Path       string
	StaleAfter time.Duration

	mu sync.Mutex
}

func NewFileLock(path string) *FileLock {
	return &FileLock{Path: path, StaleAfter: defaultStaleAfter}
}

func (l *FileLock) Within(ctx context.Context, fn func(context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	release, err := l.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

func (l *FileLock) acquire(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	for {
		f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			_ = f.Close()
			return func() { _ = os.Remove(l.Path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if l.stale() {
			_ = os.Remove(l.Path)
			continue
		}
		wait := time.Duration(rand.Int64N(int64(maxBackoff))) + time.Millisecond
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", apperrors.ErrLocked, ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (l *FileLock) stale() bool {
	if l.StaleAfter <= 0 {
		return false
	}
	info, err := os.Stat(l.Path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > l.StaleAfter
}
