package apperrors

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrCorruptedStore = errors.New("corrupted store")
	ErrLocked         = errors.New("journal is locked by another writer")
)

// CorruptedStoreError reports a backing file that exists but cannot be
// decoded. The collection is treated as empty until the file is quarantined.
type CorruptedStoreError struct {
	Path string
	Err  error
}

func (e *CorruptedStoreError) Error() string {
	return "corrupted store " + e.Path + ": " + e.Err.Error()
}

func (e *CorruptedStoreError) Unwrap() []error {
	return []error{ErrCorruptedStore, e.Err}
}
