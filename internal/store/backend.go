package store

import (
	"context"
	"errors"
)

var (
	// ErrEmpty is returned by a Backend that holds no snapshot yet.
	ErrEmpty = errors.New("store: no snapshot")
	// ErrStale is returned when a write does not follow the stored revision.
	ErrStale = errors.New("store: stale snapshot revision")
	// ErrNotFound is returned when a record id is not present in a collection.
	ErrNotFound = errors.New("store: record not found")
	// ErrInvalidPatch is returned when a patch does not fit the record shape.
	ErrInvalidPatch = errors.New("store: invalid patch")
)

// Snapshot is one persisted version of the serialized state.
type Snapshot struct {
	Revision int64
	Payload  []byte
}

// Backend persists snapshots under a single well-known key. Write must fail
// with ErrStale unless snap.Revision is exactly one past the stored revision.
type Backend interface {
	Read(ctx context.Context) (Snapshot, error)
	Write(ctx context.Context, snap Snapshot) error
	Close() error
}

// Mirror receives a copy of every successful write and may provide the
// initial snapshot when the backend is empty.
type Mirror interface {
	Upload(ctx context.Context, payload []byte) error
	Fetch(ctx context.Context) ([]byte, error)
}

// Observer is notified about store activity. Used for metrics.
type Observer interface {
	ObserveWrite(bytes int, err error)
	ObserveMirrorFailure()
}
