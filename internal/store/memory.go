package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps the snapshot in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Read(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap == nil {
		return Snapshot{}, ErrEmpty
	}
	payload := make([]byte, len(m.snap.Payload))
	copy(payload, m.snap.Payload)
	return Snapshot{Revision: m.snap.Revision, Payload: payload}, nil
}

func (m *MemoryBackend) Write(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64
	if m.snap != nil {
		current = m.snap.Revision
	}
	if snap.Revision != current+1 {
		return ErrStale
	}
	payload := make([]byte, len(snap.Payload))
	copy(payload, snap.Payload)
	m.snap = &Snapshot{Revision: snap.Revision, Payload: payload}
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
