package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

// SeedFunc builds the state written when neither the backend nor the mirror
// holds a snapshot.
type SeedFunc func() (*State, error)

// Store owns the cached portal state and serializes every write through a
// single mutex. All reads hand out deep copies.
type Store struct {
	backend  Backend
	mirror   Mirror
	seed     SeedFunc
	observer Observer
	logger   *slog.Logger

	mu       sync.Mutex
	cache    *State
	revision int64
}

type Option func(*Store)

func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

func WithSeed(fn SeedFunc) Option {
	return func(s *Store) { s.seed = fn }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.LoggerWrapper()
	}
	return s
}

// Load returns a deep copy of the current state, materializing the initial
// state on first access.
func (s *Store) Load(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(ctx, true); err != nil {
		return nil, err
	}
	return s.cache.Clone()
}

// Save replaces the whole persisted state with st.
func (s *Store) Save(ctx context.Context, st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(ctx, false); err != nil {
		return err
	}
	return s.commit(ctx, st)
}

// Mutate applies fn to a private copy of the state and persists the result.
// When fn fails nothing is written and the cached state is left untouched.
func Mutate[R any](ctx context.Context, s *Store, fn func(*State) (R, error)) (R, error) {
	var zero R

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(ctx, true); err != nil {
		return zero, err
	}
	draft, err := s.cache.Clone()
	if err != nil {
		return zero, err
	}
	result, err := fn(draft)
	if err != nil {
		return zero, err
	}
	if err := s.commit(ctx, draft); err != nil {
		return zero, err
	}
	return result, nil
}

// Update is Mutate for callers without a result value.
func (s *Store) Update(ctx context.Context, fn func(*State) error) error {
	_, err := Mutate(ctx, s, func(st *State) (struct{}, error) {
		return struct{}{}, fn(st)
	})
	return err
}

// Reload drops the cache and reads the backend again.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	return s.ensure(ctx, true)
}

// Revision reports the revision of the cached snapshot.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Ping checks the backend connection when the backend supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// ensure fills the cache from the backend. With materialize set, an empty
// backend is initialized from the mirror or the seed and persisted.
func (s *Store) ensure(ctx context.Context, materialize bool) error {
	if s.cache != nil {
		return nil
	}

	snap, err := s.backend.Read(ctx)
	switch {
	case err == nil:
		st, err := Decode(snap.Payload)
		if err != nil {
			return err
		}
		s.cache, s.revision = st, snap.Revision
		return nil
	case errors.Is(err, ErrEmpty):
		s.revision = 0
		if !materialize {
			return nil
		}
		st, err := s.initial(ctx)
		if err != nil {
			return err
		}
		return s.commit(ctx, st)
	default:
		return fmt.Errorf("read snapshot: %w", err)
	}
}

func (s *Store) initial(ctx context.Context) (*State, error) {
	if s.mirror != nil {
		payload, err := s.mirror.Fetch(ctx)
		switch {
		case err == nil:
			s.logger.Info("hydrating state from mirror", "bytes", len(payload))
			return Decode(payload)
		case errors.Is(err, ErrEmpty):
		default:
			s.logger.Warn("mirror fetch failed, using defaults", "error", err)
		}
	}

	if s.seed == nil {
		return Empty(), nil
	}
	s.logger.Info("seeding default state")
	return s.seed()
}

func (s *Store) commit(ctx context.Context, st *State) error {
	payload, err := st.Encode()
	if err != nil {
		return err
	}

	err = s.backend.Write(ctx, Snapshot{Revision: s.revision + 1, Payload: payload})
	if s.observer != nil {
		s.observer.ObserveWrite(len(payload), err)
	}
	if err != nil {
		s.cache = nil
		if errors.Is(err, ErrStale) {
			s.logger.Warn("snapshot revision conflict, cache dropped", "revision", s.revision)
			return err
		}
		return fmt.Errorf("write snapshot: %w", err)
	}

	fresh, err := Decode(payload)
	if err != nil {
		return err
	}
	s.cache = fresh
	s.revision++

	if s.mirror != nil {
		if err := s.mirror.Upload(ctx, payload); err != nil {
			s.logger.Warn("mirror upload failed", "error", err, "revision", s.revision)
			if s.observer != nil {
				s.observer.ObserveMirrorFailure()
			}
		}
	}
	return nil
}
