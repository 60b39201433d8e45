package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	leaderdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/leader"
	newsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/news"
	"github.com/frahmantamala/mvd-portal/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeMirror struct {
	uploads   [][]byte
	fetch     []byte
	uploadErr error
}

func (m *fakeMirror) Upload(_ context.Context, payload []byte) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploads = append(m.uploads, payload)
	return nil
}

func (m *fakeMirror) Fetch(_ context.Context) ([]byte, error) {
	if m.fetch == nil {
		return nil, store.ErrEmpty
	}
	return m.fetch, nil
}

type countingObserver struct {
	writes         int
	failedWrites   int
	mirrorFailures int
}

func (o *countingObserver) ObserveWrite(_ int, err error) {
	o.writes++
	if err != nil {
		o.failedWrites++
	}
}

func (o *countingObserver) ObserveMirrorFailure() {
	o.mirrorFailures++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedWithNews() (*store.State, error) {
	st := store.Empty()
	st.News = append(st.News, newsdm.Article{ID: st.NextID(), Title: "Первая", Date: "2024-01-01"})
	return st, nil
}

var _ = Describe("Store", func() {
	var (
		ctx     context.Context
		backend *store.MemoryBackend
		s       *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = store.NewMemoryBackend()
		s = store.New(backend, store.WithSeed(seedWithNews), store.WithLogger(quietLogger()))
	})

	Describe("Load", func() {
		It("materializes and persists the seed on first access", func() {
			st, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.News).To(HaveLen(1))
			Expect(st.SchemaVersion).To(Equal(store.SchemaVersion))

			snap, err := backend.Read(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Revision).To(Equal(int64(1)))
		})

		It("returns copies that do not alias the cache", func() {
			st, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			st.News[0].Title = "changed"

			again, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.News[0].Title).To(Equal("Первая"))
		})

		It("does not re-seed an emptied collection", func() {
			Expect(s.Update(ctx, func(st *store.State) error {
				st.News = nil
				return nil
			})).To(Succeed())

			fresh := store.New(backend, store.WithSeed(seedWithNews), store.WithLogger(quietLogger()))
			st, err := fresh.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.News).To(BeEmpty())
		})

		It("yields empty collections without a seed", func() {
			bare := store.New(store.NewMemoryBackend(), store.WithLogger(quietLogger()))
			st, err := bare.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Users).To(BeEmpty())
			Expect(st.Users).NotTo(BeNil())
		})

		It("reads snapshots without a schema version as version 1", func() {
			legacy := store.NewMemoryBackend()
			Expect(legacy.Write(ctx, store.Snapshot{
				Revision: 1,
				Payload:  []byte(`{"leaders":[{"id":7,"full_name":"Петров"}]}`),
			})).To(Succeed())

			st, err := store.New(legacy, store.WithLogger(quietLogger())).Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.SchemaVersion).To(Equal(1))
			Expect(st.Sequence).To(Equal(int64(7)))
			Expect(st.Fleet).NotTo(BeNil())
		})
	})

	Describe("Mutate", func() {
		It("persists the mutation and returns the function result", func() {
			id, err := store.Mutate(ctx, s, func(st *store.State) (int64, error) {
				rec := leaderdm.Leader{ID: st.NextID(), FullName: "Иванов"}
				st.Leaders = append(st.Leaders, rec)
				return rec.ID, nil
			})
			Expect(err).NotTo(HaveOccurred())

			st, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Leaders).To(HaveLen(1))
			Expect(st.Leaders[0].ID).To(Equal(id))
		})

		It("leaves the state untouched when the function fails", func() {
			boom := errors.New("boom")
			_, err := store.Mutate(ctx, s, func(st *store.State) (int, error) {
				st.News = nil
				return 0, boom
			})
			Expect(err).To(MatchError(boom))

			st, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.News).To(HaveLen(1))
			Expect(s.Revision()).To(Equal(int64(1)))
		})

		It("issues strictly increasing ids", func() {
			var ids []int64
			for i := 0; i < 3; i++ {
				id, err := store.Mutate(ctx, s, func(st *store.State) (int64, error) {
					return st.NextID(), nil
				})
				Expect(err).NotTo(HaveOccurred())
				ids = append(ids, id)
			}
			Expect(ids[1]).To(BeNumerically(">", ids[0]))
			Expect(ids[2]).To(BeNumerically(">", ids[1]))
		})

		It("reports a stale snapshot when another writer got there first", func() {
			other := store.New(backend, store.WithLogger(quietLogger()))
			_, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(other.Update(ctx, func(st *store.State) error {
				st.News[0].Title = "other"
				return nil
			})).To(Succeed())

			err = s.Update(ctx, func(st *store.State) error {
				st.News[0].Title = "mine"
				return nil
			})
			Expect(errors.Is(err, store.ErrStale)).To(BeTrue())

			st, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.News[0].Title).To(Equal("other"))
		})
	})

	Describe("Save", func() {
		It("replaces the whole state", func() {
			_, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Save(ctx, store.Empty())).To(Succeed())

			st, err := s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.News).To(BeEmpty())
			Expect(s.Revision()).To(Equal(int64(2)))
		})

		It("writes into an empty backend without seeding first", func() {
			Expect(s.Save(ctx, store.Empty())).To(Succeed())
			Expect(s.Revision()).To(Equal(int64(1)))
		})
	})

	Describe("Mirror", func() {
		It("uploads every successful write", func() {
			mirror := &fakeMirror{}
			observer := &countingObserver{}
			mirrored := store.New(store.NewMemoryBackend(),
				store.WithMirror(mirror),
				store.WithObserver(observer),
				store.WithLogger(quietLogger()))

			Expect(mirrored.Update(ctx, func(st *store.State) error { return nil })).To(Succeed())
			Expect(mirror.uploads).To(HaveLen(2))
			Expect(observer.writes).To(Equal(2))

			var decoded map[string]json.RawMessage
			Expect(json.Unmarshal(mirror.uploads[1], &decoded)).To(Succeed())
			Expect(decoded).To(HaveKey("schemaVersion"))
		})

		It("hydrates an empty backend from the mirror instead of seeding", func() {
			mirror := &fakeMirror{fetch: []byte(`{"schemaVersion":1,"leaders":[{"id":3,"full_name":"Из зеркала"}]}`)}
			mirrored := store.New(store.NewMemoryBackend(),
				store.WithMirror(mirror),
				store.WithSeed(seedWithNews),
				store.WithLogger(quietLogger()))

			st, err := mirrored.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Leaders).To(HaveLen(1))
			Expect(st.News).To(BeEmpty())
		})

		It("does not fail writes when the upload fails", func() {
			mirror := &fakeMirror{uploadErr: errors.New("unreachable")}
			observer := &countingObserver{}
			mirrored := store.New(store.NewMemoryBackend(),
				store.WithMirror(mirror),
				store.WithObserver(observer),
				store.WithLogger(quietLogger()))

			_, err := mirrored.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(observer.mirrorFailures).To(Equal(1))
		})
	})
})
