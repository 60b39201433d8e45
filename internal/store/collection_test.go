package store_test

import (
	"context"
	"encoding/json"
	"errors"

	employeedm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/mvd-portal/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Collection", func() {
	var (
		ctx  context.Context
		coll *store.Collection[employeedm.Employee]
	)

	BeforeEach(func() {
		ctx = context.Background()
		coll = store.Employees(store.New(store.NewMemoryBackend(), store.WithLogger(quietLogger())))
	})

	It("lists exactly one record with the id assigned by create", func() {
		created, err := coll.Create(ctx, employeedm.Employee{FullName: "Сидоров", Department: "ГИБДД"})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).NotTo(BeZero())

		all, err := coll.List(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		count := 0
		for _, e := range all {
			if e.ID == created.ID {
				count++
			}
		}
		Expect(count).To(Equal(1))
	})

	It("filters by string equality on JSON fields", func() {
		_, err := coll.Create(ctx, employeedm.Employee{FullName: "Сидоров", Department: "ГИБДД"})
		Expect(err).NotTo(HaveOccurred())
		second, err := coll.Create(ctx, employeedm.Employee{FullName: "Козлов", Department: "ППС"})
		Expect(err).NotTo(HaveOccurred())

		matched, err := coll.List(ctx, store.Filter{"department": "ППС"})
		Expect(err).NotTo(HaveOccurred())
		Expect(matched).To(HaveLen(1))
		Expect(matched[0].FullName).To(Equal("Козлов"))

		byID, err := coll.List(ctx, store.Filter{"id": "99"})
		Expect(err).NotTo(HaveOccurred())
		Expect(byID).To(BeEmpty())

		byID, err = coll.List(ctx, store.Filter{"id": jsonNumber(second.ID)})
		Expect(err).NotTo(HaveOccurred())
		Expect(byID).To(HaveLen(1))
	})

	Describe("Update", func() {
		var created employeedm.Employee

		BeforeEach(func() {
			var err error
			created, err = coll.Create(ctx, employeedm.Employee{FullName: "Сидоров", Rank: "Сержант", Status: "Активный"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("preserves fields that are not patched", func() {
			patch, err := store.PatchFrom(map[string]any{"rank": "Лейтенант"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := coll.Update(ctx, created.ID, patch)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Rank).To(Equal("Лейтенант"))
			Expect(updated.FullName).To(Equal("Сидоров"))
			Expect(updated.Status).To(Equal("Активный"))
		})

		It("never patches the id", func() {
			updated, err := coll.Update(ctx, created.ID, store.Patch{"id": json.RawMessage(`12345`)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(created.ID))
		})

		It("rejects unknown keys and mistyped values", func() {
			_, err := coll.Update(ctx, created.ID, store.Patch{"nickname": json.RawMessage(`"x"`)})
			Expect(errors.Is(err, store.ErrInvalidPatch)).To(BeTrue())

			_, err = coll.Update(ctx, created.ID, store.Patch{"rank": json.RawMessage(`42`)})
			Expect(errors.Is(err, store.ErrInvalidPatch)).To(BeTrue())
		})

		It("fails with not found for a missing id", func() {
			_, err := coll.Update(ctx, created.ID+100, store.Patch{})
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("runs the check hook on the merged record", func() {
			coll.WithCheck(func(e employeedm.Employee) error {
				if e.Status == "" {
					return errors.New("status required")
				}
				return nil
			})
			_, err := coll.Update(ctx, created.ID, store.Patch{"status": json.RawMessage(`""`)})
			Expect(err).To(MatchError("status required"))

			got, err := coll.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal("Активный"))
		})
	})

	It("deletes idempotently", func() {
		created, err := coll.Create(ctx, employeedm.Employee{FullName: "Николаев"})
		Expect(err).NotTo(HaveOccurred())

		Expect(coll.Delete(ctx, created.ID)).To(Succeed())
		Expect(coll.Delete(ctx, created.ID)).To(Succeed())

		_, err = coll.Get(ctx, created.ID)
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("prepends when asked to", func() {
		_, err := coll.Create(ctx, employeedm.Employee{FullName: "first"})
		Expect(err).NotTo(HaveOccurred())
		_, err = coll.Prepend(ctx, employeedm.Employee{FullName: "second"})
		Expect(err).NotTo(HaveOccurred())

		all, err := coll.List(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(all[0].FullName).To(Equal("second"))
	})
})

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
