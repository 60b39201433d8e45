package store

import (
	"context"
)

// Collection implements list/get/create/update/delete over one slice of the
// state. The *In variants operate on a state already inside a Mutate so that
// several collections can change in one write.
type Collection[T any] struct {
	store *Store
	items func(*State) *[]T
	id    func(*T) *int64
	check func(T) error
}

func NewCollection[T any](s *Store, items func(*State) *[]T, id func(*T) *int64) *Collection[T] {
	return &Collection[T]{store: s, items: items, id: id}
}

// WithCheck installs a validation hook run on every created or patched record.
func (c *Collection[T]) WithCheck(fn func(T) error) *Collection[T] {
	c.check = fn
	return c
}

func (c *Collection[T]) Store() *Store {
	return c.store
}

func (c *Collection[T]) List(ctx context.Context, filter Filter) ([]T, error) {
	st, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Select(*c.items(st), filter)
}

func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	st, err := c.store.Load(ctx)
	if err != nil {
		return zero, err
	}
	idx := c.Index(st, id)
	if idx < 0 {
		return zero, ErrNotFound
	}
	return (*c.items(st))[idx], nil
}

// Create assigns a fresh id, appends the record and returns it as stored.
func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	return Mutate(ctx, c.store, func(st *State) (T, error) {
		return c.InsertIn(st, rec, false)
	})
}

// Prepend is Create for collections kept newest-first.
func (c *Collection[T]) Prepend(ctx context.Context, rec T) (T, error) {
	return Mutate(ctx, c.store, func(st *State) (T, error) {
		return c.InsertIn(st, rec, true)
	})
}

func (c *Collection[T]) Update(ctx context.Context, id int64, patch Patch) (T, error) {
	return Mutate(ctx, c.store, func(st *State) (T, error) {
		return c.UpdateIn(st, id, patch)
	})
}

// Delete removes the record if present. Deleting a missing id succeeds.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	return c.store.Update(ctx, func(st *State) error {
		c.DeleteIn(st, id)
		return nil
	})
}

func (c *Collection[T]) Index(st *State, id int64) int {
	items := *c.items(st)
	for i := range items {
		if *c.id(&items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) InsertIn(st *State, rec T, prepend bool) (T, error) {
	var zero T
	*c.id(&rec) = st.NextID()
	if c.check != nil {
		if err := c.check(rec); err != nil {
			return zero, err
		}
	}
	items := c.items(st)
	if prepend {
		*items = append([]T{rec}, *items...)
	} else {
		*items = append(*items, rec)
	}
	return rec, nil
}

func (c *Collection[T]) UpdateIn(st *State, id int64, patch Patch) (T, error) {
	var zero T
	idx := c.Index(st, id)
	if idx < 0 {
		return zero, ErrNotFound
	}
	items := *c.items(st)
	updated, err := Apply(items[idx], patch)
	if err != nil {
		return zero, err
	}
	if c.check != nil {
		if err := c.check(updated); err != nil {
			return zero, err
		}
	}
	items[idx] = updated
	return updated, nil
}

// DeleteIn removes the record with id and returns it.
func (c *Collection[T]) DeleteIn(st *State, id int64) (T, bool) {
	var zero T
	idx := c.Index(st, id)
	if idx < 0 {
		return zero, false
	}
	items := c.items(st)
	removed := (*items)[idx]
	*items = append((*items)[:idx], (*items)[idx+1:]...)
	return removed, true
}

// Select returns the records of items matching filter, in order.
func Select[T any](items []T, filter Filter) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, rec := range items {
		ok, err := Matches(rec, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
