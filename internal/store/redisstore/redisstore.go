// Package redisstore keeps the portal snapshot in one Redis hash with the
// fields "revision" and "payload".
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/go-redis/redis/v8"
)

const (
	fieldRevision = "revision"
	fieldPayload  = "payload"
)

type Backend struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Backend {
	return &Backend{client: client, key: key}
}

func (b *Backend) Read(ctx context.Context) (store.Snapshot, error) {
	return read(ctx, b.client, b.key)
}

// Write applies the snapshot in a MULTI block guarded by WATCH on the key, so
// a concurrent writer between the revision check and EXEC aborts this write.
func (b *Backend) Write(ctx context.Context, snap store.Snapshot) error {
	err := b.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := read(ctx, tx, b.key)
		switch {
		case errors.Is(err, store.ErrEmpty):
			current.Revision = 0
		case err != nil:
			return err
		}
		if snap.Revision != current.Revision+1 {
			return store.ErrStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, b.key, fieldRevision, snap.Revision, fieldPayload, snap.Payload)
			return nil
		})
		return err
	}, b.key)

	if errors.Is(err, redis.TxFailedErr) {
		return store.ErrStale
	}
	return err
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Backend) Close() error {
	return b.client.Close()
}

func read(ctx context.Context, c redis.Cmdable, key string) (store.Snapshot, error) {
	values, err := c.HMGet(ctx, key, fieldRevision, fieldPayload).Result()
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read %s: %w", key, err)
	}
	if len(values) != 2 || values[0] == nil || values[1] == nil {
		return store.Snapshot{}, store.ErrEmpty
	}

	revText, _ := values[0].(string)
	revision, err := strconv.ParseInt(revText, 10, 64)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read %s: bad revision %q", key, revText)
	}
	payload, _ := values[1].(string)
	return store.Snapshot{Revision: revision, Payload: []byte(payload)}, nil
}
