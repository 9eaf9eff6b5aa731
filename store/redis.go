package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/codeshare/models"
)

// RedisStore keeps the snapshot document in a single Redis key and saves it inside a
// WATCH/MULTI transaction so a concurrent writer turns into ErrConflict.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a store bound to key. The client is owned by the caller.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load implements Store.
func (r *RedisStore) Load(ctx context.Context) (*models.Snapshot, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get %s: %w", r.key, err)
	}
	snap, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", r.key, err)
	}
	return snap, nil
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, snap *models.Snapshot) error {
	next := snap.Version + 1
	data, err := encode(snap, next)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current := int64(0)
		b, err := tx.Get(ctx, r.key).Bytes()
		switch {
		case err == nil:
			if current, err = decodeVersion(b); err != nil {
				return fmt.Errorf("store: decode %s: %w", r.key, err)
			}
		case !errors.Is(err, redis.Nil):
			return fmt.Errorf("store: redis get %s: %w", r.key, err)
		}
		if current != snap.Version {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, data, 0)
			return nil
		})
		return err
	}, r.key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	snap.Version = next
	return nil
}

// Close implements Store.
func (r *RedisStore) Close() error { return nil }
