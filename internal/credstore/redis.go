// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// RedisBackend keeps the token under <prefix>team_token.
type RedisBackend struct {
	client redis.Cmdable
	key    string
}

// NewRedisBackend returns a backend using client. The key is prefix + Key.
func NewRedisBackend(client redis.Cmdable, prefix string) *RedisBackend {
	return &RedisBackend{client: client, key: prefix + Key}
}

// Put implements Backend.
func (b *RedisBackend) Put(ctx context.Context, value string) error {
	if err := b.client.Set(ctx, b.key, value, 0).Err(); err != nil {
		return oops.Code("CREDSTORE_WRITE_FAILED").With("key", b.key).Wrap(err)
	}
	return nil
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context) (string, bool, error) {
	value, err := b.client.Get(ctx, b.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("CREDSTORE_READ_FAILED").With("key", b.key).Wrap(err)
	}
	return value, value != "", nil
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return oops.Code("CREDSTORE_DELETE_FAILED").With("key", b.key).Wrap(err)
	}
	return nil
}
