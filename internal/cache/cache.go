/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache: key is missing")

// Cache interface provides the basic operations for a cache system.
type Cache interface {
	// Set stores a value in the cache with a specified time-to-live (TTL).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the cached value for key into data. It returns ErrMiss
	// when nothing is cached under key.
	Get(ctx context.Context, key string, data interface{}) error

	// Delete removes a value from the cache based on the provided key.
	Delete(ctx context.Context, key string) error
}

// TieredCache implements Cache with an in-process TinyLFU tier and, when a
// Redis client is supplied, a shared Redis tier behind it.
type TieredCache struct {
	cache *cache.Cache
}

// DefaultSize is the number of entries kept by the local tier.
const DefaultSize = 1000

// NewLocalCache creates a process-local cache. Entries expire from the local
// tier after ttl regardless of the ttl passed to Set.
func NewLocalCache(size int, ttl time.Duration) *TieredCache {
	return newTieredCache(nil, size, ttl)
}

// NewRedisCache creates a two-tier cache backed by client.
func NewRedisCache(client redis.UniversalClient, size int, ttl time.Duration) *TieredCache {
	return newTieredCache(client, size, ttl)
}

func newTieredCache(client redis.UniversalClient, size int, ttl time.Duration) *TieredCache {
	if size <= 0 {
		size = DefaultSize
	}
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(size, ttl),
	}
	if client != nil {
		opts.Redis = client
	}
	return &TieredCache{cache: cache.New(opts)}
}

// Set adds a new entry to the cache with a specified key and TTL.
func (r *TieredCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

// Get retrieves an entry from the cache based on the provided key.
func (r *TieredCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrMiss
	}
	return err
}

// Delete removes an entry from the cache based on the provided key.
func (r *TieredCache) Delete(ctx context.Context, key string) error {
	err := r.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
