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

package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jerry-enebeli/caixa/internal/cache"
	"github.com/sirupsen/logrus"
)

// Freshness tells callers whether cached records were confirmed against the
// backend within the cache's max age.
type Freshness int

const (
	Fresh Freshness = iota
	Stale
)

func (f Freshness) String() string {
	if f == Fresh {
		return "fresh"
	}
	return "stale"
}

type cachedCollection struct {
	Records   []json.RawMessage `json:"records"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// CachedBackend puts a cache in front of another Backend. Writes go through
// to the backend first and then replace the cached copy, so a Load after a
// Save always sees the write.
type CachedBackend struct {
	backend Backend
	cache   cache.Cache
	maxAge  time.Duration
	now     func() time.Time
}

func NewCachedBackend(backend Backend, c cache.Cache, maxAge time.Duration) *CachedBackend {
	return &CachedBackend{backend: backend, cache: c, maxAge: maxAge, now: time.Now}
}

func cacheKey(collection string) string {
	return "caixa:cached:" + collection
}

// LoadWithFreshness returns cached records without touching the backend when
// it can. Records older than maxAge come back tagged Stale; a cache miss is
// filled from the backend and comes back Fresh.
func (c *CachedBackend) LoadWithFreshness(ctx context.Context, collection string) ([]json.RawMessage, Freshness, error) {
	entry, err := c.cached(ctx, collection)
	if err == nil {
		if c.now().Sub(entry.FetchedAt) <= c.maxAge {
			return entry.Records, Fresh, nil
		}
		return entry.Records, Stale, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logrus.WithError(err).WithField("collection", collection).Warn("cache read failed, loading from backend")
	}

	records, err := c.Refresh(ctx, collection)
	if err != nil {
		return nil, Stale, err
	}
	return records, Fresh, nil
}

// Load never returns stale records: a stale hit is refreshed before returning.
func (c *CachedBackend) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	records, freshness, err := c.LoadWithFreshness(ctx, collection)
	if err != nil {
		return nil, err
	}
	if freshness == Stale {
		return c.Refresh(ctx, collection)
	}
	return records, nil
}

// Refresh reloads collection from the backend and replaces the cached copy.
func (c *CachedBackend) Refresh(ctx context.Context, collection string) ([]json.RawMessage, error) {
	records, err := c.backend.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	c.store(ctx, collection, records)
	return records, nil
}

// RefreshAsync starts a refresh and returns a channel that receives its
// result once.
func (c *CachedBackend) RefreshAsync(ctx context.Context, collection string) <-chan error {
	done := make(chan error, 1)
	go func() {
		_, err := c.Refresh(ctx, collection)
		done <- err
	}()
	return done
}

func (c *CachedBackend) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	if err := c.backend.Save(ctx, collection, records); err != nil {
		// the backend may have partially applied the write
		_ = c.cache.Delete(ctx, cacheKey(collection))
		return err
	}
	c.store(ctx, collection, records)
	return nil
}

// cached entries are kept as one JSON blob so the raw records survive the
// cache's own encoding byte for byte.
func (c *CachedBackend) cached(ctx context.Context, collection string) (cachedCollection, error) {
	var (
		blob  []byte
		entry cachedCollection
	)
	if err := c.cache.Get(ctx, cacheKey(collection), &blob); err != nil {
		return entry, err
	}
	if err := json.Unmarshal(blob, &entry); err != nil {
		return entry, err
	}
	if entry.Records == nil {
		entry.Records = []json.RawMessage{}
	}
	return entry, nil
}

func (c *CachedBackend) store(ctx context.Context, collection string, records []json.RawMessage) {
	blob, err := json.Marshal(cachedCollection{Records: records, FetchedAt: c.now()})
	if err == nil {
		err = c.cache.Set(ctx, cacheKey(collection), blob, 0)
	}
	if err != nil {
		logrus.WithError(err).WithField("collection", collection).Warn("cache write failed, dropping cached copy")
		_ = c.cache.Delete(ctx, cacheKey(collection))
	}
}
