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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/cache"
	redis_db "github.com/jerry-enebeli/caixa/internal/redis-db"
	"github.com/redis/go-redis/v9"
	migrate "github.com/rubenv/sql-migrate"
	"go.opentelemetry.io/otel"
)

// Datasource implements IDataSource on top of a Backend. Every collection has
// its own mutex, held across each load-modify-save cycle.
type Datasource struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	closers []func() error
	redis   redis.UniversalClient
}

func NewDatasource(backend Backend) *Datasource {
	return &Datasource{backend: backend, locks: make(map[string]*sync.Mutex)}
}

// NewDataSource builds the datasource described by the configuration,
// including the cache tier when it is enabled.
func NewDataSource(cnf *config.Configuration) (*Datasource, error) {
	var (
		backend Backend
		closers []func() error
		rdb     redis.UniversalClient
	)

	if cnf.Redis.Dns != "" {
		r, err := redis_db.NewRedisClient(strings.Split(cnf.Redis.Dns, ","), cnf.Redis.SkipTLSVerify)
		if err != nil {
			return nil, err
		}
		rdb = r.Client()
		closers = append(closers, r.Close)
	}

	switch cnf.DataSource.Driver {
	case config.DriverMemory:
		backend = NewMemoryBackend()
	case config.DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis driver selected but no redis DNS configured")
		}
		backend = NewRedisBackend(rdb)
	case config.DriverPostgres, config.DriverSQLite, config.DriverMySQL:
		db, err := ConnectDB(cnf.DataSource.Driver, cnf.DataSource.Dns)
		if err != nil {
			return nil, err
		}
		if _, err := Migrate(db, cnf.DataSource.Driver, migrate.Up); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrating %s schema: %w", cnf.DataSource.Driver, err)
		}
		sqlBackend, err := NewSQLBackend(db, cnf.DataSource.Driver)
		if err != nil {
			return nil, err
		}
		backend = sqlBackend
		closers = append(closers, sqlBackend.Close)
	default:
		return nil, fmt.Errorf("unsupported data source driver %q", cnf.DataSource.Driver)
	}

	if cnf.Cache.Enabled {
		ttl := time.Duration(cnf.Cache.TTLSeconds) * time.Second
		// keep entries past their max age so stale reads can be reported
		var c cache.Cache = cache.NewLocalCache(cnf.Cache.Size, 10*ttl)
		if rdb != nil && cnf.DataSource.Driver != config.DriverRedis {
			c = cache.NewRedisCache(rdb, cnf.Cache.Size, 10*ttl)
		}
		backend = NewCachedBackend(backend, c, ttl)
	}

	ds := NewDatasource(backend)
	ds.closers = closers
	ds.redis = rdb
	return ds, nil
}

// Backend exposes the underlying backend, e.g. to refresh a cached tier.
func (d *Datasource) Backend() Backend {
	return d.backend
}

// Redis returns the configured Redis client, or nil when none is configured.
func (d *Datasource) Redis() redis.UniversalClient {
	return d.redis
}

func (d *Datasource) Close() error {
	var firstErr error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *Datasource) lock(collection string) func() {
	d.mu.Lock()
	l, ok := d.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		d.locks[collection] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// load decodes a whole collection. Callers hold the collection lock.
func load[T any](ctx context.Context, d *Datasource, collection string) ([]T, error) {
	raw, err := d.backend.Load(ctx, collection)
	if err != nil {
		return nil, apierror.Storage("load "+collection, err)
	}
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, apierror.Storage("decode "+collection, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func save[T any](ctx context.Context, d *Datasource, collection string, items []T) error {
	raw := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "failed to encode "+collection, err)
		}
		raw = append(raw, b)
	}
	if err := d.backend.Save(ctx, collection, raw); err != nil {
		return apierror.Storage("save "+collection, err)
	}
	return nil
}

// store describes one collection: its name, the entity name used in
// errors and how to read an item's ID.
type store[T any] struct {
	collection string
	entity     string
	id         func(*T) string
}

func (s store[T]) all(ctx context.Context, d *Datasource) ([]T, error) {
	ctx, span := otel.Tracer("Ledger store").Start(ctx, "Listing "+s.collection)
	defer span.End()

	unlock := d.lock(s.collection)
	defer unlock()
	return load[T](ctx, d, s.collection)
}

func (s store[T]) filter(ctx context.Context, d *Datasource, keep func(*T) bool) ([]T, error) {
	items, err := s.all(ctx, d)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

func (s store[T]) find(ctx context.Context, d *Datasource, keep func(*T) bool) (*T, bool, error) {
	items, err := s.all(ctx, d)
	if err != nil {
		return nil, false, err
	}
	for i := range items {
		if keep(&items[i]) {
			return &items[i], true, nil
		}
	}
	return nil, false, nil
}

func (s store[T]) get(ctx context.Context, d *Datasource, id string) (*T, error) {
	item, ok, err := s.find(ctx, d, func(t *T) bool { return s.id(t) == id })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierror.NotFound(s.entity, id)
	}
	return item, nil
}

func (s store[T]) insert(ctx context.Context, d *Datasource, item T) error {
	ctx, span := otel.Tracer("Ledger store").Start(ctx, "Saving "+s.entity)
	defer span.End()

	unlock := d.lock(s.collection)
	defer unlock()

	items, err := load[T](ctx, d, s.collection)
	if err != nil {
		return err
	}
	id := s.id(&item)
	for i := range items {
		if s.id(&items[i]) == id {
			return apierror.Conflict(fmt.Sprintf("%s with id '%s' already exists", s.entity, id))
		}
	}
	return save(ctx, d, s.collection, append(items, item))
}

func (s store[T]) update(ctx context.Context, d *Datasource, item T) error {
	ctx, span := otel.Tracer("Ledger store").Start(ctx, "Updating "+s.entity)
	defer span.End()

	unlock := d.lock(s.collection)
	defer unlock()

	items, err := load[T](ctx, d, s.collection)
	if err != nil {
		return err
	}
	id := s.id(&item)
	for i := range items {
		if s.id(&items[i]) == id {
			items[i] = item
			return save(ctx, d, s.collection, items)
		}
	}
	return apierror.NotFound(s.entity, id)
}

// removeWhere deletes every item matching drop and reports how many went.
func (s store[T]) removeWhere(ctx context.Context, d *Datasource, drop func(*T) bool) (int, error) {
	ctx, span := otel.Tracer("Ledger store").Start(ctx, "Deleting "+s.entity)
	defer span.End()

	unlock := d.lock(s.collection)
	defer unlock()

	items, err := load[T](ctx, d, s.collection)
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	for i := range items {
		if !drop(&items[i]) {
			kept = append(kept, items[i])
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, save(ctx, d, s.collection, kept)
}

func (s store[T]) remove(ctx context.Context, d *Datasource, id string) error {
	n, err := s.removeWhere(ctx, d, func(t *T) bool { return s.id(t) == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return apierror.NotFound(s.entity, id)
	}
	return nil
}

func (s store[T]) replace(ctx context.Context, d *Datasource, items []T) error {
	ctx, span := otel.Tracer("Ledger store").Start(ctx, "Replacing "+s.collection)
	defer span.End()

	unlock := d.lock(s.collection)
	defer unlock()
	return save(ctx, d, s.collection, items)
}
