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
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

const redisKeyPrefix = "caixa:collection:"

// RedisBackend keeps each collection as one JSON string under
// caixa:collection:<name>. It is the remote store shared by several
// processes.
type RedisBackend struct {
	client redis.UniversalClient
}

func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client}
}

func redisKey(collection string) string {
	return redisKeyPrefix + collection
}

func (r *RedisBackend) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	ctx, span := otel.Tracer("Storage").Start(ctx, "Loading collection from redis")
	defer span.End()

	payload, err := r.client.Get(ctx, redisKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("collection %s is corrupt: %w", collection, err)
	}
	return records, nil
}

func (r *RedisBackend) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	ctx, span := otel.Tracer("Storage").Start(ctx, "Saving collection to redis")
	defer span.End()

	if records == nil {
		records = []json.RawMessage{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(collection), payload, 0).Err()
}
