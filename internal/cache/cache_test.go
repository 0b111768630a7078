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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(100, time.Minute)

	setValue := map[string]string{"hello": "world"}
	require.NoError(t, c.Set(ctx, "testKey", setValue, 10*time.Minute))

	var getValue map[string]string
	require.NoError(t, c.Get(ctx, "testKey", &getValue))
	assert.Equal(t, setValue, getValue)
}

func TestGetNonExistentKey(t *testing.T) {
	c := NewLocalCache(100, time.Minute)

	var getValue map[string]string
	err := c.Get(context.Background(), "nonExistentKey", &getValue)
	assert.ErrorIs(t, err, ErrMiss)
	assert.Empty(t, getValue)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(100, time.Minute)

	require.NoError(t, c.Set(ctx, "testKey", "testValue", 10*time.Minute))
	require.NoError(t, c.Delete(ctx, "testKey"))

	var getValue string
	assert.ErrorIs(t, c.Get(ctx, "testKey", &getValue), ErrMiss)

	assert.NoError(t, c.Delete(ctx, "nonExistentKey"))
}

func TestRedisTierSharesEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	writer := NewRedisCache(client, 100, time.Minute)
	reader := NewRedisCache(client, 100, time.Minute)

	require.NoError(t, writer.Set(ctx, "shared", []string{"a", "b"}, time.Minute))
	assert.True(t, mr.Exists("shared"))

	var got []string
	require.NoError(t, reader.Get(ctx, "shared", &got))
	assert.Equal(t, []string{"a", "b"}, got)
}
