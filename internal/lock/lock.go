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

package redlock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	extendScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('pexpire', KEYS[1], ARGV[2]) else return 0 end"
)

type Locker struct {
	client redis.UniversalClient
	key    string
	value  string // only the holder of value can unlock or extend
}

func NewLocker(client redis.UniversalClient, key, value string) *Locker {
	return &Locker{
		client: client,
		key:    key,
		value:  value,
	}
}

func (l *Locker) Lock(ctx context.Context, timeout time.Duration) error {
	success, err := l.client.SetNX(ctx, l.key, l.value, timeout).Result()
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("lock for key %s is already held", l.key)
	}
	return nil
}

func (l *Locker) Unlock(ctx context.Context) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("unlock failed, either lock expired or you're not the lock holder for key %s", l.key)
	}
	return nil
}

func (l *Locker) ExtendLock(ctx context.Context, extension time.Duration) error {
	result, err := l.client.Eval(ctx, extendScript, []string{l.key}, l.value, fmt.Sprintf("%d", extension.Milliseconds())).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("lock extension failed for key %s, either lock expired or you're not the holder", l.key)
	}
	return nil
}

// WaitLock polls Lock with jitter until it succeeds, waitTimeout passes or
// ctx is cancelled.
func (l *Locker) WaitLock(ctx context.Context, lockTimeout, waitTimeout time.Duration) error {
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if err := l.Lock(ctx, lockTimeout); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(rand.Intn(100)) * time.Millisecond):
		}
	}
	return fmt.Errorf("failed to acquire lock for key %s within the wait timeout", l.key)
}

// Guard serialises ledger writes across processes that share one Redis.
// Each Acquire takes a fresh token so a late release from an expired holder
// cannot free someone else's lock.
type Guard struct {
	client      redis.UniversalClient
	key         string
	lockTimeout time.Duration
	waitTimeout time.Duration
}

const DefaultGuardKey = "caixa:ledger:write"

func NewGuard(client redis.UniversalClient, key string, lockTimeout, waitTimeout time.Duration) *Guard {
	if key == "" {
		key = DefaultGuardKey
	}
	if lockTimeout <= 0 {
		lockTimeout = 30 * time.Second
	}
	if waitTimeout <= 0 {
		waitTimeout = 10 * time.Second
	}
	return &Guard{client: client, key: key, lockTimeout: lockTimeout, waitTimeout: waitTimeout}
}

// Acquire blocks until the guard is held and returns the function that
// releases it. While held, the lock is extended every third of its timeout
// so long imports keep it.
func (g *Guard) Acquire(ctx context.Context) (func(), error) {
	locker := NewLocker(g.client, g.key, uuid.NewString())
	if err := locker.WaitLock(ctx, g.lockTimeout, g.waitTimeout); err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go g.keepAlive(locker, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// the lock expires on its own if this fails
			_ = locker.Unlock(context.Background())
		})
	}, nil
}

func (g *Guard) keepAlive(locker *Locker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(g.lockTimeout / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), g.lockTimeout/3)
			err := locker.ExtendLock(ctx, g.lockTimeout)
			cancel()
			if err != nil {
				logrus.WithError(err).WithField("key", g.key).Warn("write guard renewal failed")
				return
			}
		}
	}
}
