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

package caixa

import (
	"context"
	"sync"
	"time"

	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/database"
	"github.com/jerry-enebeli/caixa/internal/notification"
)

// Caixa is the ledger service. It owns the settlement, deduplication,
// categorization, reconciliation and import logic and keeps every record in
// the injected datasource.
type Caixa struct {
	datasource        database.IDataSource
	notifier          notification.Notifier
	guard             WriteGuard
	rules             []CategoryRule
	now               func() time.Time
	enforcePaymentCap bool
	maxImportErrors   int
}

// WriteGuard serialises composite mutations (a payment, its ledger entry and
// the obligation recompute, for example) against each other.
type WriteGuard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// localGuard is the in-process WriteGuard.
type localGuard struct {
	ch chan struct{}
}

func newLocalGuard() *localGuard {
	return &localGuard{ch: make(chan struct{}, 1)}
}

func (g *localGuard) Acquire(ctx context.Context) (func(), error) {
	select {
	case g.ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-g.ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type Option func(*Caixa)

// WithClock replaces time.Now, which drives overdue detection and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Caixa) { c.now = now }
}

func WithNotifier(n notification.Notifier) Option {
	return func(c *Caixa) { c.notifier = n }
}

// WithCategoryRules replaces the built-in category rule table.
func WithCategoryRules(rules []CategoryRule) Option {
	return func(c *Caixa) { c.rules = rules }
}

// WithWriteGuard shares the write guard with other processes, e.g. a Redis
// lock when several servers use the same remote store.
func WithWriteGuard(g WriteGuard) Option {
	return func(c *Caixa) { c.guard = g }
}

// WithPaymentCap makes ApplyPayment reject payments above the remaining
// balance of their obligation.
func WithPaymentCap(enforce bool) Option {
	return func(c *Caixa) { c.enforcePaymentCap = enforce }
}

func WithMaxImportErrors(n int) Option {
	return func(c *Caixa) { c.maxImportErrors = n }
}

func NewCaixa(ds database.IDataSource, opts ...Option) *Caixa {
	c := &Caixa{
		datasource:      ds,
		notifier:        notification.LogNotifier{},
		guard:           newLocalGuard(),
		rules:           DefaultCategoryRules(),
		now:             time.Now,
		maxImportErrors: config.DEFAULT_MAX_ERRORS,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCaixaFromConfig applies the settlement, import, categorization and
// notification settings of cnf. Extra options are applied last.
func NewCaixaFromConfig(ds database.IDataSource, cnf *config.Configuration, opts ...Option) (*Caixa, error) {
	base := []Option{
		WithPaymentCap(cnf.Settlement.EnforcePaymentCap),
		WithMaxImportErrors(cnf.Import.MaxErrors),
		WithNotifier(notification.FromConfig(cnf)),
	}
	if cnf.Categorization.RulesFile != "" {
		rules, err := LoadCategoryRules(cnf.Categorization.RulesFile)
		if err != nil {
			return nil, err
		}
		base = append(base, WithCategoryRules(rules))
	}
	return NewCaixa(ds, append(base, opts...)...), nil
}

// Datasource returns the store the service writes to.
func (c *Caixa) Datasource() database.IDataSource {
	return c.datasource
}

// Today returns the service clock's current time in UTC. Default dates for
// payments and receipts come from it.
func (c *Caixa) Today() time.Time {
	return c.now().UTC()
}

func (c *Caixa) notify(event notification.Event) {
	notification.NotifyAsync(c.notifier, event)
}
