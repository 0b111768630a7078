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
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/database"
	"github.com/jerry-enebeli/caixa/internal/notification"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingNotifier) Notify(_ context.Context, e notification.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

var testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestCaixa(t *testing.T, opts ...Option) (*Caixa, *database.Datasource, *fakeClock) {
	t.Helper()
	ds := database.NewDatasource(database.NewMemoryBackend())
	clock := &fakeClock{now: testNow}
	base := []Option{WithClock(clock.Now), WithNotifier(&recordingNotifier{})}
	return NewCaixa(ds, append(base, opts...)...), ds, clock
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedSupplier(t *testing.T, c *Caixa, name, taxID string) *model.Supplier {
	t.Helper()
	s, err := c.CreateSupplier(context.Background(), model.Supplier{Name: name, TaxID: taxID, Active: true})
	require.NoError(t, err)
	return s
}

func seedObligation(t *testing.T, c *Caixa, supplierID, amount string, due time.Time) *model.PayableObligation {
	t.Helper()
	o, err := c.CreateObligation(context.Background(), model.PayableObligation{
		SupplierID:  supplierID,
		Description: gofakeit.BuzzWord() + " " + gofakeit.Noun(),
		Amount:      money(amount),
		DueDate:     due,
		Category:    "Fornecedores",
	})
	require.NoError(t, err)
	return o
}

func seedAccount(t *testing.T, c *Caixa) *model.BankAccount {
	t.Helper()
	a, err := c.CreateBankAccount(context.Background(), model.BankAccount{
		Name:          "Conta Movimento",
		BankName:      gofakeit.RandomString([]string{"Itaú", "Bradesco", "Banco do Brasil", "Sicoob"}),
		Branch:        gofakeit.Numerify("####"),
		AccountNumber: gofakeit.Numerify("#####-#"),
		Kind:          "checking",
		Active:        true,
	})
	require.NoError(t, err)
	return a
}

func TestNewCaixaDefaults(t *testing.T) {
	ds := database.NewDatasource(database.NewMemoryBackend())
	c := NewCaixa(ds)
	assert.Same(t, ds, c.Datasource())
	assert.Equal(t, config.DEFAULT_MAX_ERRORS, c.maxImportErrors)
	assert.False(t, c.enforcePaymentCap)
	assert.NotEmpty(t, c.rules)
}

func TestNewCaixaFromConfig(t *testing.T) {
	ds := database.NewDatasource(database.NewMemoryBackend())
	cnf := &config.Configuration{
		Settlement: config.SettlementConfig{EnforcePaymentCap: true},
		Import:     config.ImportConfig{MaxErrors: 3},
	}
	c, err := NewCaixaFromConfig(ds, cnf)
	require.NoError(t, err)
	assert.True(t, c.enforcePaymentCap)
	assert.Equal(t, 3, c.maxImportErrors)

	cnf.Categorization.RulesFile = "/does/not/exist.yaml"
	_, err = NewCaixaFromConfig(ds, cnf)
	assert.Error(t, err)
}

func TestLocalGuardSerialises(t *testing.T) {
	g := newLocalGuard()
	release, err := g.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release()
	again, err := g.Acquire(context.Background())
	require.NoError(t, err)
	again()
}
