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
	"sync"
)

// Collection names. Each one is persisted as a whole by a Backend.
const (
	CollectionSuppliers       = "suppliers"
	CollectionCompanies       = "companies"
	CollectionBankAccounts    = "bank_accounts"
	CollectionObligations     = "payable_obligations"
	CollectionPayments        = "payments"
	CollectionReceipts        = "receipts"
	CollectionBankMovements   = "bank_movements"
	CollectionSystemEntries   = "system_entries"
	CollectionReconciliations = "reconciliations"
)

// Collections lists every collection the ledger keeps.
var Collections = []string{
	CollectionSuppliers,
	CollectionCompanies,
	CollectionBankAccounts,
	CollectionObligations,
	CollectionPayments,
	CollectionReceipts,
	CollectionBankMovements,
	CollectionSystemEntries,
	CollectionReconciliations,
}

// Backend persists whole collections of JSON records. Load of a collection
// that was never saved returns an empty list. Save replaces the collection
// and must be durable before it returns.
type Backend interface {
	Load(ctx context.Context, collection string) ([]json.RawMessage, error)
	Save(ctx context.Context, collection string, records []json.RawMessage) error
}

// MemoryBackend keeps collections in process memory. It backs tests and
// dry runs.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string][]json.RawMessage
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string][]json.RawMessage)}
}

func (m *MemoryBackend) Load(_ context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRecords(m.collections[collection]), nil
}

func (m *MemoryBackend) Save(_ context.Context, collection string, records []json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = cloneRecords(records)
	return nil
}

func cloneRecords(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
