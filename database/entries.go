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

	"github.com/jerry-enebeli/caixa/model"
)

var systemEntries = store[model.SystemEntry]{collection: CollectionSystemEntries, entity: "system entry", id: func(e *model.SystemEntry) string { return e.ID }}

func (d *Datasource) RecordSystemEntry(ctx context.Context, entry model.SystemEntry) (model.SystemEntry, error) {
	return entry, systemEntries.insert(ctx, d, entry)
}

func (d *Datasource) GetSystemEntryByID(ctx context.Context, id string) (*model.SystemEntry, error) {
	return systemEntries.get(ctx, d, id)
}

func (d *Datasource) GetAllSystemEntries(ctx context.Context) ([]model.SystemEntry, error) {
	return systemEntries.all(ctx, d)
}

// GetSystemEntryBySource returns the entry derived from a payment or receipt,
// or nil when there is none.
func (d *Datasource) GetSystemEntryBySource(ctx context.Context, origin model.EntryOrigin, sourceID string) (*model.SystemEntry, error) {
	entry, _, err := systemEntries.find(ctx, d, func(e *model.SystemEntry) bool { return e.IsFrom(origin, sourceID) })
	return entry, err
}

func (d *Datasource) ReplaceSystemEntries(ctx context.Context, entries []model.SystemEntry) error {
	return systemEntries.replace(ctx, d, entries)
}

func (d *Datasource) DeleteSystemEntry(ctx context.Context, id string) error {
	return systemEntries.remove(ctx, d, id)
}
