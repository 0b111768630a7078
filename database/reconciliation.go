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

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/model"
)

var reconciliations = store[model.Reconciliation]{collection: CollectionReconciliations, entity: "reconciliation", id: func(r *model.Reconciliation) string { return r.ID }}

// RecordReconciliation refuses a second link for the same movement/entry pair.
func (d *Datasource) RecordReconciliation(ctx context.Context, rec model.Reconciliation) (model.Reconciliation, error) {
	unlock := d.lock(CollectionReconciliations)
	defer unlock()

	items, err := load[model.Reconciliation](ctx, d, CollectionReconciliations)
	if err != nil {
		return rec, err
	}
	for _, existing := range items {
		if existing.ID == rec.ID || (existing.BankMovementID == rec.BankMovementID && existing.SystemEntryID == rec.SystemEntryID) {
			return rec, apierror.Conflict("bank movement " + rec.BankMovementID + " is already reconciled with system entry " + rec.SystemEntryID)
		}
	}
	return rec, save(ctx, d, CollectionReconciliations, append(items, rec))
}

func (d *Datasource) GetReconciliationByID(ctx context.Context, id string) (*model.Reconciliation, error) {
	return reconciliations.get(ctx, d, id)
}

func (d *Datasource) GetAllReconciliations(ctx context.Context) ([]model.Reconciliation, error) {
	return reconciliations.all(ctx, d)
}

// GetReconciliationByPair returns nil when the pair is not reconciled.
func (d *Datasource) GetReconciliationByPair(ctx context.Context, bankMovementID, systemEntryID string) (*model.Reconciliation, error) {
	rec, _, err := reconciliations.find(ctx, d, func(r *model.Reconciliation) bool {
		return r.BankMovementID == bankMovementID && r.SystemEntryID == systemEntryID
	})
	return rec, err
}

func (d *Datasource) DeleteReconciliation(ctx context.Context, id string) error {
	return reconciliations.remove(ctx, d, id)
}

func (d *Datasource) DeleteReconciliationsFor(ctx context.Context, bankMovementID, systemEntryID string) (int, error) {
	if bankMovementID == "" && systemEntryID == "" {
		return 0, nil
	}
	return reconciliations.removeWhere(ctx, d, func(r *model.Reconciliation) bool {
		return (bankMovementID != "" && r.BankMovementID == bankMovementID) ||
			(systemEntryID != "" && r.SystemEntryID == systemEntryID)
	})
}
