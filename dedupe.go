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
	"fmt"

	"github.com/jerry-enebeli/caixa/internal/notification"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/sirupsen/logrus"
)

// Deduplicate merges suppliers sharing an identity key and drops obligations
// sharing a dedup key. The first record seen under a key is kept. Running it
// twice in a row removes nothing the second time.
func (c *Caixa) Deduplicate(ctx context.Context) (model.DedupResult, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return model.DedupResult{}, err
	}
	defer release()

	result, err := c.deduplicate(ctx)
	if err != nil {
		return result, err
	}
	if result.RemovedSuppliers > 0 || result.RemovedObligations > 0 {
		c.notify(notification.Event{
			Kind:    notification.KindDeduplicated,
			Message: fmt.Sprintf("removed %d duplicate suppliers and %d duplicate obligations", result.RemovedSuppliers, result.RemovedObligations),
			Fields: map[string]interface{}{
				"removed_suppliers":   result.RemovedSuppliers,
				"removed_obligations": result.RemovedObligations,
			},
		})
	}
	return result, nil
}

func (c *Caixa) deduplicate(ctx context.Context) (model.DedupResult, error) {
	var result model.DedupResult

	suppliers, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return result, err
	}
	kept, remap := mergeSuppliers(suppliers)
	result.RemovedSuppliers = len(suppliers) - len(kept)

	obligations, err := c.datasource.GetAllObligations(ctx, model.ObligationFilter{})
	if err != nil {
		return result, err
	}
	remapped := 0
	for i := range obligations {
		if canonical, ok := remap[obligations[i].SupplierID]; ok && canonical != obligations[i].SupplierID {
			obligations[i].SupplierID = canonical
			remapped++
		}
	}
	unique := uniqueObligations(obligations)
	result.RemovedObligations = len(obligations) - len(unique)

	// suppliers go last: until they are replaced, a failed run can be
	// repeated and rebuilds the same remap from the stored duplicates.
	if remapped > 0 || result.RemovedObligations > 0 {
		if err := c.datasource.ReplaceObligations(ctx, unique); err != nil {
			return result, err
		}
	}
	if result.RemovedObligations > 0 {
		c.warnOrphanedPayments(ctx, obligations, unique)
	}
	if result.RemovedSuppliers > 0 {
		if err := c.remapEntrySuppliers(ctx, remap); err != nil {
			return result, err
		}
		if err := c.datasource.ReplaceSuppliers(ctx, kept); err != nil {
			return result, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"removed_suppliers":   result.RemovedSuppliers,
		"removed_obligations": result.RemovedObligations,
	}).Debug("deduplication finished")
	return result, nil
}

// mergeSuppliers keeps the first supplier per identity key, in stored order,
// and maps every supplier id (canonical ones included) to its canonical id.
func mergeSuppliers(suppliers []model.Supplier) ([]model.Supplier, map[string]string) {
	canonicalByKey := make(map[string]string, len(suppliers))
	remap := make(map[string]string, len(suppliers))
	kept := make([]model.Supplier, 0, len(suppliers))

	for _, s := range suppliers {
		key := s.IdentityKey()
		if canonical, seen := canonicalByKey[key]; seen {
			remap[s.ID] = canonical
			continue
		}
		canonicalByKey[key] = s.ID
		remap[s.ID] = s.ID
		kept = append(kept, s)
	}
	return kept, remap
}

func uniqueObligations(obligations []model.PayableObligation) []model.PayableObligation {
	seen := make(map[string]struct{}, len(obligations))
	unique := make([]model.PayableObligation, 0, len(obligations))
	for _, o := range obligations {
		key := o.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, o)
	}
	return unique
}

func (c *Caixa) remapEntrySuppliers(ctx context.Context, remap map[string]string) error {
	entries, err := c.datasource.GetAllSystemEntries(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range entries {
		if entries[i].SupplierID == nil {
			continue
		}
		if canonical, ok := remap[*entries[i].SupplierID]; ok && canonical != *entries[i].SupplierID {
			id := canonical
			entries[i].SupplierID = &id
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return c.datasource.ReplaceSystemEntries(ctx, entries)
}

// warnOrphanedPayments logs payments whose obligation was dropped as a
// duplicate; they no longer count towards any obligation.
func (c *Caixa) warnOrphanedPayments(ctx context.Context, before, after []model.PayableObligation) {
	kept := make(map[string]struct{}, len(after))
	for _, o := range after {
		kept[o.ID] = struct{}{}
	}
	for _, o := range before {
		if _, ok := kept[o.ID]; ok {
			continue
		}
		payments, err := c.datasource.GetPaymentsByObligation(ctx, o.ID)
		if err != nil || len(payments) == 0 {
			continue
		}
		logrus.WithFields(logrus.Fields{
			"obligation_id": o.ID,
			"payments":      len(payments),
		}).Warn("duplicate obligation removed with payments attached")
	}
}
