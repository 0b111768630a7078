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
	"strings"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/model"
)

// CreateSystemEntry records a manual ledger line. Lines derived from
// payments and receipts are created by ApplyPayment and ApplyReceipt.
func (c *Caixa) CreateSystemEntry(ctx context.Context, entry model.SystemEntry) (*model.SystemEntry, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	entry.Origin = model.EntryManual
	entry.SourceID = nil
	return c.recordEntry(ctx, entry)
}

func (c *Caixa) recordEntry(ctx context.Context, entry model.SystemEntry) (*model.SystemEntry, error) {
	entry.Description = strings.TrimSpace(entry.Description)
	entry.Date = model.Day(entry.Date)
	entry.Amount = model.RoundMoney(entry.Amount)
	if err := entry.Validate(); err != nil {
		return nil, apierror.Invalid("invalid system entry", err)
	}
	entry.ID = model.GenerateID(model.PrefixSystemEntry)
	entry.CreatedAt = c.Today()

	created, err := c.datasource.RecordSystemEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Caixa) GetSystemEntry(ctx context.Context, id string) (*model.SystemEntry, error) {
	return c.datasource.GetSystemEntryByID(ctx, id)
}

func (c *Caixa) ListSystemEntries(ctx context.Context) ([]model.SystemEntry, error) {
	return c.datasource.GetAllSystemEntries(ctx)
}

// DeleteSystemEntry removes a manual entry and its reconciliation links.
// Derived entries go away with their payment or receipt.
func (c *Caixa) DeleteSystemEntry(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	entry, err := c.datasource.GetSystemEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.Origin != model.EntryManual {
		return apierror.Conflict(fmt.Sprintf("system entry %s was derived from a %s; delete the %s instead", id, entry.Origin, entry.Origin))
	}
	return c.deleteEntry(ctx, id)
}

func (c *Caixa) deleteEntry(ctx context.Context, id string) error {
	if err := c.datasource.DeleteSystemEntry(ctx, id); err != nil {
		return err
	}
	_, err := c.datasource.DeleteReconciliationsFor(ctx, "", id)
	return err
}
