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
	"github.com/shopspring/decimal"
)

// CreateObligation stores a new payable obligation for an existing supplier.
func (c *Caixa) CreateObligation(ctx context.Context, o model.PayableObligation) (*model.PayableObligation, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if o.SupplierID != "" {
		if _, err := c.datasource.GetSupplierByID(ctx, o.SupplierID); err != nil {
			return nil, err
		}
	}
	return c.createObligation(ctx, o)
}

func (c *Caixa) prepareObligation(o *model.PayableObligation) error {
	o.Description = strings.TrimSpace(o.Description)
	o.Category = strings.TrimSpace(o.Category)
	o.DueDate = model.Day(o.DueDate)
	o.Amount = model.RoundMoney(o.Amount)
	if err := o.Validate(); err != nil {
		return apierror.Invalid("invalid obligation", err)
	}
	return nil
}

func (c *Caixa) createObligation(ctx context.Context, o model.PayableObligation) (*model.PayableObligation, error) {
	o.AmountPaid = decimal.Zero
	if err := c.prepareObligation(&o); err != nil {
		return nil, err
	}
	now := c.Today()
	o.ID = model.GenerateID(model.PrefixObligation)
	o.Status = ObligationStatus(o.AmountPaid, o.Amount, o.DueDate, now)
	o.CreatedAt = now
	o.UpdatedAt = now

	created, err := c.datasource.CreateObligation(ctx, o)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Caixa) GetObligation(ctx context.Context, id string) (*model.PayableObligation, error) {
	return c.datasource.GetObligationByID(ctx, id)
}

func (c *Caixa) ListObligations(ctx context.Context, filter model.ObligationFilter) ([]model.PayableObligation, error) {
	return c.datasource.GetAllObligations(ctx, filter)
}

// UpdateObligation edits the descriptive fields of an obligation. The paid
// amount and status are always re-derived from its payments.
func (c *Caixa) UpdateObligation(ctx context.Context, o model.PayableObligation) (*model.PayableObligation, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := c.datasource.GetObligationByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if o.SupplierID != existing.SupplierID {
		if _, err := c.datasource.GetSupplierByID(ctx, o.SupplierID); err != nil {
			return nil, err
		}
	}

	o.AmountPaid = existing.AmountPaid
	if err := c.prepareObligation(&o); err != nil {
		return nil, err
	}
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = c.Today()
	o.Status = existing.Status
	if err := c.datasource.UpdateObligation(ctx, &o); err != nil {
		return nil, err
	}
	updated, err := c.recomputeObligation(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteObligation refuses obligations that already have payments.
func (c *Caixa) DeleteObligation(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	paid, err := c.datasource.GetPaymentsByObligation(ctx, id)
	if err != nil {
		return err
	}
	if len(paid) > 0 {
		return apierror.Conflict(fmt.Sprintf("obligation %s has %d payments; delete them first", id, len(paid)))
	}
	return c.datasource.DeleteObligation(ctx, id)
}
