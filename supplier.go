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
	"github.com/jerry-enebeli/caixa/internal/normalize"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/sirupsen/logrus"
)

func (c *Caixa) prepareSupplier(s *model.Supplier) error {
	s.Name = strings.TrimSpace(s.Name)
	s.TaxID = strings.TrimSpace(s.TaxID)
	if s.Kind == "" {
		s.Kind = model.KindFromTaxID(s.TaxID)
	}
	if err := s.Validate(); err != nil {
		return apierror.Invalid("invalid supplier", err)
	}
	return nil
}

// CreateSupplier stores a new supplier. It does not check for an existing
// supplier with the same identity; Deduplicate merges those.
func (c *Caixa) CreateSupplier(ctx context.Context, s model.Supplier) (*model.Supplier, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	s.ID = ""
	return c.createSupplier(ctx, s)
}

func (c *Caixa) createSupplier(ctx context.Context, s model.Supplier) (*model.Supplier, error) {
	if err := c.prepareSupplier(&s); err != nil {
		return nil, err
	}
	now := c.Today()
	if s.ID == "" {
		s.ID = model.GenerateID(model.PrefixSupplier)
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	created, err := c.datasource.CreateSupplier(ctx, s)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Caixa) GetSupplier(ctx context.Context, id string) (*model.Supplier, error) {
	return c.datasource.GetSupplierByID(ctx, id)
}

func (c *Caixa) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return c.datasource.GetAllSuppliers(ctx)
}

// SearchSuppliers matches query against name, tax id, email and phone. An
// exact name match hides the partial ones.
func (c *Caixa) SearchSuppliers(ctx context.Context, query string) ([]model.Supplier, error) {
	all, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return normalize.SearchEntities(all, query, model.Supplier.SearchFields), nil
}

// FindSupplier returns the first supplier with the same identity key as the
// given name and tax id, or nil.
func (c *Caixa) FindSupplier(ctx context.Context, name, taxID string) (*model.Supplier, error) {
	all, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return findByIdentity(all, model.Supplier{Name: name, TaxID: taxID}), nil
}

func findByIdentity(list []model.Supplier, probe model.Supplier) *model.Supplier {
	key := probe.IdentityKey()
	if key == "" {
		return nil
	}
	for i := range list {
		if list[i].IdentityKey() == key {
			return &list[i]
		}
	}
	return nil
}

func (c *Caixa) UpdateSupplier(ctx context.Context, s model.Supplier) (*model.Supplier, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := c.datasource.GetSupplierByID(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if err := c.prepareSupplier(&s); err != nil {
		return nil, err
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = c.Today()
	if err := c.datasource.UpdateSupplier(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSupplier refuses to delete a supplier that obligations still point at.
func (c *Caixa) DeleteSupplier(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	owed, err := c.datasource.GetAllObligations(ctx, model.ObligationFilter{SupplierID: id})
	if err != nil {
		return err
	}
	if len(owed) > 0 {
		return apierror.Conflict(fmt.Sprintf("supplier %s still has %d obligations", id, len(owed)))
	}
	if err := c.datasource.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	logrus.WithField("supplier_id", id).Info("supplier deleted")
	return nil
}
