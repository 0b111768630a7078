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

func (c *Caixa) CreateCompany(ctx context.Context, company model.Company) (*model.Company, error) {
	company.Name = strings.TrimSpace(company.Name)
	if err := company.Validate(); err != nil {
		return nil, apierror.Invalid("invalid company", err)
	}
	now := c.Today()
	company.ID = model.GenerateID(model.PrefixCompany)
	company.CreatedAt = now
	company.UpdatedAt = now

	created, err := c.datasource.CreateCompany(ctx, company)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Caixa) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	return c.datasource.GetCompanyByID(ctx, id)
}

func (c *Caixa) ListCompanies(ctx context.Context) ([]model.Company, error) {
	return c.datasource.GetAllCompanies(ctx)
}

func (c *Caixa) UpdateCompany(ctx context.Context, company model.Company) (*model.Company, error) {
	existing, err := c.datasource.GetCompanyByID(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	company.Name = strings.TrimSpace(company.Name)
	if err := company.Validate(); err != nil {
		return nil, apierror.Invalid("invalid company", err)
	}
	company.CreatedAt = existing.CreatedAt
	company.UpdatedAt = c.Today()
	if err := c.datasource.UpdateCompany(ctx, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Caixa) DeleteCompany(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	owned, err := c.datasource.GetAllObligations(ctx, model.ObligationFilter{CompanyID: id})
	if err != nil {
		return err
	}
	if len(owned) > 0 {
		return apierror.Conflict(fmt.Sprintf("company %s still has %d obligations", id, len(owned)))
	}
	return c.datasource.DeleteCompany(ctx, id)
}
