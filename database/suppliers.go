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

var (
	suppliers = store[model.Supplier]{collection: CollectionSuppliers, entity: "supplier", id: func(s *model.Supplier) string { return s.ID }}
	companies = store[model.Company]{collection: CollectionCompanies, entity: "company", id: func(c *model.Company) string { return c.ID }}
)

func (d *Datasource) CreateSupplier(ctx context.Context, supplier model.Supplier) (model.Supplier, error) {
	return supplier, suppliers.insert(ctx, d, supplier)
}

func (d *Datasource) GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error) {
	return suppliers.get(ctx, d, id)
}

func (d *Datasource) GetAllSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return suppliers.all(ctx, d)
}

func (d *Datasource) UpdateSupplier(ctx context.Context, supplier *model.Supplier) error {
	return suppliers.update(ctx, d, *supplier)
}

func (d *Datasource) DeleteSupplier(ctx context.Context, id string) error {
	return suppliers.remove(ctx, d, id)
}

func (d *Datasource) ReplaceSuppliers(ctx context.Context, list []model.Supplier) error {
	return suppliers.replace(ctx, d, list)
}

func (d *Datasource) CreateCompany(ctx context.Context, company model.Company) (model.Company, error) {
	return company, companies.insert(ctx, d, company)
}

func (d *Datasource) GetCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	return companies.get(ctx, d, id)
}

func (d *Datasource) GetAllCompanies(ctx context.Context) ([]model.Company, error) {
	return companies.all(ctx, d)
}

func (d *Datasource) UpdateCompany(ctx context.Context, company *model.Company) error {
	return companies.update(ctx, d, *company)
}

func (d *Datasource) DeleteCompany(ctx context.Context, id string) error {
	return companies.remove(ctx, d, id)
}
