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
	bankAccounts  = store[model.BankAccount]{collection: CollectionBankAccounts, entity: "bank account", id: func(a *model.BankAccount) string { return a.ID }}
	bankMovements = store[model.BankMovement]{collection: CollectionBankMovements, entity: "bank movement", id: func(m *model.BankMovement) string { return m.ID }}
)

func (d *Datasource) CreateBankAccount(ctx context.Context, account model.BankAccount) (model.BankAccount, error) {
	return account, bankAccounts.insert(ctx, d, account)
}

func (d *Datasource) GetBankAccountByID(ctx context.Context, id string) (*model.BankAccount, error) {
	return bankAccounts.get(ctx, d, id)
}

func (d *Datasource) GetAllBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	return bankAccounts.all(ctx, d)
}

func (d *Datasource) UpdateBankAccount(ctx context.Context, account *model.BankAccount) error {
	return bankAccounts.update(ctx, d, *account)
}

func (d *Datasource) DeleteBankAccount(ctx context.Context, id string) error {
	return bankAccounts.remove(ctx, d, id)
}

func (d *Datasource) RecordBankMovement(ctx context.Context, movement model.BankMovement) (model.BankMovement, error) {
	return movement, bankMovements.insert(ctx, d, movement)
}

func (d *Datasource) GetBankMovementByID(ctx context.Context, id string) (*model.BankMovement, error) {
	return bankMovements.get(ctx, d, id)
}

func (d *Datasource) GetAllBankMovements(ctx context.Context, bankAccountID string) ([]model.BankMovement, error) {
	if bankAccountID == "" {
		return bankMovements.all(ctx, d)
	}
	return bankMovements.filter(ctx, d, func(m *model.BankMovement) bool { return m.BankAccountID == bankAccountID })
}

func (d *Datasource) DeleteBankMovement(ctx context.Context, id string) error {
	return bankMovements.remove(ctx, d, id)
}

func (d *Datasource) BankMovementExists(ctx context.Context, movement model.BankMovement) (bool, error) {
	key := movement.DedupKey()
	_, ok, err := bankMovements.find(ctx, d, func(m *model.BankMovement) bool { return m.DedupKey() == key })
	return ok, err
}
