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
	"github.com/sirupsen/logrus"
)

func (c *Caixa) CreateBankAccount(ctx context.Context, account model.BankAccount) (*model.BankAccount, error) {
	account.Name = strings.TrimSpace(account.Name)
	account.BankName = strings.TrimSpace(account.BankName)
	if err := account.Validate(); err != nil {
		return nil, apierror.Invalid("invalid bank account", err)
	}
	now := c.Today()
	account.ID = model.GenerateID(model.PrefixBankAccount)
	account.Balance = model.RoundMoney(account.Balance)
	account.CreatedAt = now
	account.UpdatedAt = now

	created, err := c.datasource.CreateBankAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Caixa) GetBankAccount(ctx context.Context, id string) (*model.BankAccount, error) {
	return c.datasource.GetBankAccountByID(ctx, id)
}

func (c *Caixa) ListBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	return c.datasource.GetAllBankAccounts(ctx)
}

func (c *Caixa) UpdateBankAccount(ctx context.Context, account model.BankAccount) (*model.BankAccount, error) {
	existing, err := c.datasource.GetBankAccountByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if err := account.Validate(); err != nil {
		return nil, apierror.Invalid("invalid bank account", err)
	}
	account.Balance = model.RoundMoney(account.Balance)
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = c.Today()
	if err := c.datasource.UpdateBankAccount(ctx, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteBankAccount refuses accounts that still have statement lines.
func (c *Caixa) DeleteBankAccount(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	movements, err := c.datasource.GetAllBankMovements(ctx, id)
	if err != nil {
		return err
	}
	if len(movements) > 0 {
		return apierror.Conflict(fmt.Sprintf("bank account %s still has %d movements", id, len(movements)))
	}
	return c.datasource.DeleteBankAccount(ctx, id)
}

func (c *Caixa) prepareMovement(m *model.BankMovement) error {
	m.Description = strings.TrimSpace(m.Description)
	m.Date = model.Day(m.Date)
	// the direction carries the sign
	m.Amount = model.RoundMoney(m.Amount.Abs())
	if m.Origin == "" {
		m.Origin = model.OriginManual
	}
	if err := m.Validate(); err != nil {
		return apierror.Invalid("invalid bank movement", err)
	}
	if !m.Amount.IsPositive() {
		return apierror.Invalid("invalid bank movement", fmt.Errorf("amount: must not be zero"))
	}
	return nil
}

// RecordBankMovement stores a manually entered statement line. Manual lines
// are never deduplicated.
func (c *Caixa) RecordBankMovement(ctx context.Context, m model.BankMovement) (*model.BankMovement, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.prepareMovement(&m); err != nil {
		return nil, err
	}
	if _, err := c.datasource.GetBankAccountByID(ctx, m.BankAccountID); err != nil {
		return nil, err
	}
	m.ID = model.GenerateID(model.PrefixBankMovement)
	m.CreatedAt = c.Today()

	created, err := c.datasource.RecordBankMovement(ctx, m)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// importMovement stores a statement line unless an identical one exists.
// It reports whether the line was created.
func (c *Caixa) importMovement(ctx context.Context, m model.BankMovement) (bool, error) {
	m.Origin = model.OriginStatement
	if err := c.prepareMovement(&m); err != nil {
		return false, err
	}
	exists, err := c.datasource.BankMovementExists(ctx, m)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	m.ID = model.GenerateID(model.PrefixBankMovement)
	m.CreatedAt = c.Today()
	if _, err := c.datasource.RecordBankMovement(ctx, m); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Caixa) GetBankMovement(ctx context.Context, id string) (*model.BankMovement, error) {
	return c.datasource.GetBankMovementByID(ctx, id)
}

// ListBankMovements lists one account's movements, or every account's when
// bankAccountID is empty.
func (c *Caixa) ListBankMovements(ctx context.Context, bankAccountID string) ([]model.BankMovement, error) {
	return c.datasource.GetAllBankMovements(ctx, bankAccountID)
}

// DeleteBankMovement also removes the movement's reconciliation links.
func (c *Caixa) DeleteBankMovement(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.datasource.DeleteBankMovement(ctx, id); err != nil {
		return err
	}
	n, err := c.datasource.DeleteReconciliationsFor(ctx, id, "")
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"bank_movement_id": id, "unlinked": n}).Info("bank movement deleted")
	return nil
}
