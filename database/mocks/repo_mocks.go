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

package mocks

import (
	"context"

	"github.com/jerry-enebeli/caixa/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) CreateSupplier(ctx context.Context, supplier model.Supplier) (model.Supplier, error) {
	args := m.Called(ctx, supplier)
	return args.Get(0).(model.Supplier), args.Error(1)
}

func (m *MockDataSource) GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllSuppliers(ctx context.Context) ([]model.Supplier, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) UpdateSupplier(ctx context.Context, supplier *model.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockDataSource) DeleteSupplier(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) ReplaceSuppliers(ctx context.Context, suppliers []model.Supplier) error {
	args := m.Called(ctx, suppliers)
	return args.Error(0)
}

func (m *MockDataSource) CreateCompany(ctx context.Context, company model.Company) (model.Company, error) {
	args := m.Called(ctx, company)
	return args.Get(0).(model.Company), args.Error(1)
}

func (m *MockDataSource) GetCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllCompanies(ctx context.Context) ([]model.Company, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) UpdateCompany(ctx context.Context, company *model.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockDataSource) DeleteCompany(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) CreateBankAccount(ctx context.Context, account model.BankAccount) (model.BankAccount, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.BankAccount), args.Error(1)
}

func (m *MockDataSource) GetBankAccountByID(ctx context.Context, id string) (*model.BankAccount, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.BankAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.BankAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) UpdateBankAccount(ctx context.Context, account *model.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockDataSource) DeleteBankAccount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) CreateObligation(ctx context.Context, obligation model.PayableObligation) (model.PayableObligation, error) {
	args := m.Called(ctx, obligation)
	return args.Get(0).(model.PayableObligation), args.Error(1)
}

func (m *MockDataSource) GetObligationByID(ctx context.Context, id string) (*model.PayableObligation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.PayableObligation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllObligations(ctx context.Context, filter model.ObligationFilter) ([]model.PayableObligation, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.PayableObligation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) UpdateObligation(ctx context.Context, obligation *model.PayableObligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockDataSource) DeleteObligation(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) ReplaceObligations(ctx context.Context, obligations []model.PayableObligation) error {
	args := m.Called(ctx, obligations)
	return args.Error(0)
}

func (m *MockDataSource) RecordPayment(ctx context.Context, payment model.Payment) (model.Payment, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *MockDataSource) GetPaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetPaymentsByObligation(ctx context.Context, obligationID string) ([]model.Payment, error) {
	args := m.Called(ctx, obligationID)
	if v := args.Get(0); v != nil {
		return v.([]model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllPayments(ctx context.Context) ([]model.Payment, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) DeletePayment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) RecordReceipt(ctx context.Context, receipt model.Receipt) (model.Receipt, error) {
	args := m.Called(ctx, receipt)
	return args.Get(0).(model.Receipt), args.Error(1)
}

func (m *MockDataSource) GetReceiptByID(ctx context.Context, id string) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllReceipts(ctx context.Context) ([]model.Receipt, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) DeleteReceipt(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) RecordBankMovement(ctx context.Context, movement model.BankMovement) (model.BankMovement, error) {
	args := m.Called(ctx, movement)
	return args.Get(0).(model.BankMovement), args.Error(1)
}

func (m *MockDataSource) GetBankMovementByID(ctx context.Context, id string) (*model.BankMovement, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.BankMovement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllBankMovements(ctx context.Context, bankAccountID string) ([]model.BankMovement, error) {
	args := m.Called(ctx, bankAccountID)
	if v := args.Get(0); v != nil {
		return v.([]model.BankMovement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) DeleteBankMovement(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) BankMovementExists(ctx context.Context, movement model.BankMovement) (bool, error) {
	args := m.Called(ctx, movement)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataSource) RecordSystemEntry(ctx context.Context, entry model.SystemEntry) (model.SystemEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(model.SystemEntry), args.Error(1)
}

func (m *MockDataSource) GetSystemEntryByID(ctx context.Context, id string) (*model.SystemEntry, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.SystemEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllSystemEntries(ctx context.Context) ([]model.SystemEntry, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.SystemEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetSystemEntryBySource(ctx context.Context, origin model.EntryOrigin, sourceID string) (*model.SystemEntry, error) {
	args := m.Called(ctx, origin, sourceID)
	if v := args.Get(0); v != nil {
		return v.(*model.SystemEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) ReplaceSystemEntries(ctx context.Context, entries []model.SystemEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockDataSource) DeleteSystemEntry(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) RecordReconciliation(ctx context.Context, rec model.Reconciliation) (model.Reconciliation, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(model.Reconciliation), args.Error(1)
}

func (m *MockDataSource) GetReconciliationByID(ctx context.Context, id string) (*model.Reconciliation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Reconciliation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetAllReconciliations(ctx context.Context) ([]model.Reconciliation, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Reconciliation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) GetReconciliationByPair(ctx context.Context, bankMovementID, systemEntryID string) (*model.Reconciliation, error) {
	args := m.Called(ctx, bankMovementID, systemEntryID)
	if v := args.Get(0); v != nil {
		return v.(*model.Reconciliation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataSource) DeleteReconciliation(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) DeleteReconciliationsFor(ctx context.Context, bankMovementID, systemEntryID string) (int, error) {
	args := m.Called(ctx, bankMovementID, systemEntryID)
	return args.Int(0), args.Error(1)
}
