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

// IDataSource groups the ledger store operations per collection.
type IDataSource interface {
	supplier
	company
	bankAccount
	obligation
	payment
	receipt
	bankMovement
	systemEntry
	reconciliation
}

type supplier interface {
	CreateSupplier(ctx context.Context, supplier model.Supplier) (model.Supplier, error)
	GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error)
	GetAllSuppliers(ctx context.Context) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *model.Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
	ReplaceSuppliers(ctx context.Context, suppliers []model.Supplier) error // Replaces the whole collection, keeping order
}

type company interface {
	CreateCompany(ctx context.Context, company model.Company) (model.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*model.Company, error)
	GetAllCompanies(ctx context.Context) ([]model.Company, error)
	UpdateCompany(ctx context.Context, company *model.Company) error
	DeleteCompany(ctx context.Context, id string) error
}

type bankAccount interface {
	CreateBankAccount(ctx context.Context, account model.BankAccount) (model.BankAccount, error)
	GetBankAccountByID(ctx context.Context, id string) (*model.BankAccount, error)
	GetAllBankAccounts(ctx context.Context) ([]model.BankAccount, error)
	UpdateBankAccount(ctx context.Context, account *model.BankAccount) error
	DeleteBankAccount(ctx context.Context, id string) error
}

type obligation interface {
	CreateObligation(ctx context.Context, obligation model.PayableObligation) (model.PayableObligation, error)
	GetObligationByID(ctx context.Context, id string) (*model.PayableObligation, error)
	GetAllObligations(ctx context.Context, filter model.ObligationFilter) ([]model.PayableObligation, error)
	UpdateObligation(ctx context.Context, obligation *model.PayableObligation) error
	DeleteObligation(ctx context.Context, id string) error
	ReplaceObligations(ctx context.Context, obligations []model.PayableObligation) error
}

type payment interface {
	RecordPayment(ctx context.Context, payment model.Payment) (model.Payment, error)
	GetPaymentByID(ctx context.Context, id string) (*model.Payment, error)
	GetPaymentsByObligation(ctx context.Context, obligationID string) ([]model.Payment, error)
	GetAllPayments(ctx context.Context) ([]model.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

type receipt interface {
	RecordReceipt(ctx context.Context, receipt model.Receipt) (model.Receipt, error)
	GetReceiptByID(ctx context.Context, id string) (*model.Receipt, error)
	GetAllReceipts(ctx context.Context) ([]model.Receipt, error)
	DeleteReceipt(ctx context.Context, id string) error
}

type bankMovement interface {
	RecordBankMovement(ctx context.Context, movement model.BankMovement) (model.BankMovement, error)
	GetBankMovementByID(ctx context.Context, id string) (*model.BankMovement, error)
	GetAllBankMovements(ctx context.Context, bankAccountID string) ([]model.BankMovement, error) // Empty bankAccountID lists every account
	DeleteBankMovement(ctx context.Context, id string) error
	BankMovementExists(ctx context.Context, movement model.BankMovement) (bool, error) // Exact (account, date, amount, description) match
}

type systemEntry interface {
	RecordSystemEntry(ctx context.Context, entry model.SystemEntry) (model.SystemEntry, error)
	GetSystemEntryByID(ctx context.Context, id string) (*model.SystemEntry, error)
	GetAllSystemEntries(ctx context.Context) ([]model.SystemEntry, error)
	GetSystemEntryBySource(ctx context.Context, origin model.EntryOrigin, sourceID string) (*model.SystemEntry, error)
	ReplaceSystemEntries(ctx context.Context, entries []model.SystemEntry) error
	DeleteSystemEntry(ctx context.Context, id string) error
}

type reconciliation interface {
	RecordReconciliation(ctx context.Context, rec model.Reconciliation) (model.Reconciliation, error)
	GetReconciliationByID(ctx context.Context, id string) (*model.Reconciliation, error)
	GetAllReconciliations(ctx context.Context) ([]model.Reconciliation, error)
	GetReconciliationByPair(ctx context.Context, bankMovementID, systemEntryID string) (*model.Reconciliation, error)
	DeleteReconciliation(ctx context.Context, id string) error
	DeleteReconciliationsFor(ctx context.Context, bankMovementID, systemEntryID string) (int, error) // Either ID may be empty
}
