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

package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ImportKind string

const (
	ImportSuppliers     ImportKind = "suppliers"
	ImportObligations   ImportKind = "obligations"
	ImportBankMovements ImportKind = "bank_movements"
)

// SupplierRow is a supplier read from an import file.
type SupplierRow struct {
	Name    string
	TaxID   string
	Kind    SupplierKind
	Email   *string
	Phone   *string
	Address *string
}

// ObligationRow is a payable obligation read from an import file. The
// supplier is referenced by name and tax id and resolved during import.
type ObligationRow struct {
	SupplierName   string
	SupplierTaxID  string
	CompanyID      string
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	Category       string
	AmountPaid     *decimal.Decimal
	PaymentDate    *time.Time
	DocumentNumber *string
	Notes          *string
}

// MovementRow is a bank statement line read from an import file.
type MovementRow struct {
	Date           time.Time
	Description    string
	Amount         decimal.Decimal
	Direction      Direction
	Category       *string
	DocumentNumber *string
}

// ImportRow is a typed import record. Exactly one of Supplier, Obligation
// or Movement is set, according to Kind.
type ImportRow struct {
	Line       int
	Kind       ImportKind
	Supplier   *SupplierRow
	Obligation *ObligationRow
	Movement   *MovementRow
}

// ImportOptions apply to every row of an import.
type ImportOptions struct {
	CompanyID       string `json:"company_id"`
	BankAccountID   string `json:"bank_account_id"`
	DefaultCategory string `json:"default_category"`
}

type ImportError struct {
	Line    int        `json:"line"`
	Kind    ImportKind `json:"kind"`
	Message string     `json:"message"`
}

func (e ImportError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.Kind, e.Line, e.Message)
}

// ImportSummary reports per-entity counts of an import batch. Errors holds
// at most the configured number of messages; the rest are only counted.
type ImportSummary struct {
	BatchID            string        `json:"batch_id"`
	TotalRows          int           `json:"total_rows"`
	SuppliersCreated   int           `json:"suppliers_created"`
	SuppliersSkipped   int           `json:"suppliers_skipped"`
	ObligationsCreated int           `json:"obligations_created"`
	ObligationsSkipped int           `json:"obligations_skipped"`
	PaymentsCreated    int           `json:"payments_created"`
	MovementsCreated   int           `json:"movements_created"`
	MovementsSkipped   int           `json:"movements_skipped"`
	Dedup              DedupResult   `json:"dedup"`
	Errors             []ImportError `json:"errors"`
	ErrorCount         int           `json:"error_count"`
}

// AddError records a row failure, keeping at most limit messages.
func (s *ImportSummary) AddError(limit int, e ImportError) {
	s.ErrorCount++
	if limit <= 0 || len(s.Errors) < limit {
		s.Errors = append(s.Errors, e)
	}
}

// Merge adds the counts of other into s.
func (s *ImportSummary) Merge(limit int, other ImportSummary) {
	s.TotalRows += other.TotalRows
	s.SuppliersCreated += other.SuppliersCreated
	s.SuppliersSkipped += other.SuppliersSkipped
	s.ObligationsCreated += other.ObligationsCreated
	s.ObligationsSkipped += other.ObligationsSkipped
	s.PaymentsCreated += other.PaymentsCreated
	s.MovementsCreated += other.MovementsCreated
	s.MovementsSkipped += other.MovementsSkipped
	s.Dedup.RemovedSuppliers += other.Dedup.RemovedSuppliers
	s.Dedup.RemovedObligations += other.Dedup.RemovedObligations
	for _, e := range other.Errors {
		if limit <= 0 || len(s.Errors) < limit {
			s.Errors = append(s.Errors, e)
		}
	}
	s.ErrorCount += other.ErrorCount
}

// DedupResult counts the records removed by a deduplication pass.
type DedupResult struct {
	RemovedSuppliers   int `json:"removed_suppliers"`
	RemovedObligations int `json:"removed_obligations"`
}

type TransactionType string

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

// Analysis is the categorization assistant's reading of a description.
type Analysis struct {
	Category              *string         `json:"category"`
	SupplierID            *string         `json:"supplier_id"`
	SuggestedSupplierName string          `json:"suggested_supplier_name"`
	TransactionType       TransactionType `json:"transaction_type"`
}
