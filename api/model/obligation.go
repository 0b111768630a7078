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

import "github.com/shopspring/decimal"

type CreateObligation struct {
	CompanyID      string          `json:"company_id"`
	SupplierID     string          `json:"supplier_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"due_date"`
	Category       string          `json:"category"`
	Notes          *string         `json:"notes"`
	DocumentNumber *string         `json:"document_number"`
}

type ApplyPayment struct {
	PayableObligationID string          `json:"payable_obligation_id"`
	BankAccountID       string          `json:"bank_account_id"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentDate         string          `json:"payment_date"`
	Description         string          `json:"description"`
	DocumentNumber      *string         `json:"document_number"`
}

type ApplyReceipt struct {
	BankAccountID  string          `json:"bank_account_id"`
	CompanyID      *string         `json:"company_id"`
	ClientID       *string         `json:"client_id"`
	Amount         decimal.Decimal `json:"amount"`
	ReceiptDate    string          `json:"receipt_date"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	DocumentNumber *string         `json:"document_number"`
}

type Analyze struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
}

// QuickEntry creates an obligation from a free-text description. The due
// date defaults to today.
type QuickEntry struct {
	CompanyID     string          `json:"company_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	Category      *string         `json:"category"`
	SupplierName  *string         `json:"supplier_name"`
	SupplierTaxID string          `json:"supplier_tax_id"`
}
