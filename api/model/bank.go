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

type CreateBankAccount struct {
	Name          string          `json:"name"`
	BankName      string          `json:"bank_name"`
	Branch        string          `json:"branch"`
	AccountNumber string          `json:"account_number"`
	Kind          string          `json:"kind"`
	Balance       decimal.Decimal `json:"balance"`
	Active        *bool           `json:"active"`
}

type RecordBankMovement struct {
	BankAccountID  string          `json:"bank_account_id"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
	Category       *string         `json:"category"`
	DocumentNumber *string         `json:"document_number"`
}

// CreateSystemEntry is a manual ledger line.
type CreateSystemEntry struct {
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
	Category       string          `json:"category"`
	DocumentNumber *string         `json:"document_number"`
	CompanyID      *string         `json:"company_id"`
	SupplierID     *string         `json:"supplier_id"`
	ClientID       *string         `json:"client_id"`
}
