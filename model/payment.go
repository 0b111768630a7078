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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Payment settles part or all of a PayableObligation.
type Payment struct {
	ID                  string          `json:"id"`
	PayableObligationID string          `json:"payable_obligation_id"`
	BankAccountID       string          `json:"bank_account_id"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentDate         time.Time       `json:"payment_date"`
	Description         string          `json:"description"`
	DocumentNumber      *string         `json:"document_number,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func (p *Payment) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.PayableObligationID, validation.Required),
		validation.Field(&p.BankAccountID, validation.Required),
		validation.Field(&p.Amount, validation.By(positiveAmount)),
		validation.Field(&p.PaymentDate, validation.Required),
	)
}

// Receipt is money received into a bank account. It is not tied to an
// obligation.
type Receipt struct {
	ID             string          `json:"id"`
	BankAccountID  string          `json:"bank_account_id"`
	CompanyID      *string         `json:"company_id,omitempty"`
	ClientID       *string         `json:"client_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	ReceiptDate    time.Time       `json:"receipt_date"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	DocumentNumber *string         `json:"document_number,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (r *Receipt) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BankAccountID, validation.Required),
		validation.Field(&r.Amount, validation.By(positiveAmount)),
		validation.Field(&r.ReceiptDate, validation.Required),
		validation.Field(&r.Description, validation.Required),
	)
}
