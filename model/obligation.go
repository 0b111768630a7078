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
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/jerry-enebeli/caixa/internal/normalize"
)

type ObligationStatus string

const (
	StatusPending       ObligationStatus = "pending"
	StatusPartiallyPaid ObligationStatus = "partially_paid"
	StatusFullyPaid     ObligationStatus = "fully_paid"
	StatusOverdue       ObligationStatus = "overdue"
)

// PayableObligation is an amount owed to a supplier with a due date.
type PayableObligation struct {
	ID             string           `json:"id"`
	CompanyID      string           `json:"company_id"`
	SupplierID     string           `json:"supplier_id"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	DueDate        time.Time        `json:"due_date"`
	Category       string           `json:"category"`
	Status         ObligationStatus `json:"status"`
	AmountPaid     decimal.Decimal  `json:"amount_paid"`
	Notes          *string          `json:"notes,omitempty"`
	DocumentNumber *string          `json:"document_number,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// DedupKey identifies an obligation by supplier, normalized description,
// amount at two decimals and due day.
func (o PayableObligation) DedupKey() string {
	return strings.Join([]string{
		o.SupplierID,
		normalize.Normalize(o.Description),
		o.Amount.StringFixed(2),
		DateKey(o.DueDate),
	}, "|")
}

// Remaining is the amount still owed. It is never negative.
func (o PayableObligation) Remaining() decimal.Decimal {
	r := RoundMoney(o.Amount.Sub(o.AmountPaid))
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

func (o *PayableObligation) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.SupplierID, validation.Required),
		validation.Field(&o.Description, validation.Required),
		validation.Field(&o.Amount, validation.By(positiveAmount)),
		validation.Field(&o.AmountPaid, validation.By(nonNegativeAmount)),
		validation.Field(&o.DueDate, validation.Required),
	)
}

// ObligationFilter narrows obligation listings. Zero values match everything.
type ObligationFilter struct {
	SupplierID string
	CompanyID  string
	Status     ObligationStatus
}

// Matches reports whether o passes the filter.
func (f ObligationFilter) Matches(o PayableObligation) bool {
	if f.SupplierID != "" && o.SupplierID != f.SupplierID {
		return false
	}
	if f.CompanyID != "" && o.CompanyID != f.CompanyID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}
