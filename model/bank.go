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
)

type BankAccount struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BankName      string          `json:"bank_name"`
	Branch        string          `json:"branch"`
	AccountNumber string          `json:"account_number"`
	Kind          string          `json:"kind"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (a *BankAccount) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.BankName, validation.Required),
	)
}

type MovementOrigin string

const (
	OriginStatement MovementOrigin = "statement"
	OriginManual    MovementOrigin = "manual"
)

// BankMovement mirrors one line of a bank statement.
type BankMovement struct {
	ID             string          `json:"id"`
	BankAccountID  string          `json:"bank_account_id"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      Direction       `json:"direction"`
	Category       *string         `json:"category,omitempty"`
	DocumentNumber *string         `json:"document_number,omitempty"`
	Origin         MovementOrigin  `json:"origin"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DedupKey is the exact (account, day, amount, description) tuple. The
// description is compared verbatim so similar memo lines stay distinct.
func (m BankMovement) DedupKey() string {
	return strings.Join([]string{
		m.BankAccountID,
		DateKey(m.Date),
		m.Amount.String(),
		m.Description,
	}, "|")
}

func (m *BankMovement) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.BankAccountID, validation.Required),
		validation.Field(&m.Date, validation.Required),
		validation.Field(&m.Description, validation.Required),
		validation.Field(&m.Direction, validation.By(validDirection)),
		validation.Field(&m.Origin, validation.Required, validation.In(OriginStatement, OriginManual)),
	)
}
