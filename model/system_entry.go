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

type EntryOrigin string

const (
	EntryFromPayment EntryOrigin = "payment"
	EntryFromReceipt EntryOrigin = "receipt"
	EntryManual      EntryOrigin = "manual"
)

// SystemEntry is the internal ledger line a bank movement is reconciled
// against.
type SystemEntry struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      Direction       `json:"direction"`
	Category       string          `json:"category"`
	Origin         EntryOrigin     `json:"origin"`
	SourceID       *string         `json:"source_id,omitempty"`
	DocumentNumber *string         `json:"document_number,omitempty"`
	CompanyID      *string         `json:"company_id,omitempty"`
	SupplierID     *string         `json:"supplier_id,omitempty"`
	ClientID       *string         `json:"client_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsFrom reports whether the entry was derived from the given source record.
func (e SystemEntry) IsFrom(origin EntryOrigin, sourceID string) bool {
	return e.Origin == origin && e.SourceID != nil && *e.SourceID == sourceID
}

func (e *SystemEntry) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Date, validation.Required),
		validation.Field(&e.Description, validation.Required),
		validation.Field(&e.Amount, validation.By(positiveAmount)),
		validation.Field(&e.Direction, validation.By(validDirection)),
		validation.Field(&e.Origin, validation.Required, validation.In(EntryFromPayment, EntryFromReceipt, EntryManual)),
	)
}
