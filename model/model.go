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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// ID prefixes per entity.
const (
	PrefixSupplier       = "sup"
	PrefixCompany        = "cmp"
	PrefixObligation     = "obl"
	PrefixPayment        = "pay"
	PrefixReceipt        = "rcp"
	PrefixBankMovement   = "mov"
	PrefixSystemEntry    = "ent"
	PrefixReconciliation = "rec"
	PrefixBankAccount    = "acc"
)

// GenerateID returns "<prefix>_<ulid>". ulid.Make combines a millisecond
// timestamp with a monotonic counter and random bits, and is safe to call
// from several goroutines.
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, ulid.Make().String())
}

// GenerateUUIDWithSuffix generates a UUID prefixed with the given module name.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SumMoney adds amounts exactly and rounds the total once.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	return RoundMoney(decimal.Sum(decimal.Zero, amounts...))
}

// Day truncates t to midnight of its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Direction is the side of a money movement.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether d is credit or debit.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

func positiveAmount(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal amount")
	}
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func nonNegativeAmount(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal amount")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validDirection(value interface{}) error {
	d, ok := value.(Direction)
	if !ok || !d.Valid() {
		return errors.New("must be credit or debit")
	}
	return nil
}
