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
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/jerry-enebeli/caixa"
	"github.com/jerry-enebeli/caixa/internal/rowparse"
	"github.com/jerry-enebeli/caixa/model"
)

var errDateFormat = errors.New("please format dates as 'YYYY-MM-DD' or 'DD/MM/YYYY' (e.g., 2024-07-15)")

func validateDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := rowparse.ParseDate(s); err != nil {
		return errDateFormat
	}
	return nil
}

// parseDate is only called on values that passed validateDate.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := rowparse.ParseDate(s)
	return t
}

func positive(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func direction(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !model.Direction(strings.ToLower(s)).Valid() {
		return errors.New("must be credit or debit")
	}
	return nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func (s *CreateSupplier) ValidateCreateSupplier() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Kind, validation.In(string(model.SupplierIndividual), string(model.SupplierCompany))),
	)
}

func (s *CreateSupplier) ToSupplier() model.Supplier {
	return model.Supplier{
		Name:    s.Name,
		TaxID:   s.TaxID,
		Kind:    model.SupplierKind(s.Kind),
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
		Active:  boolOr(s.Active, true),
	}
}

func (c *CreateCompany) ValidateCreateCompany() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
	)
}

func (c *CreateCompany) ToCompany() model.Company {
	return model.Company{Name: c.Name, TaxID: c.TaxID, Active: boolOr(c.Active, true)}
}

func (a *CreateBankAccount) ValidateCreateBankAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.BankName, validation.Required),
	)
}

func (a *CreateBankAccount) ToBankAccount() model.BankAccount {
	return model.BankAccount{
		Name:          a.Name,
		BankName:      a.BankName,
		Branch:        a.Branch,
		AccountNumber: a.AccountNumber,
		Kind:          a.Kind,
		Balance:       a.Balance,
		Active:        boolOr(a.Active, true),
	}
}

func (m *RecordBankMovement) ValidateRecordBankMovement() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.BankAccountID, validation.Required),
		validation.Field(&m.Date, validation.Required, validation.By(validateDate)),
		validation.Field(&m.Description, validation.Required),
		validation.Field(&m.Amount, validation.By(func(value interface{}) error {
			if value.(decimal.Decimal).IsZero() {
				return errors.New("must not be zero")
			}
			return nil
		})),
		validation.Field(&m.Direction, validation.By(direction)),
	)
}

// ToBankMovement infers the direction from the amount sign when it is not
// given; the stored amount is always positive.
func (m *RecordBankMovement) ToBankMovement() model.BankMovement {
	dir := model.Direction(strings.ToLower(m.Direction))
	if dir == "" {
		dir = model.DirectionCredit
		if m.Amount.IsNegative() {
			dir = model.DirectionDebit
		}
	}
	return model.BankMovement{
		BankAccountID:  m.BankAccountID,
		Date:           parseDate(m.Date),
		Description:    m.Description,
		Amount:         m.Amount.Abs(),
		Direction:      dir,
		Category:       m.Category,
		DocumentNumber: m.DocumentNumber,
		Origin:         model.OriginManual,
	}
}

func (e *CreateSystemEntry) ValidateCreateSystemEntry() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Date, validation.Required, validation.By(validateDate)),
		validation.Field(&e.Description, validation.Required),
		validation.Field(&e.Amount, validation.By(positive)),
		validation.Field(&e.Direction, validation.Required, validation.By(direction)),
	)
}

func (e *CreateSystemEntry) ToSystemEntry() model.SystemEntry {
	category := e.Category
	if category == "" {
		category = caixa.DefaultCategory
	}
	return model.SystemEntry{
		Date:           parseDate(e.Date),
		Description:    e.Description,
		Amount:         e.Amount,
		Direction:      model.Direction(strings.ToLower(e.Direction)),
		Category:       category,
		DocumentNumber: e.DocumentNumber,
		CompanyID:      e.CompanyID,
		SupplierID:     e.SupplierID,
		ClientID:       e.ClientID,
	}
}

func (o *CreateObligation) ValidateCreateObligation() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.SupplierID, validation.Required),
		validation.Field(&o.Description, validation.Required),
		validation.Field(&o.Amount, validation.By(positive)),
		validation.Field(&o.DueDate, validation.Required, validation.By(validateDate)),
	)
}

func (o *CreateObligation) ToObligation() model.PayableObligation {
	category := o.Category
	if category == "" {
		category = caixa.DefaultCategory
	}
	return model.PayableObligation{
		CompanyID:      o.CompanyID,
		SupplierID:     o.SupplierID,
		Description:    o.Description,
		Amount:         o.Amount,
		DueDate:        parseDate(o.DueDate),
		Category:       category,
		Notes:          o.Notes,
		DocumentNumber: o.DocumentNumber,
	}
}

func (p *ApplyPayment) ValidateApplyPayment() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.PayableObligationID, validation.Required),
		validation.Field(&p.BankAccountID, validation.Required),
		validation.Field(&p.Amount, validation.By(positive)),
		validation.Field(&p.PaymentDate, validation.By(validateDate)),
	)
}

// ToPayment dates the payment today when no payment date is given.
func (p *ApplyPayment) ToPayment(today time.Time) model.Payment {
	date := parseDate(p.PaymentDate)
	if date.IsZero() {
		date = today
	}
	return model.Payment{
		PayableObligationID: p.PayableObligationID,
		BankAccountID:       p.BankAccountID,
		Amount:              p.Amount,
		PaymentDate:         date,
		Description:         p.Description,
		DocumentNumber:      p.DocumentNumber,
	}
}

func (r *ApplyReceipt) ValidateApplyReceipt() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BankAccountID, validation.Required),
		validation.Field(&r.Amount, validation.By(positive)),
		validation.Field(&r.ReceiptDate, validation.By(validateDate)),
		validation.Field(&r.Description, validation.Required),
	)
}

func (r *ApplyReceipt) ToReceipt(today time.Time) model.Receipt {
	date := parseDate(r.ReceiptDate)
	if date.IsZero() {
		date = today
	}
	return model.Receipt{
		BankAccountID:  r.BankAccountID,
		CompanyID:      r.CompanyID,
		ClientID:       r.ClientID,
		Amount:         r.Amount,
		ReceiptDate:    date,
		Description:    r.Description,
		Category:       r.Category,
		DocumentNumber: r.DocumentNumber,
	}
}

func (a *Analyze) ValidateAnalyze() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Description, validation.Required),
		validation.Field(&a.Direction, validation.By(direction)),
	)
}

func (a *Analyze) DirectionValue() model.Direction {
	return model.Direction(strings.ToLower(a.Direction))
}

func (q *QuickEntry) ValidateQuickEntry() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Description, validation.Required),
		validation.Field(&q.Amount, validation.By(func(value interface{}) error {
			if value.(decimal.Decimal).IsZero() {
				return errors.New("must not be zero")
			}
			return nil
		})),
		validation.Field(&q.DueDate, validation.By(validateDate)),
	)
}

func (q *QuickEntry) ToQuickEntryInput() caixa.QuickEntryInput {
	return caixa.QuickEntryInput{
		CompanyID:    q.CompanyID,
		Description:  q.Description,
		Amount:       q.Amount,
		DueDate:      parseDate(q.DueDate),
		Category:     q.Category,
		SupplierName: q.SupplierName,
		SupplierTax:  q.SupplierTaxID,
	}
}

func (r *Reconcile) ValidateReconcile() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BankMovementID, validation.Required),
		validation.Field(&r.SystemEntryID, validation.Required),
	)
}

// ToCriteria fills unset fields from model.DefaultMatchingCriteria. Range
// checks happen in the service.
func (m MatchingCriteria) ToCriteria() model.MatchingCriteria {
	criteria := model.DefaultMatchingCriteria()
	if m.AmountDrift != nil {
		criteria.AmountDrift = *m.AmountDrift
	}
	if m.DateDriftDays != nil {
		criteria.DateDriftDays = *m.DateDriftDays
	}
	if m.MinDescriptionSimilarity != nil {
		criteria.MinDescriptionSimilarity = *m.MinDescriptionSimilarity
	}
	return criteria
}

func (s *SuggestMatches) ValidateSuggestMatches() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.BankMovementID, validation.Required),
	)
}

func (a *AutoReconcile) ValidateAutoReconcile() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.BankAccountID, validation.Required),
	)
}
