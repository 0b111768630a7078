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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jerry-enebeli/caixa/model"
)

func TestValidateCreateSupplier(t *testing.T) {
	tests := []struct {
		name     string
		supplier CreateSupplier
		wantErr  bool
	}{
		{name: "Valid", supplier: CreateSupplier{Name: "Energisa", TaxID: "07.047.251/0001-70"}, wantErr: false},
		{name: "Valid individual", supplier: CreateSupplier{Name: "João Silva", Kind: "individual"}, wantErr: false},
		{name: "Empty name", supplier: CreateSupplier{TaxID: "123"}, wantErr: true},
		{name: "Unknown kind", supplier: CreateSupplier{Name: "X", Kind: "partner"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.supplier.ValidateCreateSupplier()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToSupplierDefaultsActive(t *testing.T) {
	s := CreateSupplier{Name: "Energisa"}
	assert.True(t, s.ToSupplier().Active)

	inactive := false
	s.Active = &inactive
	assert.False(t, s.ToSupplier().Active)
}

func TestValidateCreateObligation(t *testing.T) {
	valid := CreateObligation{
		SupplierID:  "sup_1",
		Description: "Conta de luz",
		Amount:      decimal.NewFromInt(150),
		DueDate:     "2024-07-15",
	}

	tests := []struct {
		name    string
		mutate  func(o *CreateObligation)
		wantErr bool
	}{
		{name: "Valid", mutate: func(o *CreateObligation) {}, wantErr: false},
		{name: "Brazilian date", mutate: func(o *CreateObligation) { o.DueDate = "15/07/2024" }, wantErr: false},
		{name: "Bad date", mutate: func(o *CreateObligation) { o.DueDate = "july" }, wantErr: true},
		{name: "Missing supplier", mutate: func(o *CreateObligation) { o.SupplierID = "" }, wantErr: true},
		{name: "Zero amount", mutate: func(o *CreateObligation) { o.Amount = decimal.Zero }, wantErr: true},
		{name: "Negative amount", mutate: func(o *CreateObligation) { o.Amount = decimal.NewFromInt(-1) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			err := o.ValidateCreateObligation()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToObligation(t *testing.T) {
	o := CreateObligation{SupplierID: "sup_1", Description: "Aluguel", Amount: decimal.NewFromInt(2000), DueDate: "15/07/2024"}
	got := o.ToObligation()
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), got.DueDate)
	assert.Equal(t, "Outros", got.Category)
}

func TestToPaymentDefaultsDate(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	p := ApplyPayment{PayableObligationID: "obl_1", BankAccountID: "acc_1", Amount: decimal.NewFromInt(10)}
	assert.NoError(t, p.ValidateApplyPayment())
	assert.Equal(t, today, p.ToPayment(today).PaymentDate)

	p.PaymentDate = "2024-06-01"
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), p.ToPayment(today).PaymentDate)
}

func TestToBankMovementInfersDirection(t *testing.T) {
	m := RecordBankMovement{BankAccountID: "acc_1", Date: "2024-06-01", Description: "PIX ENVIADO", Amount: decimal.NewFromInt(-50)}
	assert.NoError(t, m.ValidateRecordBankMovement())

	got := m.ToBankMovement()
	assert.Equal(t, model.DirectionDebit, got.Direction)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, model.OriginManual, got.Origin)

	m.Direction = "sideways"
	assert.Error(t, m.ValidateRecordBankMovement())
}

func TestMatchingCriteriaDefaults(t *testing.T) {
	assert.Equal(t, model.DefaultMatchingCriteria(), MatchingCriteria{}.ToCriteria())

	drift := 5.0
	got := MatchingCriteria{AmountDrift: &drift}.ToCriteria()
	assert.Equal(t, 5.0, got.AmountDrift)
	assert.Equal(t, model.DefaultMatchingCriteria().DateDriftDays, got.DateDriftDays)
}

func TestValidateReconcile(t *testing.T) {
	assert.Error(t, (&Reconcile{BankMovementID: "mov_1"}).ValidateReconcile())
	assert.NoError(t, (&Reconcile{BankMovementID: "mov_1", SystemEntryID: "ent_1"}).ValidateReconcile())
}
