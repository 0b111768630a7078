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

package caixa

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jerry-enebeli/caixa/database/mocks"
	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/notification"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"
)

func TestObligationStatus(t *testing.T) {
	now := testNow
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name   string
		paid   string
		amount string
		due    time.Time
		want   model.ObligationStatus
	}{
		{"fully paid", "1000", "1000", yesterday, model.StatusFullyPaid},
		{"over paid", "1200", "1000", tomorrow, model.StatusFullyPaid},
		{"rounds before comparing", "99.995", "100", tomorrow, model.StatusFullyPaid},
		{"partially paid beats overdue", "400", "1000", yesterday, model.StatusPartiallyPaid},
		{"overdue", "0", "100", yesterday, model.StatusOverdue},
		{"pending", "0", "100", tomorrow, model.StatusPending},
		{"due today is pending", "0", "100", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), model.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObligationStatus(money(tt.paid), money(tt.amount), tt.due, now))
		})
	}
}

func TestSettlementMonotonicity(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)
	supplier := seedSupplier(t, c, "Energisa", "12.345.678/0001-90")
	obligation := seedObligation(t, c, supplier.ID, "1000", testNow.AddDate(0, 0, 10))
	assert.Equal(t, model.StatusPending, obligation.Status)

	pay := func(amount string) {
		_, err := c.ApplyPayment(ctx, model.Payment{
			PayableObligationID: obligation.ID,
			BankAccountID:       account.ID,
			Amount:              money(amount),
			PaymentDate:         testNow,
		})
		require.NoError(t, err)
	}

	pay("400")
	got, err := c.GetObligation(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPartiallyPaid, got.Status)
	assert.Equal(t, "400.00", got.AmountPaid.StringFixed(2))

	remaining, err := c.RemainingBalance(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Equal(t, "600.00", remaining.StringFixed(2))

	pay("600")
	got, err = c.GetObligation(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFullyPaid, got.Status)
	assert.Equal(t, "1000.00", got.AmountPaid.StringFixed(2))
}

func TestSettlementRoundsOnce(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)
	supplier := seedSupplier(t, c, "Contabilidade Silva", "")
	obligation := seedObligation(t, c, supplier.ID, "100.00", testNow)

	for _, amount := range []string{"33.33", "33.33", "33.34"} {
		_, err := c.ApplyPayment(ctx, model.Payment{
			PayableObligationID: obligation.ID,
			BankAccountID:       account.ID,
			Amount:              money(amount),
			PaymentDate:         testNow,
		})
		require.NoError(t, err)
	}

	got, err := c.GetObligation(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.AmountPaid.String())
	assert.Equal(t, model.StatusFullyPaid, got.Status)
}

func TestSubCentPaymentsRoundAfterSumming(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)
	supplier := seedSupplier(t, c, "Papelaria Central", "")
	obligation := seedObligation(t, c, supplier.ID, "1.00", testNow)

	for i := 0; i < 3; i++ {
		payment, err := c.ApplyPayment(ctx, model.Payment{
			PayableObligationID: obligation.ID,
			BankAccountID:       account.ID,
			Amount:              money("0.005"),
			PaymentDate:         testNow,
		})
		require.NoError(t, err)
		assert.Equal(t, "0.005", payment.Amount.String())
	}

	got, err := c.GetObligation(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.02", got.AmountPaid.String())
	assert.Equal(t, model.StatusPartiallyPaid, got.Status)
}

func TestOverdueClassification(t *testing.T) {
	c, _, _ := newTestCaixa(t)
	supplier := seedSupplier(t, c, "Imobiliária Centro", "")

	past := seedObligation(t, c, supplier.ID, "100", testNow.AddDate(0, 0, -5))
	future := seedObligation(t, c, supplier.ID, "100", testNow.AddDate(0, 0, 5))
	assert.Equal(t, model.StatusOverdue, past.Status)
	assert.Equal(t, model.StatusPending, future.Status)
}

func TestApplyPaymentBooksDebitEntry(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)
	supplier := seedSupplier(t, c, "Energisa", "")
	company, err := c.CreateCompany(ctx, model.Company{Name: "Padaria Central"})
	require.NoError(t, err)
	obligation, err := c.CreateObligation(ctx, model.PayableObligation{
		CompanyID:   company.ID,
		SupplierID:  supplier.ID,
		Description: "Conta de luz",
		Amount:      money("250.40"),
		DueDate:     testNow,
		Category:    "Energia",
	})
	require.NoError(t, err)

	payment, err := c.ApplyPayment(ctx, model.Payment{
		PayableObligationID: obligation.ID,
		BankAccountID:       account.ID,
		Amount:              money("250.40"),
		PaymentDate:         testNow,
		DocumentNumber:      ptr.String("NF 1234"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pagamento: Conta de luz", payment.Description)

	entries, err := c.ListSystemEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, model.DirectionDebit, entry.Direction)
	assert.Equal(t, model.EntryFromPayment, entry.Origin)
	assert.True(t, entry.IsFrom(model.EntryFromPayment, payment.ID))
	assert.Equal(t, "Energia", entry.Category)
	assert.Equal(t, supplier.ID, *entry.SupplierID)
	assert.Equal(t, company.ID, *entry.CompanyID)
	assert.Equal(t, "NF 1234", *entry.DocumentNumber)

	payments, err := c.ListPayments(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestApplyPaymentValidation(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)

	tests := []struct {
		name    string
		payment model.Payment
	}{
		{"zero amount", model.Payment{PayableObligationID: "obl_1", BankAccountID: "acc_1", Amount: money("0"), PaymentDate: testNow}},
		{"negative amount", model.Payment{PayableObligationID: "obl_1", BankAccountID: "acc_1", Amount: money("-5"), PaymentDate: testNow}},
		{"missing obligation", model.Payment{BankAccountID: "acc_1", Amount: money("5"), PaymentDate: testNow}},
		{"missing account", model.Payment{PayableObligationID: "obl_1", Amount: money("5"), PaymentDate: testNow}},
		{"missing date", model.Payment{PayableObligationID: "obl_1", BankAccountID: "acc_1", Amount: money("5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ApplyPayment(ctx, tt.payment)
			assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
		})
	}

	payments, err := c.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPaymentToUnknownObligation(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)

	payment, err := c.ApplyPayment(ctx, model.Payment{
		PayableObligationID: "obl_later",
		BankAccountID:       "acc_1",
		Amount:              money("10"),
		PaymentDate:         testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pagamento", payment.Description)

	entries, err := c.ListSystemEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].SupplierID)
}

func TestPaymentCap(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed by default", func(t *testing.T) {
		c, _, _ := newTestCaixa(t)
		supplier := seedSupplier(t, c, "Fornecedor A", "")
		obligation := seedObligation(t, c, supplier.ID, "1000", testNow)
		_, err := c.ApplyPayment(ctx, model.Payment{PayableObligationID: obligation.ID, BankAccountID: "acc_1", Amount: money("1200"), PaymentDate: testNow})
		require.NoError(t, err)
		got, err := c.GetObligation(ctx, obligation.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusFullyPaid, got.Status)
		assert.True(t, got.Remaining().IsZero())
	})

	t.Run("rejected when enforced", func(t *testing.T) {
		c, _, _ := newTestCaixa(t, WithPaymentCap(true))
		supplier := seedSupplier(t, c, "Fornecedor A", "")
		obligation := seedObligation(t, c, supplier.ID, "1000", testNow)
		_, err := c.ApplyPayment(ctx, model.Payment{PayableObligationID: obligation.ID, BankAccountID: "acc_1", Amount: money("1000.01"), PaymentDate: testNow})
		assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

		_, err = c.ApplyPayment(ctx, model.Payment{PayableObligationID: "obl_missing", BankAccountID: "acc_1", Amount: money("1"), PaymentDate: testNow})
		assert.True(t, apierror.IsNotFound(err))

		_, err = c.ApplyPayment(ctx, model.Payment{PayableObligationID: obligation.ID, BankAccountID: "acc_1", Amount: money("1000"), PaymentDate: testNow})
		assert.NoError(t, err)
	})
}

func TestDeletePaymentReversesSettlement(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)
	supplier := seedSupplier(t, c, "Energisa", "")
	obligation := seedObligation(t, c, supplier.ID, "150", testNow.AddDate(0, 0, 1))

	payment, err := c.ApplyPayment(ctx, model.Payment{PayableObligationID: obligation.ID, BankAccountID: account.ID, Amount: money("150"), PaymentDate: testNow})
	require.NoError(t, err)
	movement, err := c.RecordBankMovement(ctx, model.BankMovement{
		BankAccountID: account.ID,
		Date:          testNow,
		Description:   "PAGTO ENERGISA",
		Amount:        money("-150"),
		Direction:     model.DirectionDebit,
	})
	require.NoError(t, err)
	entries, err := c.ListSystemEntries(ctx)
	require.NoError(t, err)
	_, err = c.Reconcile(ctx, movement.ID, entries[0].ID, nil)
	require.NoError(t, err)

	require.NoError(t, c.DeletePayment(ctx, payment.ID))

	got, err := c.GetObligation(ctx, obligation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.True(t, got.AmountPaid.IsZero())

	entries, err = c.ListSystemEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	recs, err := c.ListReconciliations(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = c.GetBankMovement(ctx, movement.ID)
	assert.NoError(t, err, "the bank movement stays")
	assert.True(t, apierror.IsNotFound(c.DeletePayment(ctx, payment.ID)))
}

func TestApplyReceiptBooksCreditEntry(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)

	receipt, err := c.ApplyReceipt(ctx, model.Receipt{
		BankAccountID: account.ID,
		Amount:        money("89.905"),
		ReceiptDate:   testNow,
		Description:   "Venda balcão",
		Category:      "Vendas",
		ClientID:      ptr.String("cli_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "89.91", receipt.Amount.StringFixed(2))

	entry, err := c.datasource.GetSystemEntryBySource(ctx, model.EntryFromReceipt, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, model.DirectionCredit, entry.Direction)
	assert.Equal(t, "Vendas", entry.Category)
	assert.Equal(t, "cli_1", *entry.ClientID)

	_, err = c.ApplyReceipt(ctx, model.Receipt{BankAccountID: account.ID, Amount: money("10"), ReceiptDate: testNow})
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err), "description is required")

	require.NoError(t, c.DeleteReceipt(ctx, receipt.ID))
	entries, err := c.ListSystemEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	receipts, err := c.ListReceipts(ctx)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestRecomputeMissingObligationIsNoop(t *testing.T) {
	c, _, _ := newTestCaixa(t)
	got, err := c.RecomputeObligation(context.Background(), "obl_missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRefreshObligationStatuses(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	c, _, clock := newTestCaixa(t, WithNotifier(notifier))
	supplier := seedSupplier(t, c, "Sabesp", "")
	dueSoon := seedObligation(t, c, supplier.ID, "80", testNow.AddDate(0, 0, 1))
	seedObligation(t, c, supplier.ID, "80", testNow.AddDate(0, 0, 30))

	changed, err := c.RefreshObligationStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	clock.Advance(72 * time.Hour)
	changed, err = c.RefreshObligationStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := c.GetObligation(ctx, dueSoon.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, got.Status)

	changed, err = c.RefreshObligationStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	assert.Eventually(t, func() bool {
		for _, k := range notifier.kinds() {
			if k == notification.KindStatusesRefresh {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestApplyPaymentRollsBackWhenEntryFails(t *testing.T) {
	ctx := context.Background()
	mockDS := new(mocks.MockDataSource)
	notifier := &recordingNotifier{}
	c := NewCaixa(mockDS, WithClock(func() time.Time { return testNow }), WithNotifier(notifier))

	obligation := &model.PayableObligation{ID: "obl_1", SupplierID: "sup_1", Description: "Aluguel", Amount: money("500"), DueDate: testNow}
	mockDS.On("GetObligationByID", mock.Anything, "obl_1").Return(obligation, nil)
	mockDS.On("RecordPayment", mock.Anything, mock.AnythingOfType("model.Payment")).
		Return(model.Payment{ID: "pay_1", PayableObligationID: "obl_1", BankAccountID: "acc_1", Amount: money("500"), PaymentDate: testNow, Description: "Pagamento: Aluguel"}, nil)
	mockDS.On("RecordSystemEntry", mock.Anything, mock.AnythingOfType("model.SystemEntry")).
		Return(model.SystemEntry{}, apierror.Storage("save system_entries", errors.New("connection reset")))
	mockDS.On("DeletePayment", mock.Anything, "pay_1").Return(nil)

	_, err := c.ApplyPayment(ctx, model.Payment{PayableObligationID: "obl_1", BankAccountID: "acc_1", Amount: money("500"), PaymentDate: testNow})
	assert.Equal(t, apierror.ErrStorage, apierror.CodeOf(err))
	mockDS.AssertExpectations(t)
	mockDS.AssertNotCalled(t, "UpdateObligation", mock.Anything, mock.Anything)

	assert.Eventually(t, func() bool {
		kinds := notifier.kinds()
		return len(kinds) == 1 && kinds[0] == notification.KindSettlementFailed
	}, time.Second, 10*time.Millisecond)
}
