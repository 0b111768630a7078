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
	"fmt"
	"strings"
	"time"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/notification"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
)

// ObligationStatus derives the status of an obligation. The first rule that
// holds wins: fully paid, partially paid, overdue, pending.
func ObligationStatus(amountPaid, amount decimal.Decimal, dueDate, now time.Time) model.ObligationStatus {
	paid := model.RoundMoney(amountPaid)
	switch {
	case paid.GreaterThanOrEqual(model.RoundMoney(amount)):
		return model.StatusFullyPaid
	case paid.IsPositive():
		return model.StatusPartiallyPaid
	case model.Day(dueDate).Before(model.Day(now)):
		return model.StatusOverdue
	default:
		return model.StatusPending
	}
}

// RecomputeObligation re-derives AmountPaid and Status from the stored
// payments. A missing obligation is logged and ignored.
func (c *Caixa) RecomputeObligation(ctx context.Context, id string) (*model.PayableObligation, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.recomputeObligation(ctx, id)
}

func (c *Caixa) recomputeObligation(ctx context.Context, id string) (*model.PayableObligation, error) {
	obligation, err := c.datasource.GetObligationByID(ctx, id)
	if apierror.IsNotFound(err) {
		logrus.WithField("obligation_id", id).Warn("recompute skipped: obligation not found")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	payments, err := c.datasource.GetPaymentsByObligation(ctx, id)
	if err != nil {
		return nil, err
	}
	amounts := make([]decimal.Decimal, 0, len(payments))
	for _, p := range payments {
		amounts = append(amounts, p.Amount)
	}
	paid := model.SumMoney(amounts...)
	status := ObligationStatus(paid, obligation.Amount, obligation.DueDate, c.Today())

	if paid.Equal(obligation.AmountPaid) && status == obligation.Status {
		return obligation, nil
	}
	obligation.AmountPaid = paid
	obligation.Status = status
	obligation.UpdatedAt = c.Today()
	if err := c.datasource.UpdateObligation(ctx, obligation); err != nil {
		return nil, err
	}
	return obligation, nil
}

// RemainingBalance is the amount still owed on an obligation.
func (c *Caixa) RemainingBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	obligation, err := c.datasource.GetObligationByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return obligation.Remaining(), nil
}

// ApplyPayment records a payment, books its debit ledger entry and settles
// the obligation.
func (c *Caixa) ApplyPayment(ctx context.Context, payment model.Payment) (*model.Payment, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.applyPayment(ctx, payment)
}

func (c *Caixa) applyPayment(ctx context.Context, payment model.Payment) (*model.Payment, error) {
	payment.PaymentDate = model.Day(payment.PaymentDate)
	payment.Description = strings.TrimSpace(payment.Description)
	if err := payment.Validate(); err != nil {
		return nil, apierror.Invalid("invalid payment", err)
	}

	obligation, err := c.datasource.GetObligationByID(ctx, payment.PayableObligationID)
	if err != nil && !apierror.IsNotFound(err) {
		return nil, err
	}
	if obligation == nil && c.enforcePaymentCap {
		return nil, err
	}
	if obligation != nil && c.enforcePaymentCap && payment.Amount.GreaterThan(obligation.Remaining()) {
		return nil, apierror.Invalid("payment exceeds the remaining balance", map[string]interface{}{
			"amount":    payment.Amount.StringFixed(2),
			"remaining": obligation.Remaining().StringFixed(2),
		})
	}
	if payment.Description == "" {
		payment.Description = "Pagamento"
		if obligation != nil {
			payment.Description = "Pagamento: " + obligation.Description
		}
	}

	payment.ID = model.GenerateID(model.PrefixPayment)
	payment.CreatedAt = c.Today()
	recorded, err := c.datasource.RecordPayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	entry := model.SystemEntry{
		Date:           recorded.PaymentDate,
		Description:    recorded.Description,
		Amount:         recorded.Amount,
		Direction:      model.DirectionDebit,
		Origin:         model.EntryFromPayment,
		SourceID:       ptr.String(recorded.ID),
		DocumentNumber: recorded.DocumentNumber,
	}
	if obligation != nil {
		entry.Category = obligation.Category
		entry.SupplierID = ptr.String(obligation.SupplierID)
		if obligation.CompanyID != "" {
			entry.CompanyID = ptr.String(obligation.CompanyID)
		}
	}
	if _, err := c.recordEntry(ctx, entry); err != nil {
		if rbErr := c.datasource.DeletePayment(ctx, recorded.ID); rbErr != nil {
			logrus.WithError(rbErr).WithField("payment_id", recorded.ID).Error("failed to roll back payment")
		}
		c.notify(notification.Event{
			Kind:    notification.KindSettlementFailed,
			Message: fmt.Sprintf("payment %s could not be booked", recorded.ID),
			Err:     err,
		})
		return nil, err
	}

	updated, err := c.recomputeObligation(ctx, recorded.PayableObligationID)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"payment_id":    recorded.ID,
		"obligation_id": recorded.PayableObligationID,
		"amount":        recorded.Amount.StringFixed(2),
	}
	if updated != nil {
		fields["status"] = string(updated.Status)
	}
	c.notify(notification.Event{
		Kind:    notification.KindPaymentApplied,
		Message: fmt.Sprintf("payment of R$ %s applied", recorded.Amount.StringFixed(2)),
		Fields:  fields,
	})
	return &recorded, nil
}

func (c *Caixa) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	return c.datasource.GetPaymentByID(ctx, id)
}

// ListPayments returns the payments of one obligation, or all payments when
// obligationID is empty.
func (c *Caixa) ListPayments(ctx context.Context, obligationID string) ([]model.Payment, error) {
	if obligationID == "" {
		return c.datasource.GetAllPayments(ctx)
	}
	return c.datasource.GetPaymentsByObligation(ctx, obligationID)
}

// DeletePayment reverses ApplyPayment: the payment, its ledger entry and any
// reconciliation of that entry are removed and the obligation is settled
// again.
func (c *Caixa) DeletePayment(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	payment, err := c.datasource.GetPaymentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.datasource.DeletePayment(ctx, id); err != nil {
		return err
	}
	if err := c.deleteDerivedEntry(ctx, model.EntryFromPayment, id); err != nil {
		return err
	}
	_, err = c.recomputeObligation(ctx, payment.PayableObligationID)
	return err
}

func (c *Caixa) deleteDerivedEntry(ctx context.Context, origin model.EntryOrigin, sourceID string) error {
	entry, err := c.datasource.GetSystemEntryBySource(ctx, origin, sourceID)
	if err != nil || entry == nil {
		return err
	}
	return c.deleteEntry(ctx, entry.ID)
}

// ApplyReceipt records money received and books its credit ledger entry.
func (c *Caixa) ApplyReceipt(ctx context.Context, receipt model.Receipt) (*model.Receipt, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	receipt.ReceiptDate = model.Day(receipt.ReceiptDate)
	receipt.Description = strings.TrimSpace(receipt.Description)
	if err := receipt.Validate(); err != nil {
		return nil, apierror.Invalid("invalid receipt", err)
	}

	receipt.ID = model.GenerateID(model.PrefixReceipt)
	receipt.CreatedAt = c.Today()
	recorded, err := c.datasource.RecordReceipt(ctx, receipt)
	if err != nil {
		return nil, err
	}

	entry := model.SystemEntry{
		Date:           recorded.ReceiptDate,
		Description:    recorded.Description,
		Amount:         recorded.Amount,
		Direction:      model.DirectionCredit,
		Category:       recorded.Category,
		Origin:         model.EntryFromReceipt,
		SourceID:       ptr.String(recorded.ID),
		DocumentNumber: recorded.DocumentNumber,
		CompanyID:      recorded.CompanyID,
		ClientID:       recorded.ClientID,
	}
	if _, err := c.recordEntry(ctx, entry); err != nil {
		if rbErr := c.datasource.DeleteReceipt(ctx, recorded.ID); rbErr != nil {
			logrus.WithError(rbErr).WithField("receipt_id", recorded.ID).Error("failed to roll back receipt")
		}
		c.notify(notification.Event{
			Kind:    notification.KindSettlementFailed,
			Message: fmt.Sprintf("receipt %s could not be booked", recorded.ID),
			Err:     err,
		})
		return nil, err
	}

	c.notify(notification.Event{
		Kind:    notification.KindReceiptApplied,
		Message: fmt.Sprintf("receipt of R$ %s recorded", recorded.Amount.StringFixed(2)),
		Fields:  map[string]interface{}{"receipt_id": recorded.ID},
	})
	return &recorded, nil
}

func (c *Caixa) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	return c.datasource.GetReceiptByID(ctx, id)
}

func (c *Caixa) ListReceipts(ctx context.Context) ([]model.Receipt, error) {
	return c.datasource.GetAllReceipts(ctx)
}

func (c *Caixa) DeleteReceipt(ctx context.Context, id string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.datasource.GetReceiptByID(ctx, id); err != nil {
		return err
	}
	if err := c.datasource.DeleteReceipt(ctx, id); err != nil {
		return err
	}
	return c.deleteDerivedEntry(ctx, model.EntryFromReceipt, id)
}

// RefreshObligationStatuses re-settles every obligation. Overdue depends on
// the current day, so this is meant to run daily. It returns how many
// obligations changed.
func (c *Caixa) RefreshObligationStatuses(ctx context.Context) (int, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	obligations, err := c.datasource.GetAllObligations(ctx, model.ObligationFilter{})
	if err != nil {
		return 0, err
	}
	payments, err := c.datasource.GetAllPayments(ctx)
	if err != nil {
		return 0, err
	}

	paidBy := make(map[string][]decimal.Decimal)
	for _, p := range payments {
		paidBy[p.PayableObligationID] = append(paidBy[p.PayableObligationID], p.Amount)
	}

	now := c.Today()
	changed := 0
	for i := range obligations {
		o := &obligations[i]
		paid := model.SumMoney(paidBy[o.ID]...)
		status := ObligationStatus(paid, o.Amount, o.DueDate, now)
		if paid.Equal(o.AmountPaid) && status == o.Status {
			continue
		}
		o.AmountPaid = paid
		o.Status = status
		o.UpdatedAt = now
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	if err := c.datasource.ReplaceObligations(ctx, obligations); err != nil {
		return 0, err
	}

	c.notify(notification.Event{
		Kind:    notification.KindStatusesRefresh,
		Message: fmt.Sprintf("%d obligation statuses updated", changed),
		Fields:  map[string]interface{}{"changed": changed},
	})
	return changed, nil
}
