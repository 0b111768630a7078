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

package database

import (
	"context"

	"github.com/jerry-enebeli/caixa/model"
)

var (
	obligations = store[model.PayableObligation]{collection: CollectionObligations, entity: "obligation", id: func(o *model.PayableObligation) string { return o.ID }}
	payments    = store[model.Payment]{collection: CollectionPayments, entity: "payment", id: func(p *model.Payment) string { return p.ID }}
	receipts    = store[model.Receipt]{collection: CollectionReceipts, entity: "receipt", id: func(r *model.Receipt) string { return r.ID }}
)

func (d *Datasource) CreateObligation(ctx context.Context, obligation model.PayableObligation) (model.PayableObligation, error) {
	return obligation, obligations.insert(ctx, d, obligation)
}

func (d *Datasource) GetObligationByID(ctx context.Context, id string) (*model.PayableObligation, error) {
	return obligations.get(ctx, d, id)
}

func (d *Datasource) GetAllObligations(ctx context.Context, filter model.ObligationFilter) ([]model.PayableObligation, error) {
	return obligations.filter(ctx, d, func(o *model.PayableObligation) bool { return filter.Matches(*o) })
}

func (d *Datasource) UpdateObligation(ctx context.Context, obligation *model.PayableObligation) error {
	return obligations.update(ctx, d, *obligation)
}

func (d *Datasource) DeleteObligation(ctx context.Context, id string) error {
	return obligations.remove(ctx, d, id)
}

func (d *Datasource) ReplaceObligations(ctx context.Context, list []model.PayableObligation) error {
	return obligations.replace(ctx, d, list)
}

func (d *Datasource) RecordPayment(ctx context.Context, payment model.Payment) (model.Payment, error) {
	return payment, payments.insert(ctx, d, payment)
}

func (d *Datasource) GetPaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	return payments.get(ctx, d, id)
}

func (d *Datasource) GetPaymentsByObligation(ctx context.Context, obligationID string) ([]model.Payment, error) {
	return payments.filter(ctx, d, func(p *model.Payment) bool { return p.PayableObligationID == obligationID })
}

func (d *Datasource) GetAllPayments(ctx context.Context) ([]model.Payment, error) {
	return payments.all(ctx, d)
}

func (d *Datasource) DeletePayment(ctx context.Context, id string) error {
	return payments.remove(ctx, d, id)
}

func (d *Datasource) RecordReceipt(ctx context.Context, receipt model.Receipt) (model.Receipt, error) {
	return receipt, receipts.insert(ctx, d, receipt)
}

func (d *Datasource) GetReceiptByID(ctx context.Context, id string) (*model.Receipt, error) {
	return receipts.get(ctx, d, id)
}

func (d *Datasource) GetAllReceipts(ctx context.Context) ([]model.Receipt, error) {
	return receipts.all(ctx, d)
}

func (d *Datasource) DeleteReceipt(ctx context.Context, id string) error {
	return receipts.remove(ctx, d, id)
}
