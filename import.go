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
	"fmt"
	"io"
	"strings"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/files"
	"github.com/jerry-enebeli/caixa/internal/notification"
	"github.com/jerry-enebeli/caixa/internal/rowparse"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/sirupsen/logrus"
)

// firstDataLine is the file line of the first data row; line 1 holds the
// header.
const firstDataLine = 2

// BuildImportRows types raw rows for the given import kind. Rows that cannot
// be read are returned as errors and left out of the typed rows.
func BuildImportRows(kind model.ImportKind, raw []files.RawRow) ([]model.ImportRow, []model.ImportError) {
	rows := make([]model.ImportRow, 0, len(raw))
	var errs []model.ImportError
	for i, r := range raw {
		line := firstDataLine + i
		row, err := buildImportRow(kind, line, rowparse.Index(r))
		if err != nil {
			errs = append(errs, model.ImportError{Line: line, Kind: kind, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, errs
}

func buildImportRow(kind model.ImportKind, line int, row rowparse.Row) (model.ImportRow, error) {
	out := model.ImportRow{Line: line, Kind: kind}
	var err error
	switch kind {
	case model.ImportSuppliers:
		out.Supplier, err = supplierRow(row)
	case model.ImportObligations:
		out.Obligation, err = obligationRow(row)
	case model.ImportBankMovements:
		out.Movement, err = movementRow(row)
	default:
		err = fmt.Errorf("unknown import kind %q", kind)
	}
	return out, err
}

func supplierRow(row rowparse.Row) (*model.SupplierRow, error) {
	name := row.String(rowparse.FieldName)
	if name == "" {
		return nil, errors.New("supplier name is required")
	}
	taxID := row.String(rowparse.FieldTaxID)
	kind := model.KindFromTaxID(taxID)
	switch k := row.String(rowparse.FieldKind); strings.ToLower(k) {
	case "pf", "fisica", "física", "individual":
		kind = model.SupplierIndividual
	case "pj", "juridica", "jurídica", "company":
		kind = model.SupplierCompany
	}
	return &model.SupplierRow{
		Name:    name,
		TaxID:   taxID,
		Kind:    kind,
		Email:   row.Optional(rowparse.FieldEmail),
		Phone:   row.Optional(rowparse.FieldPhone),
		Address: row.Optional(rowparse.FieldAddress),
	}, nil
}

func obligationRow(row rowparse.Row) (*model.ObligationRow, error) {
	out := &model.ObligationRow{
		SupplierName:   row.String(rowparse.FieldName),
		SupplierTaxID:  row.String(rowparse.FieldTaxID),
		CompanyID:      row.String(rowparse.FieldCompany),
		Description:    row.String(rowparse.FieldDescription),
		Category:       row.String(rowparse.FieldCategory),
		DocumentNumber: row.Optional(rowparse.FieldDocumentNumber),
		Notes:          row.Optional(rowparse.FieldNotes),
	}
	if out.SupplierName == "" && out.SupplierTaxID == "" {
		return nil, errors.New("supplier name or tax id is required")
	}
	if out.Description == "" {
		out.Description = out.SupplierName
	}

	amount, ok, err := row.Amount(rowparse.FieldAmount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("amount is required")
	}
	out.Amount = amount.Abs()

	due, ok, err := row.Date(rowparse.FieldDueDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		if due, ok, err = row.Date(rowparse.FieldDate); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, errors.New("due date is required")
	}
	out.DueDate = due

	paid, ok, err := row.Amount(rowparse.FieldAmountPaid)
	if err != nil {
		return nil, err
	}
	if ok && !paid.IsZero() {
		paid = paid.Abs()
		out.AmountPaid = &paid
	}
	paidOn, ok, err := row.Date(rowparse.FieldPaymentDate)
	if err != nil {
		return nil, err
	}
	if ok {
		out.PaymentDate = &paidOn
	}
	return out, nil
}

func movementRow(row rowparse.Row) (*model.MovementRow, error) {
	date, ok, err := row.Date(rowparse.FieldDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("date is required")
	}
	description := row.String(rowparse.FieldDescription)
	if description == "" {
		return nil, errors.New("description is required")
	}
	amount, ok, err := row.Amount(rowparse.FieldAmount)
	if err != nil {
		return nil, err
	}
	if !ok || amount.IsZero() {
		return nil, errors.New("amount is required")
	}
	direction, err := rowparse.ParseDirection(row.String(rowparse.FieldDirection), amount)
	if err != nil {
		return nil, err
	}
	return &model.MovementRow{
		Date:           date,
		Description:    description,
		Amount:         amount.Abs(),
		Direction:      model.Direction(direction),
		Category:       row.Optional(rowparse.FieldCategory),
		DocumentNumber: row.Optional(rowparse.FieldDocumentNumber),
	}, nil
}

// rowFailure reports whether err only concerns the current row. Storage
// failures abort the whole batch.
func rowFailure(err error) bool {
	return apierror.CodeOf(err) != apierror.ErrStorage && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Caixa) newSummary(total int) model.ImportSummary {
	return model.ImportSummary{
		BatchID:   model.GenerateUUIDWithSuffix("batch"),
		TotalRows: total,
	}
}

// ImportSuppliers creates the suppliers that do not exist yet and then
// deduplicates the supplier list.
func (c *Caixa) ImportSuppliers(ctx context.Context, rows []model.ImportRow) (model.ImportSummary, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return model.ImportSummary{}, err
	}
	defer release()

	summary, err := c.importSuppliers(ctx, rows)
	if err != nil {
		return summary, err
	}
	return summary, c.finishImport(ctx, model.ImportSuppliers, &summary, true)
}

func (c *Caixa) importSuppliers(ctx context.Context, rows []model.ImportRow) (model.ImportSummary, error) {
	summary := c.newSummary(len(rows))
	existing, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return summary, err
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if row.Supplier == nil {
			summary.AddError(c.maxImportErrors, model.ImportError{Line: row.Line, Kind: model.ImportSuppliers, Message: "row has no supplier"})
			continue
		}
		probe := model.Supplier{
			Name:    row.Supplier.Name,
			TaxID:   row.Supplier.TaxID,
			Kind:    row.Supplier.Kind,
			Email:   row.Supplier.Email,
			Phone:   row.Supplier.Phone,
			Address: row.Supplier.Address,
			Active:  true,
		}
		if findByIdentity(existing, probe) != nil {
			summary.SuppliersSkipped++
			continue
		}
		created, err := c.createSupplier(ctx, probe)
		if err != nil {
			if !rowFailure(err) {
				return summary, err
			}
			summary.AddError(c.maxImportErrors, model.ImportError{Line: row.Line, Kind: model.ImportSuppliers, Message: err.Error()})
			continue
		}
		existing = append(existing, *created)
		summary.SuppliersCreated++
	}
	return summary, nil
}

// ImportObligations creates obligations, resolving or creating their
// suppliers by tax id or name. Obligations already stored under the same
// dedup key are skipped, so importing the same file twice creates nothing
// the second time. A paid amount on the row is applied as a payment from
// opts.BankAccountID.
func (c *Caixa) ImportObligations(ctx context.Context, rows []model.ImportRow, opts model.ImportOptions) (model.ImportSummary, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return model.ImportSummary{}, err
	}
	defer release()

	summary, err := c.importObligations(ctx, rows, opts)
	if err != nil {
		return summary, err
	}
	return summary, c.finishImport(ctx, model.ImportObligations, &summary, true)
}

func (c *Caixa) importObligations(ctx context.Context, rows []model.ImportRow, opts model.ImportOptions) (model.ImportSummary, error) {
	summary := c.newSummary(len(rows))
	suppliers, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return summary, err
	}
	stored, err := c.datasource.GetAllObligations(ctx, model.ObligationFilter{})
	if err != nil {
		return summary, err
	}
	known := make(map[string]struct{}, len(stored))
	for _, o := range stored {
		known[o.DedupKey()] = struct{}{}
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if row.Obligation == nil {
			summary.AddError(c.maxImportErrors, model.ImportError{Line: row.Line, Kind: model.ImportObligations, Message: "row has no obligation"})
			continue
		}
		err := c.importObligation(ctx, *row.Obligation, opts, &suppliers, known, &summary)
		if err == nil {
			continue
		}
		if !rowFailure(err) {
			return summary, err
		}
		summary.AddError(c.maxImportErrors, model.ImportError{Line: row.Line, Kind: model.ImportObligations, Message: err.Error()})
	}
	return summary, nil
}

func (c *Caixa) importObligation(ctx context.Context, row model.ObligationRow, opts model.ImportOptions, suppliers *[]model.Supplier, known map[string]struct{}, summary *model.ImportSummary) error {
	probe := model.Supplier{Name: row.SupplierName, TaxID: row.SupplierTaxID, Active: true}
	if probe.Name == "" {
		probe.Name = row.SupplierTaxID
	}
	supplier := findByIdentity(*suppliers, probe)
	newSupplier := supplier == nil
	if newSupplier {
		if err := c.prepareSupplier(&probe); err != nil {
			return err
		}
		probe.ID = model.GenerateID(model.PrefixSupplier)
		supplier = &probe
	}

	companyID := row.CompanyID
	if companyID == "" {
		companyID = opts.CompanyID
	}
	category := row.Category
	if category == "" {
		category = opts.DefaultCategory
	}
	if category == "" {
		category = DefaultCategory
	}
	candidate := model.PayableObligation{
		CompanyID:      companyID,
		SupplierID:     supplier.ID,
		Description:    row.Description,
		Amount:         row.Amount,
		DueDate:        row.DueDate,
		Category:       category,
		Notes:          row.Notes,
		DocumentNumber: row.DocumentNumber,
	}
	if err := c.prepareObligation(&candidate); err != nil {
		return err
	}
	payPaid := row.AmountPaid != nil && opts.BankAccountID != ""
	if payPaid && !row.AmountPaid.IsPositive() {
		return apierror.Invalid("invalid paid amount", fmt.Errorf("paid amount must be positive, got %s", row.AmountPaid.String()))
	}
	key := candidate.DedupKey()
	if _, dup := known[key]; dup {
		summary.ObligationsSkipped++
		return nil
	}

	var createdSupplierID string
	if newSupplier {
		created, err := c.createSupplier(ctx, probe)
		if err != nil {
			return err
		}
		*suppliers = append(*suppliers, *created)
		createdSupplierID = created.ID
	}
	obligation, err := c.createObligation(ctx, candidate)
	if err != nil {
		c.discardRecord(ctx, "", createdSupplierID)
		forgetSupplier(suppliers, createdSupplierID)
		return err
	}

	if row.AmountPaid != nil && !payPaid {
		logrus.WithField("obligation_id", obligation.ID).Warn("paid amount ignored: import has no bank account")
	}
	if payPaid {
		paidOn := obligation.DueDate
		if row.PaymentDate != nil {
			paidOn = *row.PaymentDate
		}
		if _, err := c.applyPayment(ctx, model.Payment{
			PayableObligationID: obligation.ID,
			BankAccountID:       opts.BankAccountID,
			Amount:              *row.AmountPaid,
			PaymentDate:         paidOn,
			DocumentNumber:      row.DocumentNumber,
		}); err != nil {
			c.discardRecord(ctx, obligation.ID, createdSupplierID)
			forgetSupplier(suppliers, createdSupplierID)
			return fmt.Errorf("payment for imported obligation failed: %w", err)
		}
		summary.PaymentsCreated++
	}

	known[key] = struct{}{}
	summary.ObligationsCreated++
	if createdSupplierID != "" {
		summary.SuppliersCreated++
	}
	return nil
}

// discardRecord removes what a failed record already stored, so a record is
// either fully persisted or not at all. An obligation that ended up with
// payments is kept and logged instead.
func (c *Caixa) discardRecord(ctx context.Context, obligationID, supplierID string) {
	log := logrus.WithFields(logrus.Fields{"obligation_id": obligationID, "supplier_id": supplierID})
	if obligationID != "" {
		paid, err := c.datasource.GetPaymentsByObligation(ctx, obligationID)
		if err == nil && len(paid) > 0 {
			log.Warn("failed record kept: its obligation already has payments")
			return
		}
		if err == nil {
			err = c.datasource.DeleteObligation(ctx, obligationID)
		}
		if err != nil {
			log.WithError(err).Error("failed to discard obligation of a failed record")
			return
		}
	}
	if supplierID != "" {
		if err := c.datasource.DeleteSupplier(ctx, supplierID); err != nil {
			log.WithError(err).Error("failed to discard supplier of a failed record")
		}
	}
}

func forgetSupplier(suppliers *[]model.Supplier, id string) {
	if id == "" {
		return
	}
	list := *suppliers
	for i := range list {
		if list[i].ID == id {
			*suppliers = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ImportBankMovements stores statement lines for one account, skipping lines
// identical to stored ones.
func (c *Caixa) ImportBankMovements(ctx context.Context, bankAccountID string, rows []model.ImportRow) (model.ImportSummary, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return model.ImportSummary{}, err
	}
	defer release()

	summary, err := c.importBankMovements(ctx, bankAccountID, rows)
	if err != nil {
		return summary, err
	}
	return summary, c.finishImport(ctx, model.ImportBankMovements, &summary, false)
}

func (c *Caixa) importBankMovements(ctx context.Context, bankAccountID string, rows []model.ImportRow) (model.ImportSummary, error) {
	summary := c.newSummary(len(rows))
	if _, err := c.datasource.GetBankAccountByID(ctx, bankAccountID); err != nil {
		return summary, err
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if row.Movement == nil {
			summary.AddError(c.maxImportErrors, model.ImportError{Line: row.Line, Kind: model.ImportBankMovements, Message: "row has no bank movement"})
			continue
		}
		created, err := c.importMovement(ctx, model.BankMovement{
			BankAccountID:  bankAccountID,
			Date:           row.Movement.Date,
			Description:    row.Movement.Description,
			Amount:         row.Movement.Amount,
			Direction:      row.Movement.Direction,
			Category:       row.Movement.Category,
			DocumentNumber: row.Movement.DocumentNumber,
		})
		if err != nil {
			if !rowFailure(err) {
				return summary, err
			}
			summary.AddError(c.maxImportErrors, model.ImportError{Line: row.Line, Kind: model.ImportBankMovements, Message: err.Error()})
			continue
		}
		if created {
			summary.MovementsCreated++
		} else {
			summary.MovementsSkipped++
		}
	}
	return summary, nil
}

// finishImport runs deduplication when asked to and reports the batch.
func (c *Caixa) finishImport(ctx context.Context, kind model.ImportKind, summary *model.ImportSummary, dedupe bool) error {
	if dedupe {
		result, err := c.deduplicate(ctx)
		if err != nil {
			return err
		}
		summary.Dedup = result
	}

	logrus.WithFields(logrus.Fields{
		"batch_id":   summary.BatchID,
		"kind":       kind,
		"total_rows": summary.TotalRows,
		"errors":     summary.ErrorCount,
	}).Info("import finished")
	c.notify(notification.Event{
		Kind:    notification.KindImportFinished,
		Message: fmt.Sprintf("%s import finished: %d rows, %d errors", kind, summary.TotalRows, summary.ErrorCount),
		Fields: map[string]interface{}{
			"batch_id":            summary.BatchID,
			"suppliers_created":   summary.SuppliersCreated,
			"obligations_created": summary.ObligationsCreated,
			"movements_created":   summary.MovementsCreated,
		},
	})
	return nil
}

// ImportFile reads a CSV or JSON upload and imports every section of it as
// kind. Bank movement imports need opts.BankAccountID.
func (c *Caixa) ImportFile(ctx context.Context, kind model.ImportKind, reader io.Reader, filename string, opts model.ImportOptions) (model.ImportSummary, error) {
	switch kind {
	case model.ImportSuppliers, model.ImportObligations:
	case model.ImportBankMovements:
		if opts.BankAccountID == "" {
			return model.ImportSummary{}, apierror.Invalid("bank_account_id is required for bank movement imports", nil)
		}
	default:
		return model.ImportSummary{}, apierror.Invalid(fmt.Sprintf("unknown import kind %q", kind), nil)
	}

	upload, err := files.ReadUpload(ctx, reader, filename)
	if err != nil {
		if errors.Is(err, files.ErrUnsupportedType) {
			return model.ImportSummary{}, apierror.Invalid(err.Error(), nil)
		}
		c.notify(notification.Event{Kind: notification.KindImportFailed, Message: "could not read " + filename, Err: err})
		return model.ImportSummary{}, apierror.Invalid("could not read upload", err.Error())
	}

	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return model.ImportSummary{}, err
	}
	defer release()

	total := model.ImportSummary{BatchID: model.GenerateUUIDWithSuffix("batch")}
	for _, section := range upload.SectionNames() {
		rows, rowErrs := BuildImportRows(kind, upload.Rows(section))
		var part model.ImportSummary
		switch kind {
		case model.ImportSuppliers:
			part, err = c.importSuppliers(ctx, rows)
		case model.ImportObligations:
			part, err = c.importObligations(ctx, rows, opts)
		case model.ImportBankMovements:
			part, err = c.importBankMovements(ctx, opts.BankAccountID, rows)
		}
		part.TotalRows += len(rowErrs)
		for _, e := range rowErrs {
			part.AddError(c.maxImportErrors, e)
		}
		total.Merge(c.maxImportErrors, part)
		if err != nil {
			c.notify(notification.Event{Kind: notification.KindImportFailed, Message: fmt.Sprintf("import of %s stopped", filename), Err: err})
			return total, err
		}
	}

	if err := c.finishImport(ctx, kind, &total, kind != model.ImportBankMovements); err != nil {
		return total, err
	}
	return total, nil
}
