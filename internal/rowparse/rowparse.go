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

// Package rowparse turns loosely named spreadsheet rows into typed values.
// Column headers are matched through an alias table, money strings are read
// in the Brazilian format and dates may come as Excel serial numbers.
package rowparse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jerry-enebeli/caixa/internal/normalize"
	"github.com/shopspring/decimal"
)

// Field is a canonical column name.
type Field string

const (
	FieldName           Field = "name"
	FieldTaxID          Field = "tax_id"
	FieldKind           Field = "kind"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldAddress        Field = "address"
	FieldDescription    Field = "description"
	FieldAmount         Field = "amount"
	FieldDueDate        Field = "due_date"
	FieldDate           Field = "date"
	FieldCategory       Field = "category"
	FieldAmountPaid     Field = "amount_paid"
	FieldPaymentDate    Field = "payment_date"
	FieldDocumentNumber Field = "document_number"
	FieldDirection      Field = "direction"
	FieldNotes          Field = "notes"
	FieldCompany        Field = "company"
)

// aliases lists accepted header spellings per field, already normalized.
// Order matters: the first alias present in a row wins.
var aliases = map[Field][]string{
	FieldName:           {"fornecedor", "nome", "razao social", "nome fornecedor", "supplier", "name"},
	FieldTaxID:          {"cnpj", "cpf", "cnpj/cpf", "cpf/cnpj", "cnpj cpf", "tax_id", "taxid", "tax id"},
	FieldKind:           {"tipo pessoa", "pessoa", "kind"},
	FieldEmail:          {"email", "e-mail"},
	FieldPhone:          {"telefone", "fone", "celular", "phone"},
	FieldAddress:        {"endereco", "address"},
	FieldDescription:    {"descricao", "historico", "description", "memo", "discriminacao"},
	FieldAmount:         {"valor", "value", "amount", "vlr", "valor total", "valor original"},
	FieldDueDate:        {"vencimento", "data vencimento", "data de vencimento", "due_date", "duedate", "due date"},
	FieldDate:           {"data", "date", "data movimento", "data lancamento", "data do lancamento"},
	FieldCategory:       {"categoria", "category", "plano de contas"},
	FieldAmountPaid:     {"valor pago", "pago", "amount_paid", "amount paid"},
	FieldPaymentDate:    {"data pagamento", "data de pagamento", "payment_date", "payment date"},
	FieldDocumentNumber: {"documento", "numero documento", "nf", "nota fiscal", "document_number", "document"},
	FieldDirection:      {"tipo", "natureza", "d/c", "dc", "direction"},
	FieldNotes:          {"observacao", "observacoes", "obs", "notes"},
	FieldCompany:        {"empresa", "company", "company_id"},
}

// Row is a spreadsheet row whose keys were normalized by Index.
type Row map[string]string

// Index normalizes the header keys of a raw row.
func Index(raw map[string]string) Row {
	row := make(Row, len(raw))
	for k, v := range raw {
		key := normalize.Normalize(strings.ReplaceAll(k, "_", " "))
		row[key] = strings.TrimSpace(v)
		// keep the underscore form as well so "tax_id" style aliases resolve
		row[normalize.Normalize(k)] = strings.TrimSpace(v)
	}
	return row
}

// Get returns the first non-empty value among the aliases of f.
func (r Row) Get(f Field) (string, bool) {
	for _, alias := range aliases[f] {
		if v, ok := r[alias]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// String returns the value of f or an empty string.
func (r Row) String(f Field) string {
	v, _ := r.Get(f)
	return v
}

// Optional returns a pointer to the value of f, or nil when absent.
func (r Row) Optional(f Field) *string {
	v, ok := r.Get(f)
	if !ok {
		return nil
	}
	return &v
}

// Amount parses f as a money value.
func (r Row) Amount(f Field) (decimal.Decimal, bool, error) {
	v, ok := r.Get(f)
	if !ok {
		return decimal.Zero, false, nil
	}
	d, err := ParseBRL(v)
	if err != nil {
		return decimal.Zero, true, fmt.Errorf("%s: %w", f, err)
	}
	return d, true, nil
}

// Date parses f as a calendar day.
func (r Row) Date(f Field) (time.Time, bool, error) {
	v, ok := r.Get(f)
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := ParseDate(v)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%s: %w", f, err)
	}
	return t, true, nil
}

var ErrEmptyValue = errors.New("empty value")

// ParseBRL reads a money string such as "R$ 1.234,56", "-R$ 10,00",
// "(10,00)" or "1234.56".
//
// With a comma present, dots are thousand separators and the comma is the
// decimal mark. Without a comma, a single dot is a decimal mark and several
// dots are thousand separators.
func ParseBRL(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Zero, ErrEmptyValue
	}

	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = strings.TrimSuffix(strings.TrimPrefix(v, "("), ")")
	}
	v = strings.NewReplacer("R$", "", "r$", "", " ", "", "\u00a0", "").Replace(v)
	if strings.HasPrefix(v, "-") {
		negative = !negative
		v = v[1:]
	} else if strings.HasSuffix(v, "-") {
		negative = !negative
		v = v[:len(v)-1]
	}
	v = strings.TrimPrefix(v, "+")

	switch {
	case strings.Contains(v, ","):
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	case strings.Count(v, ".") > 1:
		v = strings.ReplaceAll(v, ".", "")
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// excelEpochOffset is the serial number of 1970-01-01 in the 1900 date system.
const excelEpochOffset = 25569

// ExcelSerialToTime converts an Excel serial day number to a UTC time using
// (serial - 25569) * 86400 * 1000 milliseconds since the Unix epoch.
func ExcelSerialToTime(serial float64) time.Time {
	ms := (serial - excelEpochOffset) * 86400 * 1000
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/06",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate reads a day from an Excel serial number or one of the common
// textual layouts. The result is midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, ErrEmptyValue
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %q", s)
		}
		return Day(ExcelSerialToTime(serial)), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDirection maps a credit/debit marker to "credit" or "debit". An empty
// marker falls back to the sign of amount.
func ParseDirection(marker string, amount decimal.Decimal) (string, error) {
	switch normalize.Normalize(marker) {
	case "c", "cr", "credito", "credit", "entrada", "receita", "recebimento":
		return "credit", nil
	case "d", "db", "debito", "debit", "saida", "despesa", "pagamento":
		return "debit", nil
	case "":
		if amount.IsNegative() {
			return "debit", nil
		}
		return "credit", nil
	}
	return "", fmt.Errorf("invalid direction %q", marker)
}
