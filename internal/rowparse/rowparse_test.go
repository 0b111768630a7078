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

package rowparse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "R$ 1.234,56", expected: "1234.56"},
		{input: "1234,5", expected: "1234.5"},
		{input: "1234.56", expected: "1234.56"},
		{input: "1.234.567", expected: "1234567"},
		{input: "-R$ 10,00", expected: "-10"},
		{input: "R$ -10,00", expected: "-10"},
		{input: "(10,00)", expected: "-10"},
		{input: "150", expected: "150"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBRL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestExcelSerialToTime(t *testing.T) {
	got := ExcelSerialToTime(45366)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Unix(0, 0).UTC(), ExcelSerialToTime(25569))
}

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"15/03/2024", "2024-03-15", "45366", "15-03-2024", "2024-03-15T13:45:00Z", "15/3/2024"} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDate(input)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}

	_, err := ParseDate("not a date")
	assert.Error(t, err)
	_, err = ParseDate("-3")
	assert.Error(t, err)
}

func TestRowAliases(t *testing.T) {
	row := Index(map[string]string{
		"VALOR":             "R$ 99,90",
		"Descrição":         " Conta de luz ",
		"Vencimento":        "10/04/2024",
		"CNPJ/CPF":          "12.345.678/0001-90",
		"amount_paid":       "50",
		"Data de Pagamento": "",
	})

	amount, ok, err := row.Amount(FieldAmount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("99.90").Equal(amount))

	assert.Equal(t, "Conta de luz", row.String(FieldDescription))
	assert.Equal(t, "12.345.678/0001-90", row.String(FieldTaxID))

	paid, ok, err := row.Amount(FieldAmountPaid)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(50).Equal(paid))

	due, ok, err := row.Date(FieldDueDate)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC), due)

	_, ok, _ = row.Date(FieldPaymentDate)
	assert.False(t, ok)
	assert.Nil(t, row.Optional(FieldNotes))
}

func TestRowAliasesEnglishHeaders(t *testing.T) {
	row := Index(map[string]string{"value": "10.5", "description": "Internet", "due_date": "2024-05-01"})

	amount, ok, err := row.Amount(FieldAmount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("10.5").Equal(amount))
	assert.Equal(t, "Internet", row.String(FieldDescription))
	_, ok, err = row.Date(FieldDueDate)
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("Débito", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "debit", dir)

	dir, err = ParseDirection("C", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "credit", dir)

	dir, err = ParseDirection("", decimal.NewFromInt(-10))
	require.NoError(t, err)
	assert.Equal(t, "debit", dir)

	_, err = ParseDirection("???", decimal.Zero)
	assert.Error(t, err)
}
