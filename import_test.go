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
	"strings"
	"testing"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/files"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const obligationsCSV = `Fornecedor;CNPJ;Descrição;Valor;Vencimento;Categoria
Energisa;12.345.678/0001-90;Conta de luz junho;R$ 1.234,56;10/06/2024;Energia
ENERGISA MT;12345678000190;Conta de luz julho;R$ 1.198,00;10/07/2024;Energia
João Silva;;Honorários contábeis;900,00;45488;Serviços
Papelaria Central;;Material de escritório;(150,00);2024-06-20;
`

func TestImportObligationsTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)

	first, err := c.ImportFile(ctx, model.ImportObligations, strings.NewReader(obligationsCSV), "despesas.csv", model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, first.TotalRows)
	assert.Equal(t, 3, first.SuppliersCreated, "the two Energisa rows share a CNPJ")
	assert.Equal(t, 4, first.ObligationsCreated)
	assert.Zero(t, first.ErrorCount)
	assert.True(t, strings.HasPrefix(first.BatchID, "batch_"))

	second, err := c.ImportFile(ctx, model.ImportObligations, strings.NewReader(obligationsCSV), "despesas.csv", model.ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, second.SuppliersCreated)
	assert.Zero(t, second.ObligationsCreated)
	assert.Equal(t, 4, second.ObligationsSkipped)
	assert.NotEqual(t, first.BatchID, second.BatchID)

	suppliers, err := c.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 3)
	obligations, err := c.ListObligations(ctx, model.ObligationFilter{})
	require.NoError(t, err)
	require.Len(t, obligations, 4)

	byDescription := map[string]model.PayableObligation{}
	for _, o := range obligations {
		byDescription[o.Description] = o
	}
	assert.Equal(t, "1234.56", byDescription["Conta de luz junho"].Amount.StringFixed(2))
	assert.Equal(t, "2024-07-15", model.DateKey(byDescription["Honorários contábeis"].DueDate), "Excel serial date")
	assert.Equal(t, "150.00", byDescription["Material de escritório"].Amount.StringFixed(2))
	assert.Equal(t, DefaultCategory, byDescription["Material de escritório"].Category)
	assert.Equal(t, model.StatusOverdue, byDescription["Conta de luz junho"].Status)
}

func TestImportObligationsAppliesPaidAmount(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)

	csv := "fornecedor,descricao,valor,vencimento,valor pago,data pagamento\n" +
		"Aluguéis SA,Aluguel junho,2000,05/06/2024,2000,04/06/2024\n" +
		"Aluguéis SA,Condomínio junho,800,05/06/2024,300,\n"

	summary, err := c.ImportFile(ctx, model.ImportObligations, strings.NewReader(csv), "pagas.csv", model.ImportOptions{BankAccountID: account.ID, CompanyID: "cmp_1"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ObligationsCreated)
	assert.Equal(t, 2, summary.PaymentsCreated)

	obligations, err := c.ListObligations(ctx, model.ObligationFilter{CompanyID: "cmp_1"})
	require.NoError(t, err)
	require.Len(t, obligations, 2)
	assert.Equal(t, model.StatusFullyPaid, obligations[0].Status)
	assert.Equal(t, model.StatusPartiallyPaid, obligations[1].Status)
	assert.Equal(t, "300.00", obligations[1].AmountPaid.StringFixed(2))

	payments, err := c.ListPayments(ctx, obligations[0].ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "2024-06-04", model.DateKey(payments[0].PaymentDate))

	entries, err := c.ListSystemEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestImportCollectsRowErrors(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t, WithMaxImportErrors(2))

	csv := "fornecedor,descricao,valor,vencimento\n" +
		"Ok Ltda,Serviço,10,01/07/2024\n" +
		",Sem fornecedor,10,01/07/2024\n" +
		"Sem Valor,Serviço,,01/07/2024\n" +
		"Valor Ruim,Serviço,abc,01/07/2024\n" +
		"Data Ruim,Serviço,10,31/31/2024\n"

	summary, err := c.ImportFile(ctx, model.ImportObligations, strings.NewReader(csv), "erros.csv", model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalRows)
	assert.Equal(t, 1, summary.ObligationsCreated)
	assert.Equal(t, 4, summary.ErrorCount)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 3, summary.Errors[0].Line)
	assert.Equal(t, model.ImportObligations, summary.Errors[0].Kind)
}

func TestBuildImportRows(t *testing.T) {
	raw := []files.RawRow{
		{"Data": "15/06/2024", "Histórico": "PIX RECEBIDO CLIENTE", "Valor": "1.500,00", "D/C": "C"},
		{"Data": "15/06/2024", "Histórico": "TARIFA", "Valor": "-12,90"},
		{"Data": "", "Histórico": "SEM DATA", "Valor": "1,00"},
	}
	rows, errs := BuildImportRows(model.ImportBankMovements, raw)
	require.Len(t, rows, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Line)

	assert.Equal(t, 2, rows[0].Line)
	require.NotNil(t, rows[0].Movement)
	assert.Nil(t, rows[0].Obligation)
	assert.Equal(t, model.DirectionCredit, rows[0].Movement.Direction)
	assert.Equal(t, "1500.00", rows[0].Movement.Amount.StringFixed(2))
	assert.Equal(t, model.DirectionDebit, rows[1].Movement.Direction)
	assert.Equal(t, "12.90", rows[1].Movement.Amount.StringFixed(2))

	_, errs = BuildImportRows("unknown", raw[:1])
	assert.Len(t, errs, 1)
}

func TestImportBankMovementsSkipsExactDuplicates(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	account := seedAccount(t, c)

	statement := "data;historico;valor\n" +
		"15/06/2024;PIX RECEBIDO;100,00\n" +
		"15/06/2024;PIX RECEBIDO ;100,00\n" +
		"15/06/2024;Pix Recebido;100,00\n" +
		"16/06/2024;TARIFA PACOTE;-29,90\n"
	opts := model.ImportOptions{BankAccountID: account.ID}

	first, err := c.ImportFile(ctx, model.ImportBankMovements, strings.NewReader(statement), "extrato.csv", opts)
	require.NoError(t, err)
	assert.Equal(t, 3, first.MovementsCreated, "trailing spaces are trimmed, case differences are kept")
	assert.Equal(t, 1, first.MovementsSkipped)

	second, err := c.ImportFile(ctx, model.ImportBankMovements, strings.NewReader(statement), "extrato.csv", opts)
	require.NoError(t, err)
	assert.Zero(t, second.MovementsCreated)
	assert.Equal(t, 4, second.MovementsSkipped)

	movements, err := c.ListBankMovements(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 3)
	for _, m := range movements {
		assert.Equal(t, model.OriginStatement, m.Origin)
	}

	_, err = c.ImportFile(ctx, model.ImportBankMovements, strings.NewReader(statement), "extrato.csv", model.ImportOptions{})
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	rows, _ := BuildImportRows(model.ImportBankMovements, []files.RawRow{{"data": "15/06/2024", "historico": "X", "valor": "1"}})
	_, err = c.ImportBankMovements(ctx, "acc_missing", rows)
	assert.True(t, apierror.IsNotFound(err))
}

func TestImportSuppliersFromJSON(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)
	seedSupplier(t, c, "Já Existe", "11.111.111/0001-11")

	payload := `{
		"fornecedores": [
			{"nome": "Maria Souza", "cpf": "123.456.789-00", "email": "maria@example.com"},
			{"nome": "Ja Existe Ltda", "cnpj": "11111111000111"},
			{"nome": "MARIA SOUZA ME", "cpf": "12345678900"},
			{"email": "sem-nome@example.com"}
		]
	}`
	summary, err := c.ImportFile(ctx, model.ImportSuppliers, strings.NewReader(payload), "fornecedores.json", model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 1, summary.SuppliersCreated)
	assert.Equal(t, 2, summary.SuppliersSkipped)
	assert.Equal(t, 1, summary.ErrorCount)

	found, err := c.FindSupplier(ctx, "", "123.456.789-00")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.SupplierIndividual, found.Kind)
	assert.Equal(t, "maria@example.com", *found.Email)
}

func TestImportFileRejectsUnknownInput(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)

	_, err := c.ImportFile(ctx, "payroll", strings.NewReader("a,b\n1,2\n"), "x.csv", model.ImportOptions{})
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	_, err = c.ImportFile(ctx, model.ImportSuppliers, strings.NewReader("\x00\x01\x02binary"), "x.bin", model.ImportOptions{})
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}

func TestImportStopsOnCancelledContext(t *testing.T) {
	c, _, _ := newTestCaixa(t)
	rows, _ := BuildImportRows(model.ImportSuppliers, []files.RawRow{{"nome": "A"}, {"nome": "B"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ImportSuppliers(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportObligationRowIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t, WithPaymentCap(true))
	account := seedAccount(t, c)

	rows := []model.ImportRow{
		{Line: 2, Kind: model.ImportObligations, Obligation: &model.ObligationRow{
			SupplierName: "Gráfica Nova", Description: "Folhetos", Amount: decimal.Zero, DueDate: testNow,
		}},
		{Line: 3, Kind: model.ImportObligations, Obligation: &model.ObligationRow{
			SupplierName: "Transportadora Rápida", Description: "Frete", Amount: money("100"), DueDate: testNow,
			AmountPaid: ptrDecimal(money("150")),
		}},
	}
	summary, err := c.ImportObligations(ctx, rows, model.ImportOptions{BankAccountID: account.ID})
	require.NoError(t, err)
	assert.Len(t, summary.Errors, 2)
	assert.Zero(t, summary.ObligationsCreated)
	assert.Zero(t, summary.SuppliersCreated)
	assert.Zero(t, summary.PaymentsCreated)

	suppliers, err := c.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
	obligations, err := c.ListObligations(ctx, model.ObligationFilter{})
	require.NoError(t, err)
	assert.Empty(t, obligations)
	entries, err := c.ListSystemEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func ptrDecimal(d decimal.Decimal) *decimal.Decimal {
	return &d
}
