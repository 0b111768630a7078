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
	"os"
	"path/filepath"
	"testing"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"
)

func TestAnalyzeCategory(t *testing.T) {
	rules := DefaultCategoryRules()

	got := Analyze(rules, "PAGAMENTO ÉNERGISA MT 06/2024", money("-250"), model.DirectionDebit, nil)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Energia", *got.Category)
	assert.Equal(t, model.TransactionExpense, got.TransactionType)

	got = Analyze(rules, "ENERGISA ESTORNO", money("50"), model.DirectionCredit, nil)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Estornos", *got.Category, "debit rules do not apply to credits")
	assert.Equal(t, model.TransactionIncome, got.TransactionType)

	got = Analyze(rules, "xyz", money("1"), model.DirectionDebit, nil)
	assert.Nil(t, got.Category)
}

func TestAnalyzeDirectionFromAmount(t *testing.T) {
	got := Analyze(DefaultCategoryRules(), "Recebimento cliente", decimal.NewFromInt(100), "", nil)
	assert.Equal(t, model.TransactionIncome, got.TransactionType)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Vendas", *got.Category)
}

func TestAnalyzeRuleOrderIsPriority(t *testing.T) {
	rules := []CategoryRule{
		{Keywords: []string{"posto"}, Category: "Transporte", Direction: model.DirectionDebit},
		{Keywords: []string{"posto shell"}, Category: "Combustível", Direction: model.DirectionDebit},
	}
	got := Analyze(rules, "POSTO SHELL BR", money("-90"), model.DirectionDebit, nil)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Transporte", *got.Category)
}

func TestAnalyzeSupplierFirstMatchWins(t *testing.T) {
	suppliers := []model.Supplier{
		{ID: "sup_silva", Name: "Silva"},
		{ID: "sup_joao", Name: "João Silva"},
	}
	got := Analyze(DefaultCategoryRules(), "PIX JOAO SILVA", money("-10"), model.DirectionDebit, suppliers)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, "sup_silva", *got.SupplierID)
}

func TestAnalyzeSupplierMatching(t *testing.T) {
	suppliers := []model.Supplier{
		{ID: "sup_1", Name: "Padaria Pão Quente"},
		{ID: "sup_2", Name: "Auto Posto Ipiranga Ltda"},
	}

	got := Analyze(nil, "padaria pao quente", money("-10"), model.DirectionDebit, suppliers)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, "sup_1", *got.SupplierID)

	got = Analyze(nil, "pao quente", money("-10"), model.DirectionDebit, suppliers)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, "sup_1", *got.SupplierID, "description inside the supplier name")

	got = Analyze(nil, "COMPRA IPIRANGA 123", money("-10"), model.DirectionDebit, suppliers)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, "sup_2", *got.SupplierID, "word fallback")

	got = Analyze(nil, "Mercado Livre", money("-10"), model.DirectionDebit, suppliers)
	assert.Nil(t, got.SupplierID)
}

func TestSuggestSupplierName(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"PIX TED padaria do joão centro sul", "Padaria Joao Centro"},
		{"COMPRA DEBITO MERCADO BOM PRECO", "Mercado Bom Preco"},
		{"PIX TED DOC", UnidentifiedSupplier},
		{"", UnidentifiedSupplier},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := Analyze(nil, tt.description, money("-1"), model.DirectionDebit, nil)
			assert.Equal(t, tt.want, got.SuggestedSupplierName)
		})
	}
}

func TestTransactionTypeTransfer(t *testing.T) {
	for _, d := range []string{"APLICAÇÃO CDB", "Resgate automático", "Transferência entre contas"} {
		got := Analyze(nil, d, money("100"), model.DirectionCredit, nil)
		assert.Equal(t, model.TransactionTransfer, got.TransactionType, d)
	}
}

func TestLoadCategoryRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules:
  - keywords: [ifood, rappi]
    category: Alimentação
    direction: debit
  - keywords: [pix recebido]
    category: Vendas
    direction: credit
`), 0o600))

	rules, err := LoadCategoryRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Alimentação", rules[0].Category)
	assert.Equal(t, model.DirectionCredit, rules[1].Direction)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rules:\n  - keywords: [x]\n    category: X\n    direction: sideways\n"), 0o600))
	_, err = LoadCategoryRules(bad)
	assert.Error(t, err)

	_, err = LoadCategoryRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestServiceAnalyzeUsesStoredSuppliers(t *testing.T) {
	rules := []CategoryRule{{Keywords: []string{"ifood"}, Category: "Alimentação", Direction: model.DirectionDebit}}
	c, _, _ := newTestCaixa(t, WithCategoryRules(rules))
	supplier := seedSupplier(t, c, "iFood", "")

	got, err := c.Analyze(context.Background(), "IFOOD *PEDIDO 123", money("-45"), model.DirectionDebit)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Alimentação", *got.Category)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, supplier.ID, *got.SupplierID)
}

func TestQuickEntry(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)

	res, err := c.QuickEntry(ctx, QuickEntryInput{
		Description: "Pagamento Energisa junho",
		Amount:      money("-310.25"),
		DueDate:     testNow.AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	assert.True(t, res.SupplierCreated)
	assert.Equal(t, "Energisa Junho", res.Supplier.Name)
	assert.Equal(t, "Energia", res.Obligation.Category)
	assert.Equal(t, "310.25", res.Obligation.Amount.StringFixed(2))
	assert.Equal(t, model.StatusPending, res.Obligation.Status)

	again, err := c.QuickEntry(ctx, QuickEntryInput{Description: "Energisa julho", Amount: money("280")})
	require.NoError(t, err)
	assert.False(t, again.SupplierCreated, "matched through the supplier name words")
	assert.Equal(t, res.Supplier.ID, again.Supplier.ID)

	named, err := c.QuickEntry(ctx, QuickEntryInput{
		Description:  "Manutenção ar condicionado",
		Amount:       money("450"),
		Category:     ptr.String("Manutenção"),
		SupplierName: ptr.String("Frio Bom Refrigeração"),
		SupplierTax:  "98.765.432/0001-10",
	})
	require.NoError(t, err)
	assert.True(t, named.SupplierCreated)
	assert.Equal(t, "Manutenção", named.Obligation.Category)
	assert.Equal(t, model.SupplierCompany, named.Supplier.Kind)

	_, err = c.QuickEntry(ctx, QuickEntryInput{Description: "  "})
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))
}

func TestQuickEntryRejectsWithoutStoringSupplier(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCaixa(t)

	_, err := c.QuickEntry(ctx, QuickEntryInput{
		Description:  "Revisão do caminhão",
		Amount:       decimal.Zero,
		SupplierName: ptr.String("Oficina Mecânica Zeta"),
	})
	assert.Equal(t, apierror.ErrInvalidInput, apierror.CodeOf(err))

	suppliers, err := c.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
	obligations, err := c.ListObligations(ctx, model.ObligationFilter{})
	require.NoError(t, err)
	assert.Empty(t, obligations)
}
