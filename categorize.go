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
	"os"
	"strings"
	"time"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/normalize"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// UnidentifiedSupplier is suggested when a description has no usable words.
const UnidentifiedSupplier = "Fornecedor não identificado"

// DefaultCategory is used for quick entries the rules cannot categorize.
const DefaultCategory = "Outros"

// CategoryRule assigns Category to descriptions of the given direction that
// contain any of the keywords.
type CategoryRule struct {
	Keywords  []string        `yaml:"keywords" json:"keywords"`
	Category  string          `yaml:"category" json:"category"`
	Direction model.Direction `yaml:"direction" json:"direction"`
}

type categoryRuleFile struct {
	Rules []CategoryRule `yaml:"rules"`
}

var nameStopwords = map[string]struct{}{
	"compra":        {},
	"pagamento":     {},
	"transferencia": {},
	"pix":           {},
	"ted":           {},
	"doc":           {},
	"debito":        {},
	"credito":       {},
}

var transferKeywords = []string{"aplicacao", "resgate", "transferencia entre contas"}

// DefaultCategoryRules is the built-in rule table. Order is priority.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Keywords: []string{"energisa", "cemig", "enel", "light", "copel", "energia"}, Category: "Energia", Direction: model.DirectionDebit},
		{Keywords: []string{"sabesp", "copasa", "saneamento", "agua"}, Category: "Água", Direction: model.DirectionDebit},
		{Keywords: []string{"vivo", "claro", "internet", "telefone", "telefonia"}, Category: "Telecomunicações", Direction: model.DirectionDebit},
		{Keywords: []string{"aluguel", "condominio", "iptu"}, Category: "Aluguel", Direction: model.DirectionDebit},
		{Keywords: []string{"folha", "salario", "pro-labore", "pro labore", "fgts", "inss"}, Category: "Folha de Pagamento", Direction: model.DirectionDebit},
		{Keywords: []string{"darf", "simples nacional", "icms", "issqn", "imposto"}, Category: "Impostos", Direction: model.DirectionDebit},
		{Keywords: []string{"tarifa", "taxa", "juros", "iof", "cesta"}, Category: "Tarifas Bancárias", Direction: model.DirectionDebit},
		{Keywords: []string{"posto", "combustivel", "gasolina", "uber", "99app"}, Category: "Transporte", Direction: model.DirectionDebit},
		{Keywords: []string{"fornecedor", "mercadoria", "estoque"}, Category: "Fornecedores", Direction: model.DirectionDebit},
		{Keywords: []string{"venda", "cliente", "recebimento", "cielo", "stone", "rede", "getnet"}, Category: "Vendas", Direction: model.DirectionCredit},
		{Keywords: []string{"rendimento", "juros"}, Category: "Rendimentos", Direction: model.DirectionCredit},
		{Keywords: []string{"estorno", "devolucao"}, Category: "Estornos", Direction: model.DirectionCredit},
	}
}

// LoadCategoryRules reads a YAML rule file of the form
//
//	rules:
//	  - keywords: [energisa, cemig]
//	    category: Energia
//	    direction: debit
func LoadCategoryRules(path string) ([]CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read category rules: %w", err)
	}
	var file categoryRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not parse category rules: %w", err)
	}
	for i, rule := range file.Rules {
		if rule.Category == "" || len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("category rule %d needs a category and at least one keyword", i+1)
		}
		if !rule.Direction.Valid() {
			return nil, fmt.Errorf("category rule %d has invalid direction %q", i+1, rule.Direction)
		}
	}
	return file.Rules, nil
}

// Analyze reads a transaction description with the service's rule table.
func (c *Caixa) Analyze(ctx context.Context, description string, amount decimal.Decimal, direction model.Direction) (model.Analysis, error) {
	suppliers, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return model.Analysis{}, err
	}
	return Analyze(c.rules, description, amount, direction, suppliers), nil
}

// Analyze suggests a category, an existing supplier, a supplier name and a
// transaction type for a description.
func Analyze(rules []CategoryRule, description string, amount decimal.Decimal, direction model.Direction, suppliers []model.Supplier) model.Analysis {
	text := normalize.Normalize(description)
	if direction == "" {
		direction = model.DirectionDebit
		if amount.IsPositive() {
			direction = model.DirectionCredit
		}
	}

	analysis := model.Analysis{
		Category:              matchCategory(rules, text, direction),
		SuggestedSupplierName: suggestSupplierName(text),
		TransactionType:       transactionType(text, direction),
	}
	if s := matchSupplier(text, suppliers); s != nil {
		id := s.ID
		analysis.SupplierID = &id
	}
	return analysis
}

func matchCategory(rules []CategoryRule, text string, direction model.Direction) *string {
	for _, rule := range rules {
		if rule.Direction != direction {
			continue
		}
		for _, kw := range rule.Keywords {
			k := normalize.Normalize(kw)
			if k != "" && strings.Contains(text, k) {
				category := rule.Category
				return &category
			}
		}
	}
	return nil
}

// matchSupplier returns the first supplier whose name appears in the
// description, or whose name contains the whole description, falling back to
// the first supplier sharing a word longer than two letters.
func matchSupplier(text string, suppliers []model.Supplier) *model.Supplier {
	if text == "" {
		return nil
	}
	for i := range suppliers {
		name := normalize.Normalize(suppliers[i].Name)
		if name != "" && (strings.Contains(text, name) || strings.Contains(name, text)) {
			return &suppliers[i]
		}
	}
	for i := range suppliers {
		for _, w := range normalize.Words(suppliers[i].Name, 2) {
			if strings.Contains(text, w) {
				return &suppliers[i]
			}
		}
	}
	return nil
}

func suggestSupplierName(text string) string {
	title := cases.Title(language.BrazilianPortuguese)
	var tokens []string
	for _, w := range strings.Fields(text) {
		if _, stop := nameStopwords[w]; stop {
			continue
		}
		if len([]rune(w)) <= 2 {
			continue
		}
		tokens = append(tokens, title.String(w))
		if len(tokens) == 3 {
			break
		}
	}
	if len(tokens) == 0 {
		return UnidentifiedSupplier
	}
	return strings.Join(tokens, " ")
}

func transactionType(text string, direction model.Direction) model.TransactionType {
	for _, kw := range transferKeywords {
		if strings.Contains(text, kw) {
			return model.TransactionTransfer
		}
	}
	if direction == model.DirectionCredit {
		return model.TransactionIncome
	}
	return model.TransactionExpense
}

// QuickEntryInput is a one-line expense typed by the user.
type QuickEntryInput struct {
	CompanyID   string
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Category    *string
	// SupplierName overrides the supplier found or suggested by Analyze.
	SupplierName *string
	SupplierTax  string
}

// QuickEntryResult is what QuickEntry created or reused.
type QuickEntryResult struct {
	Analysis        model.Analysis          `json:"analysis"`
	Supplier        model.Supplier          `json:"supplier"`
	SupplierCreated bool                    `json:"supplier_created"`
	Obligation      model.PayableObligation `json:"obligation"`
}

// QuickEntry analyzes the description, resolves or creates the supplier and
// creates the obligation.
func (c *Caixa) QuickEntry(ctx context.Context, in QuickEntryInput) (*QuickEntryResult, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, apierror.Invalid("description is required", nil)
	}

	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	suppliers, err := c.datasource.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	analysis := Analyze(c.rules, in.Description, in.Amount, model.DirectionDebit, suppliers)
	result := &QuickEntryResult{Analysis: analysis}

	var supplier *model.Supplier
	switch {
	case in.SupplierName != nil && strings.TrimSpace(*in.SupplierName) != "":
		probe := model.Supplier{Name: strings.TrimSpace(*in.SupplierName), TaxID: in.SupplierTax, Active: true}
		if supplier = findByIdentity(suppliers, probe); supplier == nil {
			supplier = &probe
		}
	case analysis.SupplierID != nil:
		for i := range suppliers {
			if suppliers[i].ID == *analysis.SupplierID {
				supplier = &suppliers[i]
				break
			}
		}
	}
	if supplier == nil {
		probe := model.Supplier{Name: analysis.SuggestedSupplierName, TaxID: in.SupplierTax, Active: true}
		if supplier = findByIdentity(suppliers, probe); supplier == nil {
			supplier = &probe
		}
	}
	result.SupplierCreated = supplier.ID == ""
	if result.SupplierCreated {
		if err := c.prepareSupplier(supplier); err != nil {
			return nil, err
		}
		supplier.ID = model.GenerateID(model.PrefixSupplier)
	}

	category := DefaultCategory
	switch {
	case in.Category != nil && *in.Category != "":
		category = *in.Category
	case analysis.Category != nil:
		category = *analysis.Category
	}
	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate = c.Today()
	}
	candidate := model.PayableObligation{
		CompanyID:   in.CompanyID,
		SupplierID:  supplier.ID,
		Description: in.Description,
		Amount:      in.Amount.Abs(),
		DueDate:     dueDate,
		Category:    category,
	}
	if err := c.prepareObligation(&candidate); err != nil {
		return nil, err
	}

	if result.SupplierCreated {
		if supplier, err = c.createSupplier(ctx, *supplier); err != nil {
			return nil, err
		}
	}
	result.Supplier = *supplier

	obligation, err := c.createObligation(ctx, candidate)
	if err != nil {
		if result.SupplierCreated {
			c.discardRecord(ctx, "", supplier.ID)
		}
		return nil, err
	}
	result.Obligation = *obligation
	return result, nil
}
