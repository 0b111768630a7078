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
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jerry-enebeli/caixa/internal/normalize"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type SupplierKind string

const (
	SupplierIndividual SupplierKind = "individual"
	SupplierCompany    SupplierKind = "company"
)

type Supplier struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	TaxID     string       `json:"tax_id"`
	Kind      SupplierKind `json:"kind"`
	Email     *string      `json:"email,omitempty"`
	Phone     *string      `json:"phone,omitempty"`
	Address   *string      `json:"address,omitempty"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IdentityKey is the digits of the tax id, or the normalized name when the
// tax id carries no digits.
func (s Supplier) IdentityKey() string {
	if digits := normalize.DigitsOnly(s.TaxID); digits != "" {
		return digits
	}
	return normalize.Normalize(s.Name)
}

// SearchFields exposes the attributes used by supplier search.
func (s Supplier) SearchFields() normalize.SearchFields {
	f := normalize.SearchFields{Name: s.Name, Document: s.TaxID}
	if s.Email != nil {
		f.Email = *s.Email
	}
	if s.Phone != nil {
		f.Phone = *s.Phone
	}
	return f
}

// KindFromTaxID guesses the supplier kind from the length of its tax id:
// 11 digits is an individual (CPF), anything else a company.
func KindFromTaxID(taxID string) SupplierKind {
	if len(normalize.DigitsOnly(taxID)) == 11 {
		return SupplierIndividual
	}
	return SupplierCompany
}

func (s *Supplier) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Kind, validation.Required, validation.In(SupplierIndividual, SupplierCompany)),
		validation.Field(&s.Email, validation.NilOrNotEmpty, validation.Match(emailPattern).Error("must be a valid email address")),
	)
}

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
	)
}
