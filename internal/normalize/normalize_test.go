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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "uppercase", input: "ENERGISA", expected: "energisa"},
		{name: "accent", input: "Énergisa", expected: "energisa"},
		{name: "cedilla and tilde", input: "Açougue São João", expected: "acougue sao joao"},
		{name: "whitespace", input: "  Posto   Ipiranga \t LTDA ", expected: "posto ipiranga ltda"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	assert.Equal(t, Normalize("ENERGISA"), Normalize("Energisa"))
	assert.Equal(t, Normalize("Energisa"), Normalize("Énergisa"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12345678000190", DigitsOnly("12.345.678/0001-90"))
	assert.Equal(t, "65999998888", DigitsOnly("(65) 99999-8888"))
	assert.Equal(t, "", DigitsOnly("sem numero"))
}

func TestExactNameMatch(t *testing.T) {
	assert.True(t, ExactNameMatch("João Silva", "JOAO  SILVA"))
	assert.False(t, ExactNameMatch("João Silva", "João Silva Neto"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Energisa", "ENERGISA"))
	assert.Equal(t, 0.0, Similarity("", "energisa"))
	assert.Greater(t, Similarity("PIX ENERGISA MT", "PIX ENERGISA"), 0.7)
	assert.Less(t, Similarity("aluguel", "energisa"), 0.5)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"posto", "ipiranga"}, Words("Posto de Ipiranga", 2))
	assert.Nil(t, Words("a de", 2))
}
