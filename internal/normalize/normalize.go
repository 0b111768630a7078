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

// Package normalize holds the text helpers used to compare names, tax ids and
// free-text descriptions regardless of accents, case or spacing.
package normalize

import (
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize decomposes text (NFD), drops combining marks, lowercases it and
// collapses runs of whitespace into a single space.
func Normalize(text string) string {
	// transform.Chain keeps internal state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// DigitsOnly strips every character that is not an ASCII digit.
func DigitsOnly(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExactNameMatch reports whether two names are equal after normalization.
func ExactNameMatch(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// HasDigit reports whether s contains at least one ASCII digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}

// Similarity returns a 0..1 ratio between two strings after normalization,
// derived from their Levenshtein distance.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(na), []rune(nb), levenshtein.DefaultOptions)
}

// Words splits normalized text into tokens longer than minLen runes.
func Words(text string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(Normalize(text)) {
		if len([]rune(w)) > minLen {
			out = append(out, w)
		}
	}
	return out
}
