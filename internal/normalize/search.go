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

import "strings"

// SearchFields are the searchable attributes of an entity.
type SearchFields struct {
	Name     string
	Document string
	Email    string
	Phone    string
}

// SearchEntities filters list by query.
//
// An empty query returns the whole list. When at least one entry's name is an
// exact normalized match for the query, only those entries are returned.
// Otherwise an entry is kept when every whitespace-separated term of the
// query matches any of its fields.
func SearchEntities[T any](list []T, query string, fields func(T) SearchFields) []T {
	q := Normalize(query)
	if q == "" {
		return list
	}

	var exact []T
	for _, item := range list {
		if Normalize(fields(item).Name) == q {
			exact = append(exact, item)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	terms := strings.Fields(q)
	var out []T
	for _, item := range list {
		f := fields(item)
		if matchesAllTerms(terms, f) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAllTerms(terms []string, f SearchFields) bool {
	name := Normalize(f.Name)
	doc := Normalize(f.Document)
	docDigits := DigitsOnly(f.Document)
	email := Normalize(f.Email)
	phoneDigits := DigitsOnly(f.Phone)

	for _, term := range terms {
		termDigits := DigitsOnly(term)
		hasDigits := termDigits != ""

		switch {
		case strings.Contains(name, term):
		case hasDigits && docDigits != "" && strings.Contains(docDigits, termDigits):
		case doc != "" && strings.Contains(doc, term):
		case email != "" && strings.Contains(email, term):
		case hasDigits && phoneDigits != "" && strings.Contains(phoneDigits, termDigits):
		default:
			return false
		}
	}
	return true
}
