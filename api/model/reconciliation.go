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

type Reconcile struct {
	BankMovementID string  `json:"bank_movement_id"`
	SystemEntryID  string  `json:"system_entry_id"`
	Notes          *string `json:"notes"`
}

// MatchingCriteria leaves unset fields at their defaults.
type MatchingCriteria struct {
	AmountDrift              *float64 `json:"amount_drift"`
	DateDriftDays            *int     `json:"date_drift_days"`
	MinDescriptionSimilarity *float64 `json:"min_description_similarity"`
}

type SuggestMatches struct {
	BankMovementID string           `json:"bank_movement_id"`
	Criteria       MatchingCriteria `json:"criteria"`
}

type AutoReconcile struct {
	BankAccountID string           `json:"bank_account_id"`
	Criteria      MatchingCriteria `json:"criteria"`
	DryRun        bool             `json:"dry_run"`
}
