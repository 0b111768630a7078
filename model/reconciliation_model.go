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
	"time"

	"github.com/shopspring/decimal"
)

type ReconciliationStatus string

const (
	ReconciliationMatched   ReconciliationStatus = "matched"
	ReconciliationDivergent ReconciliationStatus = "divergent"
)

// Reconciliation links one bank movement to one system entry.
type Reconciliation struct {
	ID               string               `json:"id"`
	BankMovementID   string               `json:"bank_movement_id"`
	SystemEntryID    string               `json:"system_entry_id"`
	Status           ReconciliationStatus `json:"status"`
	DivergenceAmount *decimal.Decimal     `json:"divergence_amount,omitempty"`
	Notes            *string              `json:"notes,omitempty"`
	ReconciledAt     time.Time            `json:"reconciled_at"`
	CreatedAt        time.Time            `json:"created_at"`
}

// MatchingCriteria bounds how far a system entry may drift from a bank
// movement and still be suggested as its counterpart.
type MatchingCriteria struct {
	// AmountDrift is a percentage (0-100) of the movement amount.
	AmountDrift float64 `json:"amount_drift"`
	// DateDriftDays is the allowed distance in days between the two dates.
	DateDriftDays int `json:"date_drift_days"`
	// MinDescriptionSimilarity is a 0-1 ratio. Zero disables the check.
	MinDescriptionSimilarity float64 `json:"min_description_similarity"`
}

// DefaultMatchingCriteria requires equal amounts within three days.
func DefaultMatchingCriteria() MatchingCriteria {
	return MatchingCriteria{AmountDrift: 0, DateDriftDays: 3}
}

// MatchCandidate is a system entry proposed for a bank movement.
type MatchCandidate struct {
	SystemEntry SystemEntry     `json:"system_entry"`
	AmountDiff  decimal.Decimal `json:"amount_diff"`
	DayDiff     int             `json:"day_diff"`
	Similarity  float64         `json:"similarity"`
	Score       float64         `json:"score"`
}

type AutoReconcileResult struct {
	DryRun          bool             `json:"dry_run"`
	Reconciliations []Reconciliation `json:"reconciliations"`
	Unmatched       []string         `json:"unmatched"`
	Ambiguous       []string         `json:"ambiguous"`
}

type ReconciliationSummary struct {
	ReconciledMovements   int             `json:"reconciled_movements"`
	UnreconciledMovements int             `json:"unreconciled_movements"`
	ReconciledEntries     int             `json:"reconciled_entries"`
	UnreconciledEntries   int             `json:"unreconciled_entries"`
	Matched               int             `json:"matched"`
	Divergent             int             `json:"divergent"`
	TotalDivergence       decimal.Decimal `json:"total_divergence"`
}
