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
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jerry-enebeli/caixa/internal/apierror"
	"github.com/jerry-enebeli/caixa/internal/notification"
	"github.com/jerry-enebeli/caixa/internal/normalize"
	"github.com/jerry-enebeli/caixa/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	amountWeight     = 0.5
	dateWeight       = 0.3
	similarityWeight = 0.2
)

// Divergence is the absolute difference between the absolute amounts of a
// bank movement and a system entry, rounded to cents.
func Divergence(movementAmount, entryAmount decimal.Decimal) decimal.Decimal {
	return model.RoundMoney(movementAmount.Abs().Sub(entryAmount.Abs()).Abs())
}

// Reconcile links a bank movement to a system entry. The link is matched
// when the amounts agree to the cent and divergent otherwise.
func (c *Caixa) Reconcile(ctx context.Context, bankMovementID, systemEntryID string, notes *string) (*model.Reconciliation, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	movement, err := c.datasource.GetBankMovementByID(ctx, bankMovementID)
	if err != nil {
		return nil, err
	}
	entry, err := c.datasource.GetSystemEntryByID(ctx, systemEntryID)
	if err != nil {
		return nil, err
	}
	rec, err := c.reconcile(ctx, *movement, *entry, notes)
	if err != nil {
		return nil, err
	}
	c.notify(notification.Event{
		Kind:    notification.KindReconciled,
		Message: fmt.Sprintf("movement %s reconciled (%s)", movement.ID, rec.Status),
		Fields: map[string]interface{}{
			"reconciliation_id": rec.ID,
			"status":            string(rec.Status),
		},
	})
	return rec, nil
}

func newReconciliation(movement model.BankMovement, entry model.SystemEntry, notes *string, stamp func() model.Reconciliation) model.Reconciliation {
	rec := stamp()
	rec.BankMovementID = movement.ID
	rec.SystemEntryID = entry.ID
	rec.Notes = notes
	divergence := Divergence(movement.Amount, entry.Amount)
	if divergence.IsZero() {
		rec.Status = model.ReconciliationMatched
	} else {
		rec.Status = model.ReconciliationDivergent
	}
	rec.DivergenceAmount = &divergence
	return rec
}

func (c *Caixa) stamp() model.Reconciliation {
	now := c.Today()
	return model.Reconciliation{
		ID:           model.GenerateID(model.PrefixReconciliation),
		ReconciledAt: now,
		CreatedAt:    now,
	}
}

func (c *Caixa) reconcile(ctx context.Context, movement model.BankMovement, entry model.SystemEntry, notes *string) (*model.Reconciliation, error) {
	existing, err := c.datasource.GetReconciliationByPair(ctx, movement.ID, entry.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict(fmt.Sprintf("movement %s is already reconciled with entry %s", movement.ID, entry.ID))
	}

	rec := newReconciliation(movement, entry, notes, c.stamp)
	created, err := c.datasource.RecordReconciliation(ctx, rec)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Unreconcile removes exactly one link. Both linked records stay untouched.
func (c *Caixa) Unreconcile(ctx context.Context, reconciliationID string) error {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.datasource.GetReconciliationByID(ctx, reconciliationID); err != nil {
		return err
	}
	return c.datasource.DeleteReconciliation(ctx, reconciliationID)
}

func (c *Caixa) GetReconciliation(ctx context.Context, id string) (*model.Reconciliation, error) {
	return c.datasource.GetReconciliationByID(ctx, id)
}

func (c *Caixa) ListReconciliations(ctx context.Context) ([]model.Reconciliation, error) {
	return c.datasource.GetAllReconciliations(ctx)
}

func validateDrift(criteria model.MatchingCriteria) error {
	if criteria.AmountDrift < 0 || criteria.AmountDrift > 100 {
		return errors.New("drift for amount must be between 0 and 100 (percentage)")
	}
	if criteria.DateDriftDays < 0 {
		return errors.New("drift for date must be non-negative (days)")
	}
	if criteria.MinDescriptionSimilarity < 0 || criteria.MinDescriptionSimilarity > 1 {
		return errors.New("minimum description similarity must be between 0 and 1")
	}
	return nil
}

// reconciledSets returns the ids of movements and entries that already take
// part in a reconciliation.
func (c *Caixa) reconciledSets(ctx context.Context) (map[string]struct{}, map[string]struct{}, []model.Reconciliation, error) {
	recs, err := c.datasource.GetAllReconciliations(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	movements := make(map[string]struct{}, len(recs))
	entries := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		movements[r.BankMovementID] = struct{}{}
		entries[r.SystemEntryID] = struct{}{}
	}
	return movements, entries, recs, nil
}

// SuggestMatches ranks the unreconciled system entries that could be the
// counterpart of a bank movement, best first.
func (c *Caixa) SuggestMatches(ctx context.Context, bankMovementID string, criteria model.MatchingCriteria) ([]model.MatchCandidate, error) {
	if err := validateDrift(criteria); err != nil {
		return nil, apierror.Invalid(err.Error(), nil)
	}
	movement, err := c.datasource.GetBankMovementByID(ctx, bankMovementID)
	if err != nil {
		return nil, err
	}
	entries, err := c.datasource.GetAllSystemEntries(ctx)
	if err != nil {
		return nil, err
	}
	_, reconciled, _, err := c.reconciledSets(ctx)
	if err != nil {
		return nil, err
	}
	return rankCandidates(*movement, entries, reconciled, criteria), nil
}

func rankCandidates(movement model.BankMovement, entries []model.SystemEntry, exclude map[string]struct{}, criteria model.MatchingCriteria) []model.MatchCandidate {
	amount := movement.Amount.Abs()
	allowed := amount.Mul(decimal.NewFromFloat(criteria.AmountDrift)).Div(decimal.NewFromInt(100))

	var candidates []model.MatchCandidate
	for _, entry := range entries {
		if _, taken := exclude[entry.ID]; taken {
			continue
		}
		if entry.Direction != movement.Direction {
			continue
		}
		diff := Divergence(movement.Amount, entry.Amount)
		if diff.GreaterThan(allowed) {
			continue
		}
		days := dayDistance(movement, entry)
		if days > criteria.DateDriftDays {
			continue
		}
		similarity := normalize.Similarity(movement.Description, entry.Description)
		if criteria.MinDescriptionSimilarity > 0 && similarity < criteria.MinDescriptionSimilarity {
			continue
		}

		amountScore := 1.0
		if amount.IsPositive() {
			ratio, _ := diff.Div(amount).Float64()
			amountScore = 1 - ratio
		}
		dateScore := 1 - float64(days)/float64(criteria.DateDriftDays+1)
		candidates = append(candidates, model.MatchCandidate{
			SystemEntry: entry,
			AmountDiff:  diff,
			DayDiff:     days,
			Similarity:  similarity,
			Score:       amountWeight*amountScore + dateWeight*dateScore + similarityWeight*similarity,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].DayDiff < candidates[j].DayDiff
	})
	return candidates
}

func dayDistance(movement model.BankMovement, entry model.SystemEntry) int {
	d := model.Day(movement.Date).Sub(model.Day(entry.Date))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// AutoReconcile links every unreconciled movement of an account to its best
// candidate. Movements whose two best candidates score the same are left
// for a person to decide. An entry is never linked twice. With dryRun the
// links are returned but not stored.
func (c *Caixa) AutoReconcile(ctx context.Context, bankAccountID string, criteria model.MatchingCriteria, dryRun bool) (*model.AutoReconcileResult, error) {
	if err := validateDrift(criteria); err != nil {
		return nil, apierror.Invalid(err.Error(), nil)
	}

	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if bankAccountID != "" {
		if _, err := c.datasource.GetBankAccountByID(ctx, bankAccountID); err != nil {
			return nil, err
		}
	}
	movements, err := c.datasource.GetAllBankMovements(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	entries, err := c.datasource.GetAllSystemEntries(ctx)
	if err != nil {
		return nil, err
	}
	doneMovements, usedEntries, _, err := c.reconciledSets(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.AutoReconcileResult{DryRun: dryRun}
	for _, movement := range movements {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, done := doneMovements[movement.ID]; done {
			continue
		}
		candidates := rankCandidates(movement, entries, usedEntries, criteria)
		switch {
		case len(candidates) == 0:
			result.Unmatched = append(result.Unmatched, movement.ID)
			continue
		case len(candidates) > 1 && candidates[0].Score == candidates[1].Score:
			logrus.WithField("bank_movement_id", movement.ID).Debugf("ambiguous candidates: %s", describeCandidates(candidates[:2]))
			result.Ambiguous = append(result.Ambiguous, movement.ID)
			continue
		}

		best := candidates[0].SystemEntry
		var rec model.Reconciliation
		if dryRun {
			rec = newReconciliation(movement, best, nil, c.stamp)
		} else {
			created, err := c.reconcile(ctx, movement, best, nil)
			if err != nil {
				return result, err
			}
			rec = *created
		}
		usedEntries[best.ID] = struct{}{}
		result.Reconciliations = append(result.Reconciliations, rec)
	}

	logrus.WithFields(logrus.Fields{
		"bank_account_id": bankAccountID,
		"linked":          len(result.Reconciliations),
		"unmatched":       len(result.Unmatched),
		"ambiguous":       len(result.Ambiguous),
		"dry_run":         dryRun,
	}).Info("auto reconciliation finished")
	if !dryRun && len(result.Reconciliations) > 0 {
		c.notify(notification.Event{
			Kind:    notification.KindAutoReconciled,
			Message: fmt.Sprintf("%d movements reconciled automatically", len(result.Reconciliations)),
			Fields: map[string]interface{}{
				"linked":    len(result.Reconciliations),
				"unmatched": len(result.Unmatched),
				"ambiguous": len(result.Ambiguous),
			},
		})
	}
	return result, nil
}

// ReconciliationSummary counts what is and is not reconciled. An empty
// bankAccountID covers every account; entries are always counted globally.
func (c *Caixa) ReconciliationSummary(ctx context.Context, bankAccountID string) (*model.ReconciliationSummary, error) {
	movements, err := c.datasource.GetAllBankMovements(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	entries, err := c.datasource.GetAllSystemEntries(ctx)
	if err != nil {
		return nil, err
	}
	doneMovements, doneEntries, recs, err := c.reconciledSets(ctx)
	if err != nil {
		return nil, err
	}

	inScope := make(map[string]struct{}, len(movements))
	summary := &model.ReconciliationSummary{TotalDivergence: decimal.Zero}
	for _, m := range movements {
		inScope[m.ID] = struct{}{}
		if _, ok := doneMovements[m.ID]; ok {
			summary.ReconciledMovements++
		} else {
			summary.UnreconciledMovements++
		}
	}
	for _, e := range entries {
		if _, ok := doneEntries[e.ID]; ok {
			summary.ReconciledEntries++
		} else {
			summary.UnreconciledEntries++
		}
	}

	var divergences []decimal.Decimal
	for _, r := range recs {
		if _, ok := inScope[r.BankMovementID]; !ok {
			continue
		}
		switch r.Status {
		case model.ReconciliationMatched:
			summary.Matched++
		case model.ReconciliationDivergent:
			summary.Divergent++
		}
		if r.DivergenceAmount != nil {
			divergences = append(divergences, *r.DivergenceAmount)
		}
	}
	summary.TotalDivergence = model.SumMoney(divergences...)
	return summary, nil
}

func describeCandidates(candidates []model.MatchCandidate) string {
	parts := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		parts = append(parts, fmt.Sprintf("%s(%.2f)", cand.SystemEntry.ID, cand.Score))
	}
	return strings.Join(parts, ", ")
}
