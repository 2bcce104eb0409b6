package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/expense"
	"github.com/jwrobel/budzetnik/internal/mirror"
)

// Syncer repairs the mirror after commit-time append failures. Rows are
// pushed one at a time, oldest first, so a single bad row never blocks the
// rest and mirror order tracks commit order.
type Syncer struct {
	Expenses *repository.ExpenseRepo
	Mirror   mirror.Ledger
	Log      zerolog.Logger
}

// SyncReport summarizes one reconciliation pass.
type SyncReport struct {
	Status string // "ok" or "skipped"
	Before int    // unsynced rows before the pass
	Synced int    // rows delivered this pass
	After  int    // unsynced rows remaining
}

// SyncUnsynced pushes every unsynced primary row to the mirror and marks it
// synced with the position the append reported. Per-row failures are logged
// and skipped; the row stays unsynced for the next pass.
func (s *Syncer) SyncUnsynced(ctx context.Context) (int, error) {
	if s.Expenses == nil || s.Mirror == nil {
		return 0, nil
	}
	pending, err := s.Expenses.Unsynced(ctx)
	if err != nil {
		return 0, err
	}
	var synced int
	for _, e := range pending {
		rec := expense.Record{
			Amount:      e.Amount,
			Date:        e.Date,
			Category:    e.Category,
			Subcategory: e.Subcategory,
			Description: e.Description,
		}
		positions, err := s.Mirror.Append(ctx, [][]string{mirror.BuildRow(rec, e.OriginalText)})
		if err != nil || len(positions) == 0 {
			s.Log.Warn().Err(err).Int64("expense_id", e.ID).Msg("sync append failed, will retry")
			continue
		}
		if err := s.Expenses.MarkSynced(ctx, e.ID, positions[0]); err != nil {
			s.Log.Warn().Err(err).Int64("expense_id", e.ID).Msg("mark synced failed")
			continue
		}
		synced++
	}
	if synced > 0 {
		s.Log.Info().Int("synced", synced).Msg("mirror reconciliation pass")
	}
	return synced, nil
}

// FullReconciliation runs one pass and reports before and after counts.
// When either ledger is missing the report says skipped rather than failing,
// so the periodic job stays quiet in single-ledger deployments.
func (s *Syncer) FullReconciliation(ctx context.Context) (SyncReport, error) {
	if s.Expenses == nil || s.Mirror == nil {
		return SyncReport{Status: "skipped"}, nil
	}
	before, err := s.Expenses.CountUnsynced(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	synced, err := s.SyncUnsynced(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	after, err := s.Expenses.CountUnsynced(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	return SyncReport{Status: "ok", Before: before, Synced: synced, After: after}, nil
}
