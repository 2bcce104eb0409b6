package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/expense"
	"github.com/jwrobel/budzetnik/internal/format"
	"github.com/jwrobel/budzetnik/internal/mirror"
	"github.com/jwrobel/budzetnik/internal/state"
)

var (
	// ErrNothingToUndo means the requester's undo slot is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrMalformedUndo means the slot carried neither primary ids nor
	// mirror positions; it should not occur under correct operation.
	ErrMalformedUndo = errors.New("malformed undo entry")
	// ErrNoLedger means neither ledger is configured.
	ErrNoLedger = errors.New("no ledger configured")
)

// Committer owns the dual-ledger write path and the undo path. The primary
// ledger is the source of truth when configured; the mirror write at commit
// time is best-effort and repaired later by the sync engine.
type Committer struct {
	Users    *repository.UserRepo    // nil when the primary ledger is not configured
	Expenses *repository.ExpenseRepo // nil when the primary ledger is not configured
	Mirror   mirror.Ledger           // nil when the mirror is not configured
	State    *state.Store
	Log      zerolog.Logger
}

// CommitResult carries the identifiers a commit produced.
type CommitResult struct {
	PrimaryIDs []int64
	MirrorRows []int64
}

// Commit writes records to the configured ledger(s) and overwrites the
// requester's undo slot. Primary writes happen first and must all succeed;
// a mirror failure after that is logged and left to reconciliation.
func (c *Committer) Commit(ctx context.Context, requesterID int64, records []expense.Record, originalText string) (CommitResult, error) {
	var res CommitResult

	switch {
	case c.Expenses != nil:
		userID, err := c.Users.GetOrCreate(ctx, requesterID, "")
		if err != nil {
			return res, fmt.Errorf("resolve user: %w", err)
		}
		for _, rec := range records {
			id, err := c.Expenses.Insert(ctx, expenseRow(userID, rec, originalText))
			if err != nil {
				return res, fmt.Errorf("insert expense: %w", err)
			}
			res.PrimaryIDs = append(res.PrimaryIDs, id)
		}
		if c.Mirror != nil {
			rows := make([][]string, len(records))
			for i, rec := range records {
				rows[i] = mirror.BuildRow(rec, originalText)
			}
			positions, err := c.Mirror.Append(ctx, rows)
			if err != nil {
				// the sync engine will deliver these later
				c.Log.Warn().Err(err).Msg("mirror append failed at commit, leaving unsynced")
			}
			for i, pos := range positions {
				if i >= len(res.PrimaryIDs) {
					break
				}
				if err := c.Expenses.MarkSynced(ctx, res.PrimaryIDs[i], pos); err != nil {
					c.Log.Warn().Err(err).Int64("expense_id", res.PrimaryIDs[i]).Msg("mark synced failed")
					continue
				}
				res.MirrorRows = append(res.MirrorRows, pos)
			}
		}

	case c.Mirror != nil:
		rows := make([][]string, len(records))
		for i, rec := range records {
			rows[i] = mirror.BuildRow(rec, originalText)
		}
		positions, err := c.Mirror.Append(ctx, rows)
		if err != nil {
			return res, fmt.Errorf("mirror append: %w", err)
		}
		res.MirrorRows = positions

	default:
		return res, ErrNoLedger
	}

	entry := state.UndoEntry{
		RequesterID: requesterID,
		PrimaryIDs:  res.PrimaryIDs,
		MirrorRows:  res.MirrorRows,
		Records:     records,
	}
	if err := c.State.SaveUndo(ctx, entry); err != nil {
		c.Log.Error().Err(err).Int64("requester", requesterID).Msg("undo entry not saved")
	}
	return res, nil
}

// Undo reverses the requester's most recent commit and clears the slot.
// Returns the number of records reversed. Mirror deletion failure is
// tolerated when the primary deletion succeeded; the primary is the source
// of truth in that configuration.
func (c *Committer) Undo(ctx context.Context, requesterID int64) (int, error) {
	entry, err := c.State.GetUndo(ctx, requesterID)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, ErrNothingToUndo
	}

	var n int
	switch {
	case len(entry.PrimaryIDs) > 0:
		if c.Expenses == nil {
			return 0, fmt.Errorf("undo: primary ids recorded but primary ledger not configured")
		}
		if err := c.Expenses.DeleteByIDs(ctx, entry.PrimaryIDs); err != nil {
			return 0, fmt.Errorf("delete primary rows: %w", err)
		}
		n = len(entry.PrimaryIDs)
		if len(entry.MirrorRows) > 0 && c.Mirror != nil {
			if err := c.Mirror.DeleteRows(ctx, entry.MirrorRows); err != nil {
				c.Log.Warn().Err(err).Msg("mirror undo failed, rows may remain in sheet")
			}
		}

	case len(entry.MirrorRows) > 0:
		if c.Mirror == nil {
			return 0, fmt.Errorf("undo: mirror rows recorded but mirror not configured")
		}
		if err := c.Mirror.DeleteRows(ctx, entry.MirrorRows); err != nil {
			return 0, fmt.Errorf("delete mirror rows: %w", err)
		}
		n = len(entry.MirrorRows)

	default:
		return 0, ErrMalformedUndo
	}

	if err := c.State.DeleteUndo(ctx, requesterID); err != nil {
		return n, err
	}
	return n, nil
}

func expenseRow(userID int64, rec expense.Record, originalText string) repository.Expense {
	return repository.Expense{
		UserID:       userID,
		Amount:       rec.Amount,
		Date:         rec.Date,
		Category:     rec.Category,
		Subcategory:  rec.Subcategory,
		Description:  rec.Description,
		OriginalText: originalText,
		MonthName:    format.MonthName(rec.DateValue().Month()),
	}
}
