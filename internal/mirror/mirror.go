// Package mirror is the spreadsheet side of the dual-ledger design: an
// append-only tabular copy of committed expenses. When the primary ledger is
// not configured it is the store of record; otherwise the reconciliation
// engine keeps it eventually consistent.
package mirror

import (
	"context"
	"strconv"

	"github.com/jwrobel/budzetnik/internal/expense"
	"github.com/jwrobel/budzetnik/internal/format"
)

// Ledger is the set of operations the core invokes against the mirror.
// Positions are 1-based row numbers; Append reports each record's position
// as the sheet's row count immediately after that append. That is only
// correct while appends from this process are serialized — concurrent
// external edits to the sheet can desynchronize recorded positions, a known
// hazard this code does not try to detect.
type Ledger interface {
	Append(ctx context.Context, rows [][]string) ([]int64, error)
	// DeleteRows removes rows by position, highest first, so earlier
	// deletions do not shift the later ones.
	DeleteRows(ctx context.Context, positions []int64) error
	AllRows(ctx context.Context) ([][]string, error)
}

// BuildRow lays out one expense as the 8 mirror columns: date, amount with
// a decimal comma, category, subcategory, description, original raw text,
// month name, day number.
func BuildRow(rec expense.Record, originalText string) []string {
	d := rec.DateValue()
	return []string{
		rec.Date,
		format.SheetAmount(rec.Amount),
		rec.Category,
		rec.Subcategory,
		rec.Description,
		originalText,
		format.MonthName(d.Month()),
		strconv.Itoa(d.Day()),
	}
}
