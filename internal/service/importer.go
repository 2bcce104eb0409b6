package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/mirror"
)

// Importer backfills the primary ledger from the mirror, for migrating a
// mirror-only deployment onto a database.
type Importer struct {
	Users    *repository.UserRepo
	Expenses *repository.ExpenseRepo
	Mirror   mirror.Ledger
	Log      zerolog.Logger
}

// ImportReport summarizes one import run.
type ImportReport struct {
	Rows     int // rows seen in the mirror
	Imported int
	Skipped  int // rows that did not parse as expenses
}

// ImportAll reads every mirror row and inserts it as an already-synced
// expense with its mirror position recorded. Unparseable rows (headers,
// manual notes) are counted and skipped. The caller is expected to run this
// against an empty expenses table; rows are not deduplicated.
func (im *Importer) ImportAll(ctx context.Context, requesterID int64) (ImportReport, error) {
	var rep ImportReport
	rows, err := im.Mirror.AllRows(ctx)
	if err != nil {
		return rep, err
	}
	rep.Rows = len(rows)
	userID, err := im.Users.GetOrCreate(ctx, requesterID, "")
	if err != nil {
		return rep, err
	}
	for i, row := range rows {
		pos := int64(i + 1)
		e, ok := parseMirrorRow(row)
		if !ok {
			rep.Skipped++
			continue
		}
		e.UserID = userID
		e.SyncedToMirror = true
		e.MirrorRow = &pos
		if _, err := im.Expenses.Insert(ctx, e); err != nil {
			im.Log.Error().Err(err).Int64("row", pos).Msg("import mirror row")
			rep.Skipped++
			continue
		}
		rep.Imported++
	}
	return rep, nil
}

// parseMirrorRow reverses the 8-column mirror layout. Short rows and rows
// whose amount or date do not parse are rejected.
func parseMirrorRow(row []string) (repository.Expense, bool) {
	if len(row) < 5 {
		return repository.Expense{}, false
	}
	amount, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(row[1]), ",", ".", 1))
	if err != nil || !amount.IsPositive() {
		return repository.Expense{}, false
	}
	date := strings.TrimSpace(row[0])
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return repository.Expense{}, false
	}
	e := repository.Expense{
		Amount:      amount,
		Date:        date,
		Category:    strings.TrimSpace(row[2]),
		Subcategory: strings.TrimSpace(row[3]),
		Description: strings.TrimSpace(row[4]),
	}
	if len(row) > 5 {
		e.OriginalText = row[5]
	}
	if len(row) > 6 {
		e.MonthName = strings.TrimSpace(row[6])
	}
	return e, true
}
