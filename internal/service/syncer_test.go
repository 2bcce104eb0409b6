package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/shopspring/decimal"
)

func insertUnsynced(t *testing.T, e *env, userID int64, desc string) int64 {
	t.Helper()
	id, err := e.expenses.Insert(e.ctx, repository.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString("10"),
		Date:        "2026-09-01",
		Category:    "Jedzenie",
		Subcategory: "Jedzenie dom",
		Description: desc,
		MonthName:   "Wrzesień",
	})
	require.NoError(t, err)
	return id
}

func TestSyncUnsyncedConverges(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	insertUnsynced(t, e, userID, "a")
	insertUnsynced(t, e, userID, "b")
	insertUnsynced(t, e, userID, "c")

	s := &Syncer{Expenses: e.expenses, Mirror: e.ledger, Log: zerolog.Nop()}

	n, err := s.SyncUnsynced(e.ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, e.ledger.len())

	left, err := e.expenses.CountUnsynced(e.ctx)
	require.NoError(t, err)
	require.Equal(t, 0, left)

	// a second pass must not append anything again
	n, err = s.SyncUnsynced(e.ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, 3, e.ledger.len())
}

func TestSyncRecordsMirrorPositions(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	first := insertUnsynced(t, e, userID, "a")
	second := insertUnsynced(t, e, userID, "b")

	s := &Syncer{Expenses: e.expenses, Mirror: e.ledger, Log: zerolog.Nop()}
	_, err = s.SyncUnsynced(e.ctx)
	require.NoError(t, err)

	a, err := e.expenses.Get(e.ctx, first)
	require.NoError(t, err)
	require.NotNil(t, a.MirrorRow)
	require.Equal(t, int64(1), *a.MirrorRow)

	b, err := e.expenses.Get(e.ctx, second)
	require.NoError(t, err)
	require.NotNil(t, b.MirrorRow)
	require.Equal(t, int64(2), *b.MirrorRow)
}

func TestSyncTolerantOfMirrorOutage(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	insertUnsynced(t, e, userID, "a")

	e.ledger.failAppend = true
	s := &Syncer{Expenses: e.expenses, Mirror: e.ledger, Log: zerolog.Nop()}

	n, err := s.SyncUnsynced(e.ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// mirror recovers, the row goes through on the next pass
	e.ledger.failAppend = false
	n, err = s.SyncUnsynced(e.ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestFullReconciliationReport(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	insertUnsynced(t, e, userID, "a")
	insertUnsynced(t, e, userID, "b")

	s := &Syncer{Expenses: e.expenses, Mirror: e.ledger, Log: zerolog.Nop()}
	rep, err := s.FullReconciliation(e.ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", rep.Status)
	require.Equal(t, 2, rep.Before)
	require.Equal(t, 2, rep.Synced)
	require.Equal(t, 0, rep.After)
}

func TestFullReconciliationSkippedWithoutMirror(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	s := &Syncer{Expenses: e.expenses, Log: zerolog.Nop()}
	rep, err := s.FullReconciliation(e.ctx)
	require.NoError(t, err)
	require.Equal(t, "skipped", rep.Status)
}
