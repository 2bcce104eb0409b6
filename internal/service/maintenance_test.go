package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jwrobel/budzetnik/internal/database/repository"
)

func TestResetWipesLedgerData(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	insertUnsynced(t, e, userID, "a")
	_, err = e.incomes.Insert(e.ctx, repository.Income{
		UserID: userID, Amount: decimal.RequireFromString("100"),
		Source: "wypłata", Date: "2026-09-01",
	})
	require.NoError(t, err)

	svc := &MaintenanceService{DB: e.db}
	require.NoError(t, svc.Reset(e.ctx))

	var users, expenses, incomes int
	require.NoError(t, e.db.QueryRowContext(e.ctx, "SELECT COUNT(*) FROM users").Scan(&users))
	require.NoError(t, e.db.QueryRowContext(e.ctx, "SELECT COUNT(*) FROM expenses").Scan(&expenses))
	require.NoError(t, e.db.QueryRowContext(e.ctx, "SELECT COUNT(*) FROM income").Scan(&incomes))
	require.Zero(t, users)
	require.Zero(t, expenses)
	require.Zero(t, incomes)
}

func TestResetWithoutDB(t *testing.T) {
	t.Parallel()
	svc := &MaintenanceService{}
	require.Error(t, svc.Reset(t.Context()))
}
