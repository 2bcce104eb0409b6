package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func (e *env) manager() *Manager {
	return &Manager{
		Users: e.users, Budgets: e.budgets, Recurring: e.recurring,
		Now: func() time.Time { return day("2026-09-15") },
	}
}

func TestSetBudgetResolvesCategoryPrefix(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	m := e.manager()

	out, err := m.SetBudget(e.ctx, 7, "jedz", decimal.RequireFromString("500"))
	require.NoError(t, err)
	require.Contains(t, out, "Jedzenie")
	require.Contains(t, out, "500.00")

	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	budgets, err := e.budgets.List(e.ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	require.NotNil(t, budgets[0].Category)
	require.Equal(t, "Jedzenie", *budgets[0].Category)

	// setting again replaces the limit instead of adding a row
	_, err = m.SetBudget(e.ctx, 7, "Jedzenie", decimal.RequireFromString("600"))
	require.NoError(t, err)
	budgets, err = e.budgets.List(e.ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	require.True(t, decimal.RequireFromString("600").Equal(budgets[0].MonthlyLimit))
}

func TestSetBudgetTotal(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	m := e.manager()

	_, err := m.SetBudget(e.ctx, 7, "total", decimal.RequireFromString("3000"))
	require.NoError(t, err)

	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	budgets, err := e.budgets.List(e.ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	require.Nil(t, budgets[0].Category)
}

func TestSetBudgetRejectsUnknownCategory(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	_, err := e.manager().SetBudget(e.ctx, 7, "krasnoludki", decimal.RequireFromString("100"))
	require.Error(t, err)
}

func TestRemoveBudget(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	m := e.manager()

	_, err := m.SetBudget(e.ctx, 7, "transport", decimal.RequireFromString("800"))
	require.NoError(t, err)
	_, err = m.RemoveBudget(e.ctx, 7, "transport")
	require.NoError(t, err)

	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	budgets, err := e.budgets.List(e.ctx, userID)
	require.NoError(t, err)
	require.Empty(t, budgets)
}

func TestAddRecurringAnchorsFirstDue(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	m := e.manager()

	dom := 1
	out, err := m.AddRecurring(e.ctx, 7, decimal.RequireFromString("29.99"),
		"Rozrywka", "Kino / Teatr / Vod", "netflix", "monthly", &dom)
	require.NoError(t, err)
	require.Contains(t, out, "netflix")

	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	rules, err := e.recurring.ListActive(e.ctx, userID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	// today is the 15th, so day 1 next fires in October
	require.Equal(t, "2026-10-01", rules[0].NextDue)
}

func TestAddRecurringValidatesInput(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	m := e.manager()

	_, err := m.AddRecurring(e.ctx, 7, decimal.RequireFromString("10"),
		"Jedzenie", "Nie ma takiej", "x", "monthly", nil)
	require.Error(t, err)

	_, err = m.AddRecurring(e.ctx, 7, decimal.RequireFromString("10"),
		"Jedzenie", "Jedzenie dom", "x", "co-drugi-wtorek", nil)
	require.Error(t, err)
}

func TestRemoveRecurringDeactivates(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	m := e.manager()

	_, err := m.AddRecurring(e.ctx, 7, decimal.RequireFromString("50"),
		"Jedzenie", "Jedzenie dom", "zakupy", "weekly", nil)
	require.NoError(t, err)

	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	rules, err := e.recurring.ListActive(e.ctx, userID)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	_, err = m.RemoveRecurring(e.ctx, 7, rules[0].ID)
	require.NoError(t, err)

	rules, err = e.recurring.ListActive(e.ctx, userID)
	require.NoError(t, err)
	require.Empty(t, rules)
}
