package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/i18n"
)

func (e *env) reporter() *Reporter {
	return &Reporter{
		Users: e.users, Expenses: e.expenses, Budgets: e.budgets, Incomes: e.incomes,
		Now: func() time.Time { return day("2026-09-15") },
	}
}

func seedExpense(t *testing.T, e *env, userID int64, amount, date, category, subcategory, desc string) {
	t.Helper()
	d := day(date)
	_, err := e.expenses.Insert(e.ctx, repository.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Category:    category,
		Subcategory: subcategory,
		Description: desc,
		MonthName:   map[time.Month]string{
			time.August: "Sierpień", time.September: "Wrzesień",
		}[d.Month()],
	})
	require.NoError(t, err)
}

func TestSummaryGroupsByCategory(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	seedExpense(t, e, userID, "50", "2026-09-01", "Jedzenie", "Jedzenie dom", "biedronka")
	seedExpense(t, e, userID, "30", "2026-09-02", "Jedzenie", "Jedzenie miasto", "obiad")
	seedExpense(t, e, userID, "250", "2026-09-03", "Transport", "Paliwo do auta", "orlen")
	seedExpense(t, e, userID, "100", "2026-08-20", "Jedzenie", "Jedzenie dom", "sierpniowe")

	out, err := e.reporter().Summary(e.ctx, 7, "wrzesień")
	require.NoError(t, err)
	require.Contains(t, out, "Wrzesień")
	require.Contains(t, out, "Transport: 250.00 PLN")
	require.Contains(t, out, "Jedzenie: 80.00 PLN")
	require.Contains(t, out, "Jedzenie dom: 50.00 PLN")
	require.NotContains(t, out, "sierpniowe")
	// largest category first
	require.Less(t, indexOf(out, "Transport"), indexOf(out, "Jedzenie:"))
}

func TestSummaryNoData(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	out, err := e.reporter().Summary(e.ctx, 7, "maj")
	require.NoError(t, err)
	require.Equal(t, i18n.T("summary_no_data", "Maj"), out)
}

func TestSummaryUnknownMonth(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	out, err := e.reporter().Summary(e.ctx, 7, "brzęczyszczykiewicz")
	require.NoError(t, err)
	require.Equal(t, i18n.T("month_not_recognized"), out)
}

func TestBalanceNetsIncomeAgainstExpenses(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	seedExpense(t, e, userID, "300", "2026-09-05", "Jedzenie", "Jedzenie dom", "zakupy")
	_, err = e.incomes.Insert(e.ctx, repository.Income{
		UserID: userID, Amount: decimal.RequireFromString("5000"),
		Source: "wypłata", Date: "2026-09-01",
	})
	require.NoError(t, err)

	out, err := e.reporter().Balance(e.ctx, 7, "")
	require.NoError(t, err)
	require.Contains(t, out, "5000.00")
	require.Contains(t, out, "300.00")
	require.Contains(t, out, "4700.00")
}

func TestSearchCapsAtTwenty(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		seedExpense(t, e, userID, "10", "2026-09-01", "Jedzenie", "Jedzenie dom", "kawa")
	}

	out, err := e.reporter().Search(e.ctx, 7, "kawa")
	require.NoError(t, err)
	require.Contains(t, out, "20. ")
	require.NotContains(t, out, "21. ")
}

func TestExportCSV(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	seedExpense(t, e, userID, "50", "2026-09-01", "Jedzenie", "Jedzenie dom", "biedronka")
	seedExpense(t, e, userID, "35", "2026-09-02", "Opieka zdrowotna", "Lekarstwa", "apteka")

	var buf bytes.Buffer
	n, err := e.reporter().ExportCSV(e.ctx, 7, "wrzesień", &buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 rows
	require.Equal(t, []string{"date", "amount", "category", "subcategory", "description"}, rows[0])
	require.Equal(t, []string{"2026-09-01", "50.00", "Jedzenie", "Jedzenie dom", "biedronka"}, rows[1])
}

func TestSumForMonthStaysExact(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	// amounts chosen so a float sum would carry binary-fraction error
	seedExpense(t, e, userID, "0.10", "2026-09-01", "Jedzenie", "Jedzenie dom", "a")
	seedExpense(t, e, userID, "0.20", "2026-09-02", "Jedzenie", "Jedzenie dom", "b")
	seedExpense(t, e, userID, "0.30", "2026-09-03", "Jedzenie", "Jedzenie miasto", "c")

	cat := "Jedzenie"
	sum, err := e.expenses.SumForMonth(e.ctx, userID, "Wrzesień", &cat)
	require.NoError(t, err)
	require.Equal(t, "0.6", sum.String())

	overall, err := e.expenses.SumForMonth(e.ctx, userID, "Wrzesień", nil)
	require.NoError(t, err)
	require.True(t, sum.Equal(overall))

	empty, err := e.expenses.SumForMonth(e.ctx, userID, "Styczeń", nil)
	require.NoError(t, err)
	require.True(t, empty.IsZero())
}

func TestBudgetReportShowsUsage(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	userID, err := e.users.GetOrCreate(e.ctx, 7, "")
	require.NoError(t, err)
	seedExpense(t, e, userID, "400", "2026-09-05", "Jedzenie", "Jedzenie dom", "zakupy")

	cat := "Jedzenie"
	require.NoError(t, e.budgets.Upsert(e.ctx, userID, &cat, decimal.RequireFromString("500")))
	require.NoError(t, e.budgets.Upsert(e.ctx, userID, nil, decimal.RequireFromString("3000")))

	out, err := e.reporter().BudgetReport(e.ctx, 7)
	require.NoError(t, err)
	require.Contains(t, out, "Jedzenie: 400.00 / 500.00 PLN (80%)")
	require.Contains(t, out, i18n.T("budget_total_label")+": 400.00 / 3000.00 PLN")
	// overall budget renders first
	require.Less(t, indexOf(out, i18n.T("budget_total_label")), indexOf(out, "Jedzenie:"))
}

func indexOf(s, sub string) int {
	return bytes.Index([]byte(s), []byte(sub))
}
