package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwrobel/budzetnik/internal/categories"
	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/format"
	"github.com/jwrobel/budzetnik/internal/i18n"
)

// Reporter builds read-only views over the primary ledger. Every method
// requires the primary; surfaces check for nil repos and answer db_required
// before getting here.
type Reporter struct {
	Users    *repository.UserRepo
	Expenses *repository.ExpenseRepo
	Budgets  *repository.BudgetRepo
	Incomes  *repository.IncomeRepo
	Now      func() time.Time
}

func (r *Reporter) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reporter) userID(ctx context.Context, requesterID int64) (int64, error) {
	return r.Users.GetOrCreate(ctx, requesterID, "")
}

// Summary renders the per-category monthly breakdown, largest category
// first, with subcategory lines under each.
func (r *Reporter) Summary(ctx context.Context, requesterID int64, monthQuery string) (string, error) {
	monthName, ok := format.ResolveMonth(monthQuery, r.now())
	if !ok {
		return i18n.T("month_not_recognized"), nil
	}
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	expenses, err := r.Expenses.ByMonth(ctx, userID, monthName)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return i18n.T("summary_no_data", monthName), nil
	}

	type catTotal struct {
		name  string
		total decimal.Decimal
		subs  map[string]decimal.Decimal
	}
	byCat := map[string]*catTotal{}
	total := decimal.Zero
	for _, e := range expenses {
		ct := byCat[e.Category]
		if ct == nil {
			ct = &catTotal{name: e.Category, subs: map[string]decimal.Decimal{}}
			byCat[e.Category] = ct
		}
		ct.total = ct.total.Add(e.Amount)
		ct.subs[e.Subcategory] = ct.subs[e.Subcategory].Add(e.Amount)
		total = total.Add(e.Amount)
	}
	cats := make([]*catTotal, 0, len(byCat))
	for _, ct := range byCat {
		cats = append(cats, ct)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].total.GreaterThan(cats[j].total) })

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i18n.T("summary_title", monthName))
	for _, ct := range cats {
		fmt.Fprintf(&b, "%s %s: %s PLN\n", categories.Emoji(ct.name), ct.name, format.Amount(ct.total))
		subs := make([]string, 0, len(ct.subs))
		for s := range ct.subs {
			subs = append(subs, s)
		}
		sort.Slice(subs, func(i, j int) bool { return ct.subs[subs[i]].GreaterThan(ct.subs[subs[j]]) })
		for _, s := range subs {
			fmt.Fprintf(&b, "   • %s: %s PLN\n", s, format.Amount(ct.subs[s]))
		}
	}
	totalF, _ := total.Float64()
	fmt.Fprintf(&b, "\n%s", i18n.T("summary_total", totalF, len(expenses)))
	return b.String(), nil
}

// Balance renders income minus expenses for one month.
func (r *Reporter) Balance(ctx context.Context, requesterID int64, monthQuery string) (string, error) {
	monthName, ok := format.ResolveMonth(monthQuery, r.now())
	if !ok {
		return i18n.T("month_not_recognized"), nil
	}
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	expenses, err := r.Expenses.ByMonth(ctx, userID, monthName)
	if err != nil {
		return "", err
	}
	start, end := monthBounds(monthName, r.now())
	incomes, err := r.Incomes.ByDateRange(ctx, userID, start, end)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 && len(incomes) == 0 {
		return i18n.T("balance_no_data", monthName), nil
	}
	spent, earned := decimal.Zero, decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}
	for _, in := range incomes {
		earned = earned.Add(in.Amount)
	}
	earnedF, _ := earned.Float64()
	spentF, _ := spent.Float64()
	netF, _ := earned.Sub(spent).Float64()
	return strings.Join([]string{
		i18n.T("balance_title", monthName),
		"",
		i18n.T("balance_income", earnedF),
		i18n.T("balance_expenses", spentF),
		"",
		i18n.T("balance_net", netF),
	}, "\n"), nil
}

// Search lists matching expenses, newest first, capped at 20 rows.
func (r *Reporter) Search(ctx context.Context, requesterID int64, query string) (string, error) {
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	matches, err := r.Expenses.Search(ctx, userID, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return i18n.T("search_no_results", query), nil
	}
	if len(matches) > 20 {
		matches = matches[:20]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i18n.T("search_title", query))
	writeExpenseList(&b, matches)
	return b.String(), nil
}

// Recent lists the newest n expenses.
func (r *Reporter) Recent(ctx context.Context, requesterID int64, n int) (string, error) {
	if n <= 0 {
		n = 10
	}
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	expenses, err := r.Expenses.Recent(ctx, userID, n)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return i18n.T("last_no_data"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i18n.T("last_title", len(expenses)))
	writeExpenseList(&b, expenses)
	return b.String(), nil
}

// ByDateRange lists expenses between two dates inclusive, with a total.
func (r *Reporter) ByDateRange(ctx context.Context, requesterID int64, start, end string) (string, error) {
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	expenses, err := r.Expenses.ByDateRange(ctx, userID, start, end)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return i18n.T("expenses_no_data"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i18n.T("expenses_title", start, end))
	total := writeExpenseList(&b, expenses)
	fmt.Fprintf(&b, "\n💰 %s: %s PLN", i18n.T("total"), format.Amount(total))
	return b.String(), nil
}

// ExportCSV writes one month of expenses as CSV. Returns the number of rows
// written, zero meaning nothing matched.
func (r *Reporter) ExportCSV(ctx context.Context, requesterID int64, monthQuery string, w io.Writer) (int, error) {
	monthName, ok := format.ResolveMonth(monthQuery, r.now())
	if !ok {
		return 0, fmt.Errorf("month not recognized: %q", monthQuery)
	}
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return 0, err
	}
	expenses, err := r.Expenses.ByMonth(ctx, userID, monthName)
	if err != nil {
		return 0, err
	}
	if len(expenses) == 0 {
		return 0, nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "amount", "category", "subcategory", "description"}); err != nil {
		return 0, err
	}
	for _, e := range expenses {
		row := []string{e.Date, format.Amount(e.Amount), e.Category, e.Subcategory, e.Description}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(expenses), cw.Error()
}

// BudgetReport renders every budget with usage for the current month as a
// progress bar. The overall budget, when set, lists first.
func (r *Reporter) BudgetReport(ctx context.Context, requesterID int64) (string, error) {
	userID, err := r.userID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	budgets, err := r.Budgets.List(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(budgets) == 0 {
		return i18n.T("budget_no_budgets"), nil
	}
	monthName := format.MonthName(r.now().Month())
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i18n.T("budget_list_title", monthName))
	for _, budget := range budgets {
		spent, err := r.Expenses.SumForMonth(ctx, userID, monthName, budget.Category)
		if err != nil {
			return "", err
		}
		label := i18n.T("budget_total_label")
		if budget.Category != nil {
			label = categories.Emoji(*budget.Category) + " " + *budget.Category
		}
		pct := 0.0
		if budget.MonthlyLimit.IsPositive() {
			p, _ := spent.Div(budget.MonthlyLimit).Mul(decimal.NewFromInt(100)).Float64()
			pct = p
		}
		marker := ""
		if pct >= 100 {
			marker = " ⚠️"
		} else if pct >= 80 {
			marker = " ❗"
		}
		fmt.Fprintf(&b, "%s: %s / %s PLN (%.0f%%)%s\n%s\n\n",
			label, format.Amount(spent), format.Amount(budget.MonthlyLimit), pct, marker,
			format.ProgressBar(pct, 10))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeExpenseList(b *strings.Builder, expenses []repository.Expense) decimal.Decimal {
	total := decimal.Zero
	for i, e := range expenses {
		fmt.Fprintf(b, "%s\n", format.ExpenseLine(i+1, e.Date, e.Amount, e.Category, e.Subcategory, e.Description))
		total = total.Add(e.Amount)
	}
	return total
}

// monthBounds returns [start, end) dates for a month name in the year of
// now, matching how income queries bound their range.
func monthBounds(monthName string, now time.Time) (string, string) {
	month := now.Month()
	for m := time.January; m <= time.December; m++ {
		if format.MonthName(m) == monthName {
			month = m
			break
		}
	}
	start := time.Date(now.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02")
}
