// Package format builds user-facing text: previews, confirmations, month
// names and amount formatting shared by the CLI surface and the mirror rows.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwrobel/budzetnik/internal/categories"
	"github.com/jwrobel/budzetnik/internal/expense"
	"github.com/jwrobel/budzetnik/internal/i18n"
)

// monthNames maps month number to the Polish month name used for the
// month_name ledger column and mirror column 7.
var monthNames = map[time.Month]string{
	time.January: "Styczeń", time.February: "Luty", time.March: "Marzec",
	time.April: "Kwiecień", time.May: "Maj", time.June: "Czerwiec",
	time.July: "Lipiec", time.August: "Sierpień", time.September: "Wrzesień",
	time.October: "Październik", time.November: "Listopad", time.December: "Grudzień",
}

// MonthName returns the canonical month name for a month number.
func MonthName(m time.Month) string { return monthNames[m] }

// ResolveMonth maps a user-typed month (name prefix or number) to the
// canonical month name. Empty input resolves to the month of now.
func ResolveMonth(query string, now time.Time) (string, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return monthNames[now.Month()], true
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(monthNames[m]), query) {
			return monthNames[m], true
		}
	}
	var num int
	if _, err := fmt.Sscanf(query, "%d", &num); err == nil && num >= 1 && num <= 12 {
		return monthNames[time.Month(num)], true
	}
	return "", false
}

// Amount renders a decimal with two places and a dot separator.
func Amount(d decimal.Decimal) string { return d.StringFixed(2) }

// SheetAmount renders a decimal the way the spreadsheet expects it, with a
// decimal comma.
func SheetAmount(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// Preview formats parsed expenses for the confirmation prompt.
func Preview(records []expense.Record) string {
	if len(records) == 1 {
		e := records[0]
		return fmt.Sprintf("%s\n📅 Data: %s\n💰 Kwota: %s PLN\n📂 %s > %s\n📝 %s",
			i18n.T("preview_single"), e.Date, Amount(e.Amount), e.Category, e.Subcategory, e.Description)
	}
	lines := []string{i18n.T("preview_multi"), ""}
	for i, e := range records {
		lines = append(lines, fmt.Sprintf("%d. %s — %s PLN\n    📂 %s > %s\n    📝 %s",
			i+1, e.Date, Amount(e.Amount), e.Category, e.Subcategory, e.Description))
	}
	return strings.Join(lines, "\n")
}

// SaveConfirmation formats the post-commit summary.
func SaveConfirmation(records []expense.Record) string {
	if len(records) == 1 {
		e := records[0]
		return fmt.Sprintf("%s\n📅 %s\n💰 %s PLN\n📂 %s > %s\n📝 %s",
			i18n.T("saved_single"), e.Date, Amount(e.Amount), e.Category, e.Subcategory, e.Description)
	}
	lines := []string{i18n.T("saved_multi", len(records)), ""}
	total := decimal.Zero
	for i, e := range records {
		lines = append(lines, fmt.Sprintf("%d. %s — %s PLN", i+1, e.Description, Amount(e.Amount)))
		total = total.Add(e.Amount)
	}
	lines = append(lines, "", fmt.Sprintf("💰 %s: %s PLN", i18n.T("total"), Amount(total)))
	return strings.Join(lines, "\n")
}

// ExpenseLine formats one committed expense for list-style output.
func ExpenseLine(idx int, date string, amount decimal.Decimal, category, subcategory, description string) string {
	return fmt.Sprintf("%d. %s — %s PLN\n    %s %s > %s\n    %s",
		idx, date, Amount(amount), categories.Emoji(category), category, subcategory, description)
}

// ProgressBar renders budget usage as a fixed-width bar.
func ProgressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
