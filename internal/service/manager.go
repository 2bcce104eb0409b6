package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwrobel/budzetnik/internal/categories"
	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/format"
	"github.com/jwrobel/budzetnik/internal/i18n"
)

// Manager handles budget and recurring-rule mutations.
type Manager struct {
	Users     *repository.UserRepo
	Budgets   *repository.BudgetRepo
	Recurring *repository.RecurringRepo
	Now       func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// SetBudget sets or replaces a monthly limit. An empty or "total" category
// sets the overall budget. Category names match case-insensitively by
// prefix against the taxonomy.
func (m *Manager) SetBudget(ctx context.Context, requesterID int64, category string, limit decimal.Decimal) (string, error) {
	if !limit.IsPositive() {
		return "", fmt.Errorf("budget limit must be positive, got %s", limit)
	}
	userID, err := m.Users.GetOrCreate(ctx, requesterID, "")
	if err != nil {
		return "", err
	}
	cat, label, err := resolveBudgetCategory(category)
	if err != nil {
		return "", err
	}
	if err := m.Budgets.Upsert(ctx, userID, cat, limit); err != nil {
		return "", err
	}
	return i18n.T("budget_set", label, format.Amount(limit)), nil
}

// RemoveBudget deletes a budget; resolution mirrors SetBudget.
func (m *Manager) RemoveBudget(ctx context.Context, requesterID int64, category string) (string, error) {
	userID, err := m.Users.GetOrCreate(ctx, requesterID, "")
	if err != nil {
		return "", err
	}
	cat, label, err := resolveBudgetCategory(category)
	if err != nil {
		return "", err
	}
	if err := m.Budgets.Delete(ctx, userID, cat); err != nil {
		return "", err
	}
	return i18n.T("budget_removed", label), nil
}

// AddRecurring registers a recurring rule. For monthly rules dayOfMonth
// anchors the cadence; the first fire is the next occurrence of that day.
func (m *Manager) AddRecurring(ctx context.Context, requesterID int64, amount decimal.Decimal, category, subcategory, description, frequency string, dayOfMonth *int) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("amount must be positive, got %s", amount)
	}
	if !categories.Valid(category, subcategory) {
		return "", fmt.Errorf("unknown category pair %q > %q", category, subcategory)
	}
	switch frequency {
	case "daily", "weekly", "monthly":
	default:
		return "", fmt.Errorf("unknown frequency %q", frequency)
	}
	userID, err := m.Users.GetOrCreate(ctx, requesterID, "")
	if err != nil {
		return "", err
	}
	today := m.now()
	first := firstDue(frequency, dayOfMonth, today)
	_, err = m.Recurring.Add(ctx, repository.RecurringRule{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Subcategory: subcategory,
		Description: description,
		Frequency:   frequency,
		DayOfMonth:  dayOfMonth,
		NextDue:     first.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}
	return i18n.T("recurring_added", description, format.Amount(amount), i18n.T("recurring_freq_"+frequency)), nil
}

// ListRecurring renders the requester's active rules.
func (m *Manager) ListRecurring(ctx context.Context, requesterID int64) (string, error) {
	userID, err := m.Users.GetOrCreate(ctx, requesterID, "")
	if err != nil {
		return "", err
	}
	rules, err := m.Recurring.ListActive(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(rules) == 0 {
		return i18n.T("recurring_no_items"), nil
	}
	lines := []string{i18n.T("recurring_list_title"), ""}
	for _, rule := range rules {
		lines = append(lines, fmt.Sprintf("#%d %s — %s PLN (%s)\n    %s %s > %s, następny: %s",
			rule.ID, rule.Description, format.Amount(rule.Amount), i18n.T("recurring_freq_"+rule.Frequency),
			categories.Emoji(rule.Category), rule.Category, rule.Subcategory, rule.NextDue))
	}
	return strings.Join(lines, "\n"), nil
}

// RemoveRecurring deactivates a rule by id.
func (m *Manager) RemoveRecurring(ctx context.Context, requesterID int64, ruleID int64) (string, error) {
	if _, err := m.Users.GetOrCreate(ctx, requesterID, ""); err != nil {
		return "", err
	}
	if err := m.Recurring.Deactivate(ctx, ruleID); err != nil {
		return "", err
	}
	return i18n.T("recurring_removed", ruleID), nil
}

// resolveBudgetCategory maps user input to a taxonomy category pointer. nil
// with the overall label means the budget across all categories.
func resolveBudgetCategory(input string) (*string, string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "total") || strings.EqualFold(input, "łącznie") {
		return nil, i18n.T("budget_total_label"), nil
	}
	lower := strings.ToLower(input)
	for _, name := range categories.Names() {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			n := name
			return &n, name, nil
		}
	}
	return nil, "", fmt.Errorf("unknown category %q", input)
}

// firstDue picks the initial next_due for a new rule.
func firstDue(frequency string, dayOfMonth *int, today time.Time) time.Time {
	if frequency == "monthly" && dayOfMonth != nil {
		anchor := *dayOfMonth
		if anchor > 28 {
			anchor = 28
		}
		due := time.Date(today.Year(), today.Month(), anchor, 0, 0, 0, 0, today.Location())
		if !due.After(today) {
			due = due.AddDate(0, 1, 0)
		}
		return due
	}
	return NextDue(frequency, dayOfMonth, today)
}
