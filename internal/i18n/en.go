package i18n

var en = map[string]string{
	"access_denied": "🔒 Access denied.",

	"no_expense_found": "🤔 I didn't recognize an expense in your message.\n\nTry e.g.:\n• 50 zł grocery shopping\n• gas station 250\n• groceries 80, pharmacy 35",
	"parse_error":      "🤔 I couldn't understand the expense.\n\nTry entering an amount and description, e.g.: 50 zł grocery shopping",
	"general_error":    "❌ An error occurred during processing. Please try again.",

	"preview_single": "📋 Expense preview:",
	"preview_multi":  "📋 Expenses preview:",

	"expense_expired":  "⚠️ This expense has already been processed or expired.",
	"not_your_expense": "🔒 This is not your expense.",
	"cancelled":        "❌ Cancelled — nothing was saved.",
	"saved_single":     "✅ Saved!",
	"saved_multi":      "✅ Saved %d expenses!",
	"save_error":       "❌ Error while saving. Please try again.",
	"total":            "Total",

	"summary_title":        "📊 Summary: %s",
	"summary_no_data":      "📊 No expenses for: %s.",
	"summary_total":        "💰 Total: %.2f PLN (%d entries)",
	"month_not_recognized": "❌ Month name not recognized. Try e.g. `summary styczeń`.",

	"nothing_to_undo": "🤷 Nothing to undo — no recent entry in memory.",
	"undo_single":     "↩️ Last entry undone.",
	"undo_multi":      "↩️ Last %d entries undone.",
	"undo_error":      "❌ Failed to undo entry. Please try again.",

	"edit_category_prompt":    "Choose a category:",
	"edit_subcategory_prompt": "Choose a subcategory:",

	"budget_total_label": "Overall",
	"budget_set":         "✅ Budget set: %s — %s PLN/month",
	"budget_removed":     "🗑️ Budget removed: %s",
	"budget_list_title":  "📊 Budgets for %s:",
	"budget_no_budgets":  "📊 No budgets configured.\n\nUse `budget set <category> <amount>` to add one.",

	"recurring_added":        "🔄 Recurring expense added: %s — %s PLN (%s)",
	"recurring_removed":      "🗑️ Recurring expense #%d removed",
	"recurring_list_title":   "🔄 Recurring expenses:",
	"recurring_no_items":     "🔄 No recurring expenses.",
	"recurring_created":      "🔄 Recurring expense created automatically: %s — %s PLN",
	"recurring_freq_daily":   "daily",
	"recurring_freq_weekly":  "weekly",
	"recurring_freq_monthly": "monthly",

	"income_saved":     "💵 Income saved: %s PLN — %s",
	"income_error":     "❌ Error saving income.",
	"balance_title":    "💰 Balance: %s",
	"balance_income":   "💵 Income: %.2f PLN",
	"balance_expenses": "💸 Expenses: %.2f PLN",
	"balance_net":      "📊 Net: %.2f PLN",
	"balance_no_data":  "💰 No data for: %s.",

	"search_title":      "🔍 Results for %q:",
	"search_no_results": "🔍 No results for: %s",
	"last_title":        "📋 Last %d expenses:",
	"last_no_data":      "📋 No expenses.",
	"expenses_title":    "📋 Expenses %s — %s:",
	"expenses_no_data":  "📋 No expenses in the given range.",
	"export_no_data":    "📋 No expenses to export for: %s.",

	"db_required": "⚠️ This feature requires a database connection.",
}
