package i18n

var pl = map[string]string{
	"access_denied": "🔒 Brak dostępu.",

	"no_expense_found": "🤔 Nie rozpoznałem wydatku w Twojej wiadomości.\n\nSpróbuj np.:\n• 50 zł biedronka zakupy\n• tankowanie orlen 250\n• biedronka 80, apteka 35",
	"parse_error":      "🤔 Nie udało mi się zrozumieć wydatku.\n\nSpróbuj wpisać kwotę i opis, np.: 50 zł biedronka zakupy",
	"general_error":    "❌ Wystąpił błąd podczas przetwarzania. Spróbuj ponownie.",

	"preview_single": "📋 Podgląd wydatku:",
	"preview_multi":  "📋 Podgląd wydatków:",

	"expense_expired":  "⚠️ Ten wydatek już został przetworzony lub wygasł.",
	"not_your_expense": "🔒 To nie Twój wydatek.",
	"cancelled":        "❌ Anulowano — nic nie zostało zapisane.",
	"saved_single":     "✅ Zapisano!",
	"saved_multi":      "✅ Zapisano %d wydatków!",
	"save_error":       "❌ Błąd podczas zapisywania. Spróbuj ponownie.",
	"total":            "Razem",

	"summary_title":        "📊 Podsumowanie: %s",
	"summary_no_data":      "📊 Brak wydatków za: %s.",
	"summary_total":        "💰 Razem: %.2f PLN (%d wpisów)",
	"month_not_recognized": "❌ Nie rozpoznałem nazwy miesiąca. Spróbuj np. `summary styczeń`.",

	"nothing_to_undo": "🤷 Nie ma czego cofać — brak ostatniego wpisu w pamięci.",
	"undo_single":     "↩️ Cofnięto ostatni wpis.",
	"undo_multi":      "↩️ Cofnięto ostatnie %d wpisy.",
	"undo_error":      "❌ Nie udało się cofnąć wpisu. Spróbuj ponownie.",

	"edit_category_prompt":    "Wybierz kategorię:",
	"edit_subcategory_prompt": "Wybierz podkategorię:",

	"budget_total_label": "Łącznie",
	"budget_set":         "✅ Ustawiono budżet: %s — %s PLN/miesiąc",
	"budget_removed":     "🗑️ Usunięto budżet: %s",
	"budget_list_title":  "📊 Budżety na %s:",
	"budget_no_budgets":  "📊 Nie ustawiono żadnych budżetów.\n\nUżyj `budget set <kategoria> <kwota>` aby ustawić.",

	"recurring_added":        "🔄 Dodano wydatek cykliczny: %s — %s PLN (%s)",
	"recurring_removed":      "🗑️ Usunięto wydatek cykliczny #%d",
	"recurring_list_title":   "🔄 Wydatki cykliczne:",
	"recurring_no_items":     "🔄 Brak wydatków cyklicznych.",
	"recurring_created":      "🔄 Automatycznie dodano wydatek cykliczny: %s — %s PLN",
	"recurring_freq_daily":   "codziennie",
	"recurring_freq_weekly":  "co tydzień",
	"recurring_freq_monthly": "co miesiąc",

	"income_saved":     "💵 Zapisano przychód: %s PLN — %s",
	"income_error":     "❌ Błąd zapisywania przychodu.",
	"balance_title":    "💰 Bilans: %s",
	"balance_income":   "💵 Przychody: %.2f PLN",
	"balance_expenses": "💸 Wydatki: %.2f PLN",
	"balance_net":      "📊 Bilans: %.2f PLN",
	"balance_no_data":  "💰 Brak danych za: %s.",

	"search_title":      "🔍 Wyniki dla %q:",
	"search_no_results": "🔍 Brak wyników dla: %s",
	"last_title":        "📋 Ostatnie %d wydatków:",
	"last_no_data":      "📋 Brak wydatków.",
	"expenses_title":    "📋 Wydatki %s — %s:",
	"expenses_no_data":  "📋 Brak wydatków w podanym okresie.",
	"export_no_data":    "📋 Brak wydatków do eksportu za: %s.",

	"db_required": "⚠️ Ta funkcja wymaga połączenia z bazą danych.",
}
