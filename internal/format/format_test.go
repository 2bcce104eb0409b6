package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jwrobel/budzetnik/internal/expense"
)

func TestResolveMonth(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)

	got, ok := ResolveMonth("", now)
	require.True(t, ok)
	require.Equal(t, "Wrzesień", got)

	got, ok = ResolveMonth("sty", now)
	require.True(t, ok)
	require.Equal(t, "Styczeń", got)

	got, ok = ResolveMonth("LISTOPAD", now)
	require.True(t, ok)
	require.Equal(t, "Listopad", got)

	got, ok = ResolveMonth("3", now)
	require.True(t, ok)
	require.Equal(t, "Marzec", got)

	_, ok = ResolveMonth("13", now)
	require.False(t, ok)

	_, ok = ResolveMonth("brzęczyszczykiewicz", now)
	require.False(t, ok)
}

func TestAmountFormats(t *testing.T) {
	t.Parallel()
	d := decimal.RequireFromString("1234.5")
	require.Equal(t, "1234.50", Amount(d))
	require.Equal(t, "1234,5", SheetAmount(d))
}

func TestProgressBarClamps(t *testing.T) {
	t.Parallel()
	require.Equal(t, "[░░░░░░░░░░]", ProgressBar(0, 10))
	require.Equal(t, "[█████░░░░░]", ProgressBar(50, 10))
	require.Equal(t, "[██████████]", ProgressBar(100, 10))
	require.Equal(t, "[██████████]", ProgressBar(150, 10))
	require.Equal(t, "[░░░░░░░░░░]", ProgressBar(-5, 10))
}

func TestPreviewSingleAndMulti(t *testing.T) {
	t.Parallel()
	one := []expense.Record{{
		Amount:      decimal.RequireFromString("50"),
		Date:        "2026-09-01",
		Category:    "Jedzenie",
		Subcategory: "Jedzenie dom",
		Description: "biedronka",
	}}
	single := Preview(one)
	require.Contains(t, single, "50.00 PLN")
	require.Contains(t, single, "Jedzenie > Jedzenie dom")

	multi := Preview(append(one, expense.Record{
		Amount:      decimal.RequireFromString("35"),
		Date:        "2026-09-01",
		Category:    "Opieka zdrowotna",
		Subcategory: "Lekarstwa",
		Description: "apteka",
	}))
	require.Contains(t, multi, "1. ")
	require.Contains(t, multi, "2. ")
	require.Contains(t, multi, "apteka")
}

func TestSaveConfirmationTotalsMulti(t *testing.T) {
	t.Parallel()
	out := SaveConfirmation([]expense.Record{
		{Amount: decimal.RequireFromString("50"), Date: "2026-09-01", Category: "Jedzenie", Subcategory: "Jedzenie dom", Description: "biedronka"},
		{Amount: decimal.RequireFromString("35.50"), Date: "2026-09-01", Category: "Opieka zdrowotna", Subcategory: "Lekarstwa", Description: "apteka"},
	})
	require.Contains(t, out, "85.50")
}
