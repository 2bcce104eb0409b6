package oracle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRecordsArray(t *testing.T) {
	t.Parallel()
	records, err := DecodeRecords(`[
		{"amount": 50.0, "date": "2026-09-01", "category": "Jedzenie", "subcategory": "Jedzenie dom", "description": "biedronka"},
		{"amount": 35.5, "date": "2026-09-01", "category": "Opieka zdrowotna", "subcategory": "Lekarstwa", "description": "apteka"}
	]`)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "biedronka", records[0].Description)
	require.Equal(t, "35.5", records[1].Amount.String())
}

func TestDecodeRecordsBareObject(t *testing.T) {
	t.Parallel()
	records, err := DecodeRecords(`{"amount": 50, "date": "2026-09-01", "category": "Jedzenie", "subcategory": "Jedzenie dom", "description": "biedronka"}`)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestDecodeRecordsStripsFences(t *testing.T) {
	t.Parallel()
	records, err := DecodeRecords("```json\n[{\"amount\": 50, \"date\": \"2026-09-01\", \"category\": \"Jedzenie\", \"subcategory\": \"Jedzenie dom\", \"description\": \"biedronka\"}]\n```")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestDecodeRecordsEmptyArrayMeansNoExpense(t *testing.T) {
	t.Parallel()
	records, err := DecodeRecords("[]")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestDecodeRecordsMalformed(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"prose":            "Nie znalazłem żadnego wydatku.",
		"unknown category": `[{"amount": 50, "date": "2026-09-01", "category": "Krasnoludki", "subcategory": "Czapki", "description": "x"}]`,
		"wrong pair":       `[{"amount": 50, "date": "2026-09-01", "category": "Jedzenie", "subcategory": "Lekarstwa", "description": "x"}]`,
		"zero amount":      `[{"amount": 0, "date": "2026-09-01", "category": "Jedzenie", "subcategory": "Jedzenie dom", "description": "x"}]`,
		"negative amount":  `[{"amount": -5, "date": "2026-09-01", "category": "Jedzenie", "subcategory": "Jedzenie dom", "description": "x"}]`,
		"bad date":         `[{"amount": 50, "date": "wczoraj", "category": "Jedzenie", "subcategory": "Jedzenie dom", "description": "x"}]`,
	}
	for name, content := range cases {
		_, err := DecodeRecords(content)
		require.ErrorIs(t, err, ErrMalformed, name)
	}
}
