package categories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaxonomyClosure(t *testing.T) {
	t.Parallel()
	names := Names()
	require.Len(t, names, 11)
	for _, name := range names {
		subs := Subcategories(name)
		require.NotEmpty(t, subs, name)
		for _, sub := range subs {
			require.True(t, Valid(name, sub), "%s > %s", name, sub)
		}
		require.NotEqual(t, "📂", Emoji(name), name)
	}
}

func TestValidRejectsCrossPairs(t *testing.T) {
	t.Parallel()
	require.False(t, Valid("Jedzenie", "Lekarstwa"))
	require.False(t, Valid("Nie ma takiej", "Jedzenie dom"))
	require.False(t, Valid("Jedzenie", ""))
	require.False(t, Valid("", ""))
}

func TestSubcategoriesReturnsCopy(t *testing.T) {
	t.Parallel()
	subs := Subcategories("Jedzenie")
	subs[0] = "zmienione"
	require.Equal(t, "Jedzenie dom", Subcategories("Jedzenie")[0])
}

func TestPromptContextListsEveryCategory(t *testing.T) {
	t.Parallel()
	prompt := PromptContext()
	for _, name := range Names() {
		require.Contains(t, prompt, name)
	}
}
