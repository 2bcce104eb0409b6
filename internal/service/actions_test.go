package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	id, a, err := ParseAction("confirm:abc-123")
	require.NoError(t, err)
	require.Equal(t, "abc-123", id)
	require.Equal(t, ActionConfirm, a.Kind)

	id, a, err = ParseAction("cancel:abc-123")
	require.NoError(t, err)
	require.Equal(t, "abc-123", id)
	require.Equal(t, ActionCancel, a.Kind)

	_, a, err = ParseAction("edit:abc-123:2")
	require.NoError(t, err)
	require.Equal(t, ActionEdit, a.Kind)
	require.Equal(t, 2, a.Item)

	_, a, err = ParseAction("cat:abc-123:1:4")
	require.NoError(t, err)
	require.Equal(t, ActionSelectCategory, a.Kind)
	require.Equal(t, 1, a.Item)
	require.Equal(t, 4, a.Category)

	_, a, err = ParseAction("sub:abc-123:1:4:2")
	require.NoError(t, err)
	require.Equal(t, ActionSelectSubcategory, a.Kind)
	require.Equal(t, 2, a.Subcategory)

	_, a, err = ParseAction("back:abc-123")
	require.NoError(t, err)
	require.Equal(t, ActionBack, a.Kind)
}

func TestParseActionRejectsGarbage(t *testing.T) {
	t.Parallel()
	for _, data := range []string{
		"",
		"confirm",
		"frobnicate:abc",
		"edit:abc",           // missing item index
		"edit:abc:x",         // non-numeric index
		"cat:abc:1",          // missing category index
		"sub:abc:1:2",        // missing subcategory index
		"edit:abc:-1",        // negative index
		"50 zł: kawa z mlekiem", // ordinary text with a colon
	} {
		_, _, err := ParseAction(data)
		require.Error(t, err, "input %q", data)
	}
}
