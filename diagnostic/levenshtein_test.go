package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevenshtein(t *testing.T) {
	for _, tc := range []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"count", "count", 0},
		{"count", "conut", 2},
		{"flaw", "lawn", 2},
	} {
		require.Equal(t, tc.want, Levenshtein([]rune(tc.a), []rune(tc.b)), "%s vs %s", tc.a, tc.b)
	}
}

func TestSuggestion(t *testing.T) {
	candidates := []string{"count", "image", "resolve"}

	require.Equal(t, "count", Suggestion("conut", candidates))
	require.Equal(t, "image", Suggestion("imge", candidates))

	// Too far from anything to be worth suggesting.
	require.Equal(t, "", Suggestion("zzzzzz", candidates))

	// Short names only tolerate a single edit.
	require.Equal(t, "", Suggestion("ab", []string{"xyz"}))
	require.Equal(t, "xyz", Suggestion("xy", []string{"xyz"}))

	require.Equal(t, "", Suggestion("anything", nil))
}
