package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_RanksSimpleNameFirst(t *testing.T) {
	candidates := []string{"com/ex/Gadget", "org/ex/Widget", "com/ex/Widgets", "x/Y"}

	got := Suggest("com/ex/Widget", candidates, 5, DefaultMinSimilarity)
	require.Len(t, got, 3)

	assert.Equal(t, "com/ex/Widgets", got[0].Name)
	assert.Equal(t, "org/ex/Widget", got[1].Name)
	assert.Equal(t, "com/ex/Gadget", got[2].Name)
	assert.InDelta(t, 0.875, got[1].Score, 1e-9)
}

func TestSuggest_Limit(t *testing.T) {
	candidates := []string{"com/ex/Gadget", "org/ex/Widget", "com/ex/Widgets"}

	assert.Equal(t, []string{"com/ex/Widgets", "org/ex/Widget"}, SuggestNames("com/ex/Widget", candidates, 2))
	assert.Empty(t, Suggest("com/ex/Widget", candidates, 0, 0))
}

func TestSuggest_SkipsExactAndUnrelated(t *testing.T) {
	got := SuggestNames("a/Foo", []string{"a/Foo", "z/Qqqqqqq"}, 3)
	assert.Empty(t, got)
}
