package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want SymbolRef
		kind SymbolKind
	}{
		{"a/b/C", SymbolRef{Owner: "a/b/C"}, SymbolClass},
		{"a/b/C.count", SymbolRef{Owner: "a/b/C", Name: "count"}, SymbolField},
		{"a/b/C.run(Ljava/lang/String;)V", SymbolRef{Owner: "a/b/C", Name: "run", Desc: "(Ljava/lang/String;)V"}, SymbolMethod},
		{"a.b.C#run(I)V", SymbolRef{Owner: "a/b/C", Name: "run", Desc: "(I)V"}, SymbolMethod},
		{"a.b.C#count", SymbolRef{Owner: "a/b/C", Name: "count"}, SymbolField},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSymbol(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, got.Kind())
		})
	}

	for _, bad := range []string{"", ".x", "a/B.(I)V", "#x"} {
		_, err := ParseSymbol(bad)
		assert.Error(t, err, bad)
	}
}

func TestLookup(t *testing.T) {
	m := widgetMapping(t)

	ref, err := ParseSymbol("a/b.a(La/b;I)V")
	require.NoError(t, err)

	got, ok, err := m.Lookup(ref, ToReal)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "com/example/Widget.resize(Lcom/example/Widget;I)V", got.String())

	got, ok, err = m.Lookup(SymbolRef{Owner: "a/b", Name: "zz"}, ToReal)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "com/example/Widget.zz", got.String(), "owner is translated even when the member misses")

	got, ok, err = m.Lookup(SymbolRef{Owner: "com/example/Holder"}, ToFake)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a/d", got.String())

	_, _, err = m.Lookup(SymbolRef{Owner: "a/b", Name: "x", Desc: "(Q"}, ToReal)
	assert.Error(t, err)
}
