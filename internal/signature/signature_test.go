package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableMapper(table map[string]string) ClassMapper {
	return func(name string) (string, bool) {
		m, ok := table[name]
		return m, ok
	}
}

func TestRewrite(t *testing.T) {
	mapper := tableMapper(map[string]string{
		"a/A":   "com/Example",
		"a/B":   "com/Other",
		"a/A$C": "com/Example$Inner",
	})

	tests := []struct {
		name string
		sig  string
		want string
	}{
		{"field", "La/A;", "Lcom/Example;"},
		{"field generic", "Ljava/util/List<La/A;>;", "Ljava/util/List<Lcom/Example;>;"},
		{"wildcards", "Ljava/util/Map<+La/A;-La/B;>;", "Ljava/util/Map<+Lcom/Example;-Lcom/Other;>;"},
		{"unbounded", "Ljava/util/List<*>;", "Ljava/util/List<*>;"},
		{"type variable", "TT;", "TT;"},
		{"array", "[[La/B;", "[[Lcom/Other;"},
		{
			"class signature",
			"<T:La/A;U::Ljava/lang/Comparable<TT;>;>La/B;Ljava/lang/Runnable;",
			"<T:Lcom/Example;U::Ljava/lang/Comparable<TT;>;>Lcom/Other;Ljava/lang/Runnable;",
		},
		{
			"method signature",
			"<T:Ljava/lang/Object;>(ITT;[La/A;)La/B;^La/A;^TX;",
			"<T:Ljava/lang/Object;>(ITT;[Lcom/Example;)Lcom/Other;^Lcom/Example;^TX;",
		},
		{"void method", "(Ljava/util/List<La/A;>;)V", "(Ljava/util/List<Lcom/Example;>;)V"},
		{"inner class", "La/A<TT;>.C;", "Lcom/Example<TT;>.Inner;"},
		{"unmapped inner", "La/B<TT;>.D<La/A;>;", "Lcom/Other<TT;>.D<Lcom/Example;>;"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rewrite(tt.sig, mapper)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewrite_BareInnerFallback(t *testing.T) {
	got, err := Rewrite("La/Outer.In;", tableMapper(map[string]string{"In": "Renamed"}))
	require.NoError(t, err)
	assert.Equal(t, "La/Outer.Renamed;", got)
}

func TestRewrite_Identity(t *testing.T) {
	sig := "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/util/AbstractMap<TK;TV;>;Ljava/io/Serializable;"
	got, err := Rewrite(sig, tableMapper(nil))
	require.NoError(t, err)
	assert.Equal(t, sig, got)
}

func TestRewrite_Malformed(t *testing.T) {
	for _, sig := range []string{"La/A", "Q", "(I", "(I)", "<T>La/A;", "Ljava/util/List<La/A;", "TT", "(I)VX"} {
		t.Run(sig, func(t *testing.T) {
			_, err := Rewrite(sig, tableMapper(nil))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
