package mapping

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/jvmtype"
)

func TestMapClassName(t *testing.T) {
	m := widgetMapping(t)

	name, ok := m.MapClassName("a/b", ToReal)
	require.True(t, ok)
	assert.Equal(t, "com/example/Widget", name)

	name, ok = m.MapClassName("com/example/Holder", ToFake)
	require.True(t, ok)
	assert.Equal(t, "a/d", name)

	_, ok = m.MapClassName("com/example/Widget", ToReal)
	assert.False(t, ok, "real names are not keys when translating to real")

	_, ok = m.MapClassName("java/lang/String", ToReal)
	assert.False(t, ok)
}

func TestMapType_ShapePreserved(t *testing.T) {
	m := widgetMapping(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"I", "I"},
		{"[J", "[J"},
		{"La/b;", "Lcom/example/Widget;"},
		{"[[La/b$e;", "[[Lcom/example/Widget$Part;"},
		{"Ljava/lang/String;", "Ljava/lang/String;"},
		{"La/b", "La/b"},
		{"a/b", "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapType(tt.in, ToReal))
		})
	}
}

func TestMapMethodDesc(t *testing.T) {
	m := widgetMapping(t)

	got, err := m.MapMethodDesc("(La/b;[La/b$e;J)La/d;", ToReal)
	require.NoError(t, err)
	assert.Equal(t, "(Lcom/example/Widget;[Lcom/example/Widget$Part;J)Lcom/example/Holder;", got)

	got, err = m.MapMethodDesc("()V", ToFake)
	require.NoError(t, err)
	assert.Equal(t, "()V", got)
}

func TestMapMethodDesc_InvalidUsage(t *testing.T) {
	m := widgetMapping(t)

	for _, desc := range []string{"foo(I)V", "I", "", "(Q)V", "(I"} {
		t.Run(desc, func(t *testing.T) {
			_, err := m.MapMethodDesc(desc, ToReal)
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagnostic.ErrInvalidUsage), spew.Sdump(err))
		})
	}
}

func TestMapMethodName_Overloads(t *testing.T) {
	m := widgetMapping(t)

	tests := []struct {
		owner, name, desc string
		dir               Direction
		want              string
	}{
		{"a/b", "a", "(La/b;I)V", ToReal, "resize"},
		{"a/b", "b", "(J)V", ToReal, "resize"},
		{"com/example/Widget", "resize", "(J)V", ToFake, "b"},
		{"com/example/Widget", "resize", "(Lcom/example/Widget;I)V", ToFake, "a"},
		// The return type plays no part in the lookup.
		{"a/b", "a", "(La/b;I)I", ToReal, "resize"},
		{"com/example/Holder", "hold", "(Lcom/example/Widget;)V", ToFake, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.owner+"."+tt.name+tt.desc, func(t *testing.T) {
			got, ok := m.MapMethodName(tt.owner, tt.name, tt.desc, tt.dir)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := m.MapMethodName("a/b", "a", "(I)V", ToReal)
	assert.False(t, ok, "same name, other parameters")

	_, ok = m.MapMethodName("a/zz", "a", "()V", ToReal)
	assert.False(t, ok, "unknown owner")

	_, ok = m.MapMethodName("a/b", "a", "garbage", ToReal)
	assert.False(t, ok, "unparsable descriptor is a miss")
}

func TestMapFieldName(t *testing.T) {
	m := widgetMapping(t)

	got, ok := m.MapFieldName("a/b", "c", ToReal)
	require.True(t, ok)
	assert.Equal(t, "count", got)

	got, ok = m.MapFieldName("com/example/Widget", "name", ToFake)
	require.True(t, ok)
	assert.Equal(t, "d", got)

	_, ok = m.MapFieldName("a/b", "count", ToReal)
	assert.False(t, ok)
}

func TestMapClassOrType(t *testing.T) {
	m := widgetMapping(t)

	assert.Equal(t, "com/example/Widget", m.MapClassOrType("a/b", ToReal))
	assert.Equal(t, "[Lcom/example/Widget;", m.MapClassOrType("[La/b;", ToReal))
	assert.Equal(t, "java/lang/Object", m.MapClassOrType("java/lang/Object", ToReal))
}

func TestMapSignature(t *testing.T) {
	m := widgetMapping(t)

	tests := []struct {
		in   string
		want string
	}{
		{"Ljava/util/List<La/b;>;", "Ljava/util/List<Lcom/example/Widget;>;"},
		{"La/b.e;", "Lcom/example/Widget.Part;"},
		{"<T:La/b;>(TT;[La/d;)Ljava/util/Map<TT;+La/b;>;", "<T:Lcom/example/Widget;>(TT;[Lcom/example/Holder;)Ljava/util/Map<TT;+Lcom/example/Widget;>;"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := m.MapSignature(tt.in, ToReal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := m.MapSignature("La/b", ToReal)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	m := widgetMapping(t)

	for _, c := range m.Classes().All() {
		fake, ok := m.MapClassName(c.Real, ToFake)
		require.True(t, ok)

		back, ok := m.MapClassName(fake, ToReal)
		require.True(t, ok)
		assert.Equal(t, c.Real, back)

		for _, me := range c.Methods() {
			desc := jvmtype.ParamsDescriptor(me.Real.Params) + "V"

			fakeDesc, err := m.MapMethodDesc(desc, ToFake)
			require.NoError(t, err)

			fakeName, ok := m.MapMethodName(c.Real, me.Real.Name, desc, ToFake)
			require.True(t, ok)

			realName, ok := m.MapMethodName(fake, fakeName, fakeDesc, ToReal)
			require.True(t, ok)
			assert.Equal(t, me.Real.Name, realName)

			realDesc, err := m.MapMethodDesc(fakeDesc, ToReal)
			require.NoError(t, err)
			assert.Equal(t, desc, realDesc)
		}
	}
}
