package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonSuperClass(t *testing.T) {
	h := mapHierarchy{
		"a/Base":  {Name: "a/Base", Super: ObjectClass},
		"a/Mid":   {Name: "a/Mid", Super: "a/Base"},
		"a/Leaf":  {Name: "a/Leaf", Super: "a/Mid"},
		"a/Other": {Name: "a/Other", Super: "a/Base"},
		"a/Alone": {Name: "a/Alone", Super: ObjectClass},
		"a/Itf":   {Name: "a/Itf", Super: ObjectClass, IsInterface: true},
	}

	tests := []struct {
		name string
		a, b string
		want string
	}{
		{name: "same class", a: "a/Leaf", b: "a/Leaf", want: "a/Leaf"},
		{name: "ancestor", a: "a/Leaf", b: "a/Base", want: "a/Base"},
		{name: "siblings", a: "a/Leaf", b: "a/Other", want: "a/Base"},
		{name: "unrelated", a: "a/Leaf", b: "a/Alone", want: ObjectClass},
		{name: "interface", a: "a/Itf", b: "a/Leaf", want: ObjectClass},
		{name: "object", a: ObjectClass, b: "a/Leaf", want: ObjectClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CommonSuperClass(h, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommonSuperClass_Cycle(t *testing.T) {
	h := mapHierarchy{
		"a/X": {Name: "a/X", Super: "a/Y"},
		"a/Y": {Name: "a/Y", Super: "a/X"},
		"a/Z": {Name: "a/Z", Super: ObjectClass},
	}

	_, err := CommonSuperClass(h, "a/X", "a/Z")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestClassNode_HierarchyNode(t *testing.T) {
	node := newClass("a/Itf")
	node.Access = AccInterface | AccAbstract
	node.Interfaces = []string{"a/Base"}

	got := node.HierarchyNode()
	assert.True(t, got.IsInterface)
	assert.Equal(t, []string{"a/Base"}, got.Interfaces)

	got.Interfaces[0] = "changed"
	assert.Equal(t, "a/Base", node.Interfaces[0])
}
