package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
)

func fixtureSnapshot(t *testing.T) *archive.Memory {
	t.Helper()

	a := newClass("a/A", classfile.ObjectClass)
	a.Methods = []*classfile.Method{ctor(classfile.ObjectClass)}

	b := newClass("a/B", "a/A", "a/N")
	b.Methods = []*classfile.Method{ctor("a/A")}

	n := newClass("a/N", classfile.ObjectClass)
	n.Access = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract

	return archive.NewMemory(classEntry(t, a), classEntry(t, b), classEntry(t, n))
}

func TestMappingHierarchy_Resolve(t *testing.T) {
	dep := newClass("z/Dep", "z/Base")

	fallback, err := NewDependencyHierarchy(0, archive.NewMemory(classEntry(t, dep)))
	require.NoError(t, err)

	view := NewMappingHierarchy(fixtureSnapshot(t), toReal(t, fixtureTree()), fallback)

	tests := []struct {
		name string
		want *classfile.HierarchyNode
	}{
		{
			name: "com/Example",
			want: &classfile.HierarchyNode{Name: "com/Example", Super: classfile.ObjectClass, Interfaces: []string{}},
		},
		{
			name: "a/B",
			want: &classfile.HierarchyNode{Name: "a/B", Super: "com/Example", Interfaces: []string{"com/Named"}},
		},
		{
			name: "com/Named",
			want: &classfile.HierarchyNode{
				Name: "com/Named", Super: classfile.ObjectClass, Interfaces: []string{}, IsInterface: true,
			},
		},
		{
			name: "z/Dep",
			want: &classfile.HierarchyNode{Name: "z/Dep", Super: "z/Base", Interfaces: []string{}},
		},
		{
			name: "z/Base",
			want: &classfile.HierarchyNode{Name: "z/Base", Super: classfile.ObjectClass},
		},
		{
			name: "java/lang/IllegalStateException",
			want: &classfile.HierarchyNode{Name: "java/lang/IllegalStateException", Super: "java/lang/RuntimeException"},
		},
		{
			name: "java/util/List",
			want: &classfile.HierarchyNode{Name: "java/util/List", Super: classfile.ObjectClass, IsInterface: true},
		},
		{
			name: classfile.ObjectClass,
			want: &classfile.HierarchyNode{Name: classfile.ObjectClass},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := view.Resolve(tt.name)
			require.NoError(t, err)

			// Headers of a class without interfaces may carry nil or empty.
			if len(tt.want.Interfaces) == 0 {
				assert.Empty(t, got.Interfaces)
				got.Interfaces, tt.want.Interfaces = nil, nil
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMappingHierarchy_CommonSuperClass(t *testing.T) {
	fallback, err := NewDependencyHierarchy(0)
	require.NoError(t, err)

	view := NewMappingHierarchy(fixtureSnapshot(t), toReal(t, fixtureTree()), fallback)

	got, err := classfile.CommonSuperClass(view, "a/B", "com/Example")
	require.NoError(t, err)
	assert.Equal(t, "com/Example", got)

	got, err = classfile.CommonSuperClass(view, "a/B", "java/lang/RuntimeException")
	require.NoError(t, err)
	assert.Equal(t, classfile.ObjectClass, got)
}

func TestMappingHierarchy_NoFallback(t *testing.T) {
	view := NewMappingHierarchy(fixtureSnapshot(t), toReal(t, fixtureTree()), nil)

	_, err := view.Resolve("z/Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "z/Missing")
}

func TestMappingHierarchy_MalformedClass(t *testing.T) {
	snapshot := archive.NewMemory(archive.Entry{Name: "a/A.class", Data: []byte{0xCA, 0xFE}})
	view := NewMappingHierarchy(snapshot, toReal(t, fixtureTree()), nil)

	_, err := view.Resolve("com/Example")
	require.Error(t, err)
	assert.ErrorIs(t, err, classfile.ErrMalformed)
}

func TestDependencyHierarchy(t *testing.T) {
	first := archive.NewMemory(classEntry(t, newClass("z/Dep", "z/One")))
	second := archive.NewMemory(
		classEntry(t, newClass("z/Dep", "z/Two")),
		classEntry(t, newClass("z/Other", "z/Two")),
	)

	d, err := NewDependencyHierarchy(2, first, second)
	require.NoError(t, err)

	dep, err := d.Resolve("z/Dep")
	require.NoError(t, err)
	assert.Equal(t, "z/One", dep.Super)

	other, err := d.Resolve("z/Other")
	require.NoError(t, err)
	assert.Equal(t, "z/Two", other.Super)

	again, err := d.Resolve("z/Dep")
	require.NoError(t, err)
	assert.Same(t, dep, again)
	assert.Equal(t, 2, d.cache.Len())

	_, err = d.Resolve("z/Third")
	require.NoError(t, err)
	assert.Equal(t, 2, d.cache.Len())
}

func TestDependencyHierarchy_MalformedClass(t *testing.T) {
	d, err := NewDependencyHierarchy(0, archive.NewMemory(archive.Entry{Name: "z/Dep.class", Data: []byte("junk")}))
	require.NoError(t, err)

	_, err = d.Resolve("z/Dep")
	assert.ErrorIs(t, err, classfile.ErrMalformed)
}
