package inherit

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
	"archive-mapper/internal/common"
)

func classEntry(t *testing.T, name, super string, interfaces ...string) archive.Entry {
	t.Helper()

	data, err := (&classfile.Writer{}).Write(&classfile.ClassNode{
		MajorVersion: 52,
		Access:       classfile.AccPublic,
		Name:         name,
		Super:        super,
		Interfaces:   interfaces,
	})
	require.NoError(t, err)

	return archive.Entry{Name: common.EntryName(name), Data: data}
}

func TestBuild_CandidateOrder(t *testing.T) {
	arc := archive.NewMemory(
		classEntry(t, "a/Base", "java/lang/Object", "a/Named"),
		classEntry(t, "a/Named", "java/lang/Object", "a/Root"),
		classEntry(t, "a/Root", "java/lang/Object"),
		classEntry(t, "a/Sized", "java/lang/Object", "a/Root"),
		classEntry(t, "a/Derived", "a/Base", "a/Sized", "java/lang/Runnable"),
		archive.Entry{Name: "META-INF/MANIFEST.MF", Data: []byte("Manifest-Version: 1.0\n")},
	)

	tree, err := Build(arc)
	require.NoError(t, err)
	require.Len(t, tree, 5)

	derived := tree["a/Derived"]
	require.NotNil(t, derived)
	assert.Equal(t, "a/Base", derived.Super.Name)
	require.Len(t, derived.Interfaces, 1, spew.Sdump(derived.Interfaces))

	assert.Equal(t,
		[]string{"a/Derived", "a/Sized", "a/Root", "a/Base", "a/Named"},
		tree.Candidates("a/Derived"))
}

func TestTree_CandidatesOfUnknownOwner(t *testing.T) {
	assert.Equal(t, []string{"java/util/List"}, Tree{}.Candidates("java/util/List"))
}

func TestBuild_Cycle(t *testing.T) {
	arc := archive.NewMemory(
		classEntry(t, "a/X", "a/Y"),
		classEntry(t, "a/Y", "a/Z"),
		classEntry(t, "a/Z", "a/X"),
	)

	_, err := Build(arc)
	require.Error(t, err)

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a/X", "a/Y", "a/Z", "a/X"}, cycle.Chain)
	assert.Contains(t, err.Error(), "a/X -> a/Y")
}

func TestBuild_MultiReleasePrefersBase(t *testing.T) {
	versioned := classEntry(t, "a/A", "a/Other")
	versioned.Name = "META-INF/versions/11/a/A.class"

	arc := archive.NewMemory(
		versioned,
		classEntry(t, "a/A", "a/Base"),
		classEntry(t, "a/Base", "java/lang/Object"),
		classEntry(t, "a/Other", "java/lang/Object"),
	)

	tree, err := Build(arc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/A", "a/Base"}, tree.Candidates("a/A"))
}

func TestBuild_MalformedClass(t *testing.T) {
	arc := archive.NewMemory(archive.Entry{Name: "a/Broken.class", Data: []byte{0xCA, 0xFE}})

	_, err := Build(arc)
	require.ErrorIs(t, err, classfile.ErrMalformed)
}
