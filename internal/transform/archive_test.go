package transform

import (
	"context"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/inherit"
	"archive-mapper/internal/mapping"
)

const manifest = "META-INF/MANIFEST.MF"

func obfClassA() *classfile.ClassNode {
	a := newClass("a/A", classfile.ObjectClass)
	a.Fields = []*classfile.Field{{Access: classfile.AccPublic, Name: "a", Desc: "I"}}
	a.Methods = []*classfile.Method{
		ctor(classfile.ObjectClass),
		newMethod(classfile.AccPublic, "b", "(I)V", &classfile.Insn{Op: classfile.OpReturn}),
	}

	return a
}

// obfClassB extends a/A, calls the inherited b(I)V, reads the inherited
// field a and joins a/A and a/B values in pick.
func obfClassB() *classfile.ClassNode {
	elseLabel, join := classfile.NewLabel(), classfile.NewLabel()

	b := newClass("a/B", "a/A")
	b.Methods = []*classfile.Method{
		ctor("a/A"),
		newMethod(classfile.AccPublic, "run", "()V",
			&classfile.VarInsn{Op: classfile.OpAload, Var: 0},
			&classfile.Insn{Op: classfile.OpIconst1},
			&classfile.MethodInsn{Op: classfile.OpInvokevirtual, Owner: "a/B", Name: "b", Desc: "(I)V"},
			&classfile.VarInsn{Op: classfile.OpAload, Var: 0},
			&classfile.FieldInsn{Op: classfile.OpGetfield, Owner: "a/B", Name: "a", Desc: "I"},
			&classfile.Insn{Op: classfile.OpPop},
			&classfile.Insn{Op: classfile.OpReturn},
		),
		newMethod(pubStatic, "pick", "(Z)Ljava/lang/Object;",
			&classfile.VarInsn{Op: classfile.OpIload, Var: 0},
			&classfile.JumpInsn{Op: classfile.OpIfeq, Target: elseLabel},
			&classfile.TypeInsn{Op: classfile.OpNew, Type: "a/A"},
			&classfile.Insn{Op: classfile.OpDup},
			&classfile.MethodInsn{Op: classfile.OpInvokespecial, Owner: "a/A", Name: "<init>", Desc: "()V"},
			&classfile.JumpInsn{Op: classfile.OpGoto, Target: join},
			elseLabel,
			&classfile.TypeInsn{Op: classfile.OpNew, Type: "a/B"},
			&classfile.Insn{Op: classfile.OpDup},
			&classfile.MethodInsn{Op: classfile.OpInvokespecial, Owner: "a/B", Name: "<init>", Desc: "()V"},
			join,
			&classfile.Insn{Op: classfile.OpAreturn},
		),
	}

	return b
}

func obfArchive(t *testing.T) *archive.Memory {
	t.Helper()

	versioned := classEntry(t, obfClassA())
	versioned.Name = "META-INF/versions/9/a/A.class"

	return archive.NewMemory(
		classEntry(t, obfClassA()),
		classEntry(t, obfClassB()),
		archive.Entry{Name: manifest, Data: []byte("Manifest-Version: 1.0\n")},
		versioned,
	)
}

// joinFrame returns the stack map frame whose stack holds one value.
func joinFrame(t *testing.T, m *classfile.Method) classfile.Frame {
	t.Helper()

	for _, f := range m.Code.Frames {
		if len(f.Stack) == 1 {
			return f
		}
	}

	t.Fatalf("no join frame in %s", spew.Sdump(m.Code.Frames))

	return classfile.Frame{}
}

func entryNames(r archive.Reader) []string {
	var names []string
	for _, e := range r.Entries() {
		names = append(names, e.Name)
	}

	return names
}

func TestTransformArchive(t *testing.T) {
	arc := obfArchive(t)

	report, err := TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "named", WithWorkers(2))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"com/Example.class",
		"a/B.class",
		manifest,
		"META-INF/versions/9/com/Example.class",
	}, entryNames(arc))

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "obf", report.From)
	assert.Equal(t, "named", report.To)
	assert.Equal(t, 3, report.Classes)
	assert.Equal(t, []Rename{
		{From: "a/A.class", To: "com/Example.class"},
		{From: "META-INF/versions/9/a/A.class", To: "META-INF/versions/9/com/Example.class"},
	}, report.Renamed)
	assert.Empty(t, report.Diagnostics.All())

	example := parseEntry(t, arc, "com/Example.class")
	assert.Equal(t, "com/Example", example.Name)
	assert.Equal(t, "value", example.Fields[0].Name)
	findMethod(t, example, "doThing", "(I)V")

	b := parseEntry(t, arc, "a/B.class")
	assert.Equal(t, "com/Example", b.Super)

	run := ops(findMethod(t, b, "run", "()V").Code.Instructions)
	assert.Equal(t, &classfile.MethodInsn{
		Op: classfile.OpInvokevirtual, Owner: "a/B", Name: "doThing", Desc: "(I)V",
	}, run[2])
	assert.Equal(t, &classfile.FieldInsn{
		Op: classfile.OpGetfield, Owner: "a/B", Name: "value", Desc: "I",
	}, run[4])

	// a/A and a/B join to the renamed superclass.
	pick := findMethod(t, b, "pick", "(Z)Ljava/lang/Object;")
	assert.Equal(t, []classfile.VType{classfile.ObjectType("com/Example")}, joinFrame(t, pick).Stack)
	assert.Equal(t, 2, pick.Code.MaxStack)

	e, ok := arc.Entry(manifest)
	require.True(t, ok)
	assert.Equal(t, "Manifest-Version: 1.0\n", string(e.Data))
}

func TestTransformArchive_RoundTrip(t *testing.T) {
	arc := obfArchive(t)
	m := fixtureMapping(t)

	_, err := TransformArchive(t.Context(), arc, nil, m, "obf", "named")
	require.NoError(t, err)

	_, err = TransformArchive(t.Context(), arc, nil, m, "named", "obf")
	require.NoError(t, err)

	assert.ElementsMatch(t, entryNames(obfArchive(t)), entryNames(arc))

	// Writing places the labels, so jump targets compare by offset.
	want := obfClassB()
	encode(t, want)

	got := parseEntry(t, arc, "a/B.class")

	assert.Equal(t, want.Super, got.Super)

	for _, wm := range want.Methods {
		gm := findMethod(t, got, wm.Name, wm.Desc)
		assert.Equal(t, ops(wm.Code.Instructions), ops(gm.Code.Instructions), wm.Name)
	}
}

func TestTransformArchive_ImplementsInterfaceOutsideArchive(t *testing.T) {
	b := newClass("a/B", classfile.ObjectClass, "a/N")
	b.Methods = []*classfile.Method{
		ctor(classfile.ObjectClass),
		newMethod(classfile.AccPublic, "n", "()Ljava/lang/String;",
			&classfile.Insn{Op: classfile.OpAconstNull},
			&classfile.Insn{Op: classfile.OpAreturn},
		),
	}

	arc := archive.NewMemory(classEntry(t, b))

	_, err := TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "named")
	require.NoError(t, err)

	got := parseEntry(t, arc, "a/B.class")
	assert.Equal(t, []string{"com/Named"}, got.Interfaces)
	findMethod(t, got, "name", "()Ljava/lang/String;")
}

func TestTransformArchive_SwappedNames(t *testing.T) {
	x := newClass("p/X", classfile.ObjectClass)
	x.Fields = []*classfile.Field{{Name: "other", Desc: "Lp/Y;"}}

	y := newClass("p/Y", classfile.ObjectClass)
	y.Fields = []*classfile.Field{{Name: "other", Desc: "Lp/X;"}}

	arc := archive.NewMemory(classEntry(t, x), classEntry(t, y))

	report, err := TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "named")
	require.NoError(t, err)
	assert.Len(t, report.Renamed, 2)

	assert.Equal(t, 2, arc.Len())

	fromX := parseEntry(t, arc, "p/Y.class")
	assert.Equal(t, "p/Y", fromX.Name)
	assert.Equal(t, "Lp/X;", fromX.Fields[0].Desc)

	fromY := parseEntry(t, arc, "p/X.class")
	assert.Equal(t, "p/X", fromY.Name)
	assert.Equal(t, "Lp/Y;", fromY.Fields[0].Desc)
}

func TestTransformArchive_KeepsDecodedFrames(t *testing.T) {
	a := classEntry(t, obfClassA())

	// Frames computed in the obf namespace.
	deps, err := NewDependencyHierarchy(0, archive.NewMemory(a, classEntry(t, obfClassB())))
	require.NoError(t, err)

	data, err := (&classfile.Writer{Hierarchy: deps, ComputeFrames: true}).Write(obfClassB())
	require.NoError(t, err)

	arc := archive.NewMemory(a, archive.Entry{Name: "a/B.class", Data: data})

	_, err = TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "named", WithComputeFrames(false))
	require.NoError(t, err)

	pick := findMethod(t, parseEntry(t, arc, "a/B.class"), "pick", "(Z)Ljava/lang/Object;")
	assert.Equal(t, []classfile.VType{classfile.ObjectType("com/Example")}, joinFrame(t, pick).Stack)
}

func TestTransformArchive_DependencyClasses(t *testing.T) {
	thenLabel, join := classfile.NewLabel(), classfile.NewLabel()

	user := newClass("a/U", classfile.ObjectClass)
	user.Methods = []*classfile.Method{
		newMethod(pubStatic, "pick", "(ZLz/Left;Lz/Right;)Ljava/lang/Object;",
			&classfile.VarInsn{Op: classfile.OpIload, Var: 0},
			&classfile.JumpInsn{Op: classfile.OpIfne, Target: thenLabel},
			&classfile.VarInsn{Op: classfile.OpAload, Var: 2},
			&classfile.JumpInsn{Op: classfile.OpGoto, Target: join},
			thenLabel,
			&classfile.VarInsn{Op: classfile.OpAload, Var: 1},
			join,
			&classfile.Insn{Op: classfile.OpAreturn},
		),
	}

	deps := archive.NewMemory(
		classEntry(t, newClass("z/Base", classfile.ObjectClass)),
		classEntry(t, newClass("z/Left", "z/Base")),
		classEntry(t, newClass("z/Right", "z/Base")),
	)

	arc := archive.NewMemory(classEntry(t, user))

	_, err := TransformArchive(t.Context(), arc, []archive.Reader{deps}, fixtureMapping(t), "obf", "named")
	require.NoError(t, err)

	pick := findMethod(t, parseEntry(t, arc, "a/U.class"), "pick", "(ZLz/Left;Lz/Right;)Ljava/lang/Object;")
	assert.Equal(t, []classfile.VType{classfile.ObjectType("z/Base")}, joinFrame(t, pick).Stack)
}

func TestTransformArchive_FailureLeavesArchive(t *testing.T) {
	bad := newClass("a/Bad", classfile.ObjectClass)
	bad.Access |= classfile.AccAbstract
	bad.Methods = []*classfile.Method{{Access: classfile.AccPublic | classfile.AccAbstract, Name: "f", Desc: "(Q)V"}}

	arc := obfArchive(t)
	arc.Put(classEntry(t, bad))

	before := arc.Entries()

	_, err := TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "named")
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrInvalidUsage)
	assert.Contains(t, err.Error(), "a/Bad.class")
	assert.Equal(t, before, arc.Entries())
}

func TestTransformArchive_InvalidUsage(t *testing.T) {
	arc := obfArchive(t)

	_, err := TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "other")
	assert.ErrorIs(t, err, diagnostic.ErrInvalidUsage)

	_, err = TransformArchive(t.Context(), nil, nil, fixtureMapping(t), "obf", "named")
	assert.ErrorIs(t, err, diagnostic.ErrInvalidUsage)
}

func TestTransformArchive_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	arc := obfArchive(t)
	before := arc.Entries()

	_, err := TransformArchive(ctx, arc, nil, fixtureMapping(t), "obf", "named")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, arc.Entries())
}

func TestTransformArchive_CyclicHierarchy(t *testing.T) {
	arc := archive.NewMemory(
		classEntry(t, newClass("a/X", "a/Y")),
		classEntry(t, newClass("a/Y", "a/X")),
	)

	_, err := TransformArchive(t.Context(), arc, nil, fixtureMapping(t), "obf", "named")

	var cycle *inherit.CycleError
	assert.ErrorAs(t, err, &cycle)
}

func TestRemapper_MissingEntry(t *testing.T) {
	r := &remapper{
		snapshot: archive.NewMemory(),
		pass:     NewPass(fixtureMapping(t), mapping.ToReal, nil),
		writer:   &classfile.Writer{},
	}

	_, err := r.class("a/A.class")
	assert.ErrorIs(t, err, diagnostic.ErrMissingResource)
}
