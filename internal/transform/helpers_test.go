package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
	"archive-mapper/internal/common"
	"archive-mapper/internal/inherit"
	"archive-mapper/internal/mapping"
)

const fixtureYAML = `
namespaces:
  real: named
  fake: obf
classes:
  - real: com/Example
    fake: a/A
    fields:
      value: a
    methods:
      - real: doThing
        fake: b
        desc: (I)V
      - real: doThing
        fake: c
        desc: (J)V
      - real: copy
        fake: d
        desc: (Lcom/Example;)Lcom/Example;
  - real: com/Named
    fake: a/N
    methods:
      - real: name
        fake: n
        desc: ()Ljava/lang/String;
  - real: com/Outer
    fake: a/O
  - real: com/Outer$Inner
    fake: a/O$i
  - real: com/Outer$1Local
    fake: a/O$1l
  - real: p/X
    fake: p/Y
  - real: p/Y
    fake: p/X
`

func fixtureMapping(t *testing.T) *mapping.ArchiveMapping {
	t.Helper()

	mf, err := mapping.Parse([]byte(fixtureYAML))
	require.NoError(t, err)

	m, err := mapping.Build(mf)
	require.NoError(t, err)

	return m
}

// toReal returns a pass from the obf namespace over tree.
func toReal(t *testing.T, tree inherit.Tree) *Pass {
	t.Helper()

	return NewPass(fixtureMapping(t), mapping.ToReal, tree)
}

// fixtureTree is a/B extends a/A, a/C implements a/N.
func fixtureTree() inherit.Tree {
	a := &inherit.Path{Name: "a/A"}
	n := &inherit.Path{Name: "a/N"}

	return inherit.Tree{
		"a/A": a,
		"a/N": n,
		"a/B": {Name: "a/B", Super: a},
		"a/C": {Name: "a/C", Interfaces: []*inherit.Path{n}},
	}
}

// realTree is fixtureTree in the named namespace.
func realTree() inherit.Tree {
	a := &inherit.Path{Name: "com/Example"}
	n := &inherit.Path{Name: "com/Named"}

	return inherit.Tree{
		"com/Example": a,
		"com/Named":   n,
		"a/B":         {Name: "a/B", Super: a, Interfaces: []*inherit.Path{n}},
	}
}

func newClass(name, super string, interfaces ...string) *classfile.ClassNode {
	return &classfile.ClassNode{
		MajorVersion: 52,
		Access:       classfile.AccPublic | classfile.AccSuper,
		Name:         name,
		Super:        super,
		Interfaces:   interfaces,
	}
}

func newMethod(access uint16, name, desc string, insns ...classfile.Instruction) *classfile.Method {
	return &classfile.Method{
		Access: access,
		Name:   name,
		Desc:   desc,
		Code:   &classfile.Code{MaxStack: 4, MaxLocals: 4, Instructions: insns},
	}
}

// ctor is a public no-argument constructor calling super.
func ctor(super string) *classfile.Method {
	return newMethod(classfile.AccPublic, "<init>", "()V",
		&classfile.VarInsn{Op: classfile.OpAload, Var: 0},
		&classfile.MethodInsn{Op: classfile.OpInvokespecial, Owner: super, Name: "<init>", Desc: "()V"},
		&classfile.Insn{Op: classfile.OpReturn},
	)
}

func encode(t *testing.T, node *classfile.ClassNode) []byte {
	t.Helper()

	data, err := (&classfile.Writer{}).Write(node)
	require.NoError(t, err)

	return data
}

func classEntry(t *testing.T, node *classfile.ClassNode) archive.Entry {
	t.Helper()

	return archive.Entry{Name: common.EntryName(node.Name), Data: encode(t, node)}
}

func parseEntry(t *testing.T, r archive.Reader, name string) *classfile.ClassNode {
	t.Helper()

	e, ok := r.Entry(name)
	require.True(t, ok, "entry %s missing", name)

	node, err := classfile.Parse(e.Data)
	require.NoError(t, err)

	return node
}

func findMethod(t *testing.T, node *classfile.ClassNode, name, desc string) *classfile.Method {
	t.Helper()

	for _, m := range node.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}

	t.Fatalf("method %s%s not found in %s", name, desc, node.Name)

	return nil
}

// ops returns the instructions without labels.
func ops(insns []classfile.Instruction) []classfile.Instruction {
	var out []classfile.Instruction

	for _, insn := range insns {
		if _, ok := insn.(*classfile.Label); !ok {
			out = append(out, insn)
		}
	}

	return out
}
