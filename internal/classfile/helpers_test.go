package classfile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// mapHierarchy resolves classes from a fixed table; java/lang/Object is
// always known.
type mapHierarchy map[string]*HierarchyNode

func (h mapHierarchy) Resolve(name string) (*HierarchyNode, error) {
	if name == ObjectClass {
		return &HierarchyNode{Name: ObjectClass}, nil
	}

	n, ok := h[name]
	if !ok {
		return nil, fmt.Errorf("unknown class %s", name)
	}

	return n, nil
}

func newClass(name string) *ClassNode {
	return &ClassNode{
		MajorVersion: 52,
		Access:       AccPublic | AccSuper,
		Name:         name,
		Super:        ObjectClass,
	}
}

func staticMethod(name, desc string, insns ...Instruction) *Method {
	return &Method{
		Access: AccPublic | AccStatic,
		Name:   name,
		Desc:   desc,
		Code:   &Code{MaxStack: 4, MaxLocals: 4, Instructions: insns},
	}
}

// roundTrip writes a class and parses the result back.
func roundTrip(t *testing.T, w *Writer, node *ClassNode) *ClassNode {
	t.Helper()

	data, err := w.Write(node)
	require.NoError(t, err)

	out, err := Parse(data)
	require.NoError(t, err)

	return out
}

func method(t *testing.T, node *ClassNode, name string) *Method {
	t.Helper()

	for _, m := range node.Methods {
		if m.Name == name {
			return m
		}
	}

	t.Fatalf("method %s not found in %s", name, node.Name)

	return nil
}

// ops returns the instructions without labels.
func ops(insns []Instruction) []Instruction {
	var out []Instruction

	for _, insn := range insns {
		if _, ok := insn.(*Label); !ok {
			out = append(out, insn)
		}
	}

	return out
}

// after returns the first instruction following label l.
func after(t *testing.T, insns []Instruction, l *Label) Instruction {
	t.Helper()

	for i, insn := range insns {
		if insn != Instruction(l) {
			continue
		}

		for _, next := range insns[i+1:] {
			if _, ok := next.(*Label); !ok {
				return next
			}
		}
	}

	t.Fatalf("label at offset %d has no instruction after it", l.Offset())

	return nil
}
