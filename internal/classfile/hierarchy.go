package classfile

import (
	"fmt"
)

// ObjectClass is the root of the class hierarchy.
const ObjectClass = "java/lang/Object"

// HierarchyNode places one class in the type hierarchy.
type HierarchyNode struct {
	Name        string
	Super       string
	Interfaces  []string
	IsInterface bool
}

// Hierarchy resolves classes for frame computation. Resolve returns an
// error when the class cannot be found.
type Hierarchy interface {
	Resolve(name string) (*HierarchyNode, error)
}

// HierarchyNode returns the hierarchy entry of the class.
func (n *ClassNode) HierarchyNode() *HierarchyNode {
	return &HierarchyNode{
		Name:        n.Name,
		Super:       n.Super,
		Interfaces:  append([]string(nil), n.Interfaces...),
		IsInterface: n.Access&AccInterface != 0,
	}
}

// maxHierarchyDepth bounds superclass walks on cyclic input.
const maxHierarchyDepth = 256

// superChain returns name followed by its superclasses up to the root.
func superChain(h Hierarchy, name string) ([]string, bool, error) {
	chain := []string{name}

	node, err := h.Resolve(name)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s: %w", name, err)
	}

	isInterface := node.IsInterface

	for node.Super != "" {
		if len(chain) > maxHierarchyDepth {
			return nil, false, fmt.Errorf("%w: superclass chain of %s is cyclic", ErrMalformed, name)
		}

		chain = append(chain, node.Super)

		if node, err = h.Resolve(node.Super); err != nil {
			return nil, false, fmt.Errorf("resolve %s: %w", chain[len(chain)-1], err)
		}
	}

	return chain, isInterface, nil
}

// CommonSuperClass returns the closest common superclass of two classes.
// Interfaces merge to java/lang/Object.
func CommonSuperClass(h Hierarchy, a, b string) (string, error) {
	if a == b {
		return a, nil
	}

	if a == ObjectClass || b == ObjectClass {
		return ObjectClass, nil
	}

	chainA, itfA, err := superChain(h, a)
	if err != nil {
		return "", err
	}

	chainB, itfB, err := superChain(h, b)
	if err != nil {
		return "", err
	}

	if itfA || itfB {
		return ObjectClass, nil
	}

	inA := make(map[string]struct{}, len(chainA))
	for _, c := range chainA {
		inA[c] = struct{}{}
	}

	for _, c := range chainB {
		if _, ok := inA[c]; ok {
			return c, nil
		}
	}

	return ObjectClass, nil
}
