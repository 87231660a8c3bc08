package inherit

import (
	"strings"
)

// Path places one class in the inheritance tree.
type Path struct {
	Name string
	// Super is nil when the superclass is not part of the archive.
	Super *Path
	// Interfaces lists the implemented interfaces found in the archive, in
	// declaration order.
	Interfaces []*Path
}

// Tree maps internal class names to their paths.
type Tree map[string]*Path

// Candidates returns the classes a member lookup tries, in order: the class
// itself, its interfaces depth-first, then its superclass chain. Each class
// appears once, at its first position.
func (p *Path) Candidates() []string {
	var out []string

	p.collect(&out, map[string]struct{}{})

	return out
}

func (p *Path) collect(out *[]string, seen map[string]struct{}) {
	if _, ok := seen[p.Name]; ok {
		return
	}

	seen[p.Name] = struct{}{}
	*out = append(*out, p.Name)

	for _, itf := range p.Interfaces {
		itf.collect(out, seen)
	}

	if p.Super != nil {
		p.Super.collect(out, seen)
	}
}

// Candidates returns the lookup order for owner. An owner that is not in
// the tree yields just itself.
func (t Tree) Candidates(owner string) []string {
	p, ok := t[owner]
	if !ok {
		return []string{owner}
	}

	return p.Candidates()
}

// CycleError reports a class that is its own ancestor.
type CycleError struct {
	// Chain lists the classes of the cycle, starting and ending with the
	// same class.
	Chain []string
}

func (e *CycleError) Error() string {
	return "cyclic class hierarchy: " + strings.Join(e.Chain, " -> ")
}
