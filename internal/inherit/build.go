package inherit

import (
	"fmt"
	"slices"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
	"archive-mapper/internal/common"
)

// Build reads the header of every class of r and links them into a tree.
// A multi-release jar contributes each class once; the base entry wins
// over versioned ones.
func Build(r archive.Reader) (Tree, error) {
	headers := map[string]*classfile.HierarchyNode{}

	for _, e := range r.Entries() {
		prefix, base := common.SplitVersioned(e.Name)
		if _, ok := common.ClassNameOf(base); !ok {
			continue
		}

		h, err := classfile.ReadHeader(e.Data)
		if err != nil {
			return nil, fmt.Errorf("read class header %s: %w", e.Name, err)
		}

		if _, ok := headers[h.Name]; ok && prefix != "" {
			continue
		}

		headers[h.Name] = h
	}

	b := &builder{
		headers:  headers,
		tree:     make(Tree, len(headers)),
		visiting: map[string]int{},
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		if _, err := b.path(name); err != nil {
			return nil, err
		}
	}

	return b.tree, nil
}

type builder struct {
	headers map[string]*classfile.HierarchyNode
	tree    Tree
	// visiting maps the classes on the current walk to their stack index.
	visiting map[string]int
	stack    []string
}

// path returns the path of name, or nil when the class is not in the
// archive.
func (b *builder) path(name string) (*Path, error) {
	if p, ok := b.tree[name]; ok {
		return p, nil
	}

	h, ok := b.headers[name]
	if !ok {
		return nil, nil
	}

	if i, ok := b.visiting[name]; ok {
		chain := append(slices.Clone(b.stack[i:]), name)
		return nil, &CycleError{Chain: chain}
	}

	b.visiting[name] = len(b.stack)
	b.stack = append(b.stack, name)

	defer func() {
		delete(b.visiting, name)
		b.stack = b.stack[:len(b.stack)-1]
	}()

	p := &Path{Name: name}

	for _, itf := range h.Interfaces {
		ip, err := b.path(itf)
		if err != nil {
			return nil, err
		}

		if ip != nil {
			p.Interfaces = append(p.Interfaces, ip)
		}
	}

	if h.Super != "" {
		sp, err := b.path(h.Super)
		if err != nil {
			return nil, err
		}

		p.Super = sp
	}

	b.tree[name] = p

	return p, nil
}
