package transform

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
	"archive-mapper/internal/common"
)

// DefaultCacheSize is the number of dependency classes a
// DependencyHierarchy keeps resolved.
const DefaultCacheSize = 4096

// MappingHierarchy resolves classes by their target-side names while the
// archive still holds them under their source-side names. It reads an
// unchanging snapshot of the archive and rewrites every hit with
// TransformMembers, so it needs no locking.
type MappingHierarchy struct {
	snapshot archive.Reader
	pass     *Pass
	fallback classfile.Hierarchy
}

var _ classfile.Hierarchy = (*MappingHierarchy)(nil)

// NewMappingHierarchy returns a hierarchy over the source-side snapshot of
// an archive. Classes outside the archive are resolved by fallback.
func NewMappingHierarchy(snapshot archive.Reader, pass *Pass, fallback classfile.Hierarchy) *MappingHierarchy {
	return &MappingHierarchy{snapshot: snapshot, pass: pass, fallback: fallback}
}

// Resolve implements classfile.Hierarchy. The name is looked up as is
// first, then translated back to the source side.
func (h *MappingHierarchy) Resolve(name string) (*classfile.HierarchyNode, error) {
	lookups := []string{name}
	if source, ok := h.pass.mapping.MapClassName(name, h.pass.dir.Reverse()); ok && source != name {
		lookups = append(lookups, source)
	}

	for _, lookup := range lookups {
		e, ok := h.snapshot.Entry(common.EntryName(lookup))
		if !ok {
			continue
		}

		node, err := classfile.Parse(e.Data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name, err)
		}

		if err := h.pass.TransformMembers(node, nil); err != nil {
			return nil, fmt.Errorf("transform %s: %w", e.Name, err)
		}

		return node.HierarchyNode(), nil
	}

	if h.fallback == nil {
		return nil, fmt.Errorf("class %s not found", name)
	}

	return h.fallback.Resolve(name)
}

// DependencyHierarchy resolves classes from dependency archives, which are
// already in the target namespace. Classes found nowhere are answered by a
// stub of the platform classes. Safe for concurrent use.
type DependencyHierarchy struct {
	deps  archive.Reader
	cache *lru.Cache[string, *classfile.HierarchyNode]
}

var _ classfile.Hierarchy = (*DependencyHierarchy)(nil)

// NewDependencyHierarchy returns a hierarchy over deps, queried in order.
// A cacheSize of zero or less selects DefaultCacheSize.
func NewDependencyHierarchy(cacheSize int, deps ...archive.Reader) (*DependencyHierarchy, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, *classfile.HierarchyNode](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create hierarchy cache: %w", err)
	}

	return &DependencyHierarchy{deps: archive.Delegating(deps...), cache: cache}, nil
}

// Resolve implements classfile.Hierarchy. It never fails for a class that
// is missing; only a dependency class that does not parse is an error.
func (d *DependencyHierarchy) Resolve(name string) (*classfile.HierarchyNode, error) {
	if node, ok := d.cache.Get(name); ok {
		return node, nil
	}

	node := platformClass(name)

	if e, ok := d.deps.Entry(common.EntryName(name)); ok {
		header, err := classfile.ReadHeader(e.Data)
		if err != nil {
			return nil, fmt.Errorf("read dependency class %s: %w", name, err)
		}

		node = header
	}

	d.cache.Add(name, node)

	return node, nil
}
