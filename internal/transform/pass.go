package transform

import (
	"fmt"
	"slices"
	"strings"

	"archive-mapper/internal/classfile"
	"archive-mapper/internal/common"
	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/inherit"
	"archive-mapper/internal/mapping"
)

// Pass rewrites classes from the source side of a direction to its target
// side. A Pass holds no mutable state and is safe for concurrent use.
type Pass struct {
	mapping *mapping.ArchiveMapping
	dir     mapping.Direction
	tree    inherit.Tree
}

// NewPass returns a pass translating the names of m in direction dir. tree
// is the inheritance tree of the archive in the source namespace; it is used
// to find the declaring class of inherited members.
func NewPass(m *mapping.ArchiveMapping, dir mapping.Direction, tree inherit.Tree) *Pass {
	return &Pass{mapping: m, dir: dir, tree: tree}
}

// Direction returns the direction the pass translates in.
func (p *Pass) Direction() mapping.Direction {
	return p.dir
}

// Transform rewrites every name node carries: its identity, inner class
// table, members, record components, and every instruction of every method
// body. Classes and members absent from the mapping keep their names.
// Malformed generic signatures are kept as they are and reported to diags,
// which may be nil.
func (p *Pass) Transform(node *classfile.ClassNode, diags *diagnostic.Diagnostics) error {
	return p.rewrite(node, diags, true)
}

// TransformMembers is Transform without the method bodies.
func (p *Pass) TransformMembers(node *classfile.ClassNode, diags *diagnostic.Diagnostics) error {
	return p.rewrite(node, diags, false)
}

func (p *Pass) rewrite(node *classfile.ClassNode, diags *diagnostic.Diagnostics, bodies bool) error {
	if node == nil {
		return diagnostic.New(diagnostic.InvalidUsage, "", "class node is nil")
	}

	c := &classRewrite{Pass: p, node: node, owner: node.Name, diags: diags}

	// Members resolve against the source-side owner, so the class itself is
	// renamed last.
	for _, f := range node.Fields {
		c.field(f)
	}

	for _, m := range node.Methods {
		if err := c.method(m, bodies); err != nil {
			return fmt.Errorf("method %s%s: %w", m.Name, m.Desc, err)
		}
	}

	c.records()

	if err := c.enclosingMethod(); err != nil {
		return err
	}

	c.identity()

	return nil
}

// className translates an internal name or array descriptor.
func (p *Pass) className(name string) string {
	return p.mapping.MapClassOrType(name, p.dir)
}

func (p *Pass) typeDesc(desc string) string {
	return p.mapping.MapType(desc, p.dir)
}

func (p *Pass) methodDesc(desc string) (string, error) {
	return p.mapping.MapMethodDesc(desc, p.dir)
}

// methodName resolves a method reference through owner and the types it
// inherits from. The first class declaring a mapping for the method wins.
func (p *Pass) methodName(owner, name, desc string) string {
	if strings.HasPrefix(name, "<") {
		return name
	}

	for _, candidate := range p.tree.Candidates(owner) {
		if mapped, ok := p.mapping.MapMethodName(candidate, name, desc, p.dir); ok {
			return mapped
		}
	}

	return name
}

// fieldName resolves a field reference the way methodName resolves
// methods.
func (p *Pass) fieldName(owner, name string) string {
	for _, candidate := range p.tree.Candidates(owner) {
		if mapped, ok := p.mapping.MapFieldName(candidate, name, p.dir); ok {
			return mapped
		}
	}

	return name
}

// classRewrite is the state of one Transform call.
type classRewrite struct {
	*Pass

	node *classfile.ClassNode
	// owner is the source-side name of the class.
	owner string
	diags *diagnostic.Diagnostics
}

// signature translates a generic signature. A signature that does not parse
// is kept and reported.
func (c *classRewrite) signature(sig, member string) string {
	if sig == "" {
		return sig
	}

	out, err := c.mapping.MapSignature(sig, c.dir)
	if err != nil {
		if c.diags != nil {
			c.diags.AddWarning("malformed_signature", err.Error(), c.owner, member)
		}

		return sig
	}

	return out
}

func (c *classRewrite) identity() {
	n := c.node

	n.Name = c.className(n.Name)
	n.Signature = c.signature(n.Signature, "")

	if n.Super != "" {
		n.Super = c.className(n.Super)
	}

	common.Replace(n.Interfaces, c.className)

	if n.OuterClass != "" {
		n.OuterClass = c.className(n.OuterClass)
	}

	if n.NestHost != "" {
		n.NestHost = c.className(n.NestHost)
	}

	common.Replace(n.NestMembers, c.className)
	common.Replace(n.PermittedSubclasses, c.className)

	for i := range n.InnerClasses {
		c.innerClass(&n.InnerClasses[i])
	}
}

func (c *classRewrite) innerClass(ic *classfile.InnerClass) {
	if ic.OuterName != "" {
		ic.OuterName = c.className(ic.OuterName)
	}

	renamed, ok := c.mapping.MapClassName(ic.Name, c.dir)
	if !ok {
		return
	}

	ic.Name = renamed

	// Anonymous classes have no inner name and get none.
	if ic.InnerName != "" {
		ic.InnerName = innerName(renamed, ic.OuterName == "")
	}
}

// innerName returns the simple name of a nested class. Local classes carry
// an index before their name ("Outer$1Local"), which is dropped.
func innerName(name string, local bool) string {
	suffix := common.InnerSuffix(name)
	if !local {
		return suffix
	}

	if trimmed := strings.TrimLeft(suffix, "0123456789"); trimmed != "" {
		return trimmed
	}

	return suffix
}

func (c *classRewrite) field(f *classfile.Field) {
	name := f.Name

	if mapped, ok := c.mapping.MapFieldName(c.owner, f.Name, c.dir); ok {
		f.Name = mapped
	}

	f.Desc = c.typeDesc(f.Desc)
	f.Signature = c.signature(f.Signature, name)
}

func (c *classRewrite) method(m *classfile.Method, bodies bool) error {
	name := m.Name

	desc, err := c.methodDesc(m.Desc)
	if err != nil {
		return err
	}

	m.Name = c.declaredMethodName(m.Name, m.Desc)
	m.Desc = desc
	m.Signature = c.signature(m.Signature, name)
	common.Replace(m.Exceptions, c.className)

	if !bodies || m.Code == nil {
		return nil
	}

	return c.code(m.Code, name)
}

// declaredMethodName resolves a method the class declares. Supertypes
// outside the archive are missing from the tree, so after the tree
// candidates the direct interfaces and superclass of the class are tried.
// An override of a mapped library method follows its mapping.
func (c *classRewrite) declaredMethodName(name, desc string) string {
	if strings.HasPrefix(name, "<") {
		return name
	}

	owners := slices.Clone(c.tree.Candidates(c.owner))
	owners = append(owners, c.node.Interfaces...)

	if c.node.Super != "" {
		owners = append(owners, c.node.Super)
	}

	seen := make(map[string]struct{}, len(owners))

	for _, owner := range owners {
		if _, dup := seen[owner]; dup {
			continue
		}

		seen[owner] = struct{}{}

		if mapped, ok := c.mapping.MapMethodName(owner, name, desc, c.dir); ok {
			return mapped
		}
	}

	return name
}

// records rewrites the record components. Component names follow the
// fields backing them.
func (c *classRewrite) records() {
	for i := range c.node.RecordComponents {
		rc := &c.node.RecordComponents[i]
		name := rc.Name

		if mapped, ok := c.mapping.MapFieldName(c.owner, rc.Name, c.dir); ok {
			rc.Name = mapped
		}

		rc.Desc = c.typeDesc(rc.Desc)
		rc.Signature = c.signature(rc.Signature, name)
	}
}

func (c *classRewrite) enclosingMethod() error {
	n := c.node
	if n.OuterMethod == "" {
		return nil
	}

	desc, err := c.methodDesc(n.OuterMethodDesc)
	if err != nil {
		return fmt.Errorf("enclosing method %s%s: %w", n.OuterMethod, n.OuterMethodDesc, err)
	}

	n.OuterMethod = c.methodName(n.OuterClass, n.OuterMethod, n.OuterMethodDesc)
	n.OuterMethodDesc = desc

	return nil
}
