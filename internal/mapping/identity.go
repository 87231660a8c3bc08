package mapping

import (
	"archive-mapper/internal/jvmtype"
)

// Identity is the pair of simple names one mapped entity carries on the two sides.
type Identity struct {
	Real string
	Fake string
}

// Name returns the name on the given side.
func (id Identity) Name(side Side) string {
	if side == Fake {
		return id.Fake
	}

	return id.Real
}

// Named is implemented by every table entry.
type Named interface {
	Names() Identity
}

// MethodIdentifier identifies a method on one side: its name plus the ordered
// parameter types needed to tell overloads apart. The return type is not part
// of the identity.
type MethodIdentifier struct {
	Name   string
	Params []jvmtype.TypeIdentifier
	Side   Side
}

func (m MethodIdentifier) key() memberKey {
	return memberKey{name: m.Name, params: jvmtype.ParamsDescriptor(m.Params), side: m.Side}
}

// FieldIdentifier identifies a field on one side.
type FieldIdentifier struct {
	Name string
	Side Side
}

func (f FieldIdentifier) key() memberKey {
	return memberKey{name: f.Name, side: f.Side}
}

type memberKey struct {
	name   string
	params string
	side   Side
}

// MethodEntry is one mapped method.
type MethodEntry struct {
	Real MethodIdentifier
	Fake MethodIdentifier
}

// Names implements Named.
func (e *MethodEntry) Names() Identity {
	return Identity{Real: e.Real.Name, Fake: e.Fake.Name}
}

// FieldEntry is one mapped field.
type FieldEntry struct {
	Real FieldIdentifier
	Fake FieldIdentifier
}

// Names implements Named.
func (e *FieldEntry) Names() Identity {
	return Identity{Real: e.Real.Name, Fake: e.Fake.Name}
}

// ClassEntry is one mapped class with its member tables.
// Class names are internal names ("com/example/Widget").
type ClassEntry struct {
	Identity

	methods    map[memberKey]*MethodEntry
	fields     map[memberKey]*FieldEntry
	methodList []*MethodEntry
	fieldList  []*FieldEntry
}

// NewClassEntry builds a class entry. Members sharing a key on one side
// resolve to the entry given last.
func NewClassEntry(id Identity, methods []*MethodEntry, fields []*FieldEntry) *ClassEntry {
	c := &ClassEntry{
		Identity:   id,
		methods:    make(map[memberKey]*MethodEntry, 2*len(methods)),
		fields:     make(map[memberKey]*FieldEntry, 2*len(fields)),
		methodList: append([]*MethodEntry(nil), methods...),
		fieldList:  append([]*FieldEntry(nil), fields...),
	}

	for _, m := range c.methodList {
		c.methods[m.Real.withSide(Real).key()] = m
		c.methods[m.Fake.withSide(Fake).key()] = m
	}

	for _, f := range c.fieldList {
		c.fields[FieldIdentifier{Name: f.Real.Name, Side: Real}.key()] = f
		c.fields[FieldIdentifier{Name: f.Fake.Name, Side: Fake}.key()] = f
	}

	return c
}

func (m MethodIdentifier) withSide(side Side) MethodIdentifier {
	m.Side = side
	return m
}

// Names implements Named.
func (c *ClassEntry) Names() Identity {
	return c.Identity
}

// Method looks up a method by its identifier on the identifier's side.
func (c *ClassEntry) Method(id MethodIdentifier) (*MethodEntry, bool) {
	e, ok := c.methods[id.key()]
	return e, ok
}

// Field looks up a field by its identifier on the identifier's side.
func (c *ClassEntry) Field(id FieldIdentifier) (*FieldEntry, bool) {
	e, ok := c.fields[id.key()]
	return e, ok
}

// Methods returns the method entries in construction order.
func (c *ClassEntry) Methods() []*MethodEntry {
	return c.methodList
}

// Fields returns the field entries in construction order.
func (c *ClassEntry) Fields() []*FieldEntry {
	return c.fieldList
}
