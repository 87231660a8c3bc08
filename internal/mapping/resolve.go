package mapping

import (
	"fmt"
	"strings"

	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/jvmtype"
	"archive-mapper/internal/signature"
)

// Class returns the entry of a class named on the direction's source side.
func (m *ArchiveMapping) Class(name string, dir Direction) (*ClassEntry, bool) {
	return m.classes.Get(dir.Source(), name)
}

// MapClassName translates an internal class name. A false result means the
// class is not in the table and the name should be left unchanged.
func (m *ArchiveMapping) MapClassName(name string, dir Direction) (string, bool) {
	c, ok := m.Class(name, dir)
	if !ok {
		return "", false
	}

	return c.Name(dir.Target()), true
}

// MapType translates a field descriptor. Primitives, empty input and
// anything that is not descriptor-shaped are returned unchanged.
func (m *ArchiveMapping) MapType(desc string, dir Direction) string {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}

	elem := desc[dims:]
	if len(elem) < 3 || elem[0] != 'L' || elem[len(elem)-1] != ';' {
		return desc
	}

	mapped, ok := m.MapClassName(elem[1:len(elem)-1], dir)
	if !ok {
		return desc
	}

	return desc[:dims] + "L" + mapped + ";"
}

// MapTypeIdentifier translates a decoded type.
func (m *ArchiveMapping) MapTypeIdentifier(t jvmtype.TypeIdentifier, dir Direction) jvmtype.TypeIdentifier {
	switch t := t.(type) {
	case jvmtype.ClassRef:
		if mapped, ok := m.MapClassName(t.Name, dir); ok {
			return jvmtype.ClassRef{Name: mapped}
		}

		return t
	case jvmtype.ArrayOf:
		return jvmtype.ArrayOf{Elem: m.MapTypeIdentifier(t.Elem, dir)}
	default:
		return t
	}
}

// MapMethodDesc translates a method descriptor such as "(La/A;I)V".
// The descriptor must not carry a method name.
func (m *ArchiveMapping) MapMethodDesc(desc string, dir Direction) (string, error) {
	switch i := strings.IndexByte(desc, '('); {
	case i > 0:
		return "", diagnostic.New(diagnostic.InvalidUsage, desc,
			"method descriptor carries a name; map the name with MapMethodName and pass the bare descriptor")
	case i < 0:
		return "", diagnostic.New(diagnostic.InvalidUsage, desc, "not a method descriptor")
	}

	mt, err := jvmtype.ParseMethod(desc)
	if err != nil {
		return "", diagnostic.Wrap(diagnostic.InvalidUsage, desc, err)
	}

	return m.mapMethodType(mt, dir).Descriptor(), nil
}

func (m *ArchiveMapping) mapMethodType(mt jvmtype.MethodType, dir Direction) jvmtype.MethodType {
	params := make([]jvmtype.TypeIdentifier, len(mt.Params))
	for i, p := range mt.Params {
		params[i] = m.MapTypeIdentifier(p, dir)
	}

	return jvmtype.MethodType{Params: params, Return: m.MapTypeIdentifier(mt.Return, dir)}
}

// MapClassOrType translates the operand of a CONSTANT_Class entry: array
// classes are descriptors, everything else is an internal name.
func (m *ArchiveMapping) MapClassOrType(name string, dir Direction) string {
	if strings.HasPrefix(name, "[") {
		return m.MapType(name, dir)
	}

	if mapped, ok := m.MapClassName(name, dir); ok {
		return mapped
	}

	return name
}

// MapMethodName translates the name of a method declared by owner. desc is
// the method's descriptor on the source side.
func (m *ArchiveMapping) MapMethodName(owner, name, desc string, dir Direction) (string, bool) {
	c, ok := m.Class(owner, dir)
	if !ok {
		return "", false
	}

	mt, err := jvmtype.ParseMethod(desc)
	if err != nil {
		return "", false
	}

	e, ok := c.Method(MethodIdentifier{Name: name, Params: mt.Params, Side: dir.Source()})
	if !ok {
		return "", false
	}

	return e.Names().Name(dir.Target()), true
}

// MapFieldName translates the name of a field declared by owner.
func (m *ArchiveMapping) MapFieldName(owner, name string, dir Direction) (string, bool) {
	c, ok := m.Class(owner, dir)
	if !ok {
		return "", false
	}

	e, ok := c.Field(FieldIdentifier{Name: name, Side: dir.Source()})
	if !ok {
		return "", false
	}

	return e.Names().Name(dir.Target()), true
}

// MapSignature translates the class names inside a generic signature.
// Everything that is not a class or inner class token is kept verbatim.
func (m *ArchiveMapping) MapSignature(sig string, dir Direction) (string, error) {
	out, err := signature.Rewrite(sig, func(name string) (string, bool) {
		return m.MapClassName(name, dir)
	})
	if err != nil {
		return "", fmt.Errorf("map signature %q: %w", sig, err)
	}

	return out, nil
}
