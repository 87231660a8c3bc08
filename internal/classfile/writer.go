package classfile

import (
	"errors"
	"fmt"
)

// Raw attributes that never refer to the constant pool.
var poolFreeAttributes = map[string]bool{
	"Synthetic":            true,
	"Deprecated":           true,
	"SourceDebugExtension": true,
}

// Writer encodes ClassNodes.
type Writer struct {
	// Hierarchy resolves the superclasses of classes met while frames are
	// computed. It is required when ComputeFrames is set.
	Hierarchy Hierarchy
	// ComputeFrames recomputes the StackMapTable and the max stack and
	// locals of every method of a class of version 50 or later. When unset
	// the decoded frames and sizes are written back.
	ComputeFrames bool
}

type attrOut struct {
	name string
	data []byte
}

type classWriter struct {
	w    *Writer
	node *ClassNode
	pool *poolBuilder
}

// Write encodes a class. When the class still carries raw attributes that
// may refer to constant pool entries, the pool it was read from is copied
// first so those references stay valid.
func (w *Writer) Write(node *ClassNode) ([]byte, error) {
	if node.Name == "" {
		return nil, errors.New("class has no name")
	}

	var seed *constPool
	if node.pool != nil && needsPool(node) {
		seed = node.pool
	}

	cw := &classWriter{w: w, node: node, pool: newPoolBuilder(seed)}

	// Single-slot constants loaded by ldc go first so they get the short form.
	for _, m := range node.Methods {
		if m.Code == nil {
			continue
		}

		for _, insn := range m.Code.Instructions {
			if ldc, ok := insn.(*LdcInsn); ok && !isWideConstant(ldc.Value) {
				cw.pool.constant(ldc.Value)
			}
		}
	}

	var body byteWriter

	body.u2(int(node.Access))
	body.u2(cw.pool.class(node.Name))
	body.u2(cw.pool.optClass(node.Super))
	body.u2(len(node.Interfaces))

	for _, itf := range node.Interfaces {
		body.u2(cw.pool.class(itf))
	}

	body.u2(len(node.Fields))

	for _, f := range node.Fields {
		cw.writeField(&body, f)
	}

	body.u2(len(node.Methods))

	for _, m := range node.Methods {
		if err := cw.writeMethod(&body, m); err != nil {
			return nil, fmt.Errorf("method %s.%s%s: %w", node.Name, m.Name, m.Desc, err)
		}
	}

	attrs, err := cw.classAttributes()
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", node.Name, err)
	}

	// Every bootstrap method is known once the rest of the class is written.
	if data := cw.pool.bootstrapAttribute(); data != nil {
		attrs = append(attrs, attrOut{name: attrBootstrapMethods, data: data})
	}

	cw.writeAttributes(&body, attrs)

	if cw.pool.err != nil {
		return nil, fmt.Errorf("class %s: %w", node.Name, cw.pool.err)
	}

	var out byteWriter

	out.u4(Magic)
	out.u2(int(node.MinorVersion))
	out.u2(int(node.MajorVersion))
	out.u2(cw.pool.count)
	out.bytes(cw.pool.out.buf)
	out.bytes(body.buf)

	return out.buf, nil
}

func needsPool(node *ClassNode) bool {
	refers := func(attrs []Attribute) bool {
		for _, a := range attrs {
			if !poolFreeAttributes[a.Name] {
				return true
			}
		}

		return false
	}

	if refers(node.Attributes) {
		return true
	}

	for _, f := range node.Fields {
		if refers(f.Attributes) {
			return true
		}
	}

	for _, m := range node.Methods {
		if refers(m.Attributes) {
			return true
		}
	}

	for _, rc := range node.RecordComponents {
		if refers(rc.Attributes) {
			return true
		}
	}

	return false
}

func isWideConstant(c Constant) bool {
	switch c := c.(type) {
	case LongConst, DoubleConst:
		return true
	case ConstantDynamic:
		return c.Desc == "J" || c.Desc == "D"
	default:
		return false
	}
}

func (cw *classWriter) writeAttributes(w *byteWriter, attrs []attrOut) {
	w.u2(len(attrs))

	for _, a := range attrs {
		w.u2(cw.pool.utf8(a.name))
		w.u4(uint32(len(a.data)))
		w.bytes(a.data)
	}
}

func (cw *classWriter) u2Attr(name string, idx int) attrOut {
	var w byteWriter

	w.u2(idx)

	return attrOut{name: name, data: w.buf}
}

func (cw *classWriter) classListAttr(name string, classes []string) attrOut {
	var w byteWriter

	w.u2(len(classes))

	for _, c := range classes {
		w.u2(cw.pool.class(c))
	}

	return attrOut{name: name, data: w.buf}
}

func rawAttributes(attrs []Attribute) []attrOut {
	out := make([]attrOut, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attrOut{name: a.Name, data: a.Data})
	}

	return out
}

func (cw *classWriter) writeField(w *byteWriter, f *Field) {
	w.u2(int(f.Access))
	w.u2(cw.pool.utf8(f.Name))
	w.u2(cw.pool.utf8(f.Desc))

	var attrs []attrOut

	if f.Value != nil {
		attrs = append(attrs, cw.u2Attr(attrConstantValue, cw.pool.constant(f.Value)))
	}

	if f.Signature != "" {
		attrs = append(attrs, cw.u2Attr(attrSignature, cw.pool.utf8(f.Signature)))
	}

	attrs = append(attrs, rawAttributes(f.Attributes)...)
	cw.writeAttributes(w, attrs)
}

func (cw *classWriter) writeMethod(w *byteWriter, m *Method) error {
	w.u2(int(m.Access))
	w.u2(cw.pool.utf8(m.Name))
	w.u2(cw.pool.utf8(m.Desc))

	var attrs []attrOut

	if m.Code != nil {
		data, err := cw.writeCode(m)
		if err != nil {
			return err
		}

		attrs = append(attrs, attrOut{name: attrCode, data: data})
	}

	if len(m.Exceptions) > 0 {
		attrs = append(attrs, cw.classListAttr(attrExceptions, m.Exceptions))
	}

	if m.Signature != "" {
		attrs = append(attrs, cw.u2Attr(attrSignature, cw.pool.utf8(m.Signature)))
	}

	attrs = append(attrs, rawAttributes(m.Attributes)...)
	cw.writeAttributes(w, attrs)

	return nil
}

func (cw *classWriter) classAttributes() ([]attrOut, error) {
	node := cw.node

	var attrs []attrOut

	if node.SourceFile != "" {
		attrs = append(attrs, cw.u2Attr(attrSourceFile, cw.pool.utf8(node.SourceFile)))
	}

	if node.Signature != "" {
		attrs = append(attrs, cw.u2Attr(attrSignature, cw.pool.utf8(node.Signature)))
	}

	if len(node.InnerClasses) > 0 {
		var w byteWriter

		w.u2(len(node.InnerClasses))

		for _, ic := range node.InnerClasses {
			w.u2(cw.pool.class(ic.Name))
			w.u2(cw.pool.optClass(ic.OuterName))
			w.u2(cw.pool.optUtf8(ic.InnerName))
			w.u2(int(ic.Access))
		}

		attrs = append(attrs, attrOut{name: attrInnerClasses, data: w.buf})
	}

	if node.OuterClass != "" {
		var w byteWriter

		w.u2(cw.pool.class(node.OuterClass))

		if node.OuterMethod != "" {
			w.u2(cw.pool.nameAndType(node.OuterMethod, node.OuterMethodDesc))
		} else {
			w.u2(0)
		}

		attrs = append(attrs, attrOut{name: attrEnclosingMethod, data: w.buf})
	}

	if node.NestHost != "" {
		attrs = append(attrs, cw.u2Attr(attrNestHost, cw.pool.class(node.NestHost)))
	}

	if len(node.NestMembers) > 0 {
		attrs = append(attrs, cw.classListAttr(attrNestMembers, node.NestMembers))
	}

	if len(node.PermittedSubclasses) > 0 {
		attrs = append(attrs, cw.classListAttr(attrPermittedSubclasses, node.PermittedSubclasses))
	}

	if node.RecordComponents != nil {
		var w byteWriter

		w.u2(len(node.RecordComponents))

		for _, rc := range node.RecordComponents {
			w.u2(cw.pool.utf8(rc.Name))
			w.u2(cw.pool.utf8(rc.Desc))

			var rattrs []attrOut
			if rc.Signature != "" {
				rattrs = append(rattrs, cw.u2Attr(attrSignature, cw.pool.utf8(rc.Signature)))
			}

			cw.writeAttributes(&w, append(rattrs, rawAttributes(rc.Attributes)...))
		}

		attrs = append(attrs, attrOut{name: attrRecord, data: w.buf})
	}

	for _, a := range node.Attributes {
		if a.Name == attrBootstrapMethods {
			return nil, fmt.Errorf("%w: raw %s attribute", ErrMalformed, a.Name)
		}
	}

	return append(attrs, rawAttributes(node.Attributes)...), nil
}
