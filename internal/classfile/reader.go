package classfile

import (
	"bytes"
	"fmt"
	"math"

	"archive-mapper/internal/jvmtype"
)

// Attribute names.
const (
	attrBootstrapMethods       = "BootstrapMethods"
	attrCode                   = "Code"
	attrConstantValue          = "ConstantValue"
	attrEnclosingMethod        = "EnclosingMethod"
	attrExceptions             = "Exceptions"
	attrInnerClasses           = "InnerClasses"
	attrLineNumberTable        = "LineNumberTable"
	attrLocalVariableTable     = "LocalVariableTable"
	attrLocalVariableTypeTable = "LocalVariableTypeTable"
	attrNestHost               = "NestHost"
	attrNestMembers            = "NestMembers"
	attrPermittedSubclasses    = "PermittedSubclasses"
	attrRecord                 = "Record"
	attrSignature              = "Signature"
	attrSourceFile             = "SourceFile"
	attrStackMapTable          = "StackMapTable"
)

type bootstrapEntry struct {
	handle uint16
	args   []uint16
	raw    []byte
}

type classReader struct {
	pool *constPool
	bsms []bootstrapEntry
	// depth guards constant resolution against cyclic dynamic constants.
	depth int
}

type memberInfo struct {
	access uint16
	name   string
	desc   string
	attrs  []Attribute
}

// Parse decodes a class file.
func Parse(data []byte) (*ClassNode, error) {
	r := &byteReader{data: data}

	node := &ClassNode{}

	pool, err := readHeader(r, node)
	if err != nil {
		return nil, err
	}

	fields, err := readMembers(r, pool)
	if err != nil {
		return nil, err
	}

	methods, err := readMembers(r, pool)
	if err != nil {
		return nil, err
	}

	classAttrs, err := readAttributes(r, pool)
	if err != nil {
		return nil, err
	}

	if r.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(data)-r.pos)
	}

	cr := &classReader{pool: pool}
	node.pool = pool

	for _, a := range classAttrs {
		if a.Name == attrBootstrapMethods {
			if cr.bsms, err = readBootstrapMethods(a.Data); err != nil {
				return nil, err
			}

			for _, e := range cr.bsms {
				pool.bootstrap = append(pool.bootstrap, e.raw)
			}
		}
	}

	if err := cr.readClassAttributes(node, classAttrs); err != nil {
		return nil, fmt.Errorf("class %s: %w", node.Name, err)
	}

	for _, fi := range fields {
		f, err := cr.readField(fi)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", node.Name, fi.name, err)
		}

		node.Fields = append(node.Fields, f)
	}

	for _, mi := range methods {
		m, err := cr.readMethod(node.Name, mi)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s%s: %w", node.Name, mi.name, mi.desc, err)
		}

		node.Methods = append(node.Methods, m)
	}

	return node, nil
}

// ReadHeader decodes only the part of a class file that places the class in
// the type hierarchy.
func ReadHeader(data []byte) (*HierarchyNode, error) {
	node := &ClassNode{}

	if _, err := readHeader(&byteReader{data: data}, node); err != nil {
		return nil, err
	}

	return node.HierarchyNode(), nil
}

func readHeader(r *byteReader, node *ClassNode) (*constPool, error) {
	if magic := r.u4(); magic != Magic {
		if r.err != nil {
			return nil, r.err
		}

		return nil, fmt.Errorf("%w: bad magic %#x", ErrMalformed, magic)
	}

	node.MinorVersion = r.u2()
	node.MajorVersion = r.u2()

	pool, err := readPool(r)
	if err != nil {
		return nil, err
	}

	node.Access = r.u2()
	this, super := r.u2(), r.u2()

	n := int(r.u2())
	ifaces := make([]uint16, n)

	for i := range ifaces {
		ifaces[i] = r.u2()
	}

	if r.err != nil {
		return nil, r.err
	}

	if node.Name, err = pool.className(this); err != nil {
		return nil, err
	}

	if node.Super, err = pool.optClassName(super); err != nil {
		return nil, err
	}

	for _, idx := range ifaces {
		name, err := pool.className(idx)
		if err != nil {
			return nil, err
		}

		node.Interfaces = append(node.Interfaces, name)
	}

	return pool, nil
}

func readMembers(r *byteReader, pool *constPool) ([]memberInfo, error) {
	n := int(r.u2())
	members := make([]memberInfo, 0, n)

	for range n {
		access, nameIdx, descIdx := r.u2(), r.u2(), r.u2()

		attrs, err := readAttributes(r, pool)
		if err != nil {
			return nil, err
		}

		name, err := pool.utf8(nameIdx)
		if err != nil {
			return nil, err
		}

		desc, err := pool.utf8(descIdx)
		if err != nil {
			return nil, err
		}

		members = append(members, memberInfo{access: access, name: name, desc: desc, attrs: attrs})
	}

	return members, r.err
}

func readAttributes(r *byteReader, pool *constPool) ([]Attribute, error) {
	n := int(r.u2())

	var attrs []Attribute

	for range n {
		nameIdx := r.u2()
		data := r.bytes(int(r.u4()))

		if r.err != nil {
			return nil, r.err
		}

		name, err := pool.utf8(nameIdx)
		if err != nil {
			return nil, err
		}

		attrs = append(attrs, Attribute{Name: name, Data: bytes.Clone(data)})
	}

	return attrs, nil
}

func readBootstrapMethods(data []byte) ([]bootstrapEntry, error) {
	r := &byteReader{data: data}

	n := int(r.u2())
	bsms := make([]bootstrapEntry, 0, n)

	for range n {
		start := r.pos
		e := bootstrapEntry{handle: r.u2()}

		args := int(r.u2())
		for range args {
			e.args = append(e.args, r.u2())
		}

		if r.err == nil {
			e.raw = data[start:r.pos]
		}

		bsms = append(bsms, e)
	}

	return bsms, r.err
}

// constant resolves a loadable constant.
func (cr *classReader) constant(i uint16) (Constant, error) {
	e, err := cr.pool.entry(i, tagInteger, tagFloat, tagLong, tagDouble, tagString, tagClass,
		tagMethodType, tagMethodHandle, tagDynamic)
	if err != nil {
		return nil, err
	}

	switch e.tag {
	case tagInteger:
		return IntConst(int32(uint32(e.bits))), nil
	case tagFloat:
		return FloatConst(math.Float32frombits(uint32(e.bits))), nil
	case tagLong:
		return LongConst(int64(e.bits)), nil
	case tagDouble:
		return DoubleConst(math.Float64frombits(e.bits)), nil
	case tagString:
		s, err := cr.pool.utf8(e.a)
		return StringConst(s), err
	case tagClass:
		s, err := cr.pool.utf8(e.a)
		return ClassConst(s), err
	case tagMethodType:
		s, err := cr.pool.utf8(e.a)
		return TypeConst{Desc: s}, err
	case tagMethodHandle:
		return cr.pool.handle(i)
	default:
		name, desc, err := cr.pool.nameAndType(e.b)
		if err != nil {
			return nil, err
		}

		bsm, args, err := cr.bootstrap(e.a)
		if err != nil {
			return nil, err
		}

		return ConstantDynamic{Name: name, Desc: desc, Bsm: bsm, Args: args}, nil
	}
}

func (cr *classReader) bootstrap(i uint16) (Handle, []Constant, error) {
	if int(i) >= len(cr.bsms) {
		return Handle{}, nil, fmt.Errorf("%w: bootstrap method %d out of range", ErrMalformed, i)
	}

	cr.depth++
	defer func() { cr.depth-- }()

	if cr.depth > 32 {
		return Handle{}, nil, fmt.Errorf("%w: dynamic constants nested too deep", ErrMalformed)
	}

	e := cr.bsms[i]

	h, err := cr.pool.handle(e.handle)
	if err != nil {
		return Handle{}, nil, err
	}

	var args []Constant

	for _, a := range e.args {
		c, err := cr.constant(a)
		if err != nil {
			return Handle{}, nil, err
		}

		args = append(args, c)
	}

	return h, args, nil
}

func (cr *classReader) classList(data []byte) ([]string, error) {
	r := &byteReader{data: data}

	n := int(r.u2())
	names := make([]string, 0, n)

	for range n {
		name, err := cr.pool.className(r.u2())
		if err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, r.err
}

func (cr *classReader) utf8Attr(data []byte) (string, error) {
	r := &byteReader{data: data}
	idx := r.u2()

	if r.err != nil {
		return "", r.err
	}

	return cr.pool.utf8(idx)
}

func (cr *classReader) readClassAttributes(node *ClassNode, attrs []Attribute) error {
	var err error

	for _, a := range attrs {
		switch a.Name {
		case attrBootstrapMethods:
			// Rebuilt by the writer.
		case attrSourceFile:
			node.SourceFile, err = cr.utf8Attr(a.Data)
		case attrSignature:
			node.Signature, err = cr.utf8Attr(a.Data)
		case attrNestHost:
			r := &byteReader{data: a.Data}
			node.NestHost, err = cr.pool.className(r.u2())
		case attrNestMembers:
			node.NestMembers, err = cr.classList(a.Data)
		case attrPermittedSubclasses:
			node.PermittedSubclasses, err = cr.classList(a.Data)
		case attrEnclosingMethod:
			err = cr.readEnclosingMethod(node, a.Data)
		case attrInnerClasses:
			node.InnerClasses, err = cr.readInnerClasses(a.Data)
		case attrRecord:
			node.RecordComponents, err = cr.readRecord(a.Data)
		default:
			node.Attributes = append(node.Attributes, a)
		}

		if err != nil {
			return fmt.Errorf("attribute %s: %w", a.Name, err)
		}
	}

	return nil
}

func (cr *classReader) readEnclosingMethod(node *ClassNode, data []byte) error {
	r := &byteReader{data: data}
	classIdx, methodIdx := r.u2(), r.u2()

	if r.err != nil {
		return r.err
	}

	var err error

	if node.OuterClass, err = cr.pool.className(classIdx); err != nil {
		return err
	}

	if methodIdx != 0 {
		node.OuterMethod, node.OuterMethodDesc, err = cr.pool.nameAndType(methodIdx)
	}

	return err
}

func (cr *classReader) readInnerClasses(data []byte) ([]InnerClass, error) {
	r := &byteReader{data: data}

	n := int(r.u2())
	out := make([]InnerClass, 0, n)

	for range n {
		inner, outer, name, access := r.u2(), r.u2(), r.u2(), r.u2()
		if r.err != nil {
			return nil, r.err
		}

		var (
			ic  = InnerClass{Access: access}
			err error
		)

		if ic.Name, err = cr.pool.className(inner); err != nil {
			return nil, err
		}

		if ic.OuterName, err = cr.pool.optClassName(outer); err != nil {
			return nil, err
		}

		if ic.InnerName, err = cr.pool.optUtf8(name); err != nil {
			return nil, err
		}

		out = append(out, ic)
	}

	return out, nil
}

func (cr *classReader) readRecord(data []byte) ([]RecordComponent, error) {
	r := &byteReader{data: data}

	n := int(r.u2())
	out := make([]RecordComponent, 0, n)

	for range n {
		nameIdx, descIdx := r.u2(), r.u2()

		attrs, err := readAttributes(r, cr.pool)
		if err != nil {
			return nil, err
		}

		rc := RecordComponent{}

		if rc.Name, err = cr.pool.utf8(nameIdx); err != nil {
			return nil, err
		}

		if rc.Desc, err = cr.pool.utf8(descIdx); err != nil {
			return nil, err
		}

		for _, a := range attrs {
			if a.Name == attrSignature {
				if rc.Signature, err = cr.utf8Attr(a.Data); err != nil {
					return nil, err
				}

				continue
			}

			rc.Attributes = append(rc.Attributes, a)
		}

		out = append(out, rc)
	}

	return out, r.err
}

func (cr *classReader) readField(mi memberInfo) (*Field, error) {
	f := &Field{Access: mi.access, Name: mi.name, Desc: mi.desc}

	for _, a := range mi.attrs {
		var err error

		switch a.Name {
		case attrConstantValue:
			r := &byteReader{data: a.Data}
			f.Value, err = cr.constant(r.u2())
		case attrSignature:
			f.Signature, err = cr.utf8Attr(a.Data)
		default:
			f.Attributes = append(f.Attributes, a)
		}

		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
	}

	return f, nil
}

func (cr *classReader) readMethod(owner string, mi memberInfo) (*Method, error) {
	m := &Method{Access: mi.access, Name: mi.name, Desc: mi.desc}

	var code []byte

	for _, a := range mi.attrs {
		var err error

		switch a.Name {
		case attrCode:
			code = a.Data
		case attrExceptions:
			m.Exceptions, err = cr.classList(a.Data)
		case attrSignature:
			m.Signature, err = cr.utf8Attr(a.Data)
		default:
			m.Attributes = append(m.Attributes, a)
		}

		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
	}

	if code != nil {
		c, err := cr.readCode(owner, m, code)
		if err != nil {
			return nil, err
		}

		m.Code = c
	}

	return m, nil
}

// initialLocals returns the implicit first frame of a method in class file
// form.
func initialLocals(owner string, access uint16, name, desc string) ([]VType, error) {
	mt, err := jvmtype.ParseMethod(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var locals []VType

	if access&AccStatic == 0 {
		if name == "<init>" && owner != "java/lang/Object" {
			locals = append(locals, UninitializedThis)
		} else {
			locals = append(locals, ObjectType(owner))
		}
	}

	for _, p := range mt.Params {
		locals = append(locals, vtypeOf(p))
	}

	return locals, nil
}

// vtypeOf returns the verification type of a value of type t.
func vtypeOf(t jvmtype.TypeIdentifier) VType {
	switch t := t.(type) {
	case jvmtype.Primitive:
		switch t {
		case jvmtype.Float:
			return Float
		case jvmtype.Long:
			return Long
		case jvmtype.Double:
			return Double
		case jvmtype.Void:
			return Top
		default:
			return Integer
		}
	case jvmtype.ClassRef:
		return ObjectType(t.Name)
	default:
		return ObjectType(t.Descriptor())
	}
}

// vtypeOfDesc is vtypeOf for a field descriptor.
func vtypeOfDesc(desc string) (VType, error) {
	t, err := jvmtype.Parse(desc)
	if err != nil {
		return VType{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return vtypeOf(t), nil
}
