package classfile

import (
	"errors"
	"fmt"
	"math"
)

var errPoolOverflow = errors.New("constant pool exceeds 65535 entries")

// cpEntry is one constant pool entry as read.
type cpEntry struct {
	tag uint8
	// a and b are the index operands; for MethodHandle a is the kind.
	a, b uint16
	str  string
	bits uint64
	// raw is the serialized entry, tag included.
	raw []byte
}

// constPool is a constant pool as read. Index 0 and the slot after a long
// or double are empty entries with tag 0.
type constPool struct {
	entries []cpEntry
	// bootstrap holds the serialized BootstrapMethods entries that the
	// dynamic entries of the pool refer to.
	bootstrap [][]byte
}

func readPool(r *byteReader) (*constPool, error) {
	count := int(r.u2())
	if count == 0 {
		return nil, fmt.Errorf("%w: empty constant pool", ErrMalformed)
	}

	p := &constPool{entries: make([]cpEntry, count)}

	for i := 1; i < count; i++ {
		start := r.pos
		e := cpEntry{tag: r.u1()}

		switch e.tag {
		case tagUtf8:
			e.str = string(r.bytes(int(r.u2())))
		case tagInteger, tagFloat:
			e.bits = uint64(r.u4())
		case tagLong, tagDouble:
			e.bits = r.u8()
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.a = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			e.a = r.u2()
			e.b = r.u2()
		case tagMethodHandle:
			e.a = uint16(r.u1())
			e.b = r.u2()
		default:
			if r.err == nil {
				return nil, fmt.Errorf("%w: unknown constant tag %d at index %d", ErrMalformed, e.tag, i)
			}
		}

		if r.err != nil {
			return nil, r.err
		}

		e.raw = r.data[start:r.pos]
		p.entries[i] = e

		if e.tag == tagLong || e.tag == tagDouble {
			i++
		}
	}

	return p, nil
}

func (p *constPool) entry(i uint16, tags ...uint8) (cpEntry, error) {
	if int(i) <= 0 || int(i) >= len(p.entries) {
		return cpEntry{}, fmt.Errorf("%w: constant index %d out of range", ErrMalformed, i)
	}

	e := p.entries[i]
	for _, t := range tags {
		if e.tag == t {
			return e, nil
		}
	}

	return cpEntry{}, fmt.Errorf("%w: constant %d has tag %d, want %v", ErrMalformed, i, e.tag, tags)
}

func (p *constPool) utf8(i uint16) (string, error) {
	e, err := p.entry(i, tagUtf8)
	return e.str, err
}

// optUtf8 resolves an index that may be zero.
func (p *constPool) optUtf8(i uint16) (string, error) {
	if i == 0 {
		return "", nil
	}

	return p.utf8(i)
}

func (p *constPool) className(i uint16) (string, error) {
	e, err := p.entry(i, tagClass)
	if err != nil {
		return "", err
	}

	return p.utf8(e.a)
}

func (p *constPool) optClassName(i uint16) (string, error) {
	if i == 0 {
		return "", nil
	}

	return p.className(i)
}

func (p *constPool) nameAndType(i uint16) (string, string, error) {
	e, err := p.entry(i, tagNameAndType)
	if err != nil {
		return "", "", err
	}

	name, err := p.utf8(e.a)
	if err != nil {
		return "", "", err
	}

	desc, err := p.utf8(e.b)

	return name, desc, err
}

// memberRef resolves a Fieldref, Methodref or InterfaceMethodref.
func (p *constPool) memberRef(i uint16) (owner, name, desc string, itf bool, err error) {
	e, err := p.entry(i, tagFieldref, tagMethodref, tagInterfaceMethodref)
	if err != nil {
		return "", "", "", false, err
	}

	owner, err = p.className(e.a)
	if err != nil {
		return "", "", "", false, err
	}

	name, desc, err = p.nameAndType(e.b)

	return owner, name, desc, e.tag == tagInterfaceMethodref, err
}

func (p *constPool) handle(i uint16) (Handle, error) {
	e, err := p.entry(i, tagMethodHandle)
	if err != nil {
		return Handle{}, err
	}

	owner, name, desc, itf, err := p.memberRef(e.b)
	if err != nil {
		return Handle{}, err
	}

	return Handle{Kind: HandleKind(e.a), Owner: owner, Name: name, Desc: desc, Interface: itf}, nil
}

// poolKey identifies an interned entry.
type poolKey struct {
	tag        uint8
	s1, s2, s3 string
	n          uint64
}

// poolBuilder interns constants while a class is written. Errors are sticky
// and checked once the class is written.
type poolBuilder struct {
	out   byteWriter
	count int
	index map[poolKey]int

	bsms     [][]byte
	bsmIndex map[string]int

	err error
}

func newPoolBuilder(seed *constPool) *poolBuilder {
	b := &poolBuilder{
		count:    1,
		index:    map[poolKey]int{},
		bsmIndex: map[string]int{},
	}

	if seed != nil {
		b.seed(seed)
	}

	return b
}

// seed copies every entry of an existing pool to the same index, so raw
// attributes that refer to it stay valid.
func (b *poolBuilder) seed(p *constPool) {
	for i := 1; i < len(p.entries); i++ {
		e := p.entries[i]
		if e.tag == 0 {
			continue
		}

		b.out.bytes(e.raw)

		if key, ok := seedKey(p, e); ok {
			if _, dup := b.index[key]; !dup {
				b.index[key] = i
			}
		}
	}

	b.count = len(p.entries)

	for _, e := range p.bootstrap {
		b.bsmIndex[string(e)] = len(b.bsms)
		b.bsms = append(b.bsms, e)
	}
}

func seedKey(p *constPool, e cpEntry) (poolKey, bool) {
	switch e.tag {
	case tagUtf8:
		return poolKey{tag: tagUtf8, s1: e.str}, true
	case tagInteger, tagFloat, tagLong, tagDouble:
		return poolKey{tag: e.tag, n: e.bits}, true
	case tagClass, tagString, tagMethodType:
		s, err := p.utf8(e.a)
		return poolKey{tag: e.tag, s1: s}, err == nil
	case tagNameAndType:
		name, err := p.utf8(e.a)
		if err != nil {
			return poolKey{}, false
		}

		desc, err := p.utf8(e.b)

		return poolKey{tag: e.tag, s1: name, s2: desc}, err == nil
	default:
		return poolKey{}, false
	}
}

func (b *poolBuilder) intern(key poolKey, slots int, write func(w *byteWriter)) int {
	if i, ok := b.index[key]; ok {
		return i
	}

	i := b.count
	if i+slots > math.MaxUint16 {
		if b.err == nil {
			b.err = errPoolOverflow
		}

		return 0
	}

	write(&b.out)
	b.count += slots
	b.index[key] = i

	return i
}

func (b *poolBuilder) utf8(s string) int {
	if len(s) > math.MaxUint16 {
		if b.err == nil {
			b.err = fmt.Errorf("string constant of %d bytes is too long", len(s))
		}

		return 0
	}

	return b.intern(poolKey{tag: tagUtf8, s1: s}, 1, func(w *byteWriter) {
		w.u1(tagUtf8)
		w.u2(len(s))
		w.bytes([]byte(s))
	})
}

// Entries that refer to other entries intern those first, so an entry is
// always appended after everything it refers to.

func (b *poolBuilder) ref1(tag uint8, s string) int {
	key := poolKey{tag: tag, s1: s}
	if i, ok := b.index[key]; ok {
		return i
	}

	idx := b.utf8(s)

	return b.intern(key, 1, func(w *byteWriter) {
		w.u1(int(tag))
		w.u2(idx)
	})
}

func (b *poolBuilder) class(name string) int {
	return b.ref1(tagClass, name)
}

func (b *poolBuilder) optClass(name string) int {
	if name == "" {
		return 0
	}

	return b.class(name)
}

func (b *poolBuilder) optUtf8(s string) int {
	if s == "" {
		return 0
	}

	return b.utf8(s)
}

func (b *poolBuilder) str(s string) int {
	return b.ref1(tagString, s)
}

func (b *poolBuilder) methodType(desc string) int {
	return b.ref1(tagMethodType, desc)
}

func (b *poolBuilder) numeric(tag uint8, bits uint64) int {
	slots := 1
	if tag == tagLong || tag == tagDouble {
		slots = 2
	}

	return b.intern(poolKey{tag: tag, n: bits}, slots, func(w *byteWriter) {
		w.u1(int(tag))

		if slots == 2 {
			w.u8(bits)
		} else {
			w.u4(uint32(bits))
		}
	})
}

func (b *poolBuilder) nameAndType(name, desc string) int {
	key := poolKey{tag: tagNameAndType, s1: name, s2: desc}
	if i, ok := b.index[key]; ok {
		return i
	}

	n, d := b.utf8(name), b.utf8(desc)

	return b.intern(key, 1, func(w *byteWriter) {
		w.u1(tagNameAndType)
		w.u2(n)
		w.u2(d)
	})
}

func (b *poolBuilder) memberRef(tag uint8, owner, name, desc string) int {
	key := poolKey{tag: tag, s1: owner, s2: name, s3: desc}
	if i, ok := b.index[key]; ok {
		return i
	}

	c, nt := b.class(owner), b.nameAndType(name, desc)

	return b.intern(key, 1, func(w *byteWriter) {
		w.u1(int(tag))
		w.u2(c)
		w.u2(nt)
	})
}

func (b *poolBuilder) fieldRef(owner, name, desc string) int {
	return b.memberRef(tagFieldref, owner, name, desc)
}

func (b *poolBuilder) methodRef(owner, name, desc string, itf bool) int {
	if itf {
		return b.memberRef(tagInterfaceMethodref, owner, name, desc)
	}

	return b.memberRef(tagMethodref, owner, name, desc)
}

func (b *poolBuilder) handle(h Handle) int {
	var ref int

	switch {
	case h.Kind.IsField():
		ref = b.fieldRef(h.Owner, h.Name, h.Desc)
	case h.Kind.IsMethod():
		ref = b.methodRef(h.Owner, h.Name, h.Desc, h.Interface || h.Kind == HInvokeInterface)
	default:
		if b.err == nil {
			b.err = fmt.Errorf("method handle %s.%s has unknown kind %d", h.Owner, h.Name, h.Kind)
		}

		return 0
	}

	key := poolKey{tag: tagMethodHandle, n: uint64(ref)<<8 | uint64(h.Kind)}

	return b.intern(key, 1, func(w *byteWriter) {
		w.u1(tagMethodHandle)
		w.u1(int(h.Kind))
		w.u2(ref)
	})
}

// bootstrap interns a BootstrapMethods entry and returns its index.
func (b *poolBuilder) bootstrap(h Handle, args []Constant) int {
	var w byteWriter

	w.u2(b.handle(h))
	w.u2(len(args))

	for _, a := range args {
		w.u2(b.constant(a))
	}

	key := string(w.buf)
	if i, ok := b.bsmIndex[key]; ok {
		return i
	}

	i := len(b.bsms)
	b.bsms = append(b.bsms, w.buf)
	b.bsmIndex[key] = i

	return i
}

func (b *poolBuilder) dynamic(tag uint8, bsm int, name, desc string) int {
	key := poolKey{tag: tag, s1: name, s2: desc, n: uint64(bsm)}
	if i, ok := b.index[key]; ok {
		return i
	}

	nt := b.nameAndType(name, desc)

	return b.intern(key, 1, func(w *byteWriter) {
		w.u1(int(tag))
		w.u2(bsm)
		w.u2(nt)
	})
}

func (b *poolBuilder) invokeDynamic(insn *InvokeDynamicInsn) int {
	bsm := b.bootstrap(insn.Bsm, insn.BsmArgs)
	return b.dynamic(tagInvokeDynamic, bsm, insn.Name, insn.Desc)
}

// constant interns a loadable constant.
func (b *poolBuilder) constant(c Constant) int {
	switch c := c.(type) {
	case IntConst:
		return b.numeric(tagInteger, uint64(uint32(c)))
	case FloatConst:
		return b.numeric(tagFloat, uint64(math.Float32bits(float32(c))))
	case LongConst:
		return b.numeric(tagLong, uint64(c))
	case DoubleConst:
		return b.numeric(tagDouble, math.Float64bits(float64(c)))
	case StringConst:
		return b.str(string(c))
	case TypeConst:
		if c.Sort() == SortMethod {
			return b.methodType(c.Desc)
		}

		return b.class(c.InternalName())
	case Handle:
		return b.handle(c)
	case ConstantDynamic:
		bsm := b.bootstrap(c.Bsm, c.Args)
		return b.dynamic(tagDynamic, bsm, c.Name, c.Desc)
	default:
		if b.err == nil {
			b.err = fmt.Errorf("unsupported constant %T", c)
		}

		return 0
	}
}

// bootstrapAttribute serializes the BootstrapMethods attribute body, or
// returns nil when no entry was interned.
func (b *poolBuilder) bootstrapAttribute() []byte {
	if len(b.bsms) == 0 {
		return nil
	}

	var w byteWriter

	w.u2(len(b.bsms))

	for _, m := range b.bsms {
		w.bytes(m)
	}

	return w.buf
}
