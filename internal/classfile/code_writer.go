package classfile

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"archive-mapper/internal/jvmtype"
)

// ErrBranchTooFar is returned when a branch offset does not fit in 16 bits.
// The writer never widens branches to goto_w.
var ErrBranchTooFar = errors.New("branch offset does not fit in 16 bits")

const (
	maxCodeLength = math.MaxUint16
	fullFrame     = 255
)

// assembler lays out and encodes one instruction list.
type assembler struct {
	pool   *poolBuilder
	placed map[*Label]bool
	final  bool
}

func (cw *classWriter) writeCode(m *Method) ([]byte, error) {
	c := m.Code

	insns, tries, frames := c.Instructions, c.TryCatchBlocks, c.Frames
	maxStack, maxLocals := c.MaxStack, c.MaxLocals

	if cw.w.ComputeFrames && cw.node.MajorVersion >= V1_6 {
		res, err := computeFrames(cw.node.Name, cw.w.Hierarchy, m)
		if err != nil {
			return nil, fmt.Errorf("compute frames: %w", err)
		}

		insns, tries, frames = res.insns, res.tries, res.frames
		maxStack, maxLocals = res.maxStack, res.maxLocals
	}

	a := &assembler{pool: cw.pool, placed: map[*Label]bool{}}

	code, err := a.assemble(insns)
	if err != nil {
		return nil, err
	}

	var w byteWriter

	w.u2(maxStack)
	w.u2(maxLocals)
	w.u4(uint32(len(code)))
	w.bytes(code)

	var table byteWriter

	count := 0

	for _, t := range tries {
		start, end, handler := t.Start.offset, t.End.offset, t.Handler.offset
		if !a.placed[t.Start] || !a.placed[t.End] || !a.placed[t.Handler] {
			return nil, fmt.Errorf("%w: exception range label is not in the instruction list", ErrMalformed)
		}

		if start == end {
			continue
		}

		if start > end {
			return nil, fmt.Errorf("%w: exception range ends before it starts", ErrMalformed)
		}

		table.u2(start)
		table.u2(end)
		table.u2(handler)
		table.u2(cw.pool.optClass(t.Type))

		count++
	}

	w.u2(count)
	w.bytes(table.buf)

	attrs, err := cw.codeAttributes(a, c, frames, len(code))
	if err != nil {
		return nil, err
	}

	cw.writeAttributes(&w, attrs)

	return w.buf, nil
}

// assemble encodes insns in two passes. Instruction sizes never depend on
// label offsets, so the first pass fixes every label.
func (a *assembler) assemble(insns []Instruction) ([]byte, error) {
	var sizing byteWriter

	for _, insn := range insns {
		if l, ok := insn.(*Label); ok {
			l.offset = sizing.len()
			a.placed[l] = true

			continue
		}

		if err := a.encode(&sizing, insn); err != nil {
			return nil, err
		}
	}

	if sizing.len() > maxCodeLength {
		return nil, fmt.Errorf("code of %d bytes is too large", sizing.len())
	}

	a.final = true

	var out byteWriter

	for _, insn := range insns {
		if _, ok := insn.(*Label); ok {
			continue
		}

		if err := a.encode(&out, insn); err != nil {
			return nil, err
		}
	}

	return out.buf, nil
}

// target returns the offset of l relative to the instruction at from.
func (a *assembler) target(l *Label, from int) (int, error) {
	if !a.final {
		return 0, nil
	}

	if !a.placed[l] {
		return 0, fmt.Errorf("%w: branch target is not in the instruction list", ErrMalformed)
	}

	return l.offset - from, nil
}

func (a *assembler) encode(w *byteWriter, insn Instruction) error {
	start := w.len()

	switch i := insn.(type) {
	case *Insn:
		w.u1(int(i.Op))
	case *IntInsn:
		w.u1(int(i.Op))

		if i.Op == OpSipush {
			w.u2(int(uint16(int16(i.Operand))))
		} else {
			w.u1(int(uint8(int8(i.Operand))))
		}
	case *VarInsn:
		encodeVar(w, i)
	case *IincInsn:
		if i.Var > math.MaxUint8 || i.Incr < math.MinInt8 || i.Incr > math.MaxInt8 {
			w.u1(int(OpWide))
			w.u1(int(OpIinc))
			w.u2(i.Var)
			w.u2(int(uint16(int16(i.Incr))))
		} else {
			w.u1(int(OpIinc))
			w.u1(i.Var)
			w.u1(int(uint8(int8(i.Incr))))
		}
	case *JumpInsn:
		rel, err := a.target(i.Target, start)
		if err != nil {
			return err
		}

		if rel < math.MinInt16 || rel > math.MaxInt16 {
			return fmt.Errorf("%w: %d", ErrBranchTooFar, rel)
		}

		w.u1(int(i.Op))
		w.u2(int(uint16(int16(rel))))
	case *TableSwitchInsn:
		w.u1(int(OpTableswitch))
		pad(w)

		if err := a.switchTarget(w, i.Default, start); err != nil {
			return err
		}

		w.u4(uint32(i.Min))
		w.u4(uint32(i.Max))

		for _, l := range i.Targets {
			if err := a.switchTarget(w, l, start); err != nil {
				return err
			}
		}
	case *LookupSwitchInsn:
		if len(i.Keys) != len(i.Targets) {
			return fmt.Errorf("%w: lookupswitch has %d keys and %d targets", ErrMalformed, len(i.Keys), len(i.Targets))
		}

		w.u1(int(OpLookupswitch))
		pad(w)

		if err := a.switchTarget(w, i.Default, start); err != nil {
			return err
		}

		w.u4(uint32(len(i.Keys)))

		order := make([]int, len(i.Keys))
		for k := range order {
			order[k] = k
		}

		sort.SliceStable(order, func(x, y int) bool { return i.Keys[order[x]] < i.Keys[order[y]] })

		for _, k := range order {
			w.u4(uint32(i.Keys[k]))

			if err := a.switchTarget(w, i.Targets[k], start); err != nil {
				return err
			}
		}
	case *LdcInsn:
		idx := a.pool.constant(i.Value)

		switch {
		case isWideConstant(i.Value):
			w.u1(int(OpLdc2W))
			w.u2(idx)
		case idx <= math.MaxUint8:
			w.u1(int(OpLdc))
			w.u1(idx)
		default:
			w.u1(int(OpLdcW))
			w.u2(idx)
		}
	case *FieldInsn:
		w.u1(int(i.Op))
		w.u2(a.pool.fieldRef(i.Owner, i.Name, i.Desc))
	case *MethodInsn:
		w.u1(int(i.Op))
		w.u2(a.pool.methodRef(i.Owner, i.Name, i.Desc, i.Interface || i.Op == OpInvokeinterface))

		if i.Op == OpInvokeinterface {
			mt, err := jvmtype.ParseMethod(i.Desc)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrMalformed, err)
			}

			w.u1(mt.ArgSlots() + 1)
			w.u1(0)
		}
	case *InvokeDynamicInsn:
		w.u1(int(OpInvokedynamic))
		w.u2(a.pool.invokeDynamic(i))
		w.u2(0)
	case *TypeInsn:
		w.u1(int(i.Op))
		w.u2(a.pool.class(i.Type))
	case *MultiANewArrayInsn:
		w.u1(int(OpMultianewarray))
		w.u2(a.pool.class(i.Desc))
		w.u1(i.Dims)
	default:
		return fmt.Errorf("unsupported instruction %T", insn)
	}

	return nil
}

func encodeVar(w *byteWriter, i *VarInsn) {
	switch {
	case i.Var < 4 && i.Op != OpRet:
		if i.Op < OpIstore {
			w.u1(int(OpIload0) + int(i.Op-OpIload)*4 + i.Var)
		} else {
			w.u1(int(OpIstore0) + int(i.Op-OpIstore)*4 + i.Var)
		}
	case i.Var > math.MaxUint8:
		w.u1(int(OpWide))
		w.u1(int(i.Op))
		w.u2(i.Var)
	default:
		w.u1(int(i.Op))
		w.u1(i.Var)
	}
}

// pad aligns a switch body to four bytes from the start of the code.
func pad(w *byteWriter) {
	for w.len()%4 != 0 {
		w.u1(0)
	}
}

func (a *assembler) switchTarget(w *byteWriter, l *Label, from int) error {
	rel, err := a.target(l, from)
	if err != nil {
		return err
	}

	w.u4(uint32(int32(rel)))

	return nil
}

func (cw *classWriter) codeAttributes(a *assembler, c *Code, frames []Frame, codeLen int) ([]attrOut, error) {
	var attrs []attrOut

	if len(c.LineNumbers) > 0 {
		var w byteWriter

		count := 0

		for _, ln := range c.LineNumbers {
			if !a.placed[ln.Start] {
				continue
			}

			count++
		}

		w.u2(count)

		for _, ln := range c.LineNumbers {
			if !a.placed[ln.Start] {
				continue
			}

			w.u2(ln.Start.offset)
			w.u2(ln.Line)
		}

		attrs = append(attrs, attrOut{name: attrLineNumberTable, data: w.buf})
	}

	if len(c.LocalVariables) > 0 {
		var lvt, lvtt byteWriter

		var n, typed int

		for _, lv := range c.LocalVariables {
			if !a.placed[lv.Start] || !a.placed[lv.End] {
				return nil, fmt.Errorf("%w: local variable %s label is not in the instruction list", ErrMalformed, lv.Name)
			}

			length := lv.End.offset - lv.Start.offset
			if length < 0 {
				return nil, fmt.Errorf("%w: local variable %s ends before it starts", ErrMalformed, lv.Name)
			}

			cw.localVariable(&lvt, lv, length, lv.Desc)

			if lv.Signature != "" {
				cw.localVariable(&lvtt, lv, length, lv.Signature)
			}

			n++

			if lv.Signature != "" {
				typed++
			}
		}

		attrs = append(attrs, attrOut{name: attrLocalVariableTable, data: withCount(n, lvt.buf)})

		if typed > 0 {
			attrs = append(attrs, attrOut{name: attrLocalVariableTypeTable, data: withCount(typed, lvtt.buf)})
		}
	}

	if cw.node.MajorVersion >= V1_6 && len(frames) > 0 {
		data, err := cw.stackMapTable(a, frames, codeLen)
		if err != nil {
			return nil, err
		}

		if data != nil {
			attrs = append(attrs, attrOut{name: attrStackMapTable, data: data})
		}
	}

	return attrs, nil
}

func (cw *classWriter) localVariable(w *byteWriter, lv LocalVariable, length int, desc string) {
	w.u2(lv.Start.offset)
	w.u2(length)
	w.u2(cw.pool.utf8(lv.Name))
	w.u2(cw.pool.utf8(desc))
	w.u2(lv.Index)
}

func withCount(n int, body []byte) []byte {
	var w byteWriter

	w.u2(n)
	w.bytes(body)

	return w.buf
}

// stackMapTable encodes frames as full_frame entries, sorted by offset.
// Only the first frame at an offset is kept.
func (cw *classWriter) stackMapTable(a *assembler, frames []Frame, codeLen int) ([]byte, error) {
	sorted := make([]Frame, 0, len(frames))

	for _, f := range frames {
		if !a.placed[f.Label] {
			return nil, fmt.Errorf("%w: frame label is not in the instruction list", ErrMalformed)
		}

		if f.Label.offset < codeLen {
			sorted = append(sorted, f)
		}
	}

	slices.SortStableFunc(sorted, func(x, y Frame) int { return x.Label.offset - y.Label.offset })

	var (
		w     byteWriter
		count int
		prev  = -1
	)

	for _, f := range sorted {
		off := f.Label.offset
		if off == prev {
			continue
		}

		w.u1(fullFrame)
		w.u2(off - prev - 1)

		if err := cw.writeVTypes(&w, a, f.Locals); err != nil {
			return nil, err
		}

		if err := cw.writeVTypes(&w, a, f.Stack); err != nil {
			return nil, err
		}

		prev = off
		count++
	}

	if count == 0 {
		return nil, nil
	}

	return withCount(count, w.buf), nil
}

func (cw *classWriter) writeVTypes(w *byteWriter, a *assembler, types []VType) error {
	w.u2(len(types))

	for _, v := range types {
		w.u1(int(v.Kind))

		switch v.Kind {
		case VObject:
			w.u2(cw.pool.class(v.Class))
		case VUninitialized:
			if v.New == nil || !a.placed[v.New] {
				return fmt.Errorf("%w: uninitialized type without a placed new", ErrMalformed)
			}

			w.u2(v.New.offset)
		}
	}

	return nil
}
