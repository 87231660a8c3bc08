package classfile

import (
	"fmt"
)

// codeReader decodes one Code attribute.
type codeReader struct {
	cr     *classReader
	code   []byte
	labels map[int]*Label
}

func (c *codeReader) labelAt(off int) (*Label, error) {
	if off < 0 || off > len(c.code) {
		return nil, fmt.Errorf("%w: code offset %d out of range", ErrMalformed, off)
	}

	if l, ok := c.labels[off]; ok {
		return l, nil
	}

	l := &Label{offset: off}
	c.labels[off] = l

	return l, nil
}

func (cr *classReader) readCode(owner string, m *Method, data []byte) (*Code, error) {
	r := &byteReader{data: data}

	code := &Code{MaxStack: int(r.u2()), MaxLocals: int(r.u2())}
	bytecode := r.bytes(int(r.u4()))

	if r.err != nil {
		return nil, r.err
	}

	c := &codeReader{cr: cr, code: bytecode, labels: map[int]*Label{}}

	insns, err := c.decodeInstructions()
	if err != nil {
		return nil, err
	}

	n := int(r.u2())
	for range n {
		start, end, handler, typ := r.u2(), r.u2(), r.u2(), r.u2()
		if r.err != nil {
			return nil, r.err
		}

		tcb := TryCatchBlock{}

		if tcb.Start, err = c.labelAt(int(start)); err != nil {
			return nil, err
		}

		if tcb.End, err = c.labelAt(int(end)); err != nil {
			return nil, err
		}

		if tcb.Handler, err = c.labelAt(int(handler)); err != nil {
			return nil, err
		}

		if tcb.Type, err = cr.pool.optClassName(typ); err != nil {
			return nil, err
		}

		code.TryCatchBlocks = append(code.TryCatchBlocks, tcb)
	}

	attrs, err := readAttributes(r, cr.pool)
	if err != nil {
		return nil, err
	}

	var typeTable []LocalVariable

	for _, a := range attrs {
		switch a.Name {
		case attrLineNumberTable:
			err = c.readLineNumbers(code, a.Data)
		case attrLocalVariableTable:
			code.LocalVariables, err = c.readLocalVariables(a.Data)
		case attrLocalVariableTypeTable:
			typeTable, err = c.readLocalVariables(a.Data)
		case attrStackMapTable:
			var initial []VType

			initial, err = initialLocals(owner, m.Access, m.Name, m.Desc)
			if err == nil {
				code.Frames, err = c.readFrames(a.Data, initial)
			}
		}

		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
	}

	mergeLocalVariableTypes(code.LocalVariables, typeTable)

	code.Instructions, err = c.interleaveLabels(insns)
	if err != nil {
		return nil, err
	}

	return code, nil
}

type decodedInsn struct {
	off  int
	insn Instruction
}

func (c *codeReader) interleaveLabels(insns []decodedInsn) ([]Instruction, error) {
	out := make([]Instruction, 0, len(insns)+len(c.labels))
	placed := 0

	for _, d := range insns {
		if l, ok := c.labels[d.off]; ok {
			out = append(out, l)
			placed++
		}

		out = append(out, d.insn)
	}

	if l, ok := c.labels[len(c.code)]; ok {
		out = append(out, l)
		placed++
	}

	if placed != len(c.labels) {
		return nil, fmt.Errorf("%w: label inside an instruction", ErrMalformed)
	}

	return out, nil
}

func (c *codeReader) decodeInstructions() ([]decodedInsn, error) {
	var out []decodedInsn

	r := &byteReader{data: c.code}

	for r.pos < len(c.code) {
		off := r.pos

		insn, err := c.decode(r, off)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, err)
		}

		if r.err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, r.err)
		}

		out = append(out, decodedInsn{off: off, insn: insn})
	}

	return out, nil
}

func (c *codeReader) jump(op Opcode, target int) (Instruction, error) {
	l, err := c.labelAt(target)
	if err != nil {
		return nil, err
	}

	return &JumpInsn{Op: op, Target: l}, nil
}

func (c *codeReader) decode(r *byteReader, off int) (Instruction, error) {
	op := Opcode(r.u1())

	switch {
	case op <= OpDconst1:
		return &Insn{Op: op}, nil
	case op == OpBipush:
		return &IntInsn{Op: op, Operand: int(int8(r.u1()))}, nil
	case op == OpSipush:
		return &IntInsn{Op: op, Operand: int(int16(r.u2()))}, nil
	case op == OpLdc:
		v, err := c.cr.constant(uint16(r.u1()))
		return &LdcInsn{Value: v}, err
	case op == OpLdcW || op == OpLdc2W:
		v, err := c.cr.constant(r.u2())
		return &LdcInsn{Value: v}, err
	case op >= OpIload && op <= OpAload, op >= OpIstore && op <= OpAstore, op == OpRet:
		return &VarInsn{Op: op, Var: int(r.u1())}, nil
	case op >= OpIload0 && op <= OpAload3:
		k := int(op - OpIload0)
		return &VarInsn{Op: OpIload + Opcode(k/4), Var: k % 4}, nil
	case op >= OpIstore0 && op <= OpAstore3:
		k := int(op - OpIstore0)
		return &VarInsn{Op: OpIstore + Opcode(k/4), Var: k % 4}, nil
	case op == OpIinc:
		return &IincInsn{Var: int(r.u1()), Incr: int(int8(r.u1()))}, nil
	case op >= OpIfeq && op <= OpJsr, op == OpIfnull, op == OpIfnonnull:
		return c.jump(op, off+int(int16(r.u2())))
	case op == OpGotoW:
		return c.jump(OpGoto, off+int(int32(r.u4())))
	case op == OpJsrW:
		return c.jump(OpJsr, off+int(int32(r.u4())))
	case op == OpTableswitch:
		return c.tableSwitch(r, off)
	case op == OpLookupswitch:
		return c.lookupSwitch(r, off)
	case op >= OpGetstatic && op <= OpPutfield:
		owner, name, desc, _, err := c.cr.pool.memberRef(r.u2())
		return &FieldInsn{Op: op, Owner: owner, Name: name, Desc: desc}, err
	case op >= OpInvokevirtual && op <= OpInvokeinterface:
		owner, name, desc, itf, err := c.cr.pool.memberRef(r.u2())
		if op == OpInvokeinterface {
			r.u2() // count, zero
		}

		return &MethodInsn{Op: op, Owner: owner, Name: name, Desc: desc, Interface: itf}, err
	case op == OpInvokedynamic:
		return c.invokeDynamic(r)
	case op == OpNew || op == OpAnewarray || op == OpCheckcast || op == OpInstanceof:
		name, err := c.cr.pool.className(r.u2())
		return &TypeInsn{Op: op, Type: name}, err
	case op == OpNewarray:
		return &IntInsn{Op: op, Operand: int(r.u1())}, nil
	case op == OpWide:
		return c.wide(r)
	case op == OpMultianewarray:
		name, err := c.cr.pool.className(r.u2())
		return &MultiANewArrayInsn{Desc: name, Dims: int(r.u1())}, err
	case op <= OpMonitorexit:
		// Everything left below monitorexit takes no operands.
		return &Insn{Op: op}, nil
	default:
		return nil, fmt.Errorf("%w: unknown opcode %d", ErrMalformed, op)
	}
}

func (c *codeReader) skipPadding(r *byteReader) {
	for r.pos%4 != 0 {
		r.u1()
	}
}

func (c *codeReader) tableSwitch(r *byteReader, off int) (Instruction, error) {
	c.skipPadding(r)

	def, low, high := int32(r.u4()), int32(r.u4()), int32(r.u4())
	if r.err != nil {
		return nil, r.err
	}

	if high < low || int64(high)-int64(low) >= int64(len(c.code)) {
		return nil, fmt.Errorf("%w: tableswitch range %d..%d", ErrMalformed, low, high)
	}

	insn := &TableSwitchInsn{Min: low, Max: high}

	var err error

	if insn.Default, err = c.labelAt(off + int(def)); err != nil {
		return nil, err
	}

	for range int(high-low) + 1 {
		l, err := c.labelAt(off + int(int32(r.u4())))
		if err != nil {
			return nil, err
		}

		insn.Targets = append(insn.Targets, l)
	}

	return insn, r.err
}

func (c *codeReader) lookupSwitch(r *byteReader, off int) (Instruction, error) {
	c.skipPadding(r)

	def, n := int32(r.u4()), int32(r.u4())
	if r.err != nil {
		return nil, r.err
	}

	if n < 0 || int(n) > len(c.code) {
		return nil, fmt.Errorf("%w: lookupswitch with %d pairs", ErrMalformed, n)
	}

	insn := &LookupSwitchInsn{}

	var err error

	if insn.Default, err = c.labelAt(off + int(def)); err != nil {
		return nil, err
	}

	for range int(n) {
		key := int32(r.u4())

		l, err := c.labelAt(off + int(int32(r.u4())))
		if err != nil {
			return nil, err
		}

		insn.Keys = append(insn.Keys, key)
		insn.Targets = append(insn.Targets, l)
	}

	return insn, r.err
}

func (c *codeReader) invokeDynamic(r *byteReader) (Instruction, error) {
	idx := r.u2()
	r.u2() // reserved, zero

	e, err := c.cr.pool.entry(idx, tagInvokeDynamic)
	if err != nil {
		return nil, err
	}

	name, desc, err := c.cr.pool.nameAndType(e.b)
	if err != nil {
		return nil, err
	}

	bsm, args, err := c.cr.bootstrap(e.a)
	if err != nil {
		return nil, err
	}

	return &InvokeDynamicInsn{Name: name, Desc: desc, Bsm: bsm, BsmArgs: args}, nil
}

func (c *codeReader) wide(r *byteReader) (Instruction, error) {
	op := Opcode(r.u1())

	switch {
	case op == OpIinc:
		return &IincInsn{Var: int(r.u2()), Incr: int(int16(r.u2()))}, nil
	case op >= OpIload && op <= OpAload, op >= OpIstore && op <= OpAstore, op == OpRet:
		return &VarInsn{Op: op, Var: int(r.u2())}, nil
	default:
		return nil, fmt.Errorf("%w: wide %d", ErrMalformed, op)
	}
}

func (c *codeReader) readLineNumbers(code *Code, data []byte) error {
	r := &byteReader{data: data}

	n := int(r.u2())
	for range n {
		start, line := r.u2(), r.u2()
		if r.err != nil {
			return r.err
		}

		l, err := c.labelAt(int(start))
		if err != nil {
			return err
		}

		code.LineNumbers = append(code.LineNumbers, LineNumber{Line: int(line), Start: l})
	}

	return nil
}

func (c *codeReader) readLocalVariables(data []byte) ([]LocalVariable, error) {
	r := &byteReader{data: data}

	n := int(r.u2())
	out := make([]LocalVariable, 0, n)

	for range n {
		start, length, nameIdx, descIdx, index := r.u2(), r.u2(), r.u2(), r.u2(), r.u2()
		if r.err != nil {
			return nil, r.err
		}

		lv := LocalVariable{Index: int(index)}

		var err error

		if lv.Start, err = c.labelAt(int(start)); err != nil {
			return nil, err
		}

		if lv.End, err = c.labelAt(int(start) + int(length)); err != nil {
			return nil, err
		}

		if lv.Name, err = c.cr.pool.utf8(nameIdx); err != nil {
			return nil, err
		}

		if lv.Desc, err = c.cr.pool.utf8(descIdx); err != nil {
			return nil, err
		}

		out = append(out, lv)
	}

	return out, nil
}

// mergeLocalVariableTypes moves the LocalVariableTypeTable signatures (read
// into Desc) onto the matching LocalVariableTable entries.
func mergeLocalVariableTypes(vars, types []LocalVariable) {
	for _, t := range types {
		for i := range vars {
			v := &vars[i]
			if v.Start == t.Start && v.End == t.End && v.Index == t.Index {
				v.Signature = t.Desc
				break
			}
		}
	}
}

func (c *codeReader) readFrames(data []byte, initial []VType) ([]Frame, error) {
	r := &byteReader{data: data}

	locals := append([]VType(nil), initial...)
	off := -1

	n := int(r.u2())
	frames := make([]Frame, 0, n)

	for range n {
		ft := int(r.u1())

		var (
			delta int
			stack []VType
			err   error
		)

		switch {
		case ft < 64:
			delta = ft
		case ft < 128:
			delta = ft - 64
			stack, err = c.readVTypes(r, 1)
		case ft < 247:
			return nil, fmt.Errorf("%w: reserved frame type %d", ErrMalformed, ft)
		case ft == 247:
			delta = int(r.u2())
			stack, err = c.readVTypes(r, 1)
		case ft < 251:
			delta = int(r.u2())

			k := 251 - ft
			if k > len(locals) {
				return nil, fmt.Errorf("%w: chop frame removes %d of %d locals", ErrMalformed, k, len(locals))
			}

			locals = locals[:len(locals)-k]
		case ft == 251:
			delta = int(r.u2())
		case ft < fullFrame:
			delta = int(r.u2())

			var extra []VType

			extra, err = c.readVTypes(r, ft-251)
			locals = append(locals[:len(locals):len(locals)], extra...)
		default:
			delta = int(r.u2())

			locals, err = c.readVTypes(r, int(r.u2()))
			if err == nil {
				stack, err = c.readVTypes(r, int(r.u2()))
			}
		}

		if err != nil {
			return nil, err
		}

		if r.err != nil {
			return nil, r.err
		}

		if off < 0 {
			off = delta
		} else {
			off += delta + 1
		}

		l, err := c.labelAt(off)
		if err != nil {
			return nil, err
		}

		frames = append(frames, Frame{
			Label:  l,
			Locals: append([]VType(nil), locals...),
			Stack:  stack,
		})
	}

	return frames, nil
}

func (c *codeReader) readVTypes(r *byteReader, n int) ([]VType, error) {
	out := make([]VType, 0, n)

	for range n {
		v := VType{Kind: VKind(r.u1())}

		switch v.Kind {
		case VTop, VInteger, VFloat, VDouble, VLong, VNull, VUninitializedThis:
		case VObject:
			name, err := c.cr.pool.className(r.u2())
			if err != nil {
				return nil, err
			}

			v.Class = name
		case VUninitialized:
			l, err := c.labelAt(int(r.u2()))
			if err != nil {
				return nil, err
			}

			v.New = l
		default:
			if r.err == nil {
				return nil, fmt.Errorf("%w: verification type %d", ErrMalformed, v.Kind)
			}
		}

		if r.err != nil {
			return nil, r.err
		}

		out = append(out, v)
	}

	return out, nil
}
